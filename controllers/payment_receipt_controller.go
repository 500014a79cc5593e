package controllers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jung-kurt/gofpdf"

	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/utils"
)

// DownloadPaymentReceipt renders a PDF receipt for a completed payment.
// Only COMPLETED payments get a receipt; everything else is rejected.
func DownloadPaymentReceipt(c *gin.Context) {
	utils.LogInfo("DownloadPaymentReceipt called")

	orderNumber := c.Param("orderNumber")

	payment, err := orderService().GetPayment(c.Request.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, models.ErrPaymentNotFound) {
			utils.NotFound(c, "Payment not found")
			return
		}
		utils.LogError("Failed to load payment for receipt %s: %v", orderNumber, err)
		utils.InternalServerError(c, "Failed to generate receipt", nil)
		return
	}

	if payment.Status != models.OrderStatusCompleted {
		utils.BadRequest(c, "Receipt available only for completed payments", gin.H{"status": payment.Status})
		return
	}

	// --- PDF Generation ---
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.Cell(0, 12, utils.AppName+" - Payment Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 8, "Generated: "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(12)

	rows := [][]string{
		{"Order Number", payment.OrderNumber},
		{"Recipient", payment.RecipientName},
		{"Description", payment.Description},
		{"Method", payment.Method},
		{"Amount", payment.Amount.StringFixed(2)},
		{"UTR Number", payment.UTRNumber},
		{"Status", payment.Status},
		{"Confirmed At", payment.UpdatedAt.Format("2006-01-02 15:04")},
	}

	pdf.SetFont("Arial", "", 11)
	fill := false
	for _, row := range rows {
		pdf.SetFillColor(245, 245, 245)
		if fill {
			pdf.SetFillColor(230, 240, 255)
		}
		fill = !fill
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(50, 9, row[0], "1", 0, "L", fill, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(110, 9, row[1], "1", 0, "L", fill, 0, "")
		pdf.Ln(-1)
	}

	pdf.Ln(8)
	pdf.SetFont("Arial", "I", 10)
	pdf.Cell(0, 8, "This receipt confirms a manually verified payment.")

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt_%s.pdf", payment.OrderNumber))
	if err := pdf.Output(c.Writer); err != nil {
		utils.LogError("Failed to write PDF receipt: %v", err)
		utils.InternalServerError(c, "Failed to write receipt", err.Error())
		return
	}
	utils.LogInfo("Successfully generated receipt for order %s", orderNumber)
}
