package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"

	"github.com/vermils/paydesk/config"
	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/utils"
)

func exportDateRange(period string, now time.Time) (time.Time, time.Time, error) {
	switch period {
	case "day":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		return start, end, nil
	case "week":
		end := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		start := end.AddDate(0, 0, -6)
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
		return start, end, nil
	case "month":
		start := now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		end := now.Add(24 * time.Hour)
		return start, end, nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("invalid period %q", period)
	}
}

// Admin: Download collections report as Excel
func DownloadPaymentsExcel(c *gin.Context) {
	utils.LogInfo("DownloadPaymentsExcel called")

	period := c.DefaultQuery("period", "day")
	utils.LogDebug("Generating Excel report for period: %s", period)

	startDate, endDate, err := exportDateRange(period, time.Now())
	if err != nil {
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	status := c.Query("status")
	if status != "" && !validStatusFilter(status) {
		utils.BadRequest(c, "Invalid status filter", gin.H{"status": status})
		return
	}

	var payments []models.Payment
	query := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&payments).Error; err != nil {
		utils.LogError("Failed to fetch payments: %v", err)
		utils.InternalServerError(c, "Failed to fetch payments", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d payments for Excel report", len(payments))

	// --- Calculate summary ---
	var summary struct {
		TotalOrders    int
		Completed      int
		Failed         int
		Expired        int
		AwaitingReview int
		TotalCollected decimal.Decimal
	}
	for _, payment := range payments {
		summary.TotalOrders++
		switch payment.Status {
		case models.OrderStatusCompleted:
			summary.Completed++
			summary.TotalCollected = summary.TotalCollected.Add(payment.Amount)
		case models.OrderStatusFailed:
			summary.Failed++
		case models.OrderStatusExpired:
			summary.Expired++
		case models.OrderStatusProcessing:
			summary.AwaitingReview++
		}
	}

	// --- Excel Generation ---
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Collections Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}
	utils.LogDebug("Created Excel sheet for collections report")

	titleRow := sheet.AddRow()
	titleRow.AddCell().SetString(utils.AppName + " - Collections Report")
	titleRow = sheet.AddRow()
	titleRow.AddCell().SetString("Period: " + strings.ToUpper(period) + " | " + startDate.Format("2006-01-02") + " to " + endDate.Format("2006-01-02"))
	sheet.AddRow() // spacing

	// Table headers
	headers := []string{"Order Number", "Date", "Method", "Amount", "UTR Number", "Status"}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	// Table rows
	for _, payment := range payments {
		row := sheet.AddRow()
		row.AddCell().SetString(payment.OrderNumber)
		row.AddCell().SetString(payment.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetString(payment.Method)
		row.AddCell().SetString(payment.Amount.StringFixed(2))
		row.AddCell().SetString(payment.UTRNumber)
		row.AddCell().SetString(payment.Status)
	}

	sheet.AddRow() // spacing

	// --- Summary Section ---
	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Orders", fmt.Sprintf("%d", summary.TotalOrders)},
		{"Completed", fmt.Sprintf("%d", summary.Completed)},
		{"Failed", fmt.Sprintf("%d", summary.Failed)},
		{"Expired", fmt.Sprintf("%d", summary.Expired)},
		{"Awaiting Review", fmt.Sprintf("%d", summary.AwaitingReview)},
		{"Total Collected", summary.TotalCollected.StringFixed(2)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=collections_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated Excel report for period %s", period)
}
