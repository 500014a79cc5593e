package controllers

import (
	"errors"
	"time"

	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SubmitUTRRequest carries the payer's claim of payment
type SubmitUTRRequest struct {
	UTRNumber string          `json:"utr_number"`
	Amount    decimal.Decimal `json:"amount"`
}

// SubmitUTR records a payer's reference number against a pending order and
// moves the pair to PROCESSING. A lost race against expiry is not fatal:
// the response carries the fresh authoritative status so the page can show
// what actually happened.
func SubmitUTR(c *gin.Context) {
	utils.LogInfo("SubmitUTR called")

	orderNumber := c.Param("orderNumber")

	var req SubmitUTRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid submission body for order %s: %v", orderNumber, err)
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	svc := orderService()
	order, err := svc.SubmitProof(c.Request.Context(), orderNumber, 0, req.UTRNumber, req.Amount)
	if err != nil {
		var fieldErrs utils.FieldValidationErrors
		switch {
		case errors.As(err, &fieldErrs):
			utils.LogError("Submission validation failed for order %s: %v", orderNumber, fieldErrs)
			utils.BadRequest(c, "Validation failed", fieldErrs)
		case errors.Is(err, models.ErrOrderNotFound):
			utils.NotFound(c, "Order not found")
		case errors.Is(err, models.ErrNotPending):
			// Re-read the authoritative status so the payer sees why
			current, readErr := svc.CheckOrderStatus(c.Request.Context(), orderNumber)
			if readErr != nil {
				utils.Conflict(c, "Order is no longer pending", nil)
				return
			}
			utils.Conflict(c, "Order is no longer pending", gin.H{"status": current.Status})
		default:
			utils.LogError("Submission failed for order %s: %v", orderNumber, err)
			utils.InternalServerError(c, "Failed to submit UTR number", nil)
		}
		return
	}

	utils.LogInfo("UTR submitted for order %s", orderNumber)
	utils.Success(c, "UTR number submitted successfully", gin.H{"order": order})
}

// GetOrderView returns the payer-facing view of an order: the fresh status
// (lazy expiry applied) plus the remaining payment window. A returning payer
// re-derives everything from this rather than trusting local state.
func GetOrderView(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	order, err := orderService().CheckOrderStatus(c.Request.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to load order view for %s: %v", orderNumber, err)
		utils.InternalServerError(c, "Failed to get order", nil)
		return
	}

	remaining := 0
	if order.Status == models.OrderStatusPending {
		if d := time.Until(order.ExpiresAt); d > 0 {
			remaining = int(d.Seconds())
		}
	}

	utils.Success(c, "Order retrieved", gin.H{
		"order":             order,
		"remaining_seconds": remaining,
		"can_submit":        order.Status == models.OrderStatusPending && remaining > 0,
		"expired":           order.Status == models.OrderStatusExpired,
	})
}
