package controllers

import (
	"errors"
	"fmt"
	"os"

	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/services"
	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest is the integration create-order body
type CreateOrderRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	Method       string          `json:"method,omitempty"`
	ReusePending bool            `json:"reuse_pending,omitempty"`
}

// CreateOrderAPI creates an order/payment pair on behalf of an API-key
// holder. With reuse_pending set, an open unexpired PENDING order is
// returned instead of minting a new one.
func CreateOrderAPI(c *gin.Context) {
	utils.LogInfo("CreateOrderAPI called")

	userID := c.GetUint("user_id")

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid create order request: %v", err)
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	svc := orderService()

	if req.ReusePending {
		if order, err := svc.ReusePendingOrder(c.Request.Context(), userID); err == nil {
			utils.LogInfo("Reusing pending order %s for user %d", order.OrderNumber, userID)
			utils.Success(c, "Order retrieved", orderCreatedPayload(order))
			return
		}
	}

	order, _, err := svc.CreateOrder(c.Request.Context(), userID, req.Amount, req.Method, "API Payment")
	if err != nil {
		var fieldErrs utils.FieldValidationErrors
		switch {
		case errors.As(err, &fieldErrs):
			utils.LogError("Create order validation failed: %v", fieldErrs)
			utils.BadRequest(c, "Validation failed", fieldErrs)
		case errors.Is(err, models.ErrMethodNotFound):
			utils.LogError("No active payment method for user %d", userID)
			utils.BadRequest(c, "No active payment method configured", nil)
		case errors.Is(err, models.ErrPairedInsert):
			utils.LogError("Paired insert failed for user %d: %v", userID, err)
			utils.InternalServerError(c, "Failed to create order", nil)
		case errors.Is(err, models.ErrCollisionExhausted):
			utils.LogError("Order number space exhausted: %v", err)
			utils.InternalServerError(c, "Failed to create order", nil)
		default:
			utils.LogError("Create order failed: %v", err)
			utils.InternalServerError(c, "Failed to create order", nil)
		}
		return
	}

	// Per-order countdown so the pair expires on the deadline even between
	// sweeper passes; canceled with the server context on shutdown
	watcher := services.NewOrderWatcher(svc, order.OrderNumber, order.ExpiresAt)
	go watcher.Start(watcherCtx)

	utils.LogInfo("Order %s created for user %d", order.OrderNumber, userID)
	utils.Created(c, "Order created", orderCreatedPayload(order))
}

func orderCreatedPayload(order *models.Order) gin.H {
	baseURL := os.Getenv("APP_BASE_URL")
	return gin.H{
		"order_number": order.OrderNumber,
		"amount":       order.Amount,
		"expires_at":   order.ExpiresAt,
		"payment_url":  fmt.Sprintf("%s/api/payments/%s", baseURL, order.OrderNumber),
		"upi_id":       order.UPIID,
	}
}

// GetOrderStatusAPI returns the full order row, expiring it lazily if its
// deadline has passed.
func GetOrderStatusAPI(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	order, err := orderService().CheckOrderStatus(c.Request.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			utils.NotFound(c, "Order not found")
			return
		}
		utils.LogError("Failed to check status for order %s: %v", orderNumber, err)
		utils.InternalServerError(c, "Failed to get order status", nil)
		return
	}

	utils.Success(c, "Order status retrieved", gin.H{"order": order})
}

// GetPaymentAPI returns the payment mirror for an order number
func GetPaymentAPI(c *gin.Context) {
	orderNumber := c.Param("orderNumber")

	payment, err := orderService().GetPayment(c.Request.Context(), orderNumber)
	if err != nil {
		if errors.Is(err, models.ErrPaymentNotFound) {
			utils.NotFound(c, "Payment not found")
			return
		}
		utils.LogError("Failed to get payment for order %s: %v", orderNumber, err)
		utils.InternalServerError(c, "Failed to get payment", nil)
		return
	}

	utils.Success(c, "Payment retrieved", gin.H{"payment": payment})
}
