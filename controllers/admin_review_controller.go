package controllers

import (
	"errors"
	"strconv"

	"github.com/vermils/paydesk/config"
	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/repositories"
	"github.com/vermils/paydesk/services"
	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
)

// ListProcessingPayments returns the operator worklist: every payment
// awaiting confirmation.
func ListProcessingPayments(c *gin.Context) {
	utils.LogInfo("ListProcessingPayments called")

	admin, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found in context")
		return
	}
	if _, ok := admin.(models.Admin); !ok {
		utils.InternalServerError(c, "Invalid admin type", nil)
		return
	}

	repo := repositories.NewPaymentRepository(config.DB)
	payments, err := repo.ListByStatus(c.Request.Context(), models.OrderStatusProcessing)
	if err != nil {
		utils.LogError("Failed to list processing payments: %v", err)
		utils.InternalServerError(c, "Failed to list payments", nil)
		return
	}

	utils.Success(c, "Processing payments retrieved", gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}

// ReviewPayment applies an operator verdict to a submitted payment. Approve
// completes both records, reject fails both; either way the row leaves the
// PROCESSING worklist. The response is built from a fresh read of the pair,
// never from the requested transition.
func ReviewPayment(c *gin.Context) {
	utils.LogInfo("ReviewPayment called")

	admin, exists := c.Get("admin")
	if !exists {
		utils.Unauthorized(c, "Admin not found in context")
		return
	}
	adminModel, ok := admin.(models.Admin)
	if !ok {
		utils.InternalServerError(c, "Invalid admin type", nil)
		return
	}

	orderNumber := c.Param("orderNumber")

	var req struct {
		Action string `json:"action" binding:"required,oneof=approve reject"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	decision := services.DecisionApprove
	if req.Action == "reject" {
		decision = services.DecisionReject
	}

	svc := orderService()
	order, err := svc.Resolve(c.Request.Context(), orderNumber, decision)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrOrderNotFound):
			utils.NotFound(c, "Order not found")
		case errors.Is(err, models.ErrNotProcessing):
			// Already resolved or never submitted; show the current truth
			current, readErr := svc.CheckOrderStatus(c.Request.Context(), orderNumber)
			if readErr != nil {
				utils.Conflict(c, "Order is not awaiting confirmation", nil)
				return
			}
			utils.Conflict(c, "Order is not awaiting confirmation", gin.H{"status": current.Status})
		default:
			utils.LogError("Failed to resolve order %s: %v", orderNumber, err)
			utils.InternalServerError(c, "Failed to review payment", nil)
		}
		return
	}

	payment, err := svc.GetPayment(c.Request.Context(), orderNumber)
	if err != nil {
		utils.LogError("Failed to re-read payment for order %s: %v", orderNumber, err)
		utils.InternalServerError(c, "Failed to load payment after review", nil)
		return
	}

	verdict := "approved"
	if req.Action == "reject" {
		verdict = "rejected"
	}
	utils.LogInfo("Order %s %s by admin %s", orderNumber, verdict, adminModel.Email)

	if order.Status == models.OrderStatusCompleted {
		go func(orderNumber, amount, utr string) {
			if err := utils.SendPaymentConfirmedEmail(orderNumber, amount, utr); err != nil {
				utils.LogError("Failed to send confirmation email for order %s: %v", orderNumber, err)
			}
		}(order.OrderNumber, order.Amount.String(), order.UTRNumber)
	}

	utils.Success(c, "Payment reviewed", gin.H{
		"order":   order,
		"payment": payment,
	})
}

// ListOrders returns orders for the admin panel, newest first, optionally
// filtered by merchant (?user_id=) and status (?status=).
func ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")

	status := c.Query("status")
	if status != "" && !validStatusFilter(status) {
		utils.BadRequest(c, "Invalid status filter", gin.H{"status": status})
		return
	}
	userID, err := strconv.Atoi(c.DefaultQuery("user_id", "0"))
	if err != nil || userID < 0 {
		utils.BadRequest(c, "Invalid user_id filter", nil)
		return
	}

	repo := repositories.NewOrderRepository(config.DB)
	orders, err := repo.ListByUser(c.Request.Context(), uint(userID), status)
	if err != nil {
		utils.LogError("Failed to list orders: %v", err)
		utils.InternalServerError(c, "Failed to list orders", nil)
		return
	}

	utils.Success(c, "Orders retrieved", gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

func validStatusFilter(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusCompleted, models.OrderStatusFailed, models.OrderStatusExpired:
		return true
	}
	return false
}

// ListPayments returns payments for the admin panel, optionally filtered by
// status via the ?status= query parameter.
func ListPayments(c *gin.Context) {
	utils.LogInfo("ListPayments called")

	status := c.Query("status")
	if status != "" && !validStatusFilter(status) {
		utils.BadRequest(c, "Invalid status filter", gin.H{"status": status})
		return
	}

	repo := repositories.NewPaymentRepository(config.DB)
	payments, err := repo.ListByStatus(c.Request.Context(), status)
	if err != nil {
		utils.LogError("Failed to list payments: %v", err)
		utils.InternalServerError(c, "Failed to list payments", nil)
		return
	}

	utils.Success(c, "Payments retrieved", gin.H{
		"payments": payments,
		"count":    len(payments),
	})
}
