package controllers

import (
	"errors"
	"strconv"

	"github.com/vermils/paydesk/config"
	"github.com/vermils/paydesk/models"
	"github.com/vermils/paydesk/repositories"
	"github.com/vermils/paydesk/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentMethodRequest carries channel configuration from the admin panel
type PaymentMethodRequest struct {
	Type          string           `json:"type" binding:"required"`
	UPIID         string           `json:"upi_id,omitempty"`
	BankName      string           `json:"bank_name,omitempty"`
	AccountNumber string           `json:"account_number,omitempty"`
	IFSCCode      string           `json:"ifsc_code,omitempty"`
	CryptoAddress string           `json:"crypto_address,omitempty"`
	CryptoNetwork string           `json:"crypto_network,omitempty"`
	MinAmount     *decimal.Decimal `json:"min_amount,omitempty"`
	MaxAmount     *decimal.Decimal `json:"max_amount,omitempty"`
	TimeLimit     int              `json:"time_limit"`
	Active        *bool            `json:"active,omitempty"`
}

func validateMethodRequest(req *PaymentMethodRequest) utils.FieldValidationErrors {
	var errs utils.FieldValidationErrors
	if !models.ValidMethodType(req.Type) && req.Type != models.MethodTypeDemo {
		errs = append(errs, utils.FieldValidationError{Field: "type", Message: "Unknown payment method type"})
	}
	if req.TimeLimit < 1 {
		errs = append(errs, utils.FieldValidationError{Field: "time_limit", Message: "Time limit must be at least 1 minute"})
	}
	if req.MinAmount != nil && req.MinAmount.IsNegative() {
		errs = append(errs, utils.FieldValidationError{Field: "min_amount", Message: "Minimum amount must not be negative"})
	}
	if req.MinAmount != nil && req.MaxAmount != nil && req.MaxAmount.LessThan(*req.MinAmount) {
		errs = append(errs, utils.FieldValidationError{Field: "max_amount", Message: "Maximum amount must not be below minimum"})
	}
	return errs
}

func applyMethodRequest(method *models.PaymentMethod, req *PaymentMethodRequest) {
	method.Type = req.Type
	method.UPIID = req.UPIID
	method.BankName = req.BankName
	method.AccountNumber = req.AccountNumber
	method.IFSCCode = req.IFSCCode
	method.CryptoAddress = req.CryptoAddress
	method.CryptoNetwork = req.CryptoNetwork
	method.MinAmount = req.MinAmount
	method.MaxAmount = req.MaxAmount
	method.TimeLimit = req.TimeLimit
	if req.Active != nil {
		method.Active = *req.Active
	}
}

// CreatePaymentMethod adds a collection channel configuration
func CreatePaymentMethod(c *gin.Context) {
	utils.LogInfo("CreatePaymentMethod called")

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	if errs := validateMethodRequest(&req); len(errs) > 0 {
		utils.BadRequest(c, "Validation failed", errs)
		return
	}

	method := models.PaymentMethod{Active: true}
	applyMethodRequest(&method, &req)

	repo := repositories.NewPaymentMethodRepository(config.DB)
	if err := repo.Save(c.Request.Context(), &method); err != nil {
		utils.LogError("Failed to create payment method: %v", err)
		utils.InternalServerError(c, "Failed to create payment method", nil)
		return
	}

	utils.LogInfo("Payment method %d (%s) created", method.ID, method.Type)
	utils.Created(c, "Payment method created", gin.H{"method": method})
}

// UpdatePaymentMethod edits an existing channel configuration
func UpdatePaymentMethod(c *gin.Context) {
	utils.LogInfo("UpdatePaymentMethod called")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid payment method ID", nil)
		return
	}

	var req PaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body", err.Error())
		return
	}

	if errs := validateMethodRequest(&req); len(errs) > 0 {
		utils.BadRequest(c, "Validation failed", errs)
		return
	}

	repo := repositories.NewPaymentMethodRepository(config.DB)
	method, err := repo.FindByID(c.Request.Context(), uint(id))
	if err != nil {
		if errors.Is(err, models.ErrMethodNotFound) {
			utils.NotFound(c, "Payment method not found")
			return
		}
		utils.LogError("Failed to load payment method %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update payment method", nil)
		return
	}

	applyMethodRequest(method, &req)
	if err := repo.Save(c.Request.Context(), method); err != nil {
		utils.LogError("Failed to update payment method %d: %v", id, err)
		utils.InternalServerError(c, "Failed to update payment method", nil)
		return
	}

	utils.Success(c, "Payment method updated", gin.H{"method": method})
}

// ListPaymentMethods returns the merchant's configured channels
func ListPaymentMethods(c *gin.Context) {
	repo := repositories.NewPaymentMethodRepository(config.DB)
	methods, err := repo.List(c.Request.Context(), 0)
	if err != nil {
		utils.LogError("Failed to list payment methods: %v", err)
		utils.InternalServerError(c, "Failed to list payment methods", nil)
		return
	}

	utils.Success(c, "Payment methods retrieved", gin.H{"methods": methods})
}

// DeletePaymentMethod removes a channel configuration
func DeletePaymentMethod(c *gin.Context) {
	utils.LogInfo("DeletePaymentMethod called")

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid payment method ID", nil)
		return
	}

	repo := repositories.NewPaymentMethodRepository(config.DB)
	if _, err := repo.FindByID(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, models.ErrMethodNotFound) {
			utils.NotFound(c, "Payment method not found")
			return
		}
		utils.LogError("Failed to load payment method %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete payment method", nil)
		return
	}

	if err := repo.Delete(c.Request.Context(), uint(id)); err != nil {
		utils.LogError("Failed to delete payment method %d: %v", id, err)
		utils.InternalServerError(c, "Failed to delete payment method", nil)
		return
	}

	utils.Success(c, "Payment method deleted", nil)
}
