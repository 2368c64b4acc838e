package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"remitgo/middleware"
	"remitgo/models"
	"remitgo/utils"
)

const maxUploadBytes = 10 << 20 // 10 MB

// CreateOrder accepts the multipart transfer form. KYC must be verified
// before an order is accepted; the client reacts to the 403 by routing
// into the KYC flow.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	if user.KYCStatus != models.KYCVerified {
		sendError(w, http.StatusForbidden, "Please complete KYC verification before creating orders", nil)
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid multipart form", err.Error())
		return
	}

	amount, err := strconv.ParseFloat(r.FormValue("amountToSend"), 64)
	if err != nil || amount <= 0 {
		sendError(w, http.StatusBadRequest, "Amount to send must be a positive number", nil)
		return
	}

	currencyToSend := utils.SanitizeString(r.FormValue("currencyToSend"))
	currencyToReceive := utils.SanitizeString(r.FormValue("currencyToReceive"))
	if !utils.ValidateCurrency(currencyToSend) {
		sendError(w, http.StatusBadRequest, "Invalid sending currency", nil)
		return
	}
	if !utils.ValidateCurrency(currencyToReceive) {
		sendError(w, http.StatusBadRequest, "Please select a currency to receive", nil)
		return
	}

	order := models.Order{
		UserID:             claims.UserID,
		Status:             models.OrderPending,
		AmountToSend:       amount,
		CurrencyToSend:     currencyToSend,
		CurrencyToReceive:  currencyToReceive,
		RecipientName:      utils.SanitizeString(r.FormValue("recipientName")),
		RecipientAccount:   utils.SanitizeString(r.FormValue("recipientAccount")),
		TransferMethod:     utils.SanitizeString(r.FormValue("transferMethod")),
		DestinationCountry: utils.SanitizeString(r.FormValue("destinationCountry")),
		Purpose:            utils.SanitizeString(r.FormValue("purpose")),
		Notes:              utils.SanitizeString(r.FormValue("notes")),
		Reference:          h.generateReference(),
	}

	// Optional supporting document
	if file, header, err := r.FormFile("document"); err == nil {
		defer file.Close()
		path, err := h.saveDocument(file, header.Filename, order.Reference)
		if err != nil {
			sendError(w, http.StatusInternalServerError, "Failed to store document", nil)
			return
		}
		order.DocumentPath = path
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate OTP", nil)
		return
	}
	otpHash, err := utils.HashOTP(otp)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate OTP", nil)
		return
	}

	now := time.Now()
	expiry := now.Add(time.Duration(h.config.OTPExpiryMinutes) * time.Minute)
	order.OTPHash = otpHash
	order.OTPExpiry = &expiry
	order.OTPSentAt = &now

	if err := h.db.Create(&order).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to create order", nil)
		return
	}

	// Delivery is out of band; the audit trail records the send.
	h.logAudit(&claims.UserID, "CREATE", "ORDER",
		fmt.Sprintf("Order %s created, OTP dispatched", order.Reference), r.RemoteAddr, r.UserAgent())
	if h.config.Environment == "development" {
		log.Printf("OTP for order %d: %s", order.ID, otp)
	}

	sendJSON(w, http.StatusCreated, models.OrderCreateResponse{
		Success: true,
		Message: "Order created. An OTP has been sent to your email.",
		OrderID: order.ID,
	})
}

func (h *Handlers) saveDocument(file io.Reader, originalName, reference string) (string, error) {
	if err := os.MkdirAll(h.config.UploadDir, 0o755); err != nil {
		return "", err
	}
	ext := filepath.Ext(originalName)
	name := reference + strings.ToLower(ext)
	path := filepath.Join(h.config.UploadDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes)); err != nil {
		return "", err
	}
	return path, nil
}

func (h *Handlers) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req models.OrderOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var order models.Order
	if err := h.db.Where("id = ? AND user_id = ?", req.OrderID, claims.UserID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if order.OTPVerified {
		sendError(w, http.StatusBadRequest, "Order is already confirmed", nil)
		return
	}

	if order.OTPExpiry == nil || order.OTPExpiry.Before(time.Now()) {
		sendError(w, http.StatusBadRequest, "OTP has expired, please request a new one", nil)
		return
	}

	if !utils.CheckOTPHash(req.OTP, order.OTPHash) {
		sendError(w, http.StatusBadRequest, "Invalid OTP", nil)
		return
	}

	order.OTPVerified = true
	if err := h.db.Save(&order).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to confirm order", nil)
		return
	}

	h.logAudit(&claims.UserID, "VERIFY_OTP", "ORDER",
		fmt.Sprintf("Order %s confirmed via OTP", order.Reference), r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order confirmed successfully",
		"orderId": order.ID,
	})
}

func (h *Handlers) ResendOTP(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req models.OrderResendOTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var order models.Order
	if err := h.db.Where("id = ? AND user_id = ?", req.OrderID, claims.UserID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if order.OTPVerified {
		sendError(w, http.StatusBadRequest, "Order is already confirmed", nil)
		return
	}

	// Resends are throttled server-side; the client may ask any number
	// of times.
	minInterval := time.Duration(h.config.OTPResendSeconds) * time.Second
	if order.OTPSentAt != nil && time.Since(*order.OTPSentAt) < minInterval {
		sendError(w, http.StatusTooManyRequests,
			fmt.Sprintf("Please wait %d seconds before requesting another OTP", h.config.OTPResendSeconds), nil)
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate OTP", nil)
		return
	}
	otpHash, err := utils.HashOTP(otp)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate OTP", nil)
		return
	}

	now := time.Now()
	expiry := now.Add(time.Duration(h.config.OTPExpiryMinutes) * time.Minute)
	order.OTPHash = otpHash
	order.OTPExpiry = &expiry
	order.OTPSentAt = &now

	if err := h.db.Save(&order).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to resend OTP", nil)
		return
	}

	h.logAudit(&claims.UserID, "RESEND_OTP", "ORDER",
		fmt.Sprintf("OTP resent for order %s", order.Reference), r.RemoteAddr, r.UserAgent())
	if h.config.Environment == "development" {
		log.Printf("OTP for order %d: %s", order.ID, otp)
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "A new OTP has been sent to your email",
	})
}

func (h *Handlers) GetMyOrders(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	var orders []models.Order
	if err := h.db.Where("user_id = ?", claims.UserID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch orders", nil)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    orders,
	})
}

func (h *Handlers) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	query := h.db.Preload("User").Order("created_at DESC")
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Limit(limit).Offset(offset).Find(&orders).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch orders", nil)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    orders,
	})
}

// UpdateOrderStatus is the admin-driven transition. Only statuses inside
// the closed enum are accepted; unconfirmed orders cannot be processed.
func (h *Handlers) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	orderID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || orderID <= 0 {
		sendError(w, http.StatusBadRequest, "Invalid order id", nil)
		return
	}

	var req models.OrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var order models.Order
	if err := h.db.First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusNotFound, "Order not found", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if !order.OTPVerified && req.Status == models.OrderProcessing {
		sendError(w, http.StatusBadRequest, "Order has not been confirmed by the customer", nil)
		return
	}

	order.Status = req.Status
	if err := h.db.Save(&order).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update order status", nil)
		return
	}

	h.logAudit(&claims.UserID, "UPDATE", "ORDER",
		fmt.Sprintf("Order %s status set to %s", order.Reference, req.Status), r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Order status updated",
		"data":    order,
	})
}
