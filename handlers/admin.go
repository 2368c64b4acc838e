package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"remitgo/middleware"
	"remitgo/models"
	"remitgo/utils"
)

// GetKYCUsers lists users with their KYC records plus the aggregate
// statistics block the admin dashboard renders.
func (h *Handlers) GetKYCUsers(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	query := h.db.Model(&models.User{}).Order("created_at DESC")
	if status := r.URL.Query().Get("kycStatus"); status != "" {
		query = query.Where("kyc_status = ?", status)
	}

	var users []models.User
	if err := query.Limit(limit).Offset(offset).Find(&users).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch users", nil)
		return
	}

	var stats models.KYCStats
	h.db.Model(&models.User{}).Count(&stats.TotalUsers)
	h.db.Model(&models.User{}).Where("kyc_status = ?", models.KYCVerified).Count(&stats.Verified)
	h.db.Model(&models.User{}).Where("kyc_status IN ?",
		[]string{models.KYCPending, models.KYCUnderReview, models.KYCInitiated}).Count(&stats.Pending)
	h.db.Model(&models.User{}).Where("kyc_status = ?", models.KYCRejected).Count(&stats.Rejected)

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    users,
		"stats":   stats,
	})
}

// UpdateKYCUser lets an admin override a user's KYC status, keeping the
// user row and the KYC record in step inside one transaction.
func (h *Handlers) UpdateKYCUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	userID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || userID <= 0 {
		sendError(w, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	var req models.KYCAdminUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	tx := h.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if err := tx.Model(&user).Update("kyc_status", req.Status).Error; err != nil {
		tx.Rollback()
		sendError(w, http.StatusInternalServerError, "Failed to update user", nil)
		return
	}

	var kyc models.KYC
	err = tx.Where("user_id = ?", userID).First(&kyc).Error
	if err == nil {
		if updErr := tx.Model(&kyc).Update("status", req.Status).Error; updErr != nil {
			tx.Rollback()
			sendError(w, http.StatusInternalServerError, "Failed to update KYC record", nil)
			return
		}
	} else if err != gorm.ErrRecordNotFound {
		tx.Rollback()
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if err := tx.Commit().Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to commit transaction", nil)
		return
	}

	details := "Admin set KYC status to " + req.Status
	if req.Reason != "" {
		details += " (" + req.Reason + ")"
	}
	h.logAudit(&claims.UserID, "UPDATE", "KYC", details, r.RemoteAddr, r.UserAgent())

	user.KYCStatus = req.Status
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User KYC status updated",
		"data":    user,
	})
}

func (h *Handlers) DeleteKYCUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	userID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || userID <= 0 {
		sendError(w, http.StatusBadRequest, "Invalid user id", nil)
		return
	}

	if uint(userID) == claims.UserID {
		sendError(w, http.StatusBadRequest, "Admins cannot delete their own account", nil)
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusNotFound, "User not found", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if err := h.db.Delete(&user).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to delete user", nil)
		return
	}

	h.logAudit(&claims.UserID, "DELETE", "USER", "Admin deleted user "+user.Email,
		r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "User deleted",
	})
}

func (h *Handlers) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := (page - 1) * limit

	var auditLogs []models.AuditLog
	if err := h.db.Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&auditLogs).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to fetch audit logs", nil)
		return
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    auditLogs,
	})
}
