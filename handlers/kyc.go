package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"remitgo/middleware"
	"remitgo/models"
	"remitgo/utils"
)

// statusFromReviewAnswer maps the widget's review answer onto the
// canonical KYC status. The mapping is backend-defined; the client only
// relays events and re-fetches.
func statusFromReviewAnswer(answer string) string {
	switch answer {
	case models.ReviewGreen:
		return models.KYCVerified
	case models.ReviewRed:
		return models.KYCRejected
	case models.ReviewYellow, models.ReviewAmber:
		return models.KYCUnderReview
	case models.ReviewPending:
		return models.KYCPending
	default:
		return models.KYCPending
	}
}

// GetAccessToken issues a short-lived token for the identity widget.
// The widget calls back for a fresh one on expiry, so TTLs stay tight.
func (h *Handlers) GetAccessToken(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	ttl := time.Duration(h.config.WidgetTokenMinutes) * time.Minute
	token, err := utils.GeneratePurposeToken(claims.UserID, utils.PurposeWidget, ttl)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate access token", nil)
		return
	}

	expiry := time.Now().Add(ttl)

	// A token grab is the first touch of the KYC flow; move a fresh
	// record out of not_started.
	var kyc models.KYC
	err = h.db.Where("user_id = ?", claims.UserID).First(&kyc).Error
	if err == gorm.ErrRecordNotFound {
		kyc = models.KYC{
			UserID:      claims.UserID,
			Status:      models.KYCInitiated,
			TokenExpiry: &expiry,
		}
		h.db.Create(&kyc)
		h.db.Model(&models.User{}).Where("id = ?", claims.UserID).
			Update("kyc_status", models.KYCInitiated)
	} else if err == nil {
		kyc.TokenExpiry = &expiry
		h.db.Save(&kyc)
	}

	sendJSON(w, http.StatusOK, models.KYCTokenResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiry,
	})
}

// SaveStatus relays a widget status-change event. The payload is stored
// verbatim; only reviewResult.reviewAnswer drives the canonical status.
func (h *Handlers) SaveStatus(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req models.KYCStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	encryptedApplicant, err := utils.EncryptSensitiveData(req.ApplicantID)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to store applicant data", nil)
		return
	}

	rawPayload, err := json.Marshal(req.StatusData)
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid status data", nil)
		return
	}

	status := models.KYCPending
	answer := ""
	reviewStatus := req.StatusData.ReviewStatus
	if req.StatusData.ReviewResult != nil {
		answer = req.StatusData.ReviewResult.ReviewAnswer
		status = statusFromReviewAnswer(answer)
	}

	now := time.Now()

	var kyc models.KYC
	err = h.db.Where("user_id = ?", claims.UserID).First(&kyc).Error
	if err == gorm.ErrRecordNotFound {
		kyc = models.KYC{UserID: claims.UserID}
	} else if err != nil {
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	kyc.ApplicantID = encryptedApplicant
	kyc.Status = status
	kyc.ReviewAnswer = answer
	kyc.ReviewStatus = reviewStatus
	kyc.LevelName = req.StatusData.LevelName
	kyc.ReviewPayload = string(rawPayload)
	kyc.ReviewedAt = &now

	if kyc.ID == 0 {
		err = h.db.Create(&kyc).Error
	} else {
		err = h.db.Save(&kyc).Error
	}
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to save KYC status", nil)
		return
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", claims.UserID).
		Update("kyc_status", status).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update user KYC status", nil)
		return
	}

	h.logAudit(&claims.UserID, "UPDATE", "KYC",
		"Widget status relayed: "+reviewStatus+"/"+answer, r.RemoteAddr, r.UserAgent())
	log.Printf("KYC status for user %d: %s (answer %s)", claims.UserID, status, answer)

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "KYC status saved",
		"status":  status,
	})
}

// MyDashboard returns the caller's KYC summary for display. Clients must
// not cache a pass/fail decision; this endpoint is the source of truth.
func (h *Handlers) MyDashboard(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var kyc models.KYC
	if err := h.db.Where("user_id = ?", claims.UserID).First(&kyc).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"data": map[string]interface{}{
					"status": models.KYCNotStarted,
				},
			})
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	data := map[string]interface{}{
		"status":       kyc.Status,
		"reviewAnswer": kyc.ReviewAnswer,
		"reviewStatus": kyc.ReviewStatus,
		"levelName":    kyc.LevelName,
		"submittedAt":  kyc.CreatedAt,
	}
	if kyc.ReviewedAt != nil {
		data["reviewedAt"] = kyc.ReviewedAt
	}
	if kyc.TokenExpiry != nil {
		data["tokenExpiry"] = kyc.TokenExpiry
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    data,
	})
}
