package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"remitgo/middleware"
	"remitgo/models"
	"remitgo/utils"
)

// MsgVerifyEmailFirst is matched by clients to unlock the resend-
// verification affordance, so the wording is part of the contract.
const MsgVerifyEmailFirst = "Please verify your email first"

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var existingUser models.User
	if err := h.db.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		sendError(w, http.StatusConflict, "User already exists", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to hash password", nil)
		return
	}

	role := models.RoleUser
	if req.AdminCode != "" {
		if req.AdminCode != h.config.AdminCode {
			sendError(w, http.StatusBadRequest, "Invalid admin code", nil)
			return
		}
		role = models.RoleAdmin
		log.Printf("Admin user registered with admin code: %s", req.Email)
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  hashedPassword,
		Phone:     req.Phone,
		Role:      role,
		Verified:  !h.config.RequireEmailVerification,
		KYCStatus: models.KYCNotStarted,
	}

	if h.config.RequireEmailVerification {
		verificationToken, err := utils.GeneratePurposeToken(0, utils.PurposeVerifyEmail, 24*time.Hour)
		if err != nil {
			sendError(w, http.StatusInternalServerError, "Failed to create verification token", nil)
			return
		}
		user.VerificationToken = verificationToken
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("Failed to create user %s: %v", req.Email, err)
		sendError(w, http.StatusInternalServerError, "Failed to create user", nil)
		return
	}

	h.logAudit(&user.ID, "CREATE", "USER", "User registered", r.RemoteAddr, r.UserAgent())

	if h.config.RequireEmailVerification {
		// No token in the response: the client reads its absence as the
		// verification-required outcome. Delivery of the verification
		// email happens out of band.
		log.Printf("Verification pending for %s", user.Email)
		sendJSON(w, http.StatusCreated, models.AuthResponse{
			Success: true,
			Message: "Registration successful. Please check your email to verify your account.",
		})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	sendJSON(w, http.StatusCreated, models.AuthResponse{
		Success: true,
		Message: "Registration successful",
		Token:   token,
		User:    &user,
	})
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
			return
		}
		sendError(w, http.StatusInternalServerError, "Database error", nil)
		return
	}

	if !utils.CheckPasswordHash(req.Password, user.Password) {
		log.Printf("Invalid password for user: %s", req.Email)
		sendError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	if !user.Verified {
		sendError(w, http.StatusForbidden, MsgVerifyEmailFirst, nil)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	h.logAudit(&user.ID, "LOGIN", "AUTH", "User logged in", r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    &user,
	})
}

// GoogleLogin exchanges an OAuth credential for a session, creating the
// account on first sign-in. Google accounts skip email verification.
func (h *Handlers) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.GoogleLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	email, subject, givenName, familyName, err := utils.DecodeUnverifiedEmail(req.Credential)
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid credential", err.Error())
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			sendError(w, http.StatusInternalServerError, "Database error", nil)
			return
		}
		randomPassword, err := utils.HashPassword(h.generateReference())
		if err != nil {
			sendError(w, http.StatusInternalServerError, "Failed to create user", nil)
			return
		}
		user = models.User{
			FirstName: givenName,
			LastName:  familyName,
			Email:     email,
			Password:  randomPassword,
			Role:      models.RoleUser,
			Verified:  true,
			GoogleID:  subject,
			KYCStatus: models.KYCNotStarted,
		}
		if err := h.db.Create(&user).Error; err != nil {
			sendError(w, http.StatusInternalServerError, "Failed to create user", nil)
			return
		}
		h.logAudit(&user.ID, "CREATE", "USER", "User registered via Google", r.RemoteAddr, r.UserAgent())
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	h.logAudit(&user.ID, "LOGIN", "AUTH", "User logged in via Google", r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Token:   token,
		User:    &user,
	})
}

// Logout records the event server-side. Tokens are stateless, so local
// teardown on the client is what actually ends the session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims != nil {
		h.logAudit(&claims.UserID, "LOGOUT", "AUTH", "User logged out", r.RemoteAddr, r.UserAgent())
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

// ForgotPassword issues a reset token. The response does not reveal
// whether the account exists.
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err == nil {
		resetToken, err := utils.GeneratePurposeToken(user.ID, utils.PurposeReset,
			time.Duration(h.config.ResetTokenMinutes)*time.Minute)
		if err != nil {
			sendError(w, http.StatusInternalServerError, "Failed to create reset token", nil)
			return
		}
		expiry := time.Now().Add(time.Duration(h.config.ResetTokenMinutes) * time.Minute)
		user.ResetToken = resetToken
		user.ResetTokenExpiry = &expiry
		h.db.Save(&user)
		h.logAudit(&user.ID, "RESET_REQUEST", "AUTH", "Password reset requested", r.RemoteAddr, r.UserAgent())
		log.Printf("Password reset token issued for %s", user.Email)
	}

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password reset link has been sent to your email",
	})
}

// ResetPassword completes a reset and logs the user in, mirroring the
// login success payload.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := mux.Vars(r)["token"]

	var req models.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	claims, err := utils.ValidatePurposeToken(resetToken, utils.PurposeReset)
	if err != nil {
		sendError(w, http.StatusBadRequest, "Invalid or expired reset token", nil)
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		sendError(w, http.StatusBadRequest, "Invalid or expired reset token", nil)
		return
	}

	// Single use: the stored token must match the presented one.
	if user.ResetToken != resetToken {
		sendError(w, http.StatusBadRequest, "Invalid or expired reset token", nil)
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to hash password", nil)
		return
	}

	user.Password = hashedPassword
	user.ResetToken = ""
	user.ResetTokenExpiry = nil
	if err := h.db.Save(&user).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update password", nil)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to generate token", nil)
		return
	}

	h.logAudit(&user.ID, "RESET", "AUTH", "Password reset completed", r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, models.AuthResponse{
		Success: true,
		Message: "Password reset successful",
		Token:   token,
		User:    &user,
	})
}

// UpdateDetails applies a partial profile update and returns the merged
// user, which the client adopts as authoritative.
func (h *Handlers) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetUserFromContext(r)
	if claims == nil {
		sendError(w, http.StatusUnauthorized, "Invalid or missing token", nil)
		return
	}

	var req models.UpdateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var user models.User
	if err := h.db.First(&user, claims.UserID).Error; err != nil {
		sendError(w, http.StatusNotFound, "User not found", nil)
		return
	}

	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.LastName != "" {
		user.LastName = req.LastName
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Address != "" {
		user.Address = req.Address
	}

	if err := h.db.Save(&user).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to update profile", nil)
		return
	}

	h.logAudit(&user.ID, "UPDATE", "USER", "Profile updated", r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"data":    user,
	})
}

func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req models.ResendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		sendError(w, http.StatusBadRequest, "Validation failed", utils.FormatValidationError(err))
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		sendError(w, http.StatusNotFound, "No account found for this email", nil)
		return
	}

	if user.Verified {
		sendError(w, http.StatusBadRequest, "Account is already verified", nil)
		return
	}

	verificationToken, err := utils.GeneratePurposeToken(user.ID, utils.PurposeVerifyEmail, 24*time.Hour)
	if err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to create verification token", nil)
		return
	}
	user.VerificationToken = verificationToken
	h.db.Save(&user)

	h.logAudit(&user.ID, "RESEND_VERIFICATION", "AUTH", "Verification email resent", r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Verification email sent",
	})
}

func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	verificationToken := mux.Vars(r)["token"]

	if _, err := utils.ValidatePurposeToken(verificationToken, utils.PurposeVerifyEmail); err != nil {
		sendError(w, http.StatusBadRequest, "Invalid or expired verification token", nil)
		return
	}

	var user models.User
	if err := h.db.Where("verification_token = ?", verificationToken).First(&user).Error; err != nil {
		sendError(w, http.StatusBadRequest, "Invalid or expired verification token", nil)
		return
	}

	user.Verified = true
	user.VerificationToken = ""
	if err := h.db.Save(&user).Error; err != nil {
		sendError(w, http.StatusInternalServerError, "Failed to verify account", nil)
		return
	}

	h.logAudit(&user.ID, "VERIFY", "AUTH", "Email verified", r.RemoteAddr, r.UserAgent())

	sendJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Email verified. You can now log in.",
	})
}
