package models

import (
	"time"

	"gorm.io/gorm"
)

// Roles form a closed set. Route gating compares against RoleAdmin
// explicitly, never against the absence of a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	FirstName         string         `json:"firstName" gorm:"not null"`
	LastName          string         `json:"lastName" gorm:"not null"`
	Email             string         `json:"email" gorm:"uniqueIndex;not null"`
	Password          string         `json:"-" gorm:"not null"`
	Role              string         `json:"role" gorm:"default:user"` // user, admin
	Phone             string         `json:"phone,omitempty"`
	Address           string         `json:"address,omitempty"`
	Verified          bool           `json:"verified" gorm:"default:false"`
	VerificationToken string         `json:"-"`
	ResetToken        string         `json:"-"`
	ResetTokenExpiry  *time.Time     `json:"-"`
	KYCStatus         string         `json:"kycStatus" gorm:"default:not_started"`
	GoogleID          string         `json:"-"`
	CreatedAt         time.Time      `json:"createdAt"`
	UpdatedAt         time.Time      `json:"updatedAt"`
	DeletedAt         gorm.DeletedAt `json:"-" gorm:"index"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2"`
	LastName  string `json:"lastName" validate:"required,min=2"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	Phone     string `json:"phone" validate:"omitempty,min=10,max=15"`
	AdminCode string `json:"adminCode,omitempty"` // Optional field for admin registration
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	Credential string `json:"credential" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateDetailsRequest struct {
	FirstName string `json:"firstName" validate:"omitempty,min=2"`
	LastName  string `json:"lastName" validate:"omitempty,min=2"`
	Phone     string `json:"phone" validate:"omitempty,min=10,max=15"`
	Address   string `json:"address"`
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// AuthResponse is the session payload the web client expects from login,
// google login and completed password resets. Registration under a
// verification-required policy returns Message with no Token.
type AuthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	User    *User  `json:"user,omitempty"`
}
