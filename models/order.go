package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses. Transitions are requested by admins or by OTP
// confirmation; the client never computes one locally.
const (
	OrderPending    = "pending"
	OrderProcessing = "processing"
	OrderCompleted  = "completed"
	OrderRejected   = "rejected"
)

type Order struct {
	ID                 uint           `json:"id" gorm:"primaryKey"`
	UserID             uint           `json:"userId" gorm:"not null;index"`
	User               User           `json:"user" gorm:"foreignKey:UserID"`
	Status             string         `json:"status" gorm:"default:pending"` // pending, processing, completed, rejected
	AmountToSend       float64        `json:"amountToSend" gorm:"not null"`
	CurrencyToSend     string         `json:"currencyToSend" gorm:"not null"`
	CurrencyToReceive  string         `json:"currencyToReceive" gorm:"not null"`
	RecipientName      string         `json:"recipientName"`
	RecipientAccount   string         `json:"recipientAccount"`
	TransferMethod     string         `json:"transferMethod"`
	DestinationCountry string         `json:"destinationCountry,omitempty"`
	Purpose            string         `json:"purpose,omitempty"`
	Notes              string         `json:"notes,omitempty"`
	DocumentPath       string         `json:"documentPath,omitempty"`
	OTPHash            string         `json:"-"`
	OTPExpiry          *time.Time     `json:"-"`
	OTPSentAt          *time.Time     `json:"-"`
	OTPVerified        bool           `json:"otpVerified" gorm:"default:false"`
	Reference          string         `json:"reference" gorm:"uniqueIndex"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	DeletedAt          gorm.DeletedAt `json:"-" gorm:"index"`
}

type OrderOTPRequest struct {
	OrderID uint   `json:"orderId" validate:"required,gt=0"`
	OTP     string `json:"otp" validate:"required,len=6,numeric"`
}

type OrderResendOTPRequest struct {
	OrderID uint `json:"orderId" validate:"required,gt=0"`
}

type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending processing completed rejected"`
}

type OrderCreateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID uint   `json:"orderId"`
}
