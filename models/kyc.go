package models

import (
	"time"

	"gorm.io/gorm"
)

// KYC statuses. The canonical status always lives server-side; clients
// only display it and re-fetch after any mutating call.
const (
	KYCNotStarted  = "not_started"
	KYCInitiated   = "initiated"
	KYCPending     = "pending"
	KYCUnderReview = "under_review"
	KYCVerified    = "verified"
	KYCRejected    = "rejected"
	KYCExpired     = "expired"
	KYCOnHold      = "on_hold"
)

// Review answers as reported by the identity-verification widget.
const (
	ReviewGreen   = "GREEN"
	ReviewRed     = "RED"
	ReviewYellow  = "YELLOW"
	ReviewAmber   = "AMBER"
	ReviewPending = "PENDING"
)

type KYC struct {
	ID            uint           `json:"id" gorm:"primaryKey"`
	UserID        uint           `json:"userId" gorm:"uniqueIndex;not null"`
	User          User           `json:"user" gorm:"foreignKey:UserID"`
	ApplicantID   string         `json:"-"` // AES-encrypted widget applicant id
	Status        string         `json:"status" gorm:"default:not_started"`
	ReviewAnswer  string         `json:"reviewAnswer"`
	ReviewStatus  string         `json:"reviewStatus"`
	LevelName     string         `json:"levelName"`
	ReviewPayload string         `json:"-"` // verbatim widget event, backend-defined mapping
	TokenExpiry   *time.Time     `json:"tokenExpiry,omitempty"`
	ReviewedAt    *time.Time     `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `json:"-" gorm:"index"`
}

// ReviewResult mirrors the widget's reviewResult object.
type ReviewResult struct {
	ReviewAnswer     string `json:"reviewAnswer"`
	RejectLabels     []string `json:"rejectLabels,omitempty"`
	ReviewRejectType string `json:"reviewRejectType,omitempty"`
}

// KYCStatusRequest is the status-change event relayed verbatim from the
// widget, plus the applicant id the client remembered for the session.
type KYCStatusRequest struct {
	ApplicantID string        `json:"applicantId" validate:"required"`
	StatusData  KYCStatusData `json:"statusData" validate:"required"`
	Timestamp   time.Time     `json:"timestamp"`
}

type KYCStatusData struct {
	ReviewID     string        `json:"reviewId"`
	AttemptID    string        `json:"attemptId"`
	AttemptCnt   int           `json:"attemptCnt"`
	LevelName    string        `json:"levelName"`
	ReviewStatus string        `json:"reviewStatus"`
	ReviewResult *ReviewResult `json:"reviewResult"`
	ReviewDate   string        `json:"reviewDate"`
	CreateDate   string        `json:"createDate"`
}

type KYCTokenResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// KYCAdminUpdateRequest is the admin-side status override.
type KYCAdminUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=not_started initiated pending under_review verified rejected expired on_hold"`
	Reason string `json:"reason"`
}

// KYCStats is the aggregate block returned with the admin user listing.
type KYCStats struct {
	TotalUsers int64 `json:"totalUsers"`
	Verified   int64 `json:"verified"`
	Pending    int64 `json:"pending"`
	Rejected   int64 `json:"rejected"`
}
