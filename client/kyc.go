package client

import (
	"errors"
	"net/http"
	"time"

	"remitgo/models"
)

// ErrLoginRequired is returned when the identity widget is opened with
// no local bearer token; the UI shows a login interstitial instead of
// launching the widget.
var ErrLoginRequired = errors.New("login required")

// KYCRelay wraps the third-party identity-verification widget. It
// supplies short-lived access tokens and relays lifecycle events to the
// backend without judging pass/fail itself: KYC status is always
// re-derived from the backend, never cached as a client-side decision.
type KYCRelay struct {
	client *Client
	notify Notifier

	applicantID string
	closed      bool
}

func NewKYCRelay(client *Client, notify Notifier) *KYCRelay {
	if notify == nil {
		notify = NopNotifier{}
	}
	return &KYCRelay{client: client, notify: notify}
}

// AccessToken fetches a fresh widget token. The widget calls this both
// at launch and whenever its current token expires.
func (r *KYCRelay) AccessToken() (string, error) {
	if r.closed {
		return "", errors.New("relay is closed")
	}
	if r.client.Token() == "" {
		return "", ErrLoginRequired
	}

	var resp models.KYCTokenResponse
	if err := r.client.Do(http.MethodGet, "/kyc/token", nil, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", errors.New("failed to fetch new access token")
	}
	return resp.Token, nil
}

// ApplicantLoaded remembers the applicant id for the session. It is
// transient and cleared on Close.
func (r *KYCRelay) ApplicantLoaded(applicantID string) {
	if r.closed || applicantID == "" {
		return
	}
	r.applicantID = applicantID
}

func (r *KYCRelay) ApplicantID() string {
	return r.applicantID
}

// StatusChanged forwards the widget's status-change event verbatim,
// with the remembered applicant id, to the backend. The notification
// level follows the review answer; local session state is untouched.
func (r *KYCRelay) StatusChanged(payload models.KYCStatusData) error {
	if r.closed {
		return errors.New("relay is closed")
	}

	applicantID := r.applicantID
	if applicantID == "" || payload.ReviewResult == nil {
		return nil
	}

	req := models.KYCStatusRequest{
		ApplicantID: applicantID,
		StatusData:  payload,
		Timestamp:   time.Now().UTC(),
	}

	if err := r.client.Do(http.MethodPost, "/kyc/status", req, nil); err != nil {
		r.notify.Error("Failed to update KYC status")
		return err
	}

	switch payload.ReviewResult.ReviewAnswer {
	case models.ReviewGreen:
		r.notify.Success("KYC verification completed successfully")
	case models.ReviewRed:
		r.notify.Error("KYC verification failed. Please try again.")
	case models.ReviewYellow:
		r.notify.Warning("KYC verification is under review")
	}
	return nil
}

// FetchDashboard reads the caller's KYC summary from the backend, the
// sole source of truth for KYC state.
func (r *KYCRelay) FetchDashboard() (map[string]interface{}, error) {
	var resp struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	if err := r.client.Do(http.MethodGet, "/kyc/me/dashboard", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// Close disposes the relay and clears the remembered applicant id.
func (r *KYCRelay) Close() {
	r.closed = true
	r.applicantID = ""
}
