package client

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"remitgo/models"
)

// Phase is the order workflow's state. Error exits return to the prior
// interactive state without losing entered form data.
type Phase int

const (
	PhaseEditing Phase = iota
	PhaseSubmitting
	PhaseOTPPending
	PhaseVerifyingOTP
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseEditing:
		return "editing"
	case PhaseSubmitting:
		return "submitting"
	case PhaseOTPPending:
		return "otp-pending"
	case PhaseVerifyingOTP:
		return "verifying-otp"
	case PhaseDone:
		return "done"
	}
	return "unknown"
}

// OrderForm holds the transfer details the user entered, including an
// optional supporting document.
type OrderForm struct {
	CurrencyToSend     string
	CurrencyToReceive  string
	AmountToSend       float64
	DestinationCountry string
	RecipientName      string
	RecipientAccount   string
	TransferMethod     string
	Purpose            string
	Notes              string
	DocumentName       string
	Document           io.Reader
}

// OrderWorkflow drives the create-order flow: editing, multipart
// submission, OTP confirmation with resend, and completion. Requests
// within the workflow are issued strictly sequentially by user action.
type OrderWorkflow struct {
	client *Client
	notify Notifier
	nav    Navigator

	phase   Phase
	form    OrderForm
	orderID uint
	otp     string
}

func NewOrderWorkflow(client *Client, notify Notifier, nav Navigator) *OrderWorkflow {
	if notify == nil {
		notify = NopNotifier{}
	}
	if nav == nil {
		nav = NopNavigator{}
	}
	return &OrderWorkflow{
		client: client,
		notify: notify,
		nav:    nav,
		phase:  PhaseEditing,
		form: OrderForm{
			CurrencyToSend: "CAD",
			TransferMethod: "Bank Transfer",
		},
	}
}

// ResumeOrderWorkflow rebuilds a workflow for an order whose OTP
// challenge is still outstanding, e.g. across CLI invocations.
func ResumeOrderWorkflow(client *Client, notify Notifier, nav Navigator, orderID uint) *OrderWorkflow {
	w := NewOrderWorkflow(client, notify, nav)
	w.orderID = orderID
	w.phase = PhaseOTPPending
	return w
}

func (w *OrderWorkflow) Phase() Phase {
	return w.phase
}

func (w *OrderWorkflow) Form() *OrderForm {
	return &w.form
}

func (w *OrderWorkflow) OrderID() uint {
	return w.orderID
}

func (w *OrderWorkflow) OTP() string {
	return w.otp
}

// ReceivingCurrencies lists the receive options for a send currency.
func ReceivingCurrencies(currencyToSend string) []string {
	switch currencyToSend {
	case "CAD":
		return []string{"INR", "NGN", "USD", "GBP", "AUD", "GHC", "USDT", "BTC", "ETH", "BNB", "USDC"}
	case "AUD":
		return []string{"USDT", "BTC", "ETH", "BNB", "USDC"}
	default:
		return nil
	}
}

// Submit validates and posts the order. Validation failures surface a
// notification and short-circuit before any request is issued; the
// workflow stays in editing with the form intact.
func (w *OrderWorkflow) Submit() error {
	if w.phase != PhaseEditing {
		return errors.New("order already submitted")
	}

	if w.form.CurrencyToReceive == "" {
		w.notify.Error("Please select a currency to receive")
		return errors.New("currency to receive is required")
	}
	if w.form.AmountToSend <= 0 {
		w.notify.Error("Please enter a valid amount to send")
		return errors.New("amount to send must be positive")
	}

	w.phase = PhaseSubmitting

	fields := map[string]string{
		"currencyToSend":     w.form.CurrencyToSend,
		"currencyToReceive":  w.form.CurrencyToReceive,
		"amountToSend":       strconv.FormatFloat(w.form.AmountToSend, 'f', -1, 64),
		"destinationCountry": w.form.DestinationCountry,
		"recipientName":      w.form.RecipientName,
		"recipientAccount":   w.form.RecipientAccount,
		"transferMethod":     w.form.TransferMethod,
		"purpose":            w.form.Purpose,
		"notes":              w.form.Notes,
	}

	var resp models.OrderCreateResponse
	err := w.client.DoMultipart(http.MethodPost, "/orders/create",
		fields, "document", w.form.DocumentName, w.form.Document, &resp)
	if err != nil {
		w.phase = PhaseEditing
		w.handleRequestError(err, "Error submitting order")
		return err
	}

	w.orderID = resp.OrderID
	w.phase = PhaseOTPPending
	w.notify.Success(resp.Message)
	return nil
}

// SetOTP sanitizes OTP input: non-digit characters are silently
// stripped and the value is capped at 6 digits.
func (w *OrderWorkflow) SetOTP(input string) {
	var b strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		if b.Len() == 6 {
			break
		}
	}
	w.otp = b.String()
}

// VerifyOTP submits the entered code. Codes that are not exactly six
// digits are rejected locally with no request.
func (w *OrderWorkflow) VerifyOTP() error {
	if w.phase != PhaseOTPPending {
		return errors.New("no OTP challenge outstanding")
	}

	if len(w.otp) != 6 {
		w.notify.Error("Please enter a valid 6-digit OTP")
		return errors.New("OTP must be 6 digits")
	}

	w.phase = PhaseVerifyingOTP

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err := w.client.Do(http.MethodPost, "/orders/verify-otp", map[string]interface{}{
		"orderId": w.orderID,
		"otp":     w.otp,
	}, &resp)
	if err != nil {
		w.phase = PhaseOTPPending
		w.handleRequestError(err, "Error verifying OTP")
		return err
	}

	w.phase = PhaseDone
	w.otp = ""
	w.notify.Success(resp.Message)
	w.nav.Navigate(RouteDashboard)
	return nil
}

// ResendOTP may be invoked any number of times while the challenge is
// outstanding; throttling is the backend's job.
func (w *OrderWorkflow) ResendOTP() error {
	if w.phase != PhaseOTPPending {
		return errors.New("no OTP challenge outstanding")
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err := w.client.Do(http.MethodPost, "/orders/resend-otp", map[string]interface{}{
		"orderId": w.orderID,
	}, &resp)
	if err != nil {
		w.handleRequestError(err, "Error resending OTP")
		return err
	}

	w.otp = ""
	w.notify.Success(resp.Message)
	return nil
}

// handleRequestError surfaces the failure and routes authorization
// errors: 401 back to login, 403 (KYC not verified) into the KYC flow.
func (w *OrderWorkflow) handleRequestError(err error, fallback string) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = fallback
		}
		w.notify.Error(message)
		switch apiErr.Status {
		case http.StatusUnauthorized:
			w.nav.Navigate(RouteLogin)
		case http.StatusForbidden:
			w.nav.Navigate(RouteKYC)
		}
		return
	}
	if errors.Is(err, ErrNetwork) {
		w.notify.Error(ErrNetwork.Error())
		return
	}
	w.notify.Error(fallback)
}

// FetchOrders re-fetches the caller's order list. The list is always
// re-fetched after a mutation, never merged optimistically.
func FetchOrders(c *Client) ([]models.Order, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    []models.Order `json:"data"`
	}
	if err := c.Do(http.MethodGet, "/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// FetchAllOrders retrieves every order (admin).
func FetchAllOrders(c *Client) ([]models.Order, error) {
	var resp struct {
		Success bool           `json:"success"`
		Data    []models.Order `json:"data"`
	}
	if err := c.Do(http.MethodGet, "/orders/admin", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// SetOrderStatus requests an admin status transition, then the caller
// re-fetches the list.
func SetOrderStatus(c *Client, orderID uint, status string) error {
	return c.Do(http.MethodPut, "/orders/status/"+strconv.FormatUint(uint64(orderID), 10),
		map[string]string{"status": status}, nil)
}
