package client

import (
	"net/http"
	"strings"
	"testing"

	"remitgo/models"
)

func TestOrderSubmit(t *testing.T) {
	t.Run("Validation Short-Circuits Before Any Request", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		})
		defer server.Close()

		notify := &recordingNotifier{}
		w := NewOrderWorkflow(NewClient(server.URL), notify, nil)

		// Missing receive currency.
		w.Form().AmountToSend = 100
		w.Form().CurrencyToReceive = ""
		if err := w.Submit(); err == nil {
			t.Fatal("Expected validation error, got nil")
		}

		// Non-positive amount.
		w.Form().CurrencyToReceive = "INR"
		w.Form().AmountToSend = 0
		if err := w.Submit(); err == nil {
			t.Fatal("Expected validation error, got nil")
		}

		if server.count() != 0 {
			t.Errorf("Local validation issued %d requests, want 0", server.count())
		}
		if len(notify.errors) != 2 {
			t.Errorf("Got %d error notifications, want 2", len(notify.errors))
		}
		if w.Phase() != PhaseEditing {
			t.Errorf("Phase is %v, want editing", w.Phase())
		}
	})

	t.Run("Success Advances To OTP Challenge", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost || r.URL.Path != "/orders/create" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
				return
			}
			if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/form-data") {
				t.Errorf("Content-Type is %q, want multipart", ct)
			}
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				t.Errorf("Failed to parse form: %v", err)
			}
			if got := r.FormValue("currencyToReceive"); got != "INR" {
				t.Errorf("currencyToReceive is %q", got)
			}
			writeJSON(w, http.StatusCreated, models.OrderCreateResponse{
				Success: true,
				Message: "Order created. An OTP has been sent to confirm it.",
				OrderID: 7,
			})
		})
		defer server.Close()

		notify := &recordingNotifier{}
		w := NewOrderWorkflow(NewClient(server.URL), notify, nil)
		w.Form().CurrencyToReceive = "INR"
		w.Form().AmountToSend = 250.50
		w.Form().RecipientName = "A Recipient"

		if err := w.Submit(); err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if w.Phase() != PhaseOTPPending {
			t.Errorf("Phase is %v, want otp-pending", w.Phase())
		}
		if w.OrderID() != 7 {
			t.Errorf("Order id is %d, want 7", w.OrderID())
		}
		if len(notify.success) != 1 {
			t.Errorf("Got %d success notifications, want 1", len(notify.success))
		}
	})

	t.Run("Server Rejection Returns To Editing With Form Intact", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unsupported currency"})
		})
		defer server.Close()

		notify := &recordingNotifier{}
		w := NewOrderWorkflow(NewClient(server.URL), notify, nil)
		w.Form().CurrencyToReceive = "XXX"
		w.Form().AmountToSend = 10
		w.Form().RecipientName = "A Recipient"

		if err := w.Submit(); err == nil {
			t.Fatal("Expected error, got nil")
		}
		if w.Phase() != PhaseEditing {
			t.Errorf("Phase is %v, want editing", w.Phase())
		}
		if w.Form().RecipientName != "A Recipient" {
			t.Error("Form data lost on failed submit")
		}
		if len(notify.errors) != 1 || notify.errors[0] != "Unsupported currency" {
			t.Errorf("Notifications: %v", notify.errors)
		}
	})

	t.Run("Unauthenticated Redirects To Login", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Authorization required"})
		})
		defer server.Close()

		nav := &recordingNavigator{}
		w := NewOrderWorkflow(NewClient(server.URL), nil, nav)
		w.Form().CurrencyToReceive = "INR"
		w.Form().AmountToSend = 10

		w.Submit()
		if nav.last() != RouteLogin {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteLogin)
		}
	})

	t.Run("KYC Gate Redirects To Verification", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusForbidden, map[string]string{
				"message": "Please complete KYC verification before creating orders",
			})
		})
		defer server.Close()

		nav := &recordingNavigator{}
		notify := &recordingNotifier{}
		w := NewOrderWorkflow(NewClient(server.URL), notify, nav)
		w.Form().CurrencyToReceive = "INR"
		w.Form().AmountToSend = 10

		w.Submit()
		if nav.last() != RouteKYC {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteKYC)
		}
		if len(notify.errors) != 1 {
			t.Errorf("Got %d error notifications, want 1", len(notify.errors))
		}
	})
}

func TestSetOTP(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"123456", "123456"},
		{"12a4b6", "1246"},
		{" 12 34 56 ", "123456"},
		{"12345678", "123456"},
		{"abcdef", ""},
		{"", ""},
	}
	w := NewOrderWorkflow(NewClient("http://unreachable.invalid"), nil, nil)
	for _, tc := range cases {
		w.SetOTP(tc.input)
		if w.OTP() != tc.want {
			t.Errorf("SetOTP(%q) stored %q, want %q", tc.input, w.OTP(), tc.want)
		}
	}
}

func TestVerifyOTP(t *testing.T) {
	t.Run("Short Code Rejected Locally", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
		})
		defer server.Close()

		notify := &recordingNotifier{}
		w := ResumeOrderWorkflow(NewClient(server.URL), notify, nil, 7)
		w.SetOTP("123")

		if err := w.VerifyOTP(); err == nil {
			t.Fatal("Expected local validation error")
		}
		if server.count() != 0 {
			t.Errorf("Short code issued %d requests, want 0", server.count())
		}
		if w.Phase() != PhaseOTPPending {
			t.Errorf("Phase is %v, want otp-pending", w.Phase())
		}
	})

	t.Run("Success Completes And Lands On Dashboard", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders/verify-otp" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "Order confirmed",
			})
		})
		defer server.Close()

		nav := &recordingNavigator{}
		notify := &recordingNotifier{}
		w := ResumeOrderWorkflow(NewClient(server.URL), notify, nav, 7)
		w.SetOTP("123456")

		if err := w.VerifyOTP(); err != nil {
			t.Fatalf("VerifyOTP failed: %v", err)
		}
		if w.Phase() != PhaseDone {
			t.Errorf("Phase is %v, want done", w.Phase())
		}
		if nav.last() != RouteDashboard {
			t.Errorf("Navigated to %q, want %q", nav.last(), RouteDashboard)
		}
	})

	t.Run("Wrong Code Keeps Challenge Open", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid OTP"})
		})
		defer server.Close()

		notify := &recordingNotifier{}
		w := ResumeOrderWorkflow(NewClient(server.URL), notify, nil, 7)
		w.SetOTP("999999")

		if err := w.VerifyOTP(); err == nil {
			t.Fatal("Expected error, got nil")
		}
		if w.Phase() != PhaseOTPPending {
			t.Errorf("Phase is %v, want otp-pending", w.Phase())
		}
		if len(notify.errors) != 1 || notify.errors[0] != "Invalid OTP" {
			t.Errorf("Notifications: %v", notify.errors)
		}
	})
}

func TestResendOTP(t *testing.T) {
	t.Run("Clears Entered Code", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/orders/resend-otp" {
				writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "A new OTP has been sent",
			})
		})
		defer server.Close()

		w := ResumeOrderWorkflow(NewClient(server.URL), nil, nil, 7)
		w.SetOTP("123456")

		if err := w.ResendOTP(); err != nil {
			t.Fatalf("ResendOTP failed: %v", err)
		}
		if w.OTP() != "" {
			t.Errorf("OTP is %q after resend, want empty", w.OTP())
		}
		if w.Phase() != PhaseOTPPending {
			t.Errorf("Phase is %v, want otp-pending", w.Phase())
		}
	})

	t.Run("Throttled Resend Surfaces Message", func(t *testing.T) {
		server := newCountingServer(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"message": "Please wait before requesting another OTP",
			})
		})
		defer server.Close()

		notify := &recordingNotifier{}
		w := ResumeOrderWorkflow(NewClient(server.URL), notify, nil, 7)

		if err := w.ResendOTP(); err == nil {
			t.Fatal("Expected error, got nil")
		}
		if len(notify.errors) != 1 {
			t.Errorf("Got %d error notifications, want 1", len(notify.errors))
		}
	})

	t.Run("Rejected Outside OTP Challenge", func(t *testing.T) {
		w := NewOrderWorkflow(NewClient("http://unreachable.invalid"), nil, nil)
		if err := w.ResendOTP(); err == nil {
			t.Error("Resend allowed while editing")
		}
	})
}

func TestReceivingCurrencies(t *testing.T) {
	cad := ReceivingCurrencies("CAD")
	if len(cad) != 11 {
		t.Errorf("CAD has %d receive options, want 11", len(cad))
	}
	aud := ReceivingCurrencies("AUD")
	if len(aud) != 5 {
		t.Errorf("AUD has %d receive options, want 5", len(aud))
	}
	if got := ReceivingCurrencies("EUR"); got != nil {
		t.Errorf("Unknown send currency returned %v", got)
	}
}
