package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"remitgo/client"
	"remitgo/internal/format"
	"remitgo/models"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Money-transfer order commands",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your orders",
	RunE:  runOrdersList,
}

var ordersCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a transfer order",
	Long: `Creates an order and starts the OTP confirmation flow. The code is
delivered out of band; confirm with 'remit orders verify'.`,
	RunE: runOrdersCreate,
}

var ordersVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Confirm an order with its OTP code",
	RunE:  runOrdersVerify,
}

var ordersResendCmd = &cobra.Command{
	Use:   "resend-otp",
	Short: "Request a fresh OTP for an order",
	RunE:  runOrdersResend,
}

func init() {
	ordersCreateCmd.Flags().String("send-currency", "CAD", "currency to send")
	ordersCreateCmd.Flags().String("receive-currency", "", "currency to receive")
	ordersCreateCmd.Flags().Float64("amount", 0, "amount to send")
	ordersCreateCmd.Flags().String("recipient-name", "", "recipient name")
	ordersCreateCmd.Flags().String("recipient-account", "", "recipient account")
	ordersCreateCmd.Flags().String("transfer-method", "Bank Transfer", "transfer method")
	ordersCreateCmd.Flags().String("destination-country", "", "destination country")
	ordersCreateCmd.Flags().String("purpose", "", "purpose of transfer")
	ordersCreateCmd.Flags().String("notes", "", "notes")
	ordersCreateCmd.Flags().String("document", "", "path to a supporting document")

	ordersVerifyCmd.Flags().Uint("order-id", 0, "order id")
	ordersVerifyCmd.Flags().String("otp", "", "6-digit code")

	ordersResendCmd.Flags().Uint("order-id", 0, "order id")

	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersCreateCmd)
	ordersCmd.AddCommand(ordersVerifyCmd)
	ordersCmd.AddCommand(ordersResendCmd)
}

// requireSession restores a session and fails when nobody is logged in.
func requireSession() (*client.Client, *client.Session, error) {
	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return nil, nil, err
	}
	if session.User() == nil {
		return nil, nil, errors.New("not logged in; run 'remit login' first")
	}
	return c, session, nil
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}

	orders, err := client.FetchOrders(c)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	if output == "json" {
		return format.JSON(orders)
	}

	printOrders(orders, false)
	return nil
}

func printOrders(orders []models.Order, withUser bool) {
	headers := []string{"ID", "Status", "Amount", "Send", "Receive", "Recipient", "Confirmed", "Created"}
	if withUser {
		headers = append([]string{"User"}, headers...)
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		confirmed := "no"
		if o.OTPVerified {
			confirmed = "yes"
		}
		row := []string{
			fmt.Sprint(o.ID),
			format.Status(o.Status),
			fmt.Sprintf("%.2f", o.AmountToSend),
			o.CurrencyToSend,
			o.CurrencyToReceive,
			o.RecipientName,
			confirmed,
			o.CreatedAt.Format("2006-01-02 15:04"),
		}
		if withUser {
			row = append([]string{o.User.Email}, row...)
		}
		rows = append(rows, row)
	}
	format.Table(headers, rows)
}

func runOrdersCreate(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}

	workflow := client.NewOrderWorkflow(c, cliNotifier{}, printNavigator{})
	form := workflow.Form()
	form.CurrencyToSend, _ = cmd.Flags().GetString("send-currency")
	form.CurrencyToReceive, _ = cmd.Flags().GetString("receive-currency")
	form.AmountToSend, _ = cmd.Flags().GetFloat64("amount")
	form.RecipientName, _ = cmd.Flags().GetString("recipient-name")
	form.RecipientAccount, _ = cmd.Flags().GetString("recipient-account")
	form.TransferMethod, _ = cmd.Flags().GetString("transfer-method")
	form.DestinationCountry, _ = cmd.Flags().GetString("destination-country")
	form.Purpose, _ = cmd.Flags().GetString("purpose")
	form.Notes, _ = cmd.Flags().GetString("notes")

	if docPath, _ := cmd.Flags().GetString("document"); docPath != "" {
		file, err := os.Open(docPath)
		if err != nil {
			return fmt.Errorf("could not open document: %w", err)
		}
		defer file.Close()
		form.Document = file
		form.DocumentName = filepath.Base(docPath)
	}

	if err := workflow.Submit(); err != nil {
		return fmt.Errorf("order submission failed: %w", err)
	}

	fmt.Printf("Order %d created. Confirm with:\n", workflow.OrderID())
	fmt.Printf("  remit orders verify --order-id %d --otp <code>\n", workflow.OrderID())
	return nil
}

func runOrdersVerify(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}

	orderID, _ := cmd.Flags().GetUint("order-id")
	otp, _ := cmd.Flags().GetString("otp")
	if orderID == 0 {
		return errors.New("--order-id is required")
	}

	workflow := client.ResumeOrderWorkflow(c, cliNotifier{}, printNavigator{}, orderID)
	workflow.SetOTP(otp)

	if err := workflow.VerifyOTP(); err != nil {
		return fmt.Errorf("OTP verification failed: %w", err)
	}
	return nil
}

func runOrdersResend(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}

	orderID, _ := cmd.Flags().GetUint("order-id")
	if orderID == 0 {
		return errors.New("--order-id is required")
	}

	workflow := client.ResumeOrderWorkflow(c, cliNotifier{}, printNavigator{}, orderID)
	if err := workflow.ResendOTP(); err != nil {
		return fmt.Errorf("OTP resend failed: %w", err)
	}
	return nil
}
