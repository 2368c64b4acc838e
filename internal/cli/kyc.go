package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"remitgo/client"
	"remitgo/internal/format"
)

var kycCmd = &cobra.Command{
	Use:   "kyc",
	Short: "KYC verification commands",
}

var kycStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show your KYC status",
	RunE:  runKYCStatus,
}

var kycTokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Fetch an identity-widget access token",
	Long: `Fetches the short-lived access token the identity-verification
widget needs. Paste it into the verification page when asked.`,
	RunE: runKYCToken,
}

func init() {
	kycCmd.AddCommand(kycStatusCmd)
	kycCmd.AddCommand(kycTokenCmd)
}

func runKYCStatus(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}

	relay := client.NewKYCRelay(c, cliNotifier{})
	defer relay.Close()

	dashboard, err := relay.FetchDashboard()
	if err != nil {
		return fmt.Errorf("failed to fetch KYC status: %w", err)
	}

	if output == "json" {
		return format.JSON(dashboard)
	}

	status, _ := dashboard["status"].(string)
	fmt.Printf("KYC status: %s\n", format.Status(status))
	if answer, ok := dashboard["reviewAnswer"].(string); ok && answer != "" {
		fmt.Printf("Review answer: %s\n", answer)
	}
	if level, ok := dashboard["levelName"].(string); ok && level != "" {
		fmt.Printf("Level: %s\n", level)
	}
	return nil
}

func runKYCToken(cmd *cobra.Command, args []string) error {
	c, _, err := requireSession()
	if err != nil {
		return err
	}

	relay := client.NewKYCRelay(c, cliNotifier{})
	defer relay.Close()

	token, err := relay.AccessToken()
	if err != nil {
		if err == client.ErrLoginRequired {
			return fmt.Errorf("please login first to complete your KYC verification")
		}
		return fmt.Errorf("failed to fetch access token: %w", err)
	}

	fmt.Println(token)
	return nil
}
