package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"remitgo/client"
	"remitgo/internal/format"
	"remitgo/models"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administration commands (admin role required)",
}

var adminUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users with KYC statistics",
	RunE:  runAdminUsers,
}

var adminOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List all orders",
	RunE:  runAdminOrders,
}

var adminSetOrderStatusCmd = &cobra.Command{
	Use:   "set-order-status",
	Short: "Change an order's status",
	RunE:  runAdminSetOrderStatus,
}

var adminSetKYCCmd = &cobra.Command{
	Use:   "set-kyc",
	Short: "Override a user's KYC status",
	RunE:  runAdminSetKYC,
}

func init() {
	adminSetOrderStatusCmd.Flags().Uint("order-id", 0, "order id")
	adminSetOrderStatusCmd.Flags().String("status", "", "pending, processing, completed or rejected")

	adminSetKYCCmd.Flags().Uint("user-id", 0, "user id")
	adminSetKYCCmd.Flags().String("status", "", "new KYC status")
	adminSetKYCCmd.Flags().String("reason", "", "reason for the override")

	adminCmd.AddCommand(adminUsersCmd)
	adminCmd.AddCommand(adminOrdersCmd)
	adminCmd.AddCommand(adminSetOrderStatusCmd)
	adminCmd.AddCommand(adminSetKYCCmd)
}

// requireAdmin enforces the admin route guard before any request.
func requireAdmin() (*client.Client, error) {
	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return nil, err
	}
	decision := client.RequireAdmin(session)
	if decision.State != client.GuardAuthorized {
		return nil, errors.New("admin access required; log in with an admin account")
	}
	return c, nil
}

func runAdminUsers(cmd *cobra.Command, args []string) error {
	c, err := requireAdmin()
	if err != nil {
		return err
	}

	var resp struct {
		Success bool            `json:"success"`
		Data    []models.User   `json:"data"`
		Stats   models.KYCStats `json:"stats"`
	}
	if err := c.Do(http.MethodGet, "/kyc/users", nil, &resp); err != nil {
		return fmt.Errorf("failed to fetch users: %w", err)
	}

	if output == "json" {
		return format.JSON(resp)
	}

	rows := make([][]string, 0, len(resp.Data))
	for _, u := range resp.Data {
		rows = append(rows, []string{
			fmt.Sprint(u.ID),
			u.FirstName + " " + u.LastName,
			u.Email,
			u.Role,
			format.Status(u.KYCStatus),
			u.CreatedAt.Format("2006-01-02"),
		})
	}
	format.Table([]string{"ID", "Name", "Email", "Role", "KYC", "Joined"}, rows)
	fmt.Printf("\nTotal: %d  Verified: %d  Pending: %d  Rejected: %d\n",
		resp.Stats.TotalUsers, resp.Stats.Verified, resp.Stats.Pending, resp.Stats.Rejected)
	return nil
}

func runAdminOrders(cmd *cobra.Command, args []string) error {
	c, err := requireAdmin()
	if err != nil {
		return err
	}

	orders, err := client.FetchAllOrders(c)
	if err != nil {
		return fmt.Errorf("failed to fetch orders: %w", err)
	}

	if output == "json" {
		return format.JSON(orders)
	}

	printOrders(orders, true)
	return nil
}

func runAdminSetOrderStatus(cmd *cobra.Command, args []string) error {
	c, err := requireAdmin()
	if err != nil {
		return err
	}

	orderID, _ := cmd.Flags().GetUint("order-id")
	status, _ := cmd.Flags().GetString("status")
	if orderID == 0 || status == "" {
		return errors.New("--order-id and --status are required")
	}

	if err := client.SetOrderStatus(c, orderID, status); err != nil {
		return fmt.Errorf("status update failed: %w", err)
	}

	// Re-fetch rather than trusting a local merge.
	orders, err := client.FetchAllOrders(c)
	if err != nil {
		return fmt.Errorf("status updated but refresh failed: %w", err)
	}

	format.Success(fmt.Sprintf("Order %d set to %s", orderID, status))
	printOrders(orders, true)
	return nil
}

func runAdminSetKYC(cmd *cobra.Command, args []string) error {
	c, err := requireAdmin()
	if err != nil {
		return err
	}

	userID, _ := cmd.Flags().GetUint("user-id")
	status, _ := cmd.Flags().GetString("status")
	reason, _ := cmd.Flags().GetString("reason")
	if userID == 0 || status == "" {
		return errors.New("--user-id and --status are required")
	}

	err = c.Do(http.MethodPut, fmt.Sprintf("/kyc/users/%d", userID), map[string]string{
		"status": status,
		"reason": reason,
	}, nil)
	if err != nil {
		return fmt.Errorf("KYC update failed: %w", err)
	}

	format.Success(fmt.Sprintf("User %d KYC status set to %s", userID, status))
	return nil
}
