package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"remitgo/internal/format"
	"remitgo/models"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	RunE:  runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the current session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password",
	Short: "Request or complete a password reset",
	Long: `With only --email, requests a reset link by email. With --token and
--new-password, completes the reset and logs you in.`,
	RunE: runResetPassword,
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Update profile details",
	RunE:  runProfileUpdate,
}

var resendVerificationCmd = &cobra.Command{
	Use:   "resend-verification",
	Short: "Re-send the account verification email",
	RunE:  runResendVerification,
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password")
	loginCmd.Flags().Bool("remember-me", false, "keep the session on this machine")

	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("last-name", "", "last name")
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("phone", "", "phone number")

	resetPasswordCmd.Flags().String("email", "", "account email")
	resetPasswordCmd.Flags().String("token", "", "reset token from the email link")
	resetPasswordCmd.Flags().String("new-password", "", "new password")

	profileCmd.Flags().String("first-name", "", "first name")
	profileCmd.Flags().String("last-name", "", "last name")
	profileCmd.Flags().String("phone", "", "phone number")
	profileCmd.Flags().String("address", "", "address")

	resendVerificationCmd.Flags().String("email", "", "account email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	rememberMe, _ := cmd.Flags().GetBool("remember-me")

	if email == "" {
		return errors.New("email is required")
	}
	if password == "" {
		return errors.New("password is required")
	}

	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return err
	}

	if err := session.Login(email, password); err != nil {
		// An unverified account can have its verification email resent.
		if strings.Contains(err.Error(), "verify your email") {
			format.Warn(err.Error())
			fmt.Printf("Request a new email with:\n  remit resend-verification --email %s\n", email)
			return nil
		}
		return fmt.Errorf("login failed: %w", err)
	}

	if rememberMe {
		if err := session.RememberMe(true); err != nil {
			return err
		}
	}

	user := session.User()
	format.Success(fmt.Sprintf("Logged in as %s %s (%s)", user.FirstName, user.LastName, user.Role))
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	firstName, _ := cmd.Flags().GetString("first-name")
	lastName, _ := cmd.Flags().GetString("last-name")
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	phone, _ := cmd.Flags().GetString("phone")

	if email == "" || password == "" {
		return errors.New("email and password are required")
	}

	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return err
	}

	result := session.Register(models.RegisterRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		Phone:     phone,
	})
	if !result.Success {
		return fmt.Errorf("registration failed: %s", result.Message)
	}

	if result.RequiresVerification {
		format.Warn(result.Message)
		return nil
	}

	format.Success("Registered and logged in")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return err
	}

	if session.User() == nil {
		fmt.Println("Not logged in")
		return nil
	}

	session.Logout()
	format.Success("Logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return err
	}

	user := session.User()
	if user == nil {
		fmt.Println("Not logged in")
		return nil
	}

	if output == "json" {
		return format.JSON(user)
	}

	format.Table(
		[]string{"ID", "Name", "Email", "Role", "KYC"},
		[][]string{{
			fmt.Sprint(user.ID),
			user.FirstName + " " + user.LastName,
			user.Email,
			user.Role,
			format.Status(user.KYCStatus),
		}},
	)
	return nil
}

func runResetPassword(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	token, _ := cmd.Flags().GetString("token")
	newPassword, _ := cmd.Flags().GetString("new-password")

	if token == "" && email == "" {
		return errors.New("either --email (request) or --token with --new-password (complete) is required")
	}
	if token != "" && newPassword == "" {
		return errors.New("--new-password is required with --token")
	}

	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return err
	}

	result := session.ResetPassword(email, newPassword, token)
	if !result.Success {
		return fmt.Errorf("password reset failed: %s", result.Message)
	}

	format.Success(result.Message)
	return nil
}

func runResendVerification(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	if email == "" {
		return errors.New("--email is required")
	}

	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return err
	}

	if err := session.ResendVerification(email); err != nil {
		return fmt.Errorf("could not resend verification email: %w", err)
	}

	format.Success("Verification email sent. Check your inbox.")
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	c := newClient()
	session, err := newSession(c)
	if err != nil {
		return err
	}
	if session.User() == nil {
		return errors.New("not logged in")
	}

	firstName, _ := cmd.Flags().GetString("first-name")
	lastName, _ := cmd.Flags().GetString("last-name")
	phone, _ := cmd.Flags().GetString("phone")
	address, _ := cmd.Flags().GetString("address")

	err = session.UpdateProfile(models.UpdateDetailsRequest{
		FirstName: firstName,
		LastName:  lastName,
		Phone:     phone,
		Address:   address,
	})
	if err != nil {
		return fmt.Errorf("profile update failed: %w", err)
	}

	format.Success("Profile updated")
	return nil
}
