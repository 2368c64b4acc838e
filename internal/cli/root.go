// Package cli wires the cobra command tree for the remit CLI, the
// terminal front end to the exchange platform.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"remitgo/client"
	"remitgo/internal/format"
)

var (
	cfgFile string
	output  string
)

var rootCmd = &cobra.Command{
	Use:   "remit",
	Short: "Remit CLI - command-line access to the exchange platform",
	Long: `Remit CLI talks to the exchange backend: authentication, KYC
status, money-transfer orders with OTP confirmation, and the admin
views for users and orders.`,
	Version: "1.0.0",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.remitgo.yaml)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "table", "output format (table, json)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(resendVerificationCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(ordersCmd)
	rootCmd.AddCommand(kycCmd)
	rootCmd.AddCommand(adminCmd)
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("could not get home directory: %w", err)
		}
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".remitgo")
	}

	viper.SetDefault("server.url", "http://localhost:8080/api")
	viper.SetDefault("format.colors", true)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if err := createDefaultConfig(); err != nil {
				return fmt.Errorf("could not create default config: %w", err)
			}
		} else {
			return fmt.Errorf("could not read config file: %w", err)
		}
	}
	return nil
}

func createDefaultConfig() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	defaults := map[string]interface{}{
		"server": map[string]interface{}{"url": "http://localhost:8080/api"},
		"format": map[string]interface{}{"colors": true},
	}
	data, err := yaml.Marshal(defaults)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(home, ".remitgo.yaml"), data, 0o600)
}

// newClient builds the shared API client from config.
func newClient() *client.Client {
	return client.NewClient(viper.GetString("server.url"))
}

// newSession builds and restores the session store backed by the
// durable credential file.
func newSession(c *client.Client) (*client.Session, error) {
	path, err := client.DefaultStorePath()
	if err != nil {
		return nil, fmt.Errorf("could not locate credential store: %w", err)
	}
	store := client.NewFileStore(path)
	session := client.NewSession(c, store, printNavigator{})
	session.Restore()
	return session, nil
}

// printNavigator surfaces route decisions as terminal hints.
type printNavigator struct{}

func (printNavigator) Navigate(path string) {
	fmt.Printf("→ %s\n", path)
}

// cliNotifier adapts the client Notifier to colored terminal output.
type cliNotifier struct{}

func (cliNotifier) Success(message string) { format.Success(message) }
func (cliNotifier) Warning(message string) { format.Warn(message) }
func (cliNotifier) Error(message string)   { format.Fail(message) }
