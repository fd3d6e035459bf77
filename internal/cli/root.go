// Package cli menuctl 指令列工具
package cli

import (
	"os"
	"time"

	"menu-planner/internal/client"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	timeout   time.Duration
	asJSON    bool
)

var rootCmd = &cobra.Command{
	Use:           "menuctl",
	Short:         "Weekly menu planner client",
	Long:          `Generate weekly menus, swap days, print shopping lists and manage the pantry.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	defaultURL := os.Getenv("MENU_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", defaultURL, "Menu planner API base URL")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	rootCmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print raw JSON")
}

// Execute 執行根指令
func Execute() error {
	return rootCmd.Execute()
}

func newClient() *client.Client {
	return newClientFor(serverURL)
}

func newClientFor(url string) *client.Client {
	return client.New(url, timeout)
}
