package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "autopilot",
	Short: "Agent-driven browser automation for job applications",
	Long: `Autopilot pairs an LLM agent with playwright-driven browser sessions to
automate web tasks such as filling out job application forms and extracting
page content. Run it as a server exposing the tool catalog over an SSE
transport, or drive a single goal from the command line.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "autopilot.yaml", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
