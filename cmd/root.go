// Package cmd implements CLI commands using cobra framework.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X firestige.xyz/netsniff/cmd.Version=...".
var Version = "0.1.0"

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "netsniff",
	Short: "netsniff - raw Ethernet sniffer for HTTP and DNS traffic",
	Long: `netsniff reads raw Ethernet frames from a network interface or a pcap file,
decodes Ethernet, IPv4, TCP and UDP headers, and prints a human-readable dump
of HTTP (TCP/80) and DNS (UDP/53) traffic to standard output.

Diagnostics go to standard error so the frame dump can be piped.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "",
		"config file path (default: ./netsniff.yaml or /etc/netsniff/netsniff.yaml if present)")

	rootCmd.AddCommand(captureCmd)
	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
