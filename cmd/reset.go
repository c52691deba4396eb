/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/allbin/serialdelay"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reboot the board with a DTR pulse and show its banner",
	Long: `Open the port, drop DTR for 50ms and raise it again, then print what the
board says while it starts up.

Boards that do not reboot on DTR simply ignore the pulse. Buffered input
is never flushed here, so the startup banner is kept.

Examples:
  serialdelay reset
  serialdelay reset --port /dev/ttyACM0 --banner 3s`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		client := serialdelay.NewClient(logger)
		if err := resetBoard(client, viper.GetDuration("banner")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().Duration("banner", 2*time.Second, "How long to print the startup output")
	cobra.CheckErr(viper.BindPFlag("banner", resetCmd.Flags().Lookup("banner")))
}

func resetBoard(client *serialdelay.Client, banner time.Duration) error {
	port, err := resolvePort(client.ListPorts)
	if err != nil {
		return err
	}

	fmt.Printf("Resetting %s\n", port)
	opts := append(connectOptions(), serialdelay.WithResetPulse(true), serialdelay.WithFlushOnOpen(false))
	if err := client.Connect(port, opts...); err != nil {
		return err
	}
	defer client.Disconnect()

	ctx, cancel := context.WithTimeout(context.Background(), banner)
	defer cancel()
	printOutput(ctx, os.Stdout, client.Output())

	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true)
	fmt.Printf("\n%s Reset pulse sent\n", doneStyle.Render("✓"))
	fmt.Println("Use 'serialdelay list --table' if the port path changed")
	return nil
}
