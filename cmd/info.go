/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/allbin/serialdelay"
	"github.com/spf13/cobra"
)

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info [port]",
	Short: "Display details and the auto-pick score of a serial port",
	Long: `Display everything enumeration knows about a serial port, including USB
metadata, and the score the auto-picker gives it.

Without an argument the port that would be auto-picked is shown.

Examples:
  serialdelay info
  serialdelay info /dev/ttyACM0`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ports := serialdelay.ListPorts()

		var device string
		if len(args) == 1 {
			device = args[0]
		} else {
			picked, ok := serialdelay.AutoPick(ports)
			if !ok {
				fmt.Fprintf(os.Stderr, "Error: %v\n", errNoPorts)
				os.Exit(1)
			}
			device = picked
		}

		if err := printPortInfo(os.Stdout, ports, device); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func printPortInfo(w io.Writer, ports []serialdelay.PortDescriptor, device string) error {
	var info *serialdelay.PortDescriptor
	for i := range ports {
		if ports[i].Device == device {
			info = &ports[i]
			break
		}
	}
	if info == nil {
		return fmt.Errorf("port %s not found", device)
	}

	picked, _ := serialdelay.AutoPick(ports)

	fmt.Fprintf(w, "Port Information: %s\n\n", info.Device)
	fmt.Fprintf(w, "  Description: %s\n", info.Description)
	fmt.Fprintf(w, "  Hardware ID: %s\n", info.HardwareID)
	fmt.Fprintf(w, "  Score:       %d", serialdelay.Score(*info))
	if info.Device == picked {
		fmt.Fprint(w, " (auto-pick)")
	}
	fmt.Fprintln(w)

	if info.IsUSB {
		fmt.Fprintln(w, "\nUSB Device Information:")
		if info.VID != "" {
			fmt.Fprintf(w, "  Vendor ID:    %s\n", info.VID)
		}
		if info.PID != "" {
			fmt.Fprintf(w, "  Product ID:   %s\n", info.PID)
		}
		if info.SerialNumber != "" {
			fmt.Fprintf(w, "  Serial:       %s\n", info.SerialNumber)
		}
		if info.Manufacturer != "" {
			fmt.Fprintf(w, "  Manufacturer: %s\n", info.Manufacturer)
		}
	}
	return nil
}
