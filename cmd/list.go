/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/allbin/serialdelay"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all available serial ports on the system.

Ports are printed in enumeration order with their description,
manufacturer and hardware id. The port that would be auto-picked
is marked with '*'.

Example usage:
  serialdelay list
  serialdelay list --filter usb
  serialdelay list --table`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ports := filterPorts(serialdelay.ListPorts(), viper.GetString("filter"))
		printPorts(os.Stdout, ports, viper.GetBool("table"))
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	cobra.CheckErr(viper.BindPFlag("filter", listCmd.Flags().Lookup("filter")))
}

// printPorts writes ports to w, as a styled table when table is set
func printPorts(w io.Writer, ports []serialdelay.PortDescriptor, table bool) {
	if len(ports) == 0 {
		fmt.Fprintln(w, "No serial ports found.")
		return
	}

	picked, _ := serialdelay.AutoPick(ports)
	if table {
		renderTable(w, ports, picked)
	} else {
		renderSimple(w, ports, picked)
	}
}

// filterPorts filters the port list based on the specified filter type
func filterPorts(ports []serialdelay.PortDescriptor, filterType string) []serialdelay.PortDescriptor {
	if filterType == "" || filterType == "all" {
		return ports
	}

	filtered := make([]serialdelay.PortDescriptor, 0, len(ports))
	for _, port := range ports {
		name := strings.ToLower(filepath.Base(port.Device))
		switch strings.ToLower(filterType) {
		case "usb":
			if port.IsUSB || strings.HasPrefix(name, "ttyusb") || strings.HasPrefix(name, "ttyacm") {
				filtered = append(filtered, port)
			}
		case "standard":
			if strings.HasPrefix(name, "ttys") {
				filtered = append(filtered, port)
			}
		case "arm":
			if strings.HasPrefix(name, "ttyama") {
				filtered = append(filtered, port)
			}
		}
	}
	return filtered
}

// renderTable renders the port list in a styled static table format
func renderTable(w io.Writer, ports []serialdelay.PortDescriptor, picked string) {
	fmt.Fprintf(w, "Found %d serial port(s):\n\n", len(ports))

	portWidth := 22
	typeWidth := 16
	descWidth := 24
	manuWidth := 16

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("240")).
		PaddingBottom(1)

	cellStyle := lipgloss.NewStyle().
		PaddingRight(2)

	pickedStyle := cellStyle.
		Foreground(lipgloss.Color("40")).
		Bold(true)

	header := fmt.Sprintf("  %-*s %-*s %-*s %-*s %s",
		portWidth, "Port",
		typeWidth, "Type",
		descWidth, "Description",
		manuWidth, "Manufacturer",
		"Hardware ID")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, port := range ports {
		marker, style := " ", cellStyle
		if port.Device == picked {
			marker, style = "*", pickedStyle
		}
		row := fmt.Sprintf("%s %-*s %-*s %-*s %-*s %s",
			marker,
			portWidth, port.Device,
			typeWidth, getPortType(filepath.Base(port.Device)),
			descWidth, truncate(port.Description, descWidth),
			manuWidth, truncate(port.Manufacturer, manuWidth),
			port.HardwareID)
		fmt.Fprintln(w, style.Render(row))
	}
}

// renderSimple renders one line per port
func renderSimple(w io.Writer, ports []serialdelay.PortDescriptor, picked string) {
	for _, port := range ports {
		marker := " "
		if port.Device == picked {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-20s  %s  %s  %s\n", marker, port.Device, port.Description, port.Manufacturer, port.HardwareID)
	}
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-1]) + "…"
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "cu.usbmodem"), strings.HasPrefix(name, "tty.usbmodem"):
		return "USB Modem"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	case strings.HasPrefix(name, "com"):
		return "COM Port"
	default:
		return "Serial Port"
	}
}
