/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/allbin/serialdelay"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send [line]",
	Short: "Send one command line and print the reply",
	Long: `Connect, send a single command line, print whatever the device
answers within the listen window, then disconnect.

The line can be given as an argument or piped on stdin. Only the first
line of stdin is sent. Use --delay as a shortcut for "d <ms>".

Example usage:
  serialdelay send g
  serialdelay send "d 12.5" --port /dev/ttyACM0
  serialdelay send --delay 20 --listen 1s
  echo h | serialdelay send`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		line, err := sendLineFromInput(cmd, args, os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client := serialdelay.NewClient(logger)
		if err := sendAndListen(ctx, client, line, viper.GetDuration("listen"), os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().DurationP("listen", "l", 500*time.Millisecond, "How long to print device output after sending")
	sendCmd.Flags().Float64P("delay", "d", 0, "Send the set-delay command for this value in ms")
	cobra.CheckErr(viper.BindPFlag("listen", sendCmd.Flags().Lookup("listen")))
}

// sendLineFromInput picks the line to send from --delay, the argument or stdin
func sendLineFromInput(cmd *cobra.Command, args []string, stdin io.Reader) (string, error) {
	if cmd.Flags().Changed("delay") {
		if len(args) > 0 {
			return "", fmt.Errorf("--delay and a line argument are mutually exclusive")
		}
		v, _ := cmd.Flags().GetFloat64("delay")
		return serialdelay.FormatDelay(v), nil
	}
	if len(args) == 1 {
		return args[0], nil
	}

	if f, ok := stdin.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || (stat.Mode()&os.ModeCharDevice) != 0 {
			return "", fmt.Errorf("nothing to send: pass a line or pipe one on stdin")
		}
	}
	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return "", fmt.Errorf("nothing to send: stdin was empty")
	}
	return strings.TrimRight(scanner.Text(), "\r\n"), nil
}

// sendClient is the part of *serialdelay.Client used by send
type sendClient interface {
	lineClient
	Connect(port string, opts ...serialdelay.Option) error
	Disconnect()
}

func sendAndListen(ctx context.Context, client sendClient, line string, listen time.Duration, out io.Writer) error {
	infoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("99")).
		Bold(true)

	successStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("40")).
		Bold(true)

	// Validate before touching the port
	if _, err := serialdelay.EncodeLine(line); err != nil {
		return err
	}

	port, err := resolvePort(client.ListPorts)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s Opening %s...\n", infoStyle.Render("⚡"), port)
	if err := client.Connect(port, connectOptions()...); err != nil {
		return err
	}
	defer client.Disconnect()

	if err := client.SendLine(line); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s Sent %q\n", successStyle.Render("✓"), strings.TrimSpace(line))

	if listen <= 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, listen)
	defer cancel()
	printOutput(ctx, out, client.Output())
	return nil
}
