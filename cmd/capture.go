/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/allbin/serialdelay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// captureCmd represents the capture command
var captureCmd = &cobra.Command{
	Use:   "capture [output-file]",
	Short: "Stream device output to the console and optionally a file",
	Long: `Connect and stream everything the device prints until interrupted (Ctrl+C).

Nothing is sent to the device. With an output file the text is appended
to it, allowing you to resume captures without overwriting existing data.

Example usage:
  serialdelay capture
  serialdelay capture session.log --port /dev/ttyACM0
  serialdelay capture session.log --quiet --dtr-reset`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var outputPath string
		if len(args) == 1 {
			outputPath = args[0]
		}

		if err := runCapture(outputPath, viper.GetBool("quiet")); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(captureCmd)

	captureCmd.Flags().BoolP("quiet", "q", false, "Do not echo device output to the console (requires an output file)")
	cobra.CheckErr(viper.BindPFlag("quiet", captureCmd.Flags().Lookup("quiet")))
}

func runCapture(outputPath string, quiet bool) error {
	if quiet && outputPath == "" {
		return fmt.Errorf("--quiet needs an output file")
	}

	var sinks []io.Writer
	if !quiet {
		sinks = append(sinks, os.Stdout)
	}
	if outputPath != "" {
		file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open output file: %w", err)
		}
		defer file.Close()
		sinks = append(sinks, file)
	}

	client := serialdelay.NewClient(logger)
	port, err := resolvePort(client.ListPorts)
	if err != nil {
		return err
	}
	if err := client.Connect(port, connectOptions()...); err != nil {
		return err
	}
	defer client.Disconnect()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Capturing output from %s\n", port)
	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Appending to %s\n", outputPath)
	}
	fmt.Fprintf(os.Stderr, "Press Ctrl+C to stop\n\n")

	start := time.Now()
	n, err := capture(ctx, client, io.MultiWriter(sinks...))
	fmt.Fprintf(os.Stderr, "\nCapture complete: %d bytes in %v\n", n, time.Since(start).Round(time.Millisecond))
	return err
}

// capture copies device output to w until ctx is done or the link is lost
func capture(ctx context.Context, client *serialdelay.Client, w io.Writer) (int64, error) {
	var written int64
	for {
		chunk, err := client.Output().Get(ctx)
		if err != nil {
			return written, nil
		}
		n, err := io.WriteString(w, chunk)
		written += int64(n)
		if err != nil {
			return written, fmt.Errorf("write error: %w", err)
		}
		if !client.IsConnected() {
			// the reader reported a failure and closed the link
			for _, rest := range client.Output().Drain() {
				n, _ := io.WriteString(w, rest)
				written += int64(n)
			}
			return written, fmt.Errorf("link to %s lost", client.Port())
		}
	}
}
