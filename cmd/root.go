/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/allbin/serialdelay"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is built in PersistentPreRunE once flags are parsed
var logger = zap.NewNop().Sugar()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialdelay",
	Short: "Interactive console for a serial-attached delay controller",
	Long: `Open a line console to a microcontroller that adjusts a delay parameter.

Without --port the most likely board is picked automatically (Teensy and
other USB serial devices are preferred, Bluetooth ports are avoided).

Every line you type is sent as one command terminated by a line feed.
Lines longer than 63 characters are rejected locally. The firmware
understands for example:
  h        print help
  d 10     set the delay to 10 ms
  g        print current settings
  k 6      set digital gain in dB
  C        toggle CPU/memory report

Meta-commands: /ports lists ports, /quit or /exit ends the session.

Flags can also be set through SERIALDELAY_* environment variables,
e.g. SERIALDELAY_PORT=/dev/ttyACM0 or SERIALDELAY_DTR_RESET=true.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(viper.GetBool("verbose"))
	},
	Run: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("list") {
			printPorts(os.Stdout, serialdelay.ListPorts(), viper.GetBool("table"))
			return
		}

		if err := runConsoleSession(os.Stdin, os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Connection flags are shared with every subcommand
	rootCmd.PersistentFlags().StringP("port", "p", "", "Serial port (COM5 or /dev/ttyACM0). If omitted, auto-pick")
	rootCmd.PersistentFlags().IntP("baud", "b", serialdelay.DefaultBaudRate, "Baud rate")
	rootCmd.PersistentFlags().DurationP("timeout", "t", serialdelay.DefaultReadTimeout, "Read timeout with unit, e.g. 100ms or 0.1s")
	rootCmd.PersistentFlags().Bool("dtr-reset", false, "Toggle DTR low->high after opening")
	rootCmd.PersistentFlags().Bool("flush-on-open", false, "Flush buffers after opening (WARNING: may drop startup text)")
	rootCmd.PersistentFlags().Bool("table", false, "Display port lists in a styled table format")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	rootCmd.Flags().Bool("list", false, "List available serial ports and exit")

	cobra.CheckErr(viper.BindPFlags(rootCmd.PersistentFlags()))
	cobra.CheckErr(viper.BindPFlags(rootCmd.Flags()))
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix("SERIALDELAY")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// setupLogging replaces the global zap logger. Diagnostics go to stderr so
// they never mix with device output on stdout.
func setupLogging(verbose bool, outputPaths ...string) error {
	l, err := newLogger(verbose, outputPaths...)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	zap.ReplaceGlobals(l)
	logger = l.Sugar()
	return nil
}

func newLogger(verbose bool, outputPaths ...string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	cfg.DisableStacktrace = !verbose
	if len(outputPaths) > 0 {
		cfg.OutputPaths = outputPaths
		cfg.ErrorOutputPaths = outputPaths
	}
	return cfg.Build()
}

// connectOptions turns the shared connection flags into client options
func connectOptions() []serialdelay.Option {
	return []serialdelay.Option{
		serialdelay.WithBaudRate(viper.GetInt("baud")),
		serialdelay.WithReadTimeout(viper.GetDuration("timeout")),
		serialdelay.WithResetPulse(viper.GetBool("dtr-reset")),
		serialdelay.WithFlushOnOpen(viper.GetBool("flush-on-open")),
	}
}

// resolvePort returns the --port flag or the auto-picked device
func resolvePort(ports func() []serialdelay.PortDescriptor) (string, error) {
	if port := viper.GetString("port"); port != "" {
		return port, nil
	}
	port, ok := serialdelay.AutoPick(ports())
	if !ok {
		return "", errNoPorts
	}
	logger.Debugw("Auto-picked port", "port", port)
	return port, nil
}
