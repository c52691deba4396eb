/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/allbin/serialdelay"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

var errNoPorts = errors.New("no serial ports found, plug in the board and try --list")

const consolePrompt = "> "

// lineClient is the part of *serialdelay.Client the console drives
type lineClient interface {
	ListPorts() []serialdelay.PortDescriptor
	SendLine(text string) error
	Output() *serialdelay.OutputQueue
}

// runConsoleSession connects using the shared flags and runs the console
// until EOF or /quit.
func runConsoleSession(in io.Reader, out io.Writer) error {
	client := serialdelay.NewClient(logger)

	port, err := resolvePort(client.ListPorts)
	if err != nil {
		return err
	}
	if err := client.Connect(port, connectOptions()...); err != nil {
		return err
	}
	defer func() {
		client.Disconnect()
		fmt.Fprintln(out, "\nDisconnected.")
	}()

	infoStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	fmt.Fprintf(out, "%s Connected to %s @ %d.\n", infoStyle.Render("⚡"), port, client.Config().BaudRate)
	fmt.Fprintln(out, "Protocol: commands execute on LF (\\n), CR is ignored.")
	fmt.Fprintln(out, "Examples:  h   |  d 10   |  g   |  k 6   |  C")
	fmt.Fprintln(out, "Type /ports to list ports, /quit to exit.")
	fmt.Fprintln(out)

	return runConsole(context.Background(), in, out, client, viper.GetBool("table"))
}

// syncWriter serializes writes from the prompt loop and the output printer
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// runConsole reads commands from in and prints device output to out
func runConsole(ctx context.Context, in io.Reader, out io.Writer, client lineClient, table bool) error {
	ctx, cancel := context.WithCancel(ctx)
	w := &syncWriter{w: out}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		printOutput(ctx, w, client.Output())
	}()
	defer func() {
		cancel()
		wg.Wait()
		// whatever arrived after the printer stopped
		for _, chunk := range client.Output().Drain() {
			io.WriteString(w, chunk)
		}
	}()

	scanner := bufio.NewScanner(in)
	for {
		io.WriteString(w, consolePrompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "/quit", "/exit":
			return nil
		case "/ports":
			printPorts(w, client.ListPorts(), table)
			continue
		}

		if err := client.SendLine(line); err != nil {
			fmt.Fprintf(w, "[Local] %v\n", err)
		}
	}
}

// printOutput copies device text to w until ctx is done
func printOutput(ctx context.Context, w io.Writer, q *serialdelay.OutputQueue) {
	for {
		chunk, err := q.Get(ctx)
		if err != nil {
			return
		}
		io.WriteString(w, chunk)
	}
}
