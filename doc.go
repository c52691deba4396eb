// Package serialdelay is a client for microcontrollers that take line-oriented
// commands over a serial port, built around adjusting a single "delay" value
// (milliseconds) while streaming whatever text the device prints.
//
// # Basic Usage
//
// Pick a port, connect with the default configuration (115200 baud, 100ms read
// timeout) and set the delay:
//
//	client := serialdelay.NewClient(logger)
//	port, ok := serialdelay.AutoPick(client.ListPorts())
//	if !ok {
//	    log.Fatal("no serial ports")
//	}
//	if err := client.Connect(port); err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Disconnect()
//
//	err := client.SetDelay(25) // writes "d 25\n"
//
// # Line Protocol
//
// Each command is one line terminated by "\n". Lines are trimmed and may not
// exceed MaxLineLength (63) characters, the size of the firmware's input buffer
// minus its terminator. Carriage returns are never sent. Besides "d <ms>" the
// firmware understands opaque single-letter commands ("h", "g", "C", "k <dB>")
// which can be sent with SendLine or SendCommand.
//
// # Device Output
//
// While connected, a background reader drains the port every 10ms and pushes
// decoded text chunks onto the client's OutputQueue. Front ends poll it:
//
//	for _, chunk := range client.Output().Drain() {
//	    fmt.Print(chunk)
//	}
//
// A read failure is reported as a "[Serial read error]" chunk and closes the
// connection; IsConnected then returns false.
//
// # Connection Options
//
//	err := client.Connect("/dev/ttyACM0",
//	    serialdelay.WithBaudRate(115200),
//	    serialdelay.WithReadTimeout(100*time.Millisecond),
//	    serialdelay.WithResetPulse(true),  // DTR low for 50ms, then high
//	    serialdelay.WithFlushOnOpen(true), // may drop the startup banner
//	)
//
// # Debouncing
//
// A Dispatcher coalesces rapid changes (a dragged slider, a held arrow key)
// into one SetDelay call after DefaultDebounce of quiet:
//
//	d := serialdelay.NewDispatcher(client, serialdelay.DefaultDebounce)
//	d.Update(10.5) // scheduled
//	d.Update(11.0) // replaces the scheduled send
//	d.Commit(12)   // sent now, pending send dropped
//
// # Error Handling
//
//	var (
//	    ErrConnection     // device could not be opened (see ConnectionError)
//	    ErrNotConnected   // send attempted without a connection
//	    ErrCommandTooLong // line exceeds MaxLineLength
//	)
//
// Use errors.Is() for error type checking.
package serialdelay
