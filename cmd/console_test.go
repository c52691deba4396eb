package cmd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleForwardsLines(t *testing.T) {
	client := newFakeClient()
	client.connected = true

	in := strings.NewReader("d 20\n\n   g  \nh\n/quit\nC\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(context.Background(), in, &out, client, false))

	assert.Equal(t, []string{"d 20", "g", "h"}, client.sentLines())
}

func TestConsoleMetaCommands(t *testing.T) {
	client := newFakeClient()
	client.connected = true

	in := strings.NewReader("/PORTS\n/exit\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(context.Background(), in, &out, client, false))

	assert.Contains(t, out.String(), "/dev/ttyS0")
	assert.Contains(t, out.String(), "* /dev/ttyACM0")
	assert.Empty(t, client.sentLines())
}

func TestConsoleLocalErrors(t *testing.T) {
	client := newFakeClient()
	client.connected = true

	in := strings.NewReader(strings.Repeat("x", 64) + "\ng\n")
	var out bytes.Buffer
	require.NoError(t, runConsole(context.Background(), in, &out, client, false))

	assert.Contains(t, out.String(), "[Local] command too long")
	// the session goes on after a failure
	assert.Equal(t, []string{"g"}, client.sentLines())

	client.connected = false
	out.Reset()
	require.NoError(t, runConsole(context.Background(), strings.NewReader("g\n"), &out, client, false))
	assert.Contains(t, out.String(), "[Local] not connected")
}

func TestConsoleWriteFailure(t *testing.T) {
	client := newFakeClient()
	client.connected = true
	client.sendErr = errors.New("write to /dev/ttyACM0: input/output error")

	var out bytes.Buffer
	require.NoError(t, runConsole(context.Background(), strings.NewReader("g\n"), &out, client, false))
	assert.Equal(t, 1, strings.Count(out.String(), "[Local] write to /dev/ttyACM0: input/output error"))
}

func TestConsolePrintsDeviceOutput(t *testing.T) {
	client := newFakeClient()
	client.connected = true
	client.output.Put("delay = 20 ms\n")

	var out bytes.Buffer
	require.NoError(t, runConsole(context.Background(), strings.NewReader(""), &out, client, false))
	assert.Contains(t, out.String(), "delay = 20 ms\n")
	assert.Zero(t, client.output.Len())
}
