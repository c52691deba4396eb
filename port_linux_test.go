//go:build linux

package serialdelay

import (
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openPTY returns a master end and the path of its slave, which stands in
// for the device node.
func openPTY(t *testing.T) (*os.File, string) {
	t.Helper()
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })
	return master, slave.Name()
}

func TestVTime(t *testing.T) {
	tests := []struct {
		timeout time.Duration
		want    uint8
	}{
		{0, 0},
		{10 * time.Millisecond, 1},
		{100 * time.Millisecond, 1},
		{250 * time.Millisecond, 2},
		{30 * time.Second, 255},
	}
	for _, tt := range tests {
		if got := vtime(Config{ReadTimeout: tt.timeout}); got != tt.want {
			t.Errorf("vtime(%v) = %d, want %d", tt.timeout, got, tt.want)
		}
	}
}

func TestGetBaudRate(t *testing.T) {
	for _, rate := range []int{9600, 115200, 921600} {
		if _, err := getBaudRate(rate); err != nil {
			t.Errorf("getBaudRate(%d) failed: %v", rate, err)
		}
	}
	if _, err := getBaudRate(12345); !errors.Is(err, ErrInvalidBaudRate) {
		t.Errorf("getBaudRate(12345) error = %v, want ErrInvalidBaudRate", err)
	}
}

func TestOpenLinkMissingDevice(t *testing.T) {
	_, err := OpenLink("/dev/does-not-exist", DefaultConfig())
	assert.Error(t, err)
}

func TestLinkRoundTrip(t *testing.T) {
	master, device := openPTY(t)

	link, err := OpenLink(device, DefaultConfig())
	require.NoError(t, err)
	defer link.Close()

	_, err = link.Write([]byte("d 20\n"))
	require.NoError(t, err)

	buf := make([]byte, 64)
	n, err := master.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "d 20\n", string(buf[:n]))

	_, err = master.Write([]byte("ok\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		n, err := link.InWaiting()
		return err == nil && n == 3
	}, time.Second, 5*time.Millisecond)

	n, err = link.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ok\n", string(buf[:n]))

	require.NoError(t, link.Close())
	assert.False(t, link.IsOpen())
	assert.ErrorIs(t, link.Close(), ErrPortClosed)
	_, err = link.Write([]byte("g\n"))
	assert.ErrorIs(t, err, ErrPortClosed)
}

func TestClientWithSimulatedDevice(t *testing.T) {
	master, device := openPTY(t)

	c := NewClient(nil)
	// a pty has no modem lines, so the reset pulse fails and is ignored
	require.NoError(t, c.Connect(device, WithResetPulse(true)))
	defer c.Disconnect()
	assert.True(t, c.IsConnected())
	assert.Equal(t, device, c.Port())

	require.NoError(t, c.SetDelay(25))
	buf := make([]byte, 64)
	n, err := master.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "d 25\n", string(buf[:n]))

	_, err = io.WriteString(master, "delay set to 25 ms\n")
	require.NoError(t, err)
	out := collect(c, "ms\n", 2*time.Second)
	assert.Equal(t, "delay set to 25 ms\n", out)
	assert.False(t, strings.Contains(out, "[Serial read error]"))

	c.Disconnect()
	assert.False(t, c.IsConnected())
	assert.ErrorIs(t, c.SendLine("g"), ErrNotConnected)
}
