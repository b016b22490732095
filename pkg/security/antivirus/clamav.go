// Package antivirus scans uploaded verification screenshots with clamd.
package antivirus

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string
	Error       error // set when the scan could not complete; Infected is then true
}

// ClamAVScanner talks to a clamd daemon over TCP or a unix socket.
type ClamAVScanner struct {
	address string
	timeout time.Duration
}

// NewClamAVScanner creates a scanner for address, "host:port" or an absolute
// socket path. A non-positive timeout means 30s.
func NewClamAVScanner(address string, timeout time.Duration) *ClamAVScanner {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClamAVScanner{address: address, timeout: timeout}
}

func (c *ClamAVScanner) Name() string {
	return "clamav"
}

func (c *ClamAVScanner) dial(ctx context.Context) (net.Conn, error) {
	network := "tcp"
	if strings.HasPrefix(c.address, "/") {
		network = "unix"
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, network, c.address)
	if err != nil {
		return nil, err
	}
	deadline := time.Now().Add(c.timeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(deadline) {
		deadline = dl
	}
	_ = conn.SetDeadline(deadline)
	return conn, nil
}

// Ping checks that clamd answers PONG.
func (c *ClamAVScanner) Ping(ctx context.Context) error {
	conn, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to clamd: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zPING\x00")); err != nil {
		return fmt.Errorf("failed to send ping: %w", err)
	}
	buf := make([]byte, 16)
	n, err := conn.Read(buf)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read pong: %w", err)
	}
	if !strings.HasPrefix(string(buf[:n]), "PONG") {
		return fmt.Errorf("unexpected clamd reply %q", strings.TrimRight(string(buf[:n]), "\x00\n"))
	}
	return nil
}

// Scan streams data to clamd with INSTREAM. Any failure to complete the scan
// is reported as infected.
func (c *ClamAVScanner) Scan(ctx context.Context, filename string, data []byte) ScanResult {
	result := ScanResult{ScannerName: c.Name()}
	fail := func(format string, err error) ScanResult {
		result.Infected = true
		result.Error = fmt.Errorf(format, err)
		return result
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return fail("failed to connect to clamd: %w", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("zINSTREAM\x00")); err != nil {
		return fail("failed to send command: %w", err)
	}

	size := make([]byte, 4)
	binary.BigEndian.PutUint32(size, uint32(len(data)))
	if _, err := conn.Write(size); err != nil {
		return fail("failed to send size: %w", err)
	}
	if _, err := conn.Write(data); err != nil {
		return fail("failed to send file data: %w", err)
	}
	if _, err := conn.Write([]byte{0, 0, 0, 0}); err != nil {
		return fail("failed to send end marker: %w", err)
	}

	reply, err := io.ReadAll(io.LimitReader(conn, 1024))
	if err != nil && len(reply) == 0 {
		return fail("failed to read response: %w", err)
	}

	// "stream: OK", "stream: Eicar-Signature FOUND" or "stream: <msg> ERROR"
	line := strings.TrimSpace(strings.TrimRight(string(reply), "\x00"))
	switch {
	case strings.HasSuffix(line, "FOUND"):
		result.Infected = true
		if _, threat, ok := strings.Cut(line, ":"); ok {
			result.ThreatName = strings.TrimSuffix(strings.TrimSpace(threat), " FOUND")
		}
	case strings.HasSuffix(line, "ERROR"):
		result.Infected = true
		result.Error = fmt.Errorf("scan error for %s: %s", filename, line)
	case !strings.HasSuffix(line, "OK"):
		result.Infected = true
		result.Error = fmt.Errorf("unexpected clamd reply %q", line)
	}
	return result
}
