package logging

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"sync"
	"time"

	"grimm.is/wpand/internal/brand"
)

const syslogDialTimeout = 5 * time.Second

// ErrSyslogClosed is returned by writes after Close.
var ErrSyslogClosed = errors.New("syslog writer closed")

// SyslogConfig holds remote syslog settings.
type SyslogConfig struct {
	Enabled  bool
	Host     string
	Port     int    // default 514
	Protocol string // udp or tcp, default udp
	Tag      string // default brand.LowerName
	Facility int    // default 1 (user)
}

// DefaultSyslogConfig returns sensible defaults.
func DefaultSyslogConfig() SyslogConfig {
	return SyslogConfig{
		Port:     514,
		Protocol: "udp",
		Tag:      brand.LowerName,
		Facility: 1,
	}
}

// SyslogWriter forwards console lines to a remote syslog server as
// RFC 3164 messages. A failed write drops the connection; the next write
// dials again.
type SyslogWriter struct {
	mu       sync.Mutex
	cfg      SyslogConfig
	addr     string
	hostname string
	conn     net.Conn
	closed   bool
}

// NewSyslogWriter dials the server described by cfg.
func NewSyslogWriter(cfg SyslogConfig) (*SyslogWriter, error) {
	if cfg.Host == "" {
		return nil, errors.New("syslog host is required")
	}
	def := DefaultSyslogConfig()
	if cfg.Port == 0 {
		cfg.Port = def.Port
	}
	if cfg.Protocol == "" {
		cfg.Protocol = def.Protocol
	}
	if cfg.Tag == "" {
		cfg.Tag = def.Tag
	}

	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = brand.LowerName
	}

	w := &SyslogWriter{
		cfg:      cfg,
		addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		hostname: hostname,
	}
	if err := w.dial(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *SyslogWriter) dial() error {
	conn, err := net.DialTimeout(w.cfg.Protocol, w.addr, syslogDialTimeout)
	if err != nil {
		return fmt.Errorf("failed to connect to syslog server %s: %w", w.addr, err)
	}
	w.conn = conn
	return nil
}

// Write sends p as one message; its severity is taken from the console
// level tag in p.
func (w *SyslogWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0, ErrSyslogClosed
	}
	if w.conn == nil {
		if err := w.dial(); err != nil {
			return 0, err
		}
	}

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "<%d>%s %s %s: ", w.cfg.Facility*8+severityOf(p),
		time.Now().Format(time.Stamp), w.hostname, w.cfg.Tag)
	msg.Write(p)

	if _, err := w.conn.Write(msg.Bytes()); err != nil {
		w.conn.Close()
		w.conn = nil
		return 0, err
	}
	return len(p), nil
}

// Close closes the connection. Later writes fail with ErrSyslogClosed.
func (w *SyslogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.conn == nil {
		return nil
	}
	err := w.conn.Close()
	w.conn = nil
	return err
}

var severityTags = []struct {
	tag      []byte
	severity int
}{
	{[]byte("[error]"), 3},
	{[]byte("[warn]"), 4},
	{[]byte("[debug]"), 7},
}

// severityOf maps a console line's level tag to an RFC 5424 severity.
func severityOf(line []byte) int {
	for _, s := range severityTags {
		if bytes.Contains(line, s.tag) {
			return s.severity
		}
	}
	return 6
}

// MultiWriter combines console and syslog outputs.
func MultiWriter(writers ...io.Writer) io.Writer {
	return io.MultiWriter(writers...)
}
