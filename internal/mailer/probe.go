package mailer

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/proxy"
)

// ErrUnexpectedGreeting is returned when the server does not answer with 220.
var ErrUnexpectedGreeting = errors.New("unexpected SMTP greeting")

// defaultProbeTimeout bounds the whole probe, TLS handshake included.
const defaultProbeTimeout = 10 * time.Second

// ProbeResult describes the greeting of an SMTP server.
type ProbeResult struct {
	// Address is the host:port that was dialed.
	Address string

	// Banner is the full 220 greeting, one line per continuation.
	Banner string

	// Hostname is the name the server announces in its greeting.
	Hostname string

	// Software is a best guess of the server software, or empty.
	Software string

	ESMTP bool

	// TLS is true when the connection used implicit TLS.
	TLS bool

	Latency time.Duration
}

// Prober checks that an SMTP server is reachable without sending mail.
type Prober struct {
	dialer    proxy.Dialer
	timeout   time.Duration
	tlsConfig *tls.Config
}

// ProbeOption configures a Prober.
type ProbeOption func(*Prober)

// WithProbeTimeout sets the overall probe timeout.
func WithProbeTimeout(d time.Duration) ProbeOption {
	return func(p *Prober) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithProbeDialer replaces the dialer. The default honors ALL_PROXY and
// NO_PROXY through proxy.FromEnvironment.
func WithProbeDialer(d proxy.Dialer) ProbeOption {
	return func(p *Prober) {
		p.dialer = d
	}
}

// WithProbeTLSConfig sets the TLS configuration used for implicit TLS.
func WithProbeTLSConfig(c *tls.Config) ProbeOption {
	return func(p *Prober) {
		p.tlsConfig = c
	}
}

// NewProber creates a Prober.
func NewProber(opts ...ProbeOption) *Prober {
	p := &Prober{timeout: defaultProbeTimeout}
	for _, opt := range opts {
		opt(p)
	}
	if p.dialer == nil {
		p.dialer = proxy.FromEnvironmentUsing(&net.Dialer{Timeout: p.timeout})
	}
	return p
}

// Probe connects to host:port, reads the 220 greeting and says QUIT.
// With secure set, the TLS handshake happens before the greeting.
func (p *Prober) Probe(ctx context.Context, host string, port int, secure bool) (*ProbeResult, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	result := &ProbeResult{Address: addr}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	conn, err := p.dialWithContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("failed to set deadline: %w", err)
		}
	}

	if secure {
		cfg := p.tlsConfig
		if cfg == nil {
			cfg = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		cfg = cfg.Clone()
		if cfg.ServerName == "" {
			cfg.ServerName = host
		}
		tlsConn := tls.Client(conn, cfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return nil, fmt.Errorf("TLS handshake with %s failed: %w", addr, err)
		}
		conn = tlsConn
		result.TLS = true
	}

	banner, err := readGreeting(bufio.NewReader(conn))
	if err != nil {
		return nil, err
	}
	result.Latency = time.Since(start)
	result.Banner = banner
	analyzeBanner(result)

	_, _ = conn.Write([]byte("QUIT\r\n")) //nolint:errcheck // best effort goodbye
	return result, nil
}

// dialWithContext dials through the configured dialer and gives up when ctx
// is done.
func (p *Prober) dialWithContext(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := p.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan dialResult, 1)
	go func() {
		conn, err := p.dialer.Dial(network, address)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case <-ctx.Done():
		go func() {
			if r := <-resultCh; r.conn != nil {
				_ = r.conn.Close()
			}
		}()
		return nil, ctx.Err()
	case r := <-resultCh:
		return r.conn, r.err
	}
}

// readGreeting reads a possibly multi-line 220 reply ("220-..." continues,
// "220 ..." ends it).
func readGreeting(r *bufio.Reader) (string, error) {
	var lines []string
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read greeting: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")
		if !strings.HasPrefix(line, "220") {
			return "", fmt.Errorf("%w: %q", ErrUnexpectedGreeting, line)
		}
		lines = append(lines, line)
		if !strings.HasPrefix(line, "220-") {
			return strings.Join(lines, "\n"), nil
		}
	}
}

// analyzeBanner fills the hostname, software and ESMTP fields.
func analyzeBanner(result *ProbeResult) {
	first, _, _ := strings.Cut(result.Banner, "\n")
	first = strings.TrimPrefix(strings.TrimPrefix(first, "220-"), "220 ")
	if fields := strings.Fields(first); len(fields) > 0 {
		if h := fields[0]; strings.Contains(h, ".") && !strings.Contains(h, "@") {
			result.Hostname = h
		}
	}

	lower := strings.ToLower(result.Banner)
	result.ESMTP = strings.Contains(lower, "esmtp")

	switch {
	case strings.Contains(lower, "postfix"):
		result.Software = "Postfix"
	case strings.Contains(lower, "exim"):
		result.Software = "Exim"
	case strings.Contains(lower, "sendmail"):
		result.Software = "Sendmail"
	case strings.Contains(lower, "microsoft"):
		result.Software = "Microsoft Exchange"
	case strings.Contains(lower, "gsmtp"):
		result.Software = "Gmail"
	case strings.Contains(lower, "haraka"):
		result.Software = "Haraka"
	}
}
