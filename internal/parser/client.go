package parser

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// DefaultUserAgent identifies the crawler to servers.
const DefaultUserAgent = "webcrawler/1.0 (+https://github.com/nao1215/webcrawler)"

// maxRedirects caps the redirect chain of a single fetch.
const maxRedirects = 10

// ClientConfig configures NewHTTPClient.
type ClientConfig struct {
	// ProxyAddress routes all connections through a SOCKS5 proxy when set.
	// It must be in "host:port" format.
	ProxyAddress string

	// Timeout bounds a whole request including redirects and body read.
	// Zero means no timeout.
	Timeout time.Duration

	// UserAgent is sent with every request. Empty means DefaultUserAgent.
	UserAgent string

	// Headers are set on every request.
	Headers map[string]string

	// Cookie is a raw cookie string (e.g. "session=abc") sent with every request.
	Cookie string
}

// NewHTTPClient creates the HTTP client used for fetching pages.
//
// Design decisions:
//   - Cookies are kept in a jar so that sites which set a session cookie on
//     the first page can be crawled past it
//   - Redirects are capped at 10 to stop loops without breaking normal redirects
//   - Headers are injected by a RoundTripper so redirected requests carry them too
func NewHTTPClient(cfg ClientConfig) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone() //nolint:forcetypeassert // DefaultTransport is always *http.Transport
	transport.MaxIdleConnsPerHost = 8
	transport.IdleConnTimeout = 30 * time.Second

	if cfg.ProxyAddress != "" {
		if !isValidProxyAddress(cfg.ProxyAddress) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxyAddress, cfg.ProxyAddress)
		}
		dialer, err := proxy.SOCKS5("tcp", cfg.ProxyAddress, nil, proxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dialContext(dialer)
	}

	jar, _ := cookiejar.New(nil) //nolint:errcheck // cookiejar.New only fails with invalid options

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	headers := make(map[string]string, len(cfg.Headers)+1)
	headers["User-Agent"] = userAgent
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &http.Client{
		Transport: &headerInjectingTransport{
			base:    transport,
			cookie:  cfg.Cookie,
			headers: headers,
		},
		Timeout: cfg.Timeout,
		Jar:     jar,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}, nil
}

// dialContext adapts a proxy dialer to http.Transport.DialContext.
// The SOCKS5 dialer from x/net/proxy supports contexts natively; other
// dialers fall back to a plain Dial.
func dialContext(d proxy.Dialer) func(ctx context.Context, network, addr string) (net.Conn, error) {
	if cd, ok := d.(proxy.ContextDialer); ok {
		return cd.DialContext
	}
	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return d.Dial(network, addr)
	}
}

// isValidProxyAddress reports whether address is "host:port" with a
// non-empty host and a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return n >= 1 && n <= 65535
}

// headerInjectingTransport sets the configured headers and cookie on every
// request before handing it to base.
type headerInjectingTransport struct {
	base    http.RoundTripper
	cookie  string
	headers map[string]string
}

// RoundTrip implements http.RoundTripper.
func (t *headerInjectingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())

	if t.cookie != "" {
		if existing := clone.Header.Get("Cookie"); existing != "" {
			clone.Header.Set("Cookie", existing+"; "+t.cookie)
		} else {
			clone.Header.Set("Cookie", t.cookie)
		}
	}

	for key, value := range t.headers {
		clone.Header.Set(key, value)
	}

	return t.base.RoundTrip(clone)
}
