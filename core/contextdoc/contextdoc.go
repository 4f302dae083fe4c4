package contextdoc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/leofalp/structguard/internal/utils"
)

const (
	// DefaultTimeout bounds a single URL fetch.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is sent with every fetch.
	DefaultUserAgent = "structguard-contextdoc/1.0"
	// DefaultMaxBodySize caps a fetched or read document (10MB).
	DefaultMaxBodySize = 10 * 1024 * 1024
	// DialTimeout is the maximum time to wait for a TCP connection.
	DialTimeout = 10 * time.Second
	// ResponseHeaderTimeout is the maximum time to wait for response headers.
	ResponseHeaderTimeout = 10 * time.Second

	maxRedirects = 10
)

var (
	// ErrEmptySource is returned for a blank path or URL.
	ErrEmptySource = errors.New("contextdoc: source cannot be empty")
	// ErrTooLarge is returned when a document exceeds the configured size.
	ErrTooLarge = errors.New("contextdoc: document exceeds maximum size")
)

// Document is one piece of context. ID is what citations refer to; an
// empty ID is filled in by [Format].
type Document struct {
	ID      string
	Origin  string
	Content string
}

// Loader reads documents from files and URLs.
type Loader struct {
	httpClient  *http.Client
	userAgent   string
	timeout     time.Duration
	maxBodySize int64
}

// Option configures a Loader.
type Option func(*Loader)

// WithHTTPClient replaces the HTTP client used for URL sources.
func WithHTTPClient(client *http.Client) Option {
	return func(l *Loader) {
		if client != nil {
			l.httpClient = client
		}
	}
}

// WithUserAgent overrides [DefaultUserAgent].
func WithUserAgent(userAgent string) Option {
	return func(l *Loader) {
		l.userAgent = userAgent
	}
}

// WithTimeout overrides [DefaultTimeout]. Non-positive values are ignored.
func WithTimeout(timeout time.Duration) Option {
	return func(l *Loader) {
		if timeout > 0 {
			l.timeout = timeout
		}
	}
}

// WithMaxBodySize overrides [DefaultMaxBodySize]. Non-positive values are
// ignored.
func WithMaxBodySize(size int64) Option {
	return func(l *Loader) {
		if size > 0 {
			l.maxBodySize = size
		}
	}
}

// NewLoader creates a Loader. The default HTTP client follows up to ten
// redirects and bounds dialing and header reads.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		userAgent:   DefaultUserAgent,
		timeout:     DefaultTimeout,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.httpClient == nil {
		l.httpClient = &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   DialTimeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: ResponseHeaderTimeout,
				ForceAttemptHTTP2:     true,
			},
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("too many redirects (>%d)", maxRedirects)
				}
				return nil
			},
		}
	}

	return l
}

// Text wraps literal text as a Document.
func Text(text string) Document {
	return Document{Origin: "text", Content: strings.TrimSpace(text)}
}

// LoadFile reads a local document. Files ending in .html or .htm are
// converted to Markdown.
func (l *Loader) LoadFile(path string) (Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Document{}, ErrEmptySource
	}

	file, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer utils.CloseWithLog(file)

	data, err := l.readLimited(file)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	content := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		content, err = toMarkdown(content)
		if err != nil {
			return Document{}, fmt.Errorf("failed to convert %s: %w", path, err)
		}
	}

	return Document{Origin: path, Content: strings.TrimSpace(content)}, nil
}

// FetchURL downloads a document. Partial URLs ("example.com/report") get an
// https:// prefix. HTML responses are converted to Markdown; other text is
// kept as is. Non-200 responses are returned as *utils.HTTPError.
func (l *Loader) FetchURL(ctx context.Context, rawURL string) (Document, error) {
	url := strings.TrimSpace(rawURL)
	if url == "" {
		return Document{}, ErrEmptySource
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", l.userAgent)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer utils.CloseWithLog(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Document{}, &utils.HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	data, err := l.readLimited(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read %s: %w", url, err)
	}

	content := string(data)
	if isHTML(resp.Header.Get("Content-Type"), content) {
		content, err = toMarkdown(content)
		if err != nil {
			return Document{}, fmt.Errorf("failed to convert %s: %w", url, err)
		}
	}

	return Document{Origin: resp.Request.URL.String(), Content: strings.TrimSpace(content)}, nil
}

func (l *Loader) readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBodySize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > l.maxBodySize {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, l.maxBodySize)
	}
	return data, nil
}

// isHTML trusts the Content-Type header and sniffs the body when it is
// missing.
func isHTML(contentType, body string) bool {
	if contentType == "" {
		contentType = http.DetectContentType([]byte(body))
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

func toMarkdown(html string) (string, error) {
	return htmltomarkdown.ConvertString(html)
}
