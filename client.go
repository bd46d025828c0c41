package powerof10

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/pfrederiksen/powerof10/internal/logger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	BaseURL   = "https://www.thepowerof10.info"
	UserAgent = "po10/1.0 (github.com/pfrederiksen/powerof10)"
	Timeout   = 30 * time.Second
)

var tracer = otel.Tracer("github.com/pfrederiksen/powerof10")

// PageRecorder receives the raw body of every page fetched with status 200.
type PageRecorder interface {
	Record(op, query string, body []byte) error
}

// Client fetches and extracts pages from the site. A Client has no per-call
// state and may be shared between goroutines.
type Client struct {
	http     *resty.Client
	baseURL  string
	log      *logger.Logger
	recorder PageRecorder
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another host, e.g. a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.http.SetHeader("User-Agent", ua)
	}
}

// WithLogger sets the logger for fetch and classification events. The
// default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) {
		c.log = l
		c.http.SetLogger(restyLogger{l})
	}
}

// WithCapture stores every fetched page, typically to a dump directory.
func WithCapture(r PageRecorder) Option {
	return func(c *Client) {
		c.recorder = r
	}
}

// WithHTTPClient replaces the underlying resty client. Options applied
// before it that configure the transport are lost.
func WithHTTPClient(rc *resty.Client) Option {
	return func(c *Client) {
		c.http = rc
	}
}

// New creates a Client for the public site.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: BaseURL,
		log:     logger.Nop(),
	}
	c.http = resty.New().
		SetTimeout(Timeout).
		SetHeader("User-Agent", UserAgent).
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetLogger(restyLogger{c.log})

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// page is a parsed response together with where the request ended up.
type page struct {
	doc      *goquery.Document
	path     string
	finalURL *url.URL
}

// redirected reports whether the site answered from a different path than
// the one requested.
func (p *page) redirected() bool {
	return p.finalURL != nil && !strings.HasSuffix(p.finalURL.Path, p.path)
}

// fetch performs the single GET behind an operation.
func (c *Client) fetch(ctx context.Context, op string, q *query) (*page, error) {
	target := c.baseURL + q.String()

	ctx, span := tracer.Start(ctx, op, trace.WithAttributes(
		attribute.String("po10.path", q.path),
		attribute.String("po10.url", target),
	))
	defer span.End()

	log := c.log.With(logger.Fields{"op": op})
	log.Debug("fetching page", logger.Fields{"url": target})

	start := time.Now()
	res, err := c.http.R().
		SetContext(ctx).
		Get(target)
	logger.RecordTiming("fetch."+op, time.Since(start))

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		logger.IncrCounter("fetch." + op + ".errors")
		log.Warn("fetch failed", logger.Fields{"url": target, "error": err.Error()})
		return nil, transportError(op, fmt.Errorf("fetching page: %w", err))
	}

	if res.StatusCode() != http.StatusOK {
		span.SetStatus(codes.Error, "unexpected status")
		logger.IncrCounter("fetch." + op + ".errors")
		log.Warn("unexpected status", logger.Fields{"url": target, "status": res.StatusCode()})
		return nil, transportError(op, fmt.Errorf("unexpected status code: %d", res.StatusCode()))
	}

	if c.recorder != nil {
		if err := c.recorder.Record(op, q.String(), res.Body()); err != nil {
			log.Warn("recording page", logger.Fields{"error": err.Error()})
		}
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse html")
		return nil, &Error{Kind: KindExtraction, Op: op, Msg: "parsing HTML", Err: err}
	}

	p := &page{doc: doc, path: q.path}
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		p.finalURL = res.RawResponse.Request.URL
	}
	log.Debug("fetched page", logger.Fields{
		"status":     res.StatusCode(),
		"bytes":      len(res.Body()),
		"redirected": p.redirected(),
	})
	return p, nil
}

// restyLogger routes resty's own messages through our logger.
type restyLogger struct {
	log *logger.Logger
}

func (r restyLogger) Errorf(format string, v ...interface{}) {
	r.log.Error("resty", logger.Fields{"detail": fmt.Sprintf(format, v...)}, nil)
}

func (r restyLogger) Warnf(format string, v ...interface{}) {
	r.log.Warn("resty", logger.Fields{"detail": fmt.Sprintf(format, v...)})
}

func (r restyLogger) Debugf(format string, v ...interface{}) {
	r.log.Debug("resty", logger.Fields{"detail": fmt.Sprintf(format, v...)})
}
