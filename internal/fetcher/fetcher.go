package fetcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/nao1215/workshopgen/internal/model"
	"golang.org/x/net/html/charset"
)

// CollectionMarker is present in every collection page, including empty
// collections, and absent from single item pages.
//
// Design decision: Steam answers an unknown or private collection ID with
// status 200 and an error page, and a single item ID with the item page.
// Both parse without error and would yield an empty workshop file, so the
// status check alone cannot tell them apart from a real collection. The
// marker check rejects them before anything is written.
const CollectionMarker = "collectionChildren"

// Fetcher downloads collection pages.
type Fetcher struct {
	// client is the resty client used for the single GET request.
	client *resty.Client

	// marker is the substring a valid collection page must contain.
	marker string

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient sets a custom resty client. The client is used as given:
// call Instrument on it once if request logging is wanted.
func WithClient(client *resty.Client) Option {
	return func(f *Fetcher) {
		f.client = client
	}
}

// WithMarker overrides the collection marker. An empty marker disables
// the check.
func WithMarker(marker string) Option {
	return func(f *Fetcher) {
		f.marker = marker
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{
		marker: CollectionMarker,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = resty.New()
		Instrument(f.client, f.logger)
	}

	return f
}

// Instrument registers hooks on client that log each request and response
// at debug level. Hooks accumulate, so call it once per client.
func Instrument(client *resty.Client, logger *slog.Logger) {
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		logger.DebugContext(req.Context(), "start request", "method", req.Method, "url", req.URL)
		return nil
	})
	client.OnAfterResponse(func(_ *resty.Client, res *resty.Response) error {
		logger.DebugContext(res.Request.Context(), "got response",
			"url", res.Request.URL,
			"status", res.StatusCode(),
			"bytes", len(res.Body()),
			"elapsed", res.Time(),
			"set-cookie", res.Header().Get("Set-Cookie"),
		)
		return nil
	})
}

// Fetch performs one GET on url and returns the decoded page.
// It returns *FetchError for a non-200 status and *InvalidCollectionError
// when the body lacks the collection marker.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*model.Page, error) {
	f.logger.InfoContext(ctx, fmt.Sprintf("Getting content of %s...", url))

	res, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", url, err)
	}

	if res.StatusCode() != http.StatusOK {
		return nil, &FetchError{URL: url, StatusCode: res.StatusCode()}
	}

	raw := res.Body()
	contentType := res.Header().Get("Content-Type")

	body, err := decode(raw, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	page := &model.Page{
		URL:         url,
		StatusCode:  res.StatusCode(),
		ContentType: contentType,
		Body:        body,
	}
	page.ComputeHash(raw)

	if f.marker != "" && !page.Contains(f.marker) {
		return nil, &InvalidCollectionError{URL: url, Marker: f.marker}
	}

	return page, nil
}

// decode converts raw to UTF-8 using the charset from contentType or,
// failing that, the charset declared in the document.
func decode(raw []byte, contentType string) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}
	decoded, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
