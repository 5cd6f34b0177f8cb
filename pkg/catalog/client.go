package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"github.com/byxorna/shelf/pkg/types/v1"
	"go.uber.org/zap"
)

var (
	// ErrCatalogUnavailable covers transport failures, non-success statuses
	// and bodies that cannot be decoded.
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
	// ErrItemNotFound means the service answered but has no such book.
	ErrItemNotFound = fmt.Errorf("book not found")
)

// DefaultBaseURL is where the reference json-server catalog listens.
const DefaultBaseURL = "http://localhost:4730"

// Client reads the remote catalog. It never retries.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *zap.Logger
}

func NewClient(httpClient *http.Client, baseURL string, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}

// ListBooks fetches GET /books. Records without an identifier cannot be
// favorited or opened and are skipped.
func (c *Client) ListBooks(ctx context.Context) ([]v1.Book, error) {
	var wire []wireBook
	u := c.baseURL + "/books"
	if err := c.get(ctx, u, &wire, false); err != nil {
		return nil, err
	}

	books := make([]v1.Book, 0, len(wire))
	for _, w := range wire {
		b := w.toBook()
		if err := b.Validate(); err != nil {
			c.logger.Warn("skipping catalog record", zap.String("id", string(b.ID)), zap.Error(err))
			continue
		}
		books = append(books, b)
	}
	return books, nil
}

// GetBook fetches GET /books/{id}.
func (c *Client) GetBook(ctx context.Context, id v1.ID) (v1.Book, error) {
	if strings.TrimSpace(string(id)) == "" {
		return v1.Book{}, fmt.Errorf("empty id: %w", ErrItemNotFound)
	}
	var w wireBook
	u := c.baseURL + "/books/" + url.PathEscape(string(id))
	if err := c.get(ctx, u, &w, true); err != nil {
		return v1.Book{}, err
	}
	b := w.toBook()
	if b.ID == "" {
		b.ID = id
	}
	if err := b.Validate(); err != nil {
		return v1.Book{}, fmt.Errorf("%s: %v: %w", id, err, ErrItemNotFound)
	}
	return b, nil
}

func (c *Client) get(ctx context.Context, u string, target interface{}, notFoundIsItem bool) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("GET %s: %v: %w", u, err, ErrCatalogUnavailable)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching", zap.String("url", u))
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %v: %w", u, err, ErrCatalogUnavailable)
	}
	defer func() {
		io.Copy(ioutil.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound && notFoundIsItem {
		return fmt.Errorf("GET %s: %w", u, ErrItemNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("GET %s: unexpected status code %d: %w", u, resp.StatusCode, ErrCatalogUnavailable)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("GET %s: unable to decode body: %v: %w", u, err, ErrCatalogUnavailable)
	}
	return nil
}
