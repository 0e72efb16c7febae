// Package oai fetches single METS records from an OAI-PMH interface using the
// GetRecord verb.
package oai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/lehigh-university-libraries/oaistruct/internal/query"
	"github.com/sethgrid/pester"
)

// MetadataPrefix is the metadata format requested from the repository.
const MetadataPrefix = "mets"

var (
	ErrNoEndpoint   = errors.New("oai: an endpoint is required")
	ErrNoIdentifier = errors.New("oai: a record identifier is required")
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("oai: transport error")

	// UserAgent to use for requests
	UserAgent = "oaistruct/0.1.0"
)

// OAIError wraps OAI error codes and messages, e.g. idDoesNotExist.
type OAIError struct {
	Code    string
	Message string
}

func (e OAIError) Error() string {
	return fmt.Sprintf("oai: %s: %s", e.Code, e.Message)
}

// TransportError reports a failed HTTP exchange: a connection problem or a
// non-2xx status.
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("oai: GET %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("oai: GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// MalformedXMLError reports a response body that could not be parsed.
type MalformedXMLError struct {
	URL string
	Err error
}

func (e *MalformedXMLError) Error() string {
	return fmt.Sprintf("oai: response from %s: %v", e.URL, e.Err)
}

func (e *MalformedXMLError) Unwrap() error { return e.Err }

// HTTPRequestDoer lets us use pester, http.DefaultClient or other HTTP client
// implementations interchangeably.
type HTTPRequestDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client fetches records from one OAI-PMH endpoint.
type Client struct {
	BaseURL string
	doer    HTTPRequestDoer
}

// NewClient creates a client backed by a retrying pester client.
func NewClient(baseURL string, maxRetries int, timeout time.Duration) *Client {
	c := pester.New()
	c.Timeout = timeout
	c.MaxRetries = maxRetries
	c.Backoff = pester.ExponentialBackoff
	return NewClientDoer(baseURL, c)
}

// NewClientDoer creates a client with a user supplied HTTP client.
func NewClientDoer(baseURL string, doer HTTPRequestDoer) *Client {
	return &Client{BaseURL: baseURL, doer: doer}
}

// RequestURL returns the GetRecord URL for a record identifier.
func (c *Client) RequestURL(id string) (string, error) {
	if c.BaseURL == "" {
		return "", ErrNoEndpoint
	}
	if id == "" {
		return "", ErrNoIdentifier
	}
	values := url.Values{}
	values.Add("verb", "GetRecord")
	values.Add("metadataPrefix", MetadataPrefix)
	values.Add("identifier", id)
	return fmt.Sprintf("%s?%s", c.BaseURL, values.Encode()), nil
}

// GetRecord performs a single GetRecord request and returns the parsed
// response document.
func (c *Client) GetRecord(ctx context.Context, id string) (*query.Document, error) {
	link, err := c.RequestURL(id)
	if err != nil {
		return nil, err
	}
	slog.Debug("Fetching OAI-PMH record", "url", link)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, &TransportError{URL: link, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &TransportError{URL: link, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{URL: link, Err: err}
	}

	doc, err := query.ParseBytes(body)
	if err != nil {
		return nil, &MalformedXMLError{URL: link, Err: err}
	}

	errNode := query.Root("OAI-PMH", "error")
	if code := doc.Attribute(errNode, "code"); code != "" {
		return nil, OAIError{Code: code, Message: doc.Text(errNode)}
	}

	slog.Debug("Fetched OAI-PMH record", "id", id, "bytes", len(body))
	return doc, nil
}
