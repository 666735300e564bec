package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	dErrors "keygate/pkg/domain-errors"
)

// maxStoreBody caps the store response size to keep a misbehaving store from
// exhausting memory.
const maxStoreBody = 4 << 20

// StoreClient fetches the raw key list from a gist-style remote store:
// a GET of a named blob, authenticated by a bearer token, returning a JSON
// mapping of filenames to {content}.
type StoreClient struct {
	baseURL    string
	token      string
	storeID    string
	filename   string
	httpClient *http.Client
}

// StoreClientOption configures the StoreClient.
type StoreClientOption func(*StoreClient)

// WithHTTPClient sets a custom HTTP client (for testing).
func WithHTTPClient(client *http.Client) StoreClientOption {
	return func(c *StoreClient) {
		c.httpClient = client
	}
}

// NewStoreClient creates a client for one named blob in one store.
func NewStoreClient(baseURL, token, storeID, filename string, timeout time.Duration, opts ...StoreClientOption) *StoreClient {
	c := &StoreClient{
		baseURL:  baseURL,
		token:    token,
		storeID:  storeID,
		filename: filename,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// storeResponse is the wire shape of the store document.
type storeResponse struct {
	Files map[string]storeFile `json:"files"`
}

type storeFile struct {
	Content string `json:"content"`
}

// FetchContent retrieves the configured file's newline-delimited records.
// Every failure is reported as registry_unavailable; callers degrade it to a
// NotFound lookup.
func (c *StoreClient) FetchContent(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/gists/%s", c.baseURL, c.storeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "failed to create store request")
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "store request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStoreBody))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "failed to read store response")
	}

	return parseStoreResponse(resp.StatusCode, body, c.filename)
}

// parseStoreResponse converts the raw store reply into the blob content.
func parseStoreResponse(statusCode int, body []byte, filename string) (string, error) {
	if statusCode != http.StatusOK {
		return "", dErrors.New(dErrors.CodeRegistryUnavailable,
			fmt.Sprintf("store returned status %d", statusCode))
	}

	var doc storeResponse
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeRegistryUnavailable, "failed to unmarshal store response")
	}

	file, ok := doc.Files[filename]
	if !ok {
		return "", dErrors.New(dErrors.CodeRegistryUnavailable,
			fmt.Sprintf("store document has no file %q", filename))
	}
	return file.Content, nil
}
