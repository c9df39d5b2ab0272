package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/franciskouaho/love-dice-sub000/internal/common"
	"github.com/franciskouaho/love-dice-sub000/internal/logging"
)

const (
	maxAttempts      = 3
	retryBaseBackoff = 200 * time.Millisecond
)

// StoreError is returned when the document store answers with an error
// status that is not a plain 404.
type StoreError struct {
	StatusCode int
	Message    string
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("document store error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Unwrap classifies the failure: 429 and 5xx statuses read as transient
// unavailability, any other 4xx as a rejection that retrying cannot fix.
func (e *StoreError) Unwrap() error {
	if e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500 {
		return common.ErrorRemoteUnavailable
	}
	return common.ErrorRemoteRejected
}

// HTTPDocumentStore talks to the document store's REST surface:
//
//	GET    {base}/{collection}/{id}
//	PUT    {base}/{collection}/{id}[?merge=true]
//	GET    {base}/{collection}?orderBy=f&dir=desc&limit=n
//	DELETE {base}/{collection}/{id}
//
// Every request carries the API key header and, when a token is set, the
// bearer ID token. Requests are bounded by the client timeout and retried
// on 5xx/429 with a small backoff; a timeout is reported like any other
// remote failure.
type HTTPDocumentStore struct {
	baseURL    string
	apiKey     string
	token      string
	httpClient *http.Client
	log        logging.Logger
}

func NewHTTPDocumentStore(baseURL, apiKey string, timeout time.Duration, log logging.Logger) *HTTPDocumentStore {
	return &HTTPDocumentStore{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// SetToken attaches the bearer ID token sent on subsequent requests.
func (s *HTTPDocumentStore) SetToken(token string) { s.token = token }

func (s *HTTPDocumentStore) GetDocument(ctx context.Context, collection, id string) (json.RawMessage, error) {
	u := fmt.Sprintf("%s/%s/%s", s.baseURL, collection, url.PathEscape(id))
	return s.do(ctx, http.MethodGet, u, nil)
}

func (s *HTTPDocumentStore) PutDocument(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	u := fmt.Sprintf("%s/%s/%s", s.baseURL, collection, url.PathEscape(id))
	if merge {
		u += "?merge=true"
	}
	body, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	_, err = s.do(ctx, http.MethodPut, u, body)
	return err
}

func (s *HTTPDocumentStore) QueryOrdered(ctx context.Context, collection, orderField string, dir Direction, limit int) ([]json.RawMessage, error) {
	q := url.Values{}
	q.Set("orderBy", orderField)
	q.Set("dir", string(dir))
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	u := fmt.Sprintf("%s/%s?%s", s.baseURL, collection, q.Encode())

	raw, err := s.do(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}
	return docs, nil
}

func (s *HTTPDocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	u := fmt.Sprintf("%s/%s/%s", s.baseURL, collection, url.PathEscape(id))
	_, err := s.do(ctx, http.MethodDelete, u, nil)
	if errors.Is(err, common.ErrorNotFound) {
		// deleting a missing document is fine
		return nil
	}
	return err
}

// do performs one HTTP exchange with retry on 429/5xx. A 404 maps to
// common.ErrorNotFound; transport errors wrap common.ErrorRemoteUnavailable.
func (s *HTTPDocumentStore) do(ctx context.Context, method, u string, body []byte) (json.RawMessage, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			backoff := retryBaseBackoff * time.Duration(1<<(attempt-2))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %w", common.ErrorRemoteUnavailable, ctx.Err())
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, u, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		if s.apiKey != "" {
			req.Header.Set(common.APIKeyHeaderName, s.apiKey)
		}
		if s.token != "" {
			req.Header.Set(common.AuthHeaderName, "Bearer "+s.token)
		}

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: %w", common.ErrorRemoteUnavailable, err)
			s.log.Warn(ctx, "document store request failed", "method", method, "url", u, "attempt", attempt, "error", err)
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, common.ErrorNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = &StoreError{StatusCode: resp.StatusCode, Message: string(data)}
			s.log.Warn(ctx, "document store retryable status", "status", resp.StatusCode, "attempt", attempt)
			continue
		case resp.StatusCode >= 400:
			return nil, &StoreError{StatusCode: resp.StatusCode, Message: string(data)}
		}

		if readErr != nil {
			lastErr = fmt.Errorf("%w: %w", common.ErrorRemoteUnavailable, readErr)
			continue
		}
		return data, nil
	}

	return nil, lastErr
}
