package repositories

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"storage-match-service/internal/domain"
	"storage-match-service/internal/platform/obs"
	"strings"
	"time"
)

const maxListingsBytes = 32 << 20

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.Code, e.Body)
}

// HTTPListingRepository fetches the inventory from a remote catalog that
// serves the listings document (JSON, or YAML by Content-Type).
// It is safe for concurrent use.
type HTTPListingRepository struct {
	session *http.Client
	url     string
	apiKey  string

	maxAttempts int
	backoff     time.Duration
}

func NewHTTPListingRepository(url, apiKey string) (*HTTPListingRepository, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("http listings: url is empty")
	}

	return &HTTPListingRepository{
		session:     &http.Client{Timeout: 10 * time.Second},
		url:         url,
		apiKey:      apiKey,
		maxAttempts: 4,
		backoff:     200 * time.Millisecond,
	}, nil
}

// Return all listings in document order.
func (h *HTTPListingRepository) ListListings(ctx context.Context) (_ []domain.Listing, err error) {
	defer obs.Time(ctx, "listings.http.ListListings")(&err)

	resp, err := h.doWithRetry(ctx, func() (*http.Request, error) {
		return h.newRequest(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("http listings: fetch %s: %w", h.url, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxListingsBytes+1))
	if err != nil {
		return nil, fmt.Errorf("http listings: read body: %w", err)
	}
	if len(data) > maxListingsBytes {
		return nil, fmt.Errorf("http listings: document exceeds %d bytes", maxListingsBytes)
	}

	format := "json"
	if strings.Contains(resp.Header.Get("Content-Type"), "yaml") {
		format = "yaml"
	}

	listings, err := ParseListings(data, format)
	if err != nil {
		return nil, fmt.Errorf("http listings: %w", err)
	}
	return listings, nil
}

func (h *HTTPListingRepository) newRequest(ctx context.Context) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json, application/yaml")
	if h.apiKey != "" {
		req.Header.Set("Authorization", h.apiKey)
	}

	return req, nil
}

func (h *HTTPListingRepository) do(req *http.Request) (*http.Response, error) {
	resp, err := h.session.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}
	return resp, nil
}

// doWithRetry retries transient failures (network errors, 429 and 5xx
// responses) with exponential backoff while respecting context cancellation.
func (h *HTTPListingRepository) doWithRetry(
	ctx context.Context,
	makeReq func() (*http.Request, error),
) (*http.Response, error) {
	backoff := h.backoff

	var lastErr error

	for attempt := 1; attempt <= h.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := makeReq()
		if err != nil {
			return nil, fmt.Errorf("make request: %w", err)
		}

		resp, err := h.do(req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		retry := false
		var he *httpStatusError
		if errors.As(err, &he) {
			switch he.Code {
			case 429, 500, 502, 503, 504:
				retry = true
			}
		}

		var netErr net.Error
		if !retry && errors.As(err, &netErr) {
			retry = true
		}

		if !retry || attempt == h.maxAttempts {
			return nil, lastErr
		}

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}

		backoff *= 2
	}

	return nil, lastErr
}
