package browse

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/mvolkova/plateful/pkg/log"
)

var logger = log.ForComponent("browse")

// Searcher issues search requests with an at-most-one-in-flight policy:
// dispatching a new search cancels the previous outstanding one, and a
// response is delivered only while its request is still the most recently
// dispatched. Delivery happens through the post hook on the owner's
// event context.
type Searcher struct {
	searchURL string
	client    *http.Client
	post      func(func())

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
}

// NewSearcher creates a searcher for the given endpoint URL. A nil
// client falls back to http.DefaultClient.
func NewSearcher(searchURL string, client *http.Client, post func(func())) *Searcher {
	if client == nil {
		client = http.DefaultClient
	}
	if post == nil {
		post = func(f func()) { f() }
	}
	return &Searcher{
		searchURL: searchURL,
		client:    client,
		post:      post,
	}
}

// Dispatch supersedes any outstanding request and issues a new one for
// the descriptor. On success deliver receives the response's html field
// (empty string when absent). Superseded and cancelled requests are
// discarded silently; other failures are logged and deliver is never
// called, leaving the results region at its last good state.
func (s *Searcher) Dispatch(d Descriptor, deliver func(html string)) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	go func() {
		html, err := s.fetch(ctx, d)

		s.post(func() {
			s.mu.Lock()
			latest := seq == s.seq
			if latest {
				s.cancel = nil
			}
			s.mu.Unlock()

			// Stale responses never touch the results, whatever their
			// arrival order: rendering follows dispatch order.
			if !latest {
				return
			}
			if err != nil {
				if !wasCancelled(err) {
					logger.Warnf("search request failed: %v", err)
				}
				return
			}
			deliver(html)
		})
	}()
}

// CancelOutstanding aborts the in-flight request, if any, without
// issuing a new one.
func (s *Searcher) CancelOutstanding() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}

func (s *Searcher) fetch(ctx context.Context, d Descriptor) (string, error) {
	requestURL := s.searchURL
	if query := d.Encode(); query != "" {
		requestURL += "?" + query
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return "", fmt.Errorf("building search request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Debugf("closing response body: %v", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	// A missing html field renders as empty, a malformed body is a failure.
	var body struct {
		HTML string `json:"html"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding search response: %w", err)
	}

	return body.HTML, nil
}

// wasCancelled reports whether err is the expected outcome of a
// superseded request rather than a real failure.
func wasCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}
