// internal/cms/client.go
package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 512
)

// ErrNoEndpoint is returned by NewClient when no GraphQL endpoint is set.
var ErrNoEndpoint = errors.New("cms: no GraphQL endpoint configured")

// StatusError is a non-200 answer from the content API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("cms: unexpected status %d: %s", e.StatusCode, e.Body)
}

// GraphQLError carries the errors array of a GraphQL response.
type GraphQLError struct {
	Messages []string
}

func (e *GraphQLError) Error() string {
	return "cms: graphql: " + strings.Join(e.Messages, "; ")
}

// Options configures a Client.
type Options struct {
	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	// FAQFields and FactFields are the number of numbered faq_title_N /
	// fact_title_N pairs the backend schema exposes.
	FAQFields  int
	FactFields int
	// RequestsPerSecond caps outgoing round trips. Zero means unlimited.
	RequestsPerSecond float64
}

// Client talks to the headless CMS GraphQL endpoint. Identical queries that
// are in flight at the same time share one round trip; nothing is cached.
type Client struct {
	endpoint   string
	http       *http.Client
	log        logrus.FieldLogger
	group      singleflight.Group
	limiter    *rate.Limiter
	faqFields  int
	factFields int
}

// NewClient validates opts and returns a ready Client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Endpoint) == "" {
		return nil, ErrNoEndpoint
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}
	return &Client{
		endpoint:   opts.Endpoint,
		http:       httpClient,
		log:        log.WithField("component", "cms"),
		limiter:    limiter,
		faqFields:  clampFields(opts.FAQFields, DefaultFAQFields),
		factFields: clampFields(opts.FactFields, DefaultFactFields),
	}, nil
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Query posts query with vars and decodes the data member into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	payload, err := json.Marshal(request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("failed to encode graphql request: %w", err)
	}

	v, err, shared := c.group.Do(string(payload), func() (any, error) {
		return c.post(ctx, payload)
	})
	if err != nil {
		return err
	}
	if shared {
		c.log.WithField("query", queryName(query)).Debug("shared in-flight query")
	}

	data, ok := v.(json.RawMessage)
	if !ok {
		return fmt.Errorf("cms: unexpected result type %T", v)
	}
	if out == nil || len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", queryName(query), err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, payload []byte) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("graphql request not sent: %w", err)
	}
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build graphql request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("graphql request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read graphql response: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"status":   resp.StatusCode,
		"bytes":    len(body),
		"duration": time.Since(start).Round(time.Millisecond).String(),
	}).Debug("graphql round trip")

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(body), maxErrorBody)}
	}

	var r response
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("failed to decode graphql envelope: %w", err)
	}
	if len(r.Errors) > 0 {
		gerr := &GraphQLError{}
		for _, e := range r.Errors {
			gerr.Messages = append(gerr.Messages, e.Message)
		}
		return nil, gerr
	}
	return r.Data, nil
}

// queryName extracts "GetModel" from "query GetModel($slug: ID!) {...}".
func queryName(q string) string {
	q = strings.TrimSpace(q)
	q = strings.TrimPrefix(q, "query")
	q = strings.TrimSpace(q)
	if i := strings.IndexAny(q, "({ \n"); i > 0 {
		return q[:i]
	}
	return "query"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
