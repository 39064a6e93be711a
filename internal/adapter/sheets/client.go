// Package sheets submits orders and product requests to the shop's
// spreadsheet web app endpoint.
package sheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/sony/gobreaker/v2"
)

const (
	defaultTimeout      = 15 * time.Second
	defaultMaxFailures  = 5
	defaultOpenInterval = 30 * time.Second
)

var _ port.Submitter = (*Client)(nil)

type Opt func(*opts) error

type opts struct {
	httpClient   *http.Client
	maxFailures  uint32
	openInterval time.Duration
}

func HTTPClientOpt(c *http.Client) Opt {
	return func(o *opts) error {
		if c == nil {
			return errors.New("http client is nil")
		}
		o.httpClient = c
		return nil
	}
}

func TimeoutOpt(d time.Duration) Opt {
	return func(o *opts) error {
		if d <= 0 {
			return fmt.Errorf("invalid timeout %s", d)
		}
		o.httpClient = &http.Client{Timeout: d}
		return nil
	}
}

// BreakerOpt trips the breaker after maxFailures consecutive failures and
// keeps it open for openInterval.
func BreakerOpt(maxFailures uint32, openInterval time.Duration) Opt {
	return func(o *opts) error {
		if maxFailures == 0 || openInterval <= 0 {
			return errors.New("invalid breaker settings")
		}
		o.maxFailures = maxFailures
		o.openInterval = openInterval
		return nil
	}
}

type Client struct {
	endpoint string
	http     *http.Client
	breaker  *gobreaker.CircuitBreaker[struct{}]
}

func New(endpoint string, options ...Opt) (*Client, error) {
	const op = "sheets.New"

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%s: unsupported endpoint %q", op, endpoint)
	}

	o := opts{
		httpClient:   &http.Client{Timeout: defaultTimeout},
		maxFailures:  defaultMaxFailures,
		openInterval: defaultOpenInterval,
	}
	for _, opt := range options {
		if err := opt(&o); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	maxFailures := o.maxFailures
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:    "sheets",
		Timeout: o.openInterval,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed",
				"op", "sheets.breaker", "name", name,
				"from", from.String(), "to", to.String(),
			)
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Client{endpoint: endpoint, http: o.httpClient, breaker: breaker}, nil
}

func (c *Client) SubmitOrder(ctx context.Context, o domain.Order) error {
	const op = "Client.SubmitOrder"

	if err := c.post(ctx, actionSubmitOrder, toOrderPayload(o)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (c *Client) RequestProduct(ctx context.Context, r domain.ProductRequest) error {
	const op = "Client.RequestProduct"

	if err := c.post(ctx, actionRequestProduct, toProductRequestPayload(r)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// post sends one form encoded submission. Every failure, including an
// open breaker, wraps [domain.ErrSubmissionFailed].
func (c *Client) post(ctx context.Context, action string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}
	form := url.Values{}
	form.Set("action", action)
	form.Set("data", string(data))

	_, err = c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.do(ctx, form)
	})
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSubmissionFailed, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, form url.Values) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("endpoint returned %d: %s", resp.StatusCode, body)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
