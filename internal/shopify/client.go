package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/metrics"
)

const breakerName = "cart-source"

type Client struct {
	sourceURL  string
	httpClient *resty.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

// NewClient creates a client for the remote cart document
func NewClient(cfg config.CartSourceConfig, logger *zap.Logger) *Client {
	return &Client{
		sourceURL: strings.TrimSpace(cfg.URL),
		httpClient: resty.New().
			SetTimeout(cfg.FetchTimeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		breaker: newBreaker(logger),
		logger:  logger,
	}
}

func newBreaker(logger *zap.Logger) *gobreaker.CircuitBreaker {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			state := float64(0)
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}
			metrics.CircuitBreakerState.WithLabelValues(name).Set(state)

			logger.Warn("Circuit breaker state changed",
				zap.String("circuit", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

// SourceURL returns the URL the cart is fetched from
func (c *Client) SourceURL() string {
	return c.sourceURL
}

// FetchCart downloads and decodes the cart document. Only transport and
// status failures count against the circuit breaker; a payload that does not
// decode is returned as an error without tripping it.
func (c *Client) FetchCart(ctx context.Context) (*domain.Cart, error) {
	start := time.Now()
	body, err := c.breaker.Execute(func() (interface{}, error) {
		return c.get(ctx)
	})
	metrics.CartFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			return nil, fmt.Errorf("circuit breaker %s is open (cart source unavailable): %w", breakerName, err)
		}
		return nil, err
	}

	var resp CartResponse
	if err := json.Unmarshal(body.([]byte), &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cart: %w", err)
	}

	return resp.ToDomain(), nil
}

func (c *Client) get(ctx context.Context) ([]byte, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(c.sourceURL)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("cart source error: status %d, body: %s", resp.StatusCode(), truncate(resp.String(), 256))
	}

	c.logger.Debug("Fetched cart document",
		zap.String("url", c.sourceURL),
		zap.Int("bytes", len(resp.Body())),
	)
	return resp.Body(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
