// Package registry is the HTTP client for the deal registry, the system that
// owns deals. It fetches deal snapshots and forwards reviewer decisions.
package registry

import (
	"bytes"
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

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"dealchecker/internal/deal"
	dErrors "dealchecker/pkg/domain-errors"
	"dealchecker/pkg/platform/circuit"
	"dealchecker/pkg/requestcontext"
)

var tracer = otel.Tracer("dealchecker/internal/registry")

const (
	defaultTimeout = 5 * time.Second
	maxErrorBody   = 64 << 10
)

type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	breaker *circuit.Breaker
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithBreaker makes the client fail fast while the registry is unhealthy.
// Only transport failures and 5xx responses count against it.
func WithBreaker(b *circuit.Breaker) Option {
	return func(cl *Client) { cl.breaker = b }
}

func WithLogger(l *slog.Logger) Option {
	return func(cl *Client) { cl.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		timeout: defaultTimeout,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchDeal loads a deal snapshot. An unknown deal yields a ServiceError with
// code NOT_FOUND.
func (c *Client) FetchDeal(ctx context.Context, dealID string) (deal.Deal, error) {
	ctx, span := tracer.Start(ctx, "registry.FetchDeal")
	defer span.End()
	span.SetAttributes(attribute.String("deal.id", dealID))

	var env dealEnvelope
	if err := c.do(ctx, http.MethodGet, dealID, "", nil, &env); err != nil {
		return deal.Deal{}, err
	}
	if env.Deal == nil {
		return deal.Deal{}, &ServiceError{DealID: dealID, Code: CodeNotFound}
	}
	d := env.Deal.toDomain()
	if d.ID == "" {
		d.ID = dealID
	}
	d.FetchedAt = c.now()
	return d, nil
}

func (c *Client) AcceptDeal(ctx context.Context, dealID string) error {
	ctx, span := tracer.Start(ctx, "registry.AcceptDeal")
	defer span.End()
	return c.do(ctx, http.MethodPost, dealID, "/accept", struct{}{}, nil)
}

func (c *Client) RejectDeal(ctx context.Context, dealID, comment string) error {
	ctx, span := tracer.Start(ctx, "registry.RejectDeal")
	defer span.End()
	return c.do(ctx, http.MethodPost, dealID, "/reject", rejectPayload{Comment: comment}, nil)
}

func (c *Client) do(ctx context.Context, method, dealID, suffix string, body, out any) error {
	if c.breaker != nil && !c.breaker.Allow() {
		return dErrors.New(dErrors.CodeUpstream, "deal registry unavailable").
			WithDetails(map[string]any{"dealId": dealID, "circuit": c.breaker.State().String()})
	}

	callerCtx := ctx
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode registry request")
		}
		reader = bytes.NewReader(buf)
	}

	endpoint := c.baseURL + "/v1/deals/" + url.PathEscape(dealID) + suffix
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to build registry request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := requestcontext.AuthToken(ctx); token != "" {
		req.Header.Set("Authorization", token)
	}
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// An abandoned caller says nothing about registry health.
		if callerErr := callerCtx.Err(); callerErr != nil {
			return fmt.Errorf("deal registry request abandoned: %w", callerErr)
		}
		c.recordFailure(ctx)
		if errors.Is(err, context.DeadlineExceeded) {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "deal registry timed out")
		}
		return dErrors.Wrap(err, dErrors.CodeUpstream, "deal registry request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		c.recordFailure(ctx)
	} else {
		c.recordSuccess(ctx)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		return decodeServiceError(dealID, resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "invalid deal registry response")
	}
	return nil
}

func decodeServiceError(dealID string, resp *http.Response) *ServiceError {
	var payload errorPayload
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err := json.Unmarshal(raw, &payload); err != nil || payload.Code == "" {
		payload.Code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
		if resp.StatusCode == http.StatusNotFound {
			payload.Code = CodeNotFound
		}
		if payload.Details == "" {
			payload.Details = strings.TrimSpace(string(raw))
		}
	}
	return &ServiceError{DealID: dealID, Code: payload.Code, Details: payload.Details}
}

func (c *Client) recordFailure(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.WarnContext(ctx, "deal registry circuit opened", "breaker", c.breaker.Name())
	}
}

func (c *Client) recordSuccess(ctx context.Context) {
	if c.breaker == nil {
		return
	}
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "deal registry circuit closed", "breaker", c.breaker.Name())
	}
}
