// Package httpclient es el GET JSON compartido por los adapters REST:
// rate limiting, retries con backoff exponencial y errores uniformes.
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 10 * time.Second

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

// Config contiene los parámetros del client.
type Config struct {
	Name       string  // prefijo de los logs ("kalshi", "odds api")
	RatePerSec float64 // requests por segundo
	Burst      int
	Timeout    time.Duration // por request, incluye retries

	// Header se añade a cada request.
	Header http.Header
	// OnResponse se llama con cada respuesta 2xx antes de decodificarla.
	OnResponse func(*http.Response)
}

// Client hace GETs JSON con rate limiting y retries.
type Client struct {
	http       *http.Client
	name       string
	timeout    time.Duration
	header     http.Header
	onResponse func(*http.Response)
	limiter    *rate.Limiter
	retryWait  time.Duration
}

// New crea un Client. Timeout <= 0 usa 10s.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		http:       &http.Client{Timeout: cfg.Timeout},
		name:       cfg.Name,
		timeout:    cfg.Timeout,
		header:     cfg.Header,
		onResponse: cfg.OnResponse,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSec), cfg.Burst),
		retryWait:  baseRetryWait,
	}
}

// GetJSON hace un GET y decodifica el body en out.
//
// Cada llamada tiene su propio deadline (Timeout) que cubre la espera del
// limiter, los retries y el backoff. 429 y 5xx se reintentan hasta maxRetries;
// cualquier otro 4xx falla sin reintentar.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		for k, vs := range c.header {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries || ctx.Err() != nil {
				return fmt.Errorf("request failed after %d attempts: %w", attempt+1, err)
			}
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("status %d after %d retries", resp.StatusCode, maxRetries)
			}
			slog.Warn(c.name+" retry", "status", resp.StatusCode, "attempt", attempt+1)
			c.backoff(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		if c.onResponse != nil {
			c.onResponse(resp)
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

// backoff espera con backoff exponencial, respetando el contexto.
func (c *Client) backoff(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * c.retryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
