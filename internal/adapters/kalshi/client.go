package kalshi

import (
	"net/http"
	"strings"
	"time"

	"github.com/alejandrodnm/edgescan/internal/adapters/httpclient"
)

const (
	defaultBaseURL = "https://api.elections.kalshi.com/trade-api/v2"

	// Tier básico de lectura: 10 req/s.
	readRatePerSec = 10
	readBurst      = 5

	defaultTimeout  = 10 * time.Second
	defaultMaxPages = 20
)

// DefaultKeywords filtra los listings de Kalshi que son de deportes.
var DefaultKeywords = []string{
	"NFL", "NBA", "MLB", "NHL", "NCAA", "MLS", "EPL", "UFC", "WNBA",
	"Super Bowl", "World Series", "Stanley Cup",
}

// Config contiene los parámetros del client. Los vacíos usan los defaults.
type Config struct {
	BaseURL  string
	APIKey   string // opcional; se envía como Bearer
	Keywords []string
	MaxPages int
	Timeout  time.Duration // por request (cada página es un request)
}

// Client es el HTTP client de Kalshi con rate limiting y retries.
// Implementa ports.ListingProvider y ports.BookProvider.
type Client struct {
	http     *httpclient.Client
	baseURL  string
	keywords []string
	maxPages int
}

// NewClient crea un Client de Kalshi.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultKeywords
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = defaultMaxPages
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	header := http.Header{}
	if cfg.APIKey != "" {
		header.Set("Authorization", "Bearer "+cfg.APIKey)
	}
	return &Client{
		http: httpclient.New(httpclient.Config{
			Name:       "kalshi",
			RatePerSec: readRatePerSec,
			Burst:      readBurst,
			Timeout:    cfg.Timeout,
			Header:     header,
		}),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		keywords: cfg.Keywords,
		maxPages: cfg.MaxPages,
	}
}
