package oddsapi

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alejandrodnm/edgescan/internal/adapters/httpclient"
)

const (
	defaultBaseURL = "https://api.the-odds-api.com"
	defaultRegions = "us"
	defaultTimeout = 10 * time.Second

	// The Odds API cobra por request; se limita a pocas por segundo.
	ratePerSec = 2
	rateBurst  = 4
)

// DefaultSports son las claves de deporte consultadas si no se configuran otras.
var DefaultSports = []string{
	"basketball_nba",
	"americanfootball_nfl",
	"baseball_mlb",
	"icehockey_nhl",
}

// Config contiene los parámetros del client.
type Config struct {
	BaseURL   string
	APIKey    string
	Sports    []string
	Regions   string
	Bookmaker string // preferido; si falta en un evento se usa el primero
	Timeout   time.Duration
}

// Client consulta cuotas h2h americanas. Implementa ports.PriceProvider.
type Client struct {
	http      *httpclient.Client
	baseURL   string
	apiKey    string
	sports    []string
	regions   string
	bookmaker string
}

// NewClient crea un Client de The Odds API.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if len(cfg.Sports) == 0 {
		cfg.Sports = DefaultSports
	}
	if cfg.Regions == "" {
		cfg.Regions = defaultRegions
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		http: httpclient.New(httpclient.Config{
			Name:       "odds api",
			RatePerSec: ratePerSec,
			Burst:      rateBurst,
			Timeout:    cfg.Timeout,
			OnResponse: logQuota,
		}),
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		sports:    cfg.Sports,
		regions:   cfg.Regions,
		bookmaker: cfg.Bookmaker,
	}
}

func logQuota(resp *http.Response) {
	if remaining := resp.Header.Get("x-requests-remaining"); remaining != "" {
		slog.Debug("odds api quota", "remaining", remaining)
	}
}
