package oddsapi_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/alejandrodnm/edgescan/internal/adapters/oddsapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile("../../../testdata/fixtures/" + name)
	require.NoError(t, err)
	return data
}

// sportsServer sirve un fixture por clave de deporte; las claves ausentes devuelven 404.
func sportsServer(t *testing.T, bySport map[string][]byte) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "h2h", r.URL.Query().Get("markets"))
		assert.Equal(t, "american", r.URL.Query().Get("oddsFormat"))

		sport := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/v4/sports/"), "/odds")
		data, ok := bySport[sport]
		if !ok {
			http.Error(w, `{"message":"unknown sport"}`, http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
}

func TestFetchPrices_MergesInSportOrder(t *testing.T) {
	srv := sportsServer(t, map[string][]byte{
		"basketball_nba":       fixture(t, "oddsapi_nba.json"),
		"americanfootball_nfl": fixture(t, "oddsapi_nfl.json"),
	})
	defer srv.Close()

	client := oddsapi.NewClient(oddsapi.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Sports:  []string{"americanfootball_nfl", "basketball_nba"},
	})
	prices, err := client.FetchPrices(context.Background())
	require.NoError(t, err)

	assert.False(t, prices.Sample)
	assert.Equal(t, []string{
		"Buffalo Bills", "Kansas City Chiefs",
		"Boston Celtics", "Los Angeles Lakers",
	}, prices.Labels())

	odds, ok := prices.Get("Kansas City Chiefs")
	require.True(t, ok)
	assert.Equal(t, -150.0, odds) // h2h, no spreads

	odds, ok = prices.Get("Los Angeles Lakers")
	require.True(t, ok)
	assert.Equal(t, 110.0, odds) // primer bookmaker
}

func TestFetchPrices_PreferredBookmaker(t *testing.T) {
	srv := sportsServer(t, map[string][]byte{"basketball_nba": fixture(t, "oddsapi_nba.json")})
	defer srv.Close()

	client := oddsapi.NewClient(oddsapi.Config{
		BaseURL:   srv.URL,
		APIKey:    "test-key",
		Sports:    []string{"basketball_nba"},
		Bookmaker: "draftkings",
	})
	prices, err := client.FetchPrices(context.Background())
	require.NoError(t, err)

	odds, ok := prices.Get("Boston Celtics")
	require.True(t, ok)
	assert.Equal(t, -125.0, odds)
}

func TestFetchPrices_PartialFailureSkipsSport(t *testing.T) {
	srv := sportsServer(t, map[string][]byte{"basketball_nba": fixture(t, "oddsapi_nba.json")})
	defer srv.Close()

	client := oddsapi.NewClient(oddsapi.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Sports:  []string{"icehockey_nhl", "basketball_nba"},
	})
	prices, err := client.FetchPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, prices.Len())
}

func TestFetchPrices_AllSportsFail(t *testing.T) {
	srv := sportsServer(t, map[string][]byte{})
	defer srv.Close()

	client := oddsapi.NewClient(oddsapi.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Sports:  []string{"icehockey_nhl", "baseball_mlb"},
	})
	_, err := client.FetchPrices(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all sports failed")
}

func TestFetchPrices_EmptySeason(t *testing.T) {
	srv := sportsServer(t, map[string][]byte{"baseball_mlb": []byte(`[]`)})
	defer srv.Close()

	client := oddsapi.NewClient(oddsapi.Config{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Sports:  []string{"baseball_mlb"},
	})
	prices, err := client.FetchPrices(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, prices.Len())
}
