package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"racetally/infrastructure/fetch"
	"racetally/logging"
)

func newTestJSONFeedScraper() *JSONFeedScraper {
	logger := logging.Default()
	return NewJSONFeedScraper(fetch.NewHTTPFetcher(5*time.Second, logger), logger)
}

func serveFeed(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestJSONFeedScraper_ScrapeEvent_Success(t *testing.T) {
	feed := `{
		"event": {
			"name": "Spring 10K",
			"organiser": "harriers",
			"date": "2026-05-10",
			"distance": "10K",
			"location": "Riverside Park",
			"metadata": {"surface": "road"}
		},
		"results": [
			{"position": 1, "bib": "101", "name": "Ann Harper", "club": "Riverside Harriers", "category": "SF", "time": "38:12", "splits": {"5K": "18:55"}},
			{"position": 2, "bib": "87", "name": "Ben Okoro", "club": "Valley Striders", "category": "SM", "time": "DNF"}
		]
	}`
	server := serveFeed(t, http.StatusOK, feed)

	scraper := newTestJSONFeedScraper()
	data, err := scraper.ScrapeEvent(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, "Spring 10K", data.Event.Name)
	assert.Equal(t, "harriers", data.Event.Organiser)
	assert.Equal(t, server.URL, data.Event.URL)
	assert.Equal(t, "road", data.Event.Metadata["surface"])

	require.Len(t, data.Results, 2)
	assert.Equal(t, 2292.0, data.Results[0].FinishSeconds)
	assert.Equal(t, "18:55", data.Results[0].Splits["5K"])
	assert.Equal(t, "10K", data.Results[0].Distance)
	assert.False(t, data.Results[1].Finished())

	assert.True(t, data.HasResults())
	assert.Equal(t, []byte(feed), data.Raw)
}

func TestJSONFeedScraper_ScrapeEvent_EmptyResults(t *testing.T) {
	server := serveFeed(t, http.StatusOK, `{"event": {"name": "Spring 10K"}, "results": []}`)

	scraper := newTestJSONFeedScraper()
	data, err := scraper.ScrapeEvent(context.Background(), server.URL)

	require.NoError(t, err)
	assert.False(t, data.HasResults())
}

func TestJSONFeedScraper_ScrapeEvent_MalformedFeed(t *testing.T) {
	server := serveFeed(t, http.StatusOK, `{"event": {`)

	scraper := newTestJSONFeedScraper()
	data, err := scraper.ScrapeEvent(context.Background(), server.URL)

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "parse feed")
}

func TestJSONFeedScraper_ScrapeEvent_MissingEventName(t *testing.T) {
	server := serveFeed(t, http.StatusOK, `{"event": {"date": "2026-05-10"}, "results": []}`)

	scraper := newTestJSONFeedScraper()
	data, err := scraper.ScrapeEvent(context.Background(), server.URL)

	require.Error(t, err)
	assert.Nil(t, data)
	assert.Contains(t, err.Error(), "no event name")
}

func TestJSONFeedScraper_ScrapeEvent_ServerError(t *testing.T) {
	server := serveFeed(t, http.StatusInternalServerError, "")

	scraper := newTestJSONFeedScraper()
	data, err := scraper.ScrapeEvent(context.Background(), server.URL)

	require.Error(t, err)
	assert.Nil(t, data)
}
