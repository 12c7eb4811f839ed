package alphavantage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchNews_ParsesFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("function"); got != "NEWS_SENTIMENT" {
			t.Errorf("expected function=NEWS_SENTIMENT, got %s", got)
		}
		if got := q.Get("tickers"); got != "NVDA" {
			t.Errorf("expected tickers=NVDA, got %s", got)
		}
		if got := q.Get("apikey"); got != "test-key" {
			t.Errorf("expected apikey=test-key, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"items": "2",
			"feed": [
				{"title": "Nvidia hits record high", "url": "https://example.com/a", "time_published": "20240327T143000", "summary": "Chip rally continues", "source": "Benzinga"},
				{"title": "", "url": "https://example.com/b", "time_published": "20240327T120000", "summary": "no title", "source": "X"},
				{"title": "Data center demand surges", "url": "https://example.com/c", "time_published": "not-a-time", "summary": "AI spend", "source": "Motley Fool"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	items, err := client.FetchNews(context.Background(), "NVDA", 5)
	if err != nil {
		t.Fatalf("FetchNews failed: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items (untitled dropped), got %d", len(items))
	}
	if items[0].Title != "Nvidia hits record high" {
		t.Errorf("unexpected title: %s", items[0].Title)
	}
	if items[0].Published != "2024-03-27 14:30" {
		t.Errorf("unexpected published: %s", items[0].Published)
	}
	if items[0].Publisher != "Benzinga" {
		t.Errorf("unexpected publisher: %s", items[0].Publisher)
	}
	if items[1].Published != "not-a-time" {
		t.Errorf("expected unparsable timestamp passed through, got %s", items[1].Published)
	}
}

func TestFetchNews_NoKeyReturnsNothing(t *testing.T) {
	client := NewClient("")
	items, err := client.FetchNews(context.Background(), "NVDA", 5)
	if err != nil {
		t.Fatalf("FetchNews failed: %v", err)
	}
	if items != nil {
		t.Errorf("expected nil items without a key, got %v", items)
	}
}

func TestFetchNews_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, err := client.FetchNews(context.Background(), "NVDA", 5)
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
}
