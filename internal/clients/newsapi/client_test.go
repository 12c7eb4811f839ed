package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestFetchNews_NoKeyReturnsNothing(t *testing.T) {
	client := NewClient("")
	items, err := client.FetchNews(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("FetchNews failed: %v", err)
	}
	if items != nil {
		t.Errorf("expected nil items without a key, got %v", items)
	}
}

func TestFetchNews_ParsesArticles(t *testing.T) {
	var capturedQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		capturedQueries = append(capturedQueries, r.URL.Query().Get("q"))
		if got := r.URL.Query().Get("apiKey"); got != "test-key" {
			t.Errorf("expected apiKey=test-key, got %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "ok",
			"totalResults": 2,
			"articles": [
				{"source": {"id": "reuters", "name": "Reuters"}, "title": "Apple launches new chip", "description": "Details on the launch", "url": "https://example.com/a", "publishedAt": "2024-03-27T10:00:00Z"},
				{"source": {"id": "", "name": "CNBC"}, "title": "Apple supply chain update", "description": "", "url": "https://example.com/b", "publishedAt": "2024-03-26T09:00:00Z"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	items, err := client.FetchNews(context.Background(), "AAPL", 5)
	if err != nil {
		t.Fatalf("FetchNews failed: %v", err)
	}

	if len(capturedQueries) != 1 || capturedQueries[0] != "AAPL stock market" {
		t.Errorf("expected single 'AAPL stock market' query, got %v", capturedQueries)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Title != "Apple launches new chip" {
		t.Errorf("unexpected title: %s", items[0].Title)
	}
	if items[0].Publisher != "Reuters" {
		t.Errorf("unexpected publisher: %s", items[0].Publisher)
	}
	if items[0].Summary != "Details on the launch" {
		t.Errorf("unexpected summary: %s", items[0].Summary)
	}
}

func TestFetchNews_FallsBackToEarningsQuery(t *testing.T) {
	var capturedQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQueries = append(capturedQueries, r.URL.Query().Get("q"))
		w.Header().Set("Content-Type", "application/json")
		if len(capturedQueries) == 1 {
			w.Write([]byte(`{"status": "ok", "totalResults": 0, "articles": []}`))
			return
		}
		w.Write([]byte(`{
			"status": "ok",
			"totalResults": 1,
			"articles": [
				{"source": {"name": "MarketWatch"}, "title": "Obscure Corp earnings beat", "description": "Q4 results", "url": "https://example.com/e", "publishedAt": "2024-03-25T08:00:00Z"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	items, err := client.FetchNews(context.Background(), "OBSC", 5)
	if err != nil {
		t.Fatalf("FetchNews failed: %v", err)
	}

	want := []string{"OBSC stock market", "OBSC earnings"}
	if len(capturedQueries) != 2 || capturedQueries[0] != want[0] || capturedQueries[1] != want[1] {
		t.Errorf("expected queries %v, got %v", want, capturedQueries)
	}
	if len(items) != 1 || items[0].Title != "Obscure Corp earnings beat" {
		t.Errorf("unexpected items: %v", items)
	}
}

func TestFetchNews_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"status":"error","code":"apiKeyInvalid"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad-key", WithBaseURL(srv.URL))
	_, err := client.FetchNews(context.Background(), "AAPL", 5)
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.StatusCode)
	}
}
