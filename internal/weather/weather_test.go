package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCurrentParsesConditions(t *testing.T) {
	var gotPath, gotKey, gotQ string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		gotQ = r.URL.Query().Get("q")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"location":{"name":"Boston"},"current":{"temp_c":20.5,"condition":{"text":"Sunny"}}}`))
	}))
	defer srv.Close()

	rep, err := NewClient(srv.Client(), srv.URL+"/", "secret").Current(context.Background(), "New York")
	if err != nil {
		t.Fatalf("current failed: %v", err)
	}
	if rep.TempC != 20.5 || rep.Condition != "Sunny" || rep.Location != "New York" {
		t.Fatalf("unexpected report: %+v", rep)
	}
	if gotPath != "/v1/current.json" || gotKey != "secret" || gotQ != "New York" {
		t.Fatalf("unexpected request: %s key=%s q=%s", gotPath, gotKey, gotQ)
	}
}

func TestCurrentNon200(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error":{"message":"API key is invalid."}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(srv.Client(), srv.URL, "bad").Current(context.Background(), "Boston")

	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusForbidden {
		t.Fatalf("expected status error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected exactly one request, got %d", calls)
	}
}

func TestCurrentMalformedBody(t *testing.T) {
	for _, body := range []string{`not json`, `{"current":{}}`, `{"current":{"temp_c":"hot","condition":{"text":"x"}}}`} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		}))

		_, err := NewClient(srv.Client(), srv.URL, "k").Current(context.Background(), "Boston")
		srv.Close()

		if !errors.Is(err, ErrMalformed) {
			t.Fatalf("%s: expected ErrMalformed, got %v", body, err)
		}
	}
}

func TestCurrentTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := NewClient(nil, url, "k").Current(context.Background(), "Boston"); err == nil {
		t.Fatalf("expected transport error")
	}
}
