package demo

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/pan93412/Stats/internal/models"
)

var fixedNow = time.Date(2024, 3, 10, 14, 25, 0, 0, time.UTC)

func newTestRouter() (*Handler, *mux.Router) {
	handler := NewHandler(func() time.Time { return fixedNow })
	router := mux.NewRouter()
	NewRouter(handler, router).RegisterRoutes()
	return handler, router
}

func TestRouter_RegisterRoutes(t *testing.T) {
	_, router := newTestRouter()

	tests := []struct {
		name       string
		method     string
		path       string
		statusCode int
	}{
		{"Hourly", http.MethodGet, "/summary/hourly", http.StatusOK},
		{"URLs", http.MethodGet, "/summary/urls", http.StatusOK},
		{"Summary", http.MethodGet, "/summary", http.StatusOK},
		{"Sessions", http.MethodGet, "/sessions", http.StatusOK},
		{"Health", http.MethodGet, "/healthz", http.StatusOK},
		{"WrongMethod", http.MethodPost, "/summary", http.StatusMethodNotAllowed},
		{"Invalid Route", http.MethodGet, "/invalid", http.StatusNotFound},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			req := httptest.NewRequest(test.method, test.path, nil)
			rr := httptest.NewRecorder()

			router.ServeHTTP(rr, req)

			if rr.Code != test.statusCode {
				t.Errorf("Expected status %d, got %d", test.statusCode, rr.Code)
			}
			if rr.Code == http.StatusOK && rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Expected JSON content type, got %q", rr.Header().Get("Content-Type"))
			}
		})
	}
}

func TestHandler_HourlyPayload(t *testing.T) {
	_, router := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/summary/hourly", nil))

	var events []models.RawHourlyEvent
	if err := json.Unmarshal(rr.Body.Bytes(), &events); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(events) != HistoryHours {
		t.Fatalf("got %d events, want %d", len(events), HistoryHours)
	}
	if events[len(events)-1].Hour != "2024-03-10 14:00:00" {
		t.Errorf("last hour = %q", events[len(events)-1].Hour)
	}
	if events[0].Hour != "2024-03-08 15:00:00" {
		t.Errorf("first hour = %q", events[0].Hour)
	}
}

func TestHandler_Failing(t *testing.T) {
	handler, router := newTestRouter()
	handler.SetFailing(true)

	for _, path := range []string{"/summary/hourly", "/summary/urls", "/summary", "/sessions", "/healthz"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", path, rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/demo/fail?on=false", nil))
	if rr.Code != http.StatusOK || rr.Body.String() != "{\"failing\":false}\n" {
		t.Errorf("unexpected toggle response %d %q", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/demo/fail", nil))
	if rr.Body.String() != "{\"failing\":true}\n" {
		t.Errorf("toggle without argument = %q", rr.Body.String())
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(fixedNow)
	b := Generate(fixedNow.Add(20 * time.Minute))

	if len(a.Hourly) != len(b.Hourly) {
		t.Fatal("hourly lengths differ")
	}
	for i := range a.Hourly {
		if a.Hourly[i] != b.Hourly[i] {
			t.Fatalf("hourly[%d] differs: %+v vs %+v", i, a.Hourly[i], b.Hourly[i])
		}
	}

	var today int64
	for _, ev := range a.Hourly[HistoryHours-24:] {
		today += ev.Count
	}
	if a.Summary["pageviews_today"] != today {
		t.Errorf("pageviews_today = %v, want %d", a.Summary["pageviews_today"], today)
	}
	if len(a.Sessions) != len(liveSessions) {
		t.Errorf("got %d sessions", len(a.Sessions))
	}
	for i := 1; i < len(a.URLs); i++ {
		if a.URLs[i].Count > a.URLs[i-1].Count {
			t.Errorf("URLs not sorted at %d", i)
		}
	}
}

func TestNewServeMux(t *testing.T) {
	srv := httptest.NewServer(NewServeMux(NewHandler(nil)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode)
	}
}
