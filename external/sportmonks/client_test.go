package sportmonks

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/cricket-hub/internal/domain/fixture"
	"github.com/riskibarqy/cricket-hub/internal/platform/resilience"
	"github.com/riskibarqy/cricket-hub/internal/usecase"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:      server.URL,
		Token:        "secret-token",
		Timeout:      2 * time.Second,
		MaxRetries:   maxRetries,
		RetryBackoff: time.Millisecond,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})
}

func TestClient_ListFixtures_FollowsPaginationAndDedupes(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fixtures" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api_token"); got != "secret-token" {
			t.Errorf("expected api token, got %q", got)
		}
		if got := r.URL.Query().Get("filter[starts_between]"); got != "2024-01-01T00:00:00,2024-02-01T00:00:00" {
			t.Errorf("unexpected window filter %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("page") {
		case "1":
			_, _ = w.Write([]byte(`{"data":[
				{"id":2,"starting_at":"2024-01-20T09:00:00.000000Z","type":"T20",
				 "stage":{"id":10,"name":"Regular Season","league_id":5,"season_id":2024},
				 "league":{"data":{"id":5,"name":"Big Bash League","code":"BBL","image_path":"https://img/bbl.png"}},
				 "season":{"id":2024,"name":"2024/2025"}}
			],"meta":{"pagination":{"total":3,"count":1,"per_page":1,"current_page":1,"total_pages":2}}}`))
		case "2":
			_, _ = w.Write([]byte(`{"data":[
				{"id":1,"starting_at":"2024-01-05T09:00:00.000000Z","type":"T20","stage":null},
				{"id":2,"starting_at":"2024-01-20T09:00:00.000000Z","type":"T20"}
			],"meta":{"pagination":{"total_pages":2}}}`))
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})

	client := newTestClient(t, handler, 0)
	got, err := client.ListFixtures(context.Background(), fixture.Window{
		From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 deduped fixtures, got %d", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("expected fixtures ordered by start, got %d,%d", got[0].ID, got[1].ID)
	}
	if got[0].Stage != nil {
		t.Fatalf("expected null stage relation to stay nil")
	}

	linked := got[1]
	if !linked.Linked() {
		t.Fatalf("expected fixture 2 to carry stage, league and season")
	}
	if linked.League.Code != "BBL" || linked.League.ImagePath != "https://img/bbl.png" {
		t.Fatalf("expected wrapped league relation decoded, got %+v", linked.League)
	}
	if linked.Season.Name != "2024/2025" {
		t.Fatalf("unexpected season %+v", linked.Season)
	}
	if !linked.StartingAt.Equal(time.Date(2024, 1, 20, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", linked.StartingAt)
	}
}

func TestClient_ListFixtures_RejectsInvertedWindow(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	_, err := client.ListFixtures(context.Background(), fixture.Window{
		From: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err == nil {
		t.Fatalf("expected error for inverted window")
	}
}

func TestClient_GetStage_NotFound(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/stages/11" {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"id":10,"league_id":5,"season_id":2024,"name":"Regular Season","code":"BBL","type":"Group"}}`))
	})

	client := newTestClient(t, handler, 0)

	got, found, err := client.GetStage(context.Background(), 10)
	if err != nil || !found {
		t.Fatalf("expected stage 10, found=%v err=%v", found, err)
	}
	if got.LeagueID != 5 || got.SeasonID != 2024 || got.Code != "BBL" {
		t.Fatalf("unexpected stage %+v", got)
	}

	_, found, err = client.GetStage(context.Background(), 11)
	if err != nil {
		t.Fatalf("expected not found without error, got %v", err)
	}
	if found {
		t.Fatalf("expected stage 11 to be missing")
	}
	if state := client.breaker.State(); state != resilience.CircuitStateClosed {
		t.Fatalf("not found must not trip the breaker, got %s", state)
	}
}

func TestClient_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"id":7,"starting_at":"2024-03-01T10:00:00.000000Z","type":"Test"}]}`))
	})

	client := newTestClient(t, handler, 1)
	got, err := client.ListStageFixtures(context.Background(), 10)
	if err != nil {
		t.Fatalf("list stage fixtures: %v", err)
	}
	if len(got) != 1 || got[0].Type != "Test" {
		t.Fatalf("unexpected fixtures %+v", got)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected one retry, got %d calls", calls.Load())
	}
}

func TestClient_CircuitOpensOnRepeatedFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream api_token=secret-token failed"))
	})

	client := newTestClient(t, handler, 0)
	for i := 0; i < 2; i++ {
		_, err := client.ListLiveScores(context.Background())
		if err == nil {
			t.Fatalf("expected failure on call %d", i)
		}
		if strings.Contains(err.Error(), "secret-token") {
			t.Fatalf("token leaked in error: %v", err)
		}
	}

	_, err := client.ListLiveScores(context.Background())
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable once open, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected open breaker to skip upstream, got %d calls", calls.Load())
	}
}

func TestClient_ListTeamFixturesMergesFixturesAndResults(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/teams/36" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":{"id":36,"name":"India",
			"fixtures":[{"id":3,"starting_at":"2024-06-01T10:00:00.000000Z","localteam_id":36}],
			"results":{"data":[{"id":1,"starting_at":"2024-05-01T10:00:00.000000Z","visitorteam_id":36}]}}}`))
	})

	client := newTestClient(t, handler, 0)
	got, err := client.ListTeamFixtures(context.Background(), 36)
	if err != nil {
		t.Fatalf("list team fixtures: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Fatalf("unexpected fixtures %+v", got)
	}
	if !got[0].Involves(36) || !got[1].Involves(36) {
		t.Fatalf("expected both fixtures to involve team 36")
	}
}

func TestClient_ListStandingsSortedByPosition(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[
			{"team_id":2,"position":2,"points":8,"played":6,"won":4,"lost":2,"netto_run_rate":0.41,"recent_form":["W","L"]},
			{"team_id":1,"position":1,"points":10,"played":6,"won":5,"lost":1,"team":{"id":1,"name":"Perth Scorchers","code":"PS"}}
		]}`))
	})

	client := newTestClient(t, handler, 0)
	got, err := client.ListStandings(context.Background(), 10)
	if err != nil {
		t.Fatalf("list standings: %v", err)
	}
	if len(got) != 2 || got[0].TeamName != "Perth Scorchers" || got[1].Recent != "WL" {
		t.Fatalf("unexpected standings %+v", got)
	}
}

func TestParseProviderDateTime(t *testing.T) {
	t.Parallel()

	want := time.Date(2025, 1, 10, 4, 30, 0, 0, time.UTC)
	for _, raw := range []string{"2025-01-10T04:30:00.000000Z", "2025-01-10T04:30:00Z", "2025-01-10 04:30:00", "2025-01-10T11:30:00+07:00"} {
		got := parseProviderDateTime(raw)
		if got == nil || !got.Equal(want) {
			t.Fatalf("parseProviderDateTime(%q)=%v want %v", raw, got, want)
		}
	}
	if parseProviderDateTime("not a date") != nil {
		t.Fatalf("expected nil for garbage input")
	}
}

func TestRedactAPIURL(t *testing.T) {
	t.Parallel()

	got := redactAPIURL("https://cricket.sportmonks.com/api/v2.0/fixtures?api_token=abc&page=2")
	if strings.Contains(got, "abc") || !strings.Contains(got, "api_token=REDACTED") {
		t.Fatalf("expected token redacted, got %s", got)
	}
}
