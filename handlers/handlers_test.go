package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"survivor-league/models"
	"survivor-league/services"
)

func TestPublicReadRoutes(t *testing.T) {
	testCases := []struct {
		desc     string
		path     string
		expected int
	}{
		{"cast", "/api/cast/49", http.StatusOK},
		{"cast season zero", "/api/cast/0", http.StatusBadRequest},
		{"cast non-numeric season", "/api/cast/forty", http.StatusBadRequest},
		{"tribes", "/api/player-tribes/49", http.StatusOK},
		{"scoring table", "/api/scoring", http.StatusOK},
		{"player profile", "/api/players/3", http.StatusOK},
		{"pick'em score", "/api/pick-ems/score?season=49&week=1", http.StatusOK},
		{"pick'em score bad week", "/api/pick-ems/score?week=x", http.StatusBadRequest},
		{"leaderboard", "/api/pickem-leaderboard?season=49", http.StatusOK},
		{"health", "/healthz", http.StatusOK},
		{"unknown route", "/api/nope", http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newRouterFixture()
			rec := f.do(http.MethodGet, tc.path, "", "")
			assertStatus(t, rec, tc.expected)
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, expected application/json", ct)
			}
		})
	}
}

func TestEmptyListsEncodeAsArrays(t *testing.T) {
	f := newRouterFixture()

	for _, path := range []string{"/api/cast/49", "/api/player-tribes/49", "/api/pick-ems/score", "/api/pickem-leaderboard"} {
		rec := f.do(http.MethodGet, path, "", "")
		if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
			t.Errorf("%s body = %s, expected []", path, body)
		}
	}
}

func TestContestantRankEncoding(t *testing.T) {
	testCases := []struct {
		desc     string
		rank     services.ContestantRank
		expected string
	}{
		{"ranked", services.ContestantRank{ContestantID: 4, Rank: 2}, `{"rank":2}`},
		{"everyone even", services.ContestantRank{ContestantID: 4, Even: true}, `{"rank":"even"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newRouterFixture()
			rank := tc.rank
			f.contestants.rank = &rank

			rec := f.do(http.MethodGet, "/api/contestant-rank/4", "", "")
			assertStatus(t, rec, http.StatusOK)
			if body := strings.TrimSpace(rec.Body.String()); body != tc.expected {
				t.Errorf("body = %s, expected %s", body, tc.expected)
			}
		})
	}
}

func TestServiceErrorMapping(t *testing.T) {
	testCases := []struct {
		desc     string
		err      error
		status   int
		response string
	}{
		{"not found", fmt.Errorf("contestant 9: %w", services.ErrNotFound), http.StatusNotFound, "not found"},
		{"invalid input", fmt.Errorf("bad: %w", services.ErrInvalidInput), http.StatusBadRequest, "bad: invalid input"},
		{"unexpected", errBoom, http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newRouterFixture()
			f.contestants.err = tc.err

			rec := f.do(http.MethodGet, "/api/contestant-rank/9", "", "")
			assertStatus(t, rec, tc.status)

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if body["error"] != tc.response {
				t.Errorf("error = %q, expected %q", body["error"], tc.response)
			}
		})
	}
}

func TestAddPlayer(t *testing.T) {
	f := newRouterFixture()
	body := `{"email":"a@b.c","name":"Ann","tribeName":"Torches","color":"#fff","emoji":"🔥","tribeArray":[1,2,3,4,5,6]}`

	rec := f.do(http.MethodPost, "/api/add-player", "", body)
	assertStatus(t, rec, http.StatusCreated)

	var resp map[string]string
	json.Unmarshal(rec.Body.Bytes(), &resp)
	if len(resp["tribeId"]) != 24 {
		t.Errorf("expected a hex tribe id, got %q", resp["tribeId"])
	}
	if f.tribes.added == nil || len(f.tribes.added.TribeIDs) != 6 {
		t.Errorf("request not passed through: %+v", f.tribes.added)
	}

	assertStatus(t, f.do(http.MethodPost, "/api/add-player", "", `{"email":`), http.StatusBadRequest)
	assertStatus(t, f.do(http.MethodPost, "/api/add-player", "", `{"unknown":1}`), http.StatusBadRequest)
}

func TestPickEmListUsesCaller(t *testing.T) {
	f := newRouterFixture()

	assertStatus(t, f.do(http.MethodGet, "/api/pick-ems/list?season=49&week=2", "", ""), http.StatusOK)
	if f.pickems.listedFor != 0 {
		t.Errorf("anonymous list used player %d", f.pickems.listedFor)
	}

	assertStatus(t, f.do(http.MethodGet, "/api/pick-ems/list", "ann-token", ""), http.StatusOK)
	if f.pickems.listedFor != 1 {
		t.Errorf("authenticated list used player %d, expected 1", f.pickems.listedFor)
	}

	// An invalid token is treated as anonymous on optional-auth routes
	assertStatus(t, f.do(http.MethodGet, "/api/pick-ems/list", "stale-token", ""), http.StatusOK)
}

func TestPickEmSubmit(t *testing.T) {
	body := `{"season":49,"week":1,"picks":[{"pickId":1,"selection":7}]}`

	testCases := []struct {
		desc   string
		token  string
		err    error
		status int
		reason string
	}{
		{"saved", "ann-token", nil, http.StatusOK, ""},
		{"unauthenticated", "", nil, http.StatusUnauthorized, ""},
		{"after lock", "ann-token", fmt.Errorf("week 1: %w", services.ErrLocked), http.StatusConflict, ReasonTime},
		{"scored", "ann-token", fmt.Errorf("pick'em 1: %w", services.ErrScored), http.StatusConflict, ReasonScored},
		{"unknown option", "ann-token", fmt.Errorf("option 8: %w", services.ErrInvalidInput), http.StatusBadRequest, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newRouterFixture()
			f.pickems.err = tc.err

			rec := f.do(http.MethodPost, "/api/pick-ems/submit", tc.token, body)
			assertStatus(t, rec, tc.status)

			var resp map[string]any
			json.Unmarshal(rec.Body.Bytes(), &resp)
			if tc.reason != "" && resp["reason"] != tc.reason {
				t.Errorf("reason = %v, expected %s", resp["reason"], tc.reason)
			}
			if tc.status == http.StatusOK && f.pickems.submittedBy != 1 {
				t.Errorf("submitted by %d, expected player 1", f.pickems.submittedBy)
			}
		})
	}
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	testCases := []struct {
		desc   string
		token  string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"player", "ann-token", http.StatusForbidden},
		{"admin", "admin-token", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newRouterFixture()
			rec := f.do(http.MethodPut, "/api/admin/pick-ems/3/answers", tc.token, `{"answers":[7]}`)
			assertStatus(t, rec, tc.status)

			if tc.status == http.StatusOK && (len(f.pickems.answers) != 1 || f.pickems.answers[0] != 7) {
				t.Errorf("answers not passed through: %v", f.pickems.answers)
			}
			if tc.status != http.StatusOK && f.pickems.answers != nil {
				t.Error("rejected request reached the service")
			}
		})
	}
}

func TestAdminUpdateStatsAndCreateMarket(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPut, "/api/admin/contestants/5", "admin-token", `{"immunityWins":2,"madeMerge":true}`)
	assertStatus(t, rec, http.StatusOK)
	if f.contestants.updated.ImmunityWins != 2 || !f.contestants.updated.MadeMerge {
		t.Errorf("stats not passed through: %+v", f.contestants.updated)
	}

	market := `{"season":49,"week":3,"question":"Who goes home?","options":[{"id":1,"label":"A","type":"contestant","value":"5","pointValue":100}]}`
	rec = f.do(http.MethodPost, "/api/admin/pick-ems", "admin-token", market)
	assertStatus(t, rec, http.StatusCreated)

	var created models.PickEm
	json.Unmarshal(rec.Body.Bytes(), &created)
	if created.ID != 1 || created.Options[0].Kind != models.OptionContestant {
		t.Errorf("unexpected market %+v", created)
	}
}

func TestSecurityAndRequestIDHeaders(t *testing.T) {
	f := newRouterFixture()
	rec := f.do(http.MethodGet, "/api/scoring", "", "")

	for _, key := range []string{"X-Request-ID", "X-Frame-Options", "X-Content-Type-Options", "Content-Security-Policy", "Strict-Transport-Security"} {
		assertHeader(t, rec, key)
	}
}
