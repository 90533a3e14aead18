package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"survivor-league/middleware"
	"survivor-league/models"
	"survivor-league/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubContestants struct {
	cast    []*models.Contestant
	rank    *services.ContestantRank
	updated models.ContestantStats
	err     error
}

func (s *stubContestants) GetCast(ctx context.Context, season int) ([]*models.Contestant, error) {
	return s.cast, s.err
}

func (s *stubContestants) GetRank(ctx context.Context, id int) (*services.ContestantRank, error) {
	return s.rank, s.err
}

func (s *stubContestants) UpdateStats(ctx context.Context, id int, stats models.ContestantStats) (*models.Contestant, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.updated = stats
	return &models.Contestant{ID: id, Name: "Updated"}, nil
}

func (s *stubContestants) ScoringTable() services.ScoringTable {
	return services.ScoringTable{Version: models.ScoringTableVersion}
}

type stubTribes struct {
	tribes []*models.PlayerTribe
	added  *models.NewTribeRequest
	err    error
}

func (s *stubTribes) ListBySeason(ctx context.Context, season int) ([]*models.PlayerTribe, error) {
	return s.tribes, s.err
}

func (s *stubTribes) AddPlayer(ctx context.Context, req models.NewTribeRequest) (*models.PlayerTribe, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.added = &req
	return &models.PlayerTribe{ID: primitive.NewObjectID(), Name: req.TribeName}, nil
}

func (s *stubTribes) GetProfile(ctx context.Context, playerID int) (*services.PlayerProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.PlayerProfile{Player: models.Player{ID: playerID}}, nil
}

type stubPickEms struct {
	listedFor   int
	submittedBy int
	answers     []int
	err         error
}

func (s *stubPickEms) List(ctx context.Context, season, week, playerID int) (*services.PickEmWeek, error) {
	s.listedFor = playerID
	return &services.PickEmWeek{Season: season, Week: week}, s.err
}

func (s *stubPickEms) Submit(ctx context.Context, playerID int, req models.SubmitPicksRequest) error {
	if s.err != nil {
		return s.err
	}
	s.submittedBy = playerID
	return nil
}

func (s *stubPickEms) Score(ctx context.Context, season, week int) ([]models.PlayerPickEmScore, error) {
	return nil, s.err
}

func (s *stubPickEms) Leaderboard(ctx context.Context, season int) ([]*models.PlayerTribe, error) {
	return nil, s.err
}

func (s *stubPickEms) CreateMarket(ctx context.Context, market *models.PickEm) error {
	if s.err != nil {
		return s.err
	}
	market.ID = 1
	return nil
}

func (s *stubPickEms) SetAnswers(ctx context.Context, id int, answers []int) (*models.PickEm, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.answers = answers
	return &models.PickEm{ID: id, Answers: answers}, nil
}

// stubAuth accepts "<name>-token" session tokens for the players it knows
type stubAuth struct {
	players map[string]*models.Player
}

func newStubAuth() *stubAuth {
	return &stubAuth{players: map[string]*models.Player{
		"ann-token":   {ID: 1, Name: "Ann", Email: "ann@example.com"},
		"admin-token": {ID: 2, Name: "Root", Email: "root@example.com", IsAdmin: true},
	}}
}

func (s *stubAuth) RequestMagicLink(ctx context.Context, email string) (string, error) {
	if email == "ann@example.com" {
		return "selector.verifier", nil
	}
	return "", nil
}

func (s *stubAuth) VerifyMagicLink(ctx context.Context, token string) (*services.AuthResponse, error) {
	if token != "selector.verifier" {
		return nil, services.ErrUnauthorized
	}
	return &services.AuthResponse{Token: "ann-token", Player: *s.players["ann-token"]}, nil
}

func (s *stubAuth) GetPlayerFromToken(ctx context.Context, token string) (*models.Player, error) {
	if p, ok := s.players[token]; ok {
		return p, nil
	}
	return nil, services.ErrUnauthorized
}

func (s *stubAuth) IsAdmin(player *models.Player) bool {
	return player != nil && player.IsAdmin
}

func (s *stubAuth) TokenExpiry() time.Duration {
	return time.Hour
}

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

type routerFixture struct {
	router      *mux.Router
	contestants *stubContestants
	tribes      *stubTribes
	pickems     *stubPickEms
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		contestants: &stubContestants{},
		tribes:      &stubTribes{},
		pickems:     &stubPickEms{},
	}
	auth := newStubAuth()
	f.router = NewRouter(Handlers{
		Contestants: NewContestantHandler(f.contestants),
		Tribes:      NewTribeHandler(f.tribes),
		PickEms:     NewPickEmHandler(f.pickems),
		Auth:        NewAuthHandler(auth, AuthHandlerConfig{LinkBaseURL: "http://localhost/login"}),
		Health:      NewHealthHandler(stubPinger{}),
	}, middleware.NewAuthMiddleware(auth), false)
	return f
}

func (f *routerFixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

var errBoom = errors.New("boom")

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rec.Code != expected {
		t.Fatalf("status = %d, expected %d (body %s)", rec.Code, expected, rec.Body.String())
	}
}

func assertHeader(t *testing.T, rec *httptest.ResponseRecorder, key string) {
	t.Helper()
	if rec.Header().Get(key) == "" {
		t.Errorf("missing %s header", key)
	}
}


func (f *routerFixture) doWithCookie(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: token})
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}
