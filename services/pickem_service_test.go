package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"survivor-league/models"
)

func tribeMarket(id, week int, answers ...int) *models.PickEm {
	return &models.PickEm{
		ID:       id,
		Season:   49,
		Week:     week,
		Question: "Which tribe wins immunity?",
		Options: []models.PickOption{
			{ID: 7, Label: "Luvu", Kind: models.OptionTribe, Value: "1", PointValue: 100},
			{ID: 9, Label: "Gata", Kind: models.OptionTribe, Value: "2", PointValue: 100},
		},
		Answers: answers,
	}
}

type pickEmFixture struct {
	service *PickEmService
	pickems *memoryPickEms
	picks   *memoryPicks
	players *memoryPlayers
	tribes  *memoryTribes
	tx      *countingTransactor
}

func newPickEmFixture(t *testing.T, now time.Time, ignoreLock bool) *pickEmFixture {
	t.Helper()
	f := &pickEmFixture{
		pickems: newMemoryPickEms(tribeMarket(1, 1), tribeMarket(2, 1, 7), tribeMarket(3, 2)),
		picks:   newMemoryPicks(),
		players: newMemoryPlayers(
			&models.Player{ID: 1, Email: "ann@example.com", Name: "Ann"},
			&models.Player{ID: 2, Email: "bo@example.com", Name: "Bo"},
		),
		tribes: &memoryTribes{},
		tx:     &countingTransactor{},
	}
	f.service = NewPickEmService(f.pickems, f.picks, f.players, f.tribes, f.tx, mustLockCalculator(t), nil,
		PickEmServiceConfig{CurrentSeason: 49, IgnoreLock: ignoreLock})
	f.service.now = func() time.Time { return now }
	return f
}

// 2025-09-24 12:00 PDT, five hours before the season 49 week 1 lock
var beforeWeekOneLock = time.Date(2025, 9, 24, 19, 0, 0, 0, time.UTC)
var afterWeekOneLock = time.Date(2025, 9, 25, 0, 0, 0, 0, time.UTC)

func TestSubmitStoresPicksInTransaction(t *testing.T) {
	f := newPickEmFixture(t, beforeWeekOneLock, false)
	req := models.SubmitPicksRequest{Season: 49, Week: 1, Picks: []models.PickSubmission{{PickEmID: 1, Selection: 9}}}

	if err := f.service.Submit(context.Background(), 1, req); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if f.tx.calls != 1 {
		t.Errorf("expected 1 transaction, got %d", f.tx.calls)
	}

	// Resubmitting replaces the selection
	req.Picks[0].Selection = 7
	if err := f.service.Submit(context.Background(), 1, req); err != nil {
		t.Fatalf("second Submit() error = %v", err)
	}
	stored, _ := f.picks.FindByPlayerAndWeek(context.Background(), 1, 49, 1)
	if len(stored) != 1 || stored[0].Selection != 7 {
		t.Errorf("expected a single pick with selection 7, got %+v", stored)
	}
}

func TestSubmitRejections(t *testing.T) {
	testCases := []struct {
		desc       string
		now        time.Time
		ignoreLock bool
		picks      []models.PickSubmission
		expected   error
	}{
		{"scored market", beforeWeekOneLock, false, []models.PickSubmission{{PickEmID: 2, Selection: 7}}, ErrScored},
		{"scored wins over time", afterWeekOneLock, false, []models.PickSubmission{{PickEmID: 1, Selection: 7}, {PickEmID: 2, Selection: 7}}, ErrScored},
		{"after lock", afterWeekOneLock, false, []models.PickSubmission{{PickEmID: 1, Selection: 7}}, ErrLocked},
		{"after lock with lock ignored", afterWeekOneLock, true, []models.PickSubmission{{PickEmID: 1, Selection: 7}}, nil},
		{"scored even with lock ignored", afterWeekOneLock, true, []models.PickSubmission{{PickEmID: 2, Selection: 9}}, ErrScored},
		{"market from another week", beforeWeekOneLock, false, []models.PickSubmission{{PickEmID: 3, Selection: 7}}, ErrInvalidInput},
		{"unknown option", beforeWeekOneLock, false, []models.PickSubmission{{PickEmID: 1, Selection: 8}}, ErrInvalidInput},
		{"empty submission", beforeWeekOneLock, false, nil, ErrInvalidInput},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			f := newPickEmFixture(t, tc.now, tc.ignoreLock)
			err := f.service.Submit(context.Background(), 1, models.SubmitPicksRequest{Season: 49, Week: 1, Picks: tc.picks})

			if tc.expected == nil {
				if err != nil {
					t.Fatalf("Submit() error = %v, expected success", err)
				}
				return
			}
			if !errors.Is(err, tc.expected) {
				t.Fatalf("Submit() error = %v, expected %v", err, tc.expected)
			}
			if f.picks.upserts != 0 {
				t.Error("rejected submission must not write picks")
			}
		})
	}
}

func TestListIncludesSelectionsAndLock(t *testing.T) {
	f := newPickEmFixture(t, beforeWeekOneLock, false)
	f.picks = newMemoryPicks(&models.Pick{PlayerID: 1, PickEmID: 1, Season: 49, Week: 1, Selection: 9})
	f.service.picks = f.picks

	week, err := f.service.List(context.Background(), 49, 1, 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(week.Markets) != 2 {
		t.Errorf("expected 2 week-1 markets, got %d", len(week.Markets))
	}
	if len(week.Selections) != 1 || week.Selections[0].Selection != 9 {
		t.Errorf("unexpected selections %+v", week.Selections)
	}
	if !week.LockAt.Equal(afterWeekOneLock) || week.Locked {
		t.Errorf("expected open week locking at %s, got %s locked=%t", afterWeekOneLock, week.LockAt, week.Locked)
	}

	anonymous, err := f.service.List(context.Background(), 49, 1, 0)
	if err != nil {
		t.Fatalf("anonymous List() error = %v", err)
	}
	if len(anonymous.Selections) != 0 {
		t.Errorf("anonymous caller should get no selections, got %+v", anonymous.Selections)
	}
}

func TestListDefaultsToCurrentWeek(t *testing.T) {
	f := newPickEmFixture(t, afterWeekOneLock.Add(time.Hour), false)

	week, err := f.service.List(context.Background(), 0, 0, 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if week.Season != 49 || week.Week != 2 {
		t.Errorf("expected season 49 week 2, got season %d week %d", week.Season, week.Week)
	}
}

func TestScoreAndLeaderboard(t *testing.T) {
	f := newPickEmFixture(t, afterWeekOneLock, false)
	f.picks = newMemoryPicks(
		&models.Pick{PlayerID: 1, PickEmID: 2, Season: 49, Week: 1, Selection: 7},
		&models.Pick{PlayerID: 2, PickEmID: 2, Season: 49, Week: 1, Selection: 9},
		&models.Pick{PlayerID: 2, PickEmID: 1, Season: 49, Week: 1, Selection: 9},
	)
	f.service.picks = f.picks
	base := time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
	f.tribes.tribes = []*models.PlayerTribe{
		{Name: "Ann's", PlayerID: 1, Season: 49, CreatedAt: base},
		{Name: "Bo's", PlayerID: 2, Season: 49, CreatedAt: base.Add(time.Hour)},
		{Name: "Cy's", PlayerID: 3, Season: 49, CreatedAt: base.Add(2 * time.Hour)},
	}
	f.players.byID[3] = &models.Player{ID: 3, Name: "Cy"}

	scores, err := f.service.Score(context.Background(), 49, 1)
	if err != nil {
		t.Fatalf("Score() error = %v", err)
	}
	if len(scores) != 2 || scores[0].PlayerName != "Ann" || scores[0].Total != 100 || scores[1].Total != -50 {
		t.Errorf("unexpected scores %+v", scores)
	}

	board, err := f.service.Leaderboard(context.Background(), 49)
	if err != nil {
		t.Fatalf("Leaderboard() error = %v", err)
	}
	expected := []struct {
		name  string
		owner string
		rank  int
		total int
	}{
		{"Ann's", "Ann", 1, 100},
		{"Cy's", "Cy", 2, 0},
		{"Bo's", "Bo", 3, -50},
	}
	for i, exp := range expected {
		got := board[i]
		if got.Name != exp.name || got.PlayerName != exp.owner || got.Rank != exp.rank || got.Points != exp.total {
			t.Errorf("position %d: got %s/%s rank %d points %d, expected %+v", i, got.Name, got.PlayerName, got.Rank, got.Points, exp)
		}
	}
}

func TestSetAnswersIsOneWay(t *testing.T) {
	f := newPickEmFixture(t, afterWeekOneLock, false)
	ctx := context.Background()

	market, err := f.service.SetAnswers(ctx, 1, []int{9})
	if err != nil {
		t.Fatalf("SetAnswers() error = %v", err)
	}
	if !market.IsScored() || market.ScoredAt == nil {
		t.Errorf("market not marked scored: %+v", market)
	}

	if _, err := f.service.SetAnswers(ctx, 1, []int{7}); !errors.Is(err, ErrScored) {
		t.Errorf("rescoring error = %v, expected ErrScored", err)
	}
	if _, err := f.service.SetAnswers(ctx, 3, []int{42}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unknown answer error = %v, expected ErrInvalidInput", err)
	}
	if _, err := f.service.SetAnswers(ctx, 3, nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty answers error = %v, expected ErrInvalidInput", err)
	}
	if _, err := f.service.SetAnswers(ctx, 99, []int{7}); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing market error = %v, expected ErrNotFound", err)
	}
}

func TestCreateMarket(t *testing.T) {
	f := newPickEmFixture(t, beforeWeekOneLock, false)
	ctx := context.Background()

	market := tribeMarket(0, 3)
	if err := f.service.CreateMarket(ctx, market); err != nil {
		t.Fatalf("CreateMarket() error = %v", err)
	}
	if market.ID == 0 {
		t.Error("expected an id to be assigned")
	}

	prescored := tribeMarket(0, 3, 7)
	if err := f.service.CreateMarket(ctx, prescored); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("pre-scored market error = %v, expected ErrInvalidInput", err)
	}

	bad := tribeMarket(0, 3)
	bad.Options[1].Kind = "emoji"
	if err := f.service.CreateMarket(ctx, bad); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad option kind error = %v, expected ErrInvalidInput", err)
	}
}
