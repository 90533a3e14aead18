package services

import (
	"context"
	"testing"

	"survivor-league/models"
)

func TestSweepSeason(t *testing.T) {
	players := newMemoryPlayers(
		&models.Player{ID: 1, Name: "Ann"},
		&models.Player{ID: 2, Name: "Bo"},
		&models.Player{ID: 3, Name: "Cy"},
	)
	contestants := newMemoryContestants(
		&models.Contestant{ID: 1, Season: 49, SoleSurvivor: true},
		&models.Contestant{ID: 2, Season: 49},
	)
	tribes := &memoryTribes{tribes: []*models.PlayerTribe{
		{PlayerID: 1, Season: 49, Name: "Seer", Contestants: []int{1, 2}},
		{PlayerID: 2, Season: 49, Name: "Close", Contestants: []int{2, 1}},
	}}
	pickems := newMemoryPickEms(
		tribeMarket(1, 1, 7),
		tribeMarket(2, 1, 9),
		tribeMarket(3, 2),
	)

	var picks []*models.Pick
	// Ann answers all of week 1 correctly
	picks = append(picks,
		&models.Pick{PlayerID: 1, PickEmID: 1, Season: 49, Week: 1, Selection: 7},
		&models.Pick{PlayerID: 1, PickEmID: 2, Season: 49, Week: 1, Selection: 9},
	)
	// Bo misses one
	picks = append(picks,
		&models.Pick{PlayerID: 2, PickEmID: 1, Season: 49, Week: 1, Selection: 7},
		&models.Pick{PlayerID: 2, PickEmID: 2, Season: 49, Week: 1, Selection: 7},
	)
	// Cy plays five different weeks without a perfect one
	for week := 1; week <= models.PickEmRegularMinWeeks; week++ {
		picks = append(picks, &models.Pick{PlayerID: 3, PickEmID: 100 + week, Season: 49, Week: week, Selection: 7})
	}

	badges := NewBadgeService(players, tribes, contestants, pickems, newMemoryPicks(picks...))

	awarded, err := badges.SweepSeason(context.Background(), 49)
	if err != nil {
		t.Fatalf("SweepSeason() error = %v", err)
	}
	if awarded != 3 {
		t.Errorf("awarded %d badges, expected 3", awarded)
	}

	expected := []struct {
		playerID int
		code     models.BadgeCode
		has      bool
	}{
		{1, models.BadgeProphet, true},
		{1, models.BadgePerfectWeek, true},
		{1, models.BadgePickEmRegular, false},
		{2, models.BadgeProphet, false},
		{2, models.BadgePerfectWeek, false},
		{3, models.BadgePickEmRegular, true},
		{3, models.BadgePerfectWeek, false},
	}
	for _, exp := range expected {
		p, _ := players.GetByID(context.Background(), exp.playerID)
		if got := p.HasBadge(exp.code, 49); got != exp.has {
			t.Errorf("player %d %s = %t, expected %t", exp.playerID, exp.code, got, exp.has)
		}
	}

	again, err := badges.SweepSeason(context.Background(), 49)
	if err != nil {
		t.Fatalf("second SweepSeason() error = %v", err)
	}
	if again != 0 {
		t.Errorf("second sweep awarded %d badges, expected 0", again)
	}
}

func TestPerfectWeekNeedsScoredMarkets(t *testing.T) {
	markets := []*models.PickEm{tribeMarket(1, 1, 7), tribeMarket(2, 1)}
	if perfectWeek(markets, map[int]int{1: 7, 2: 7}) {
		t.Error("a week with an unscored market cannot be perfect")
	}
	if perfectWeek(nil, map[int]int{}) {
		t.Error("a week without markets cannot be perfect")
	}
	if !perfectWeek(markets[:1], map[int]int{1: 7}) {
		t.Error("expected a perfect week")
	}
}
