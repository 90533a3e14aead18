package services

import (
	"fmt"
	"sort"
	"strings"

	"survivor-league/models"
)

// TieBreak orders tribes that share a score
type TieBreak string

const (
	// TieBreakNewestFirst puts the most recently created tribe first
	TieBreakNewestFirst TieBreak = "newest"
	TieBreakOldestFirst TieBreak = "oldest"
	// TieBreakName orders by tribe name, case-insensitively
	TieBreakName TieBreak = "name"
)

// ParseTieBreak accepts newest, oldest or name. Empty means newest.
func ParseTieBreak(value string) (TieBreak, error) {
	switch tb := TieBreak(strings.ToLower(strings.TrimSpace(value))); tb {
	case "":
		return TieBreakNewestFirst, nil
	case TieBreakNewestFirst, TieBreakOldestFirst, TieBreakName:
		return tb, nil
	default:
		return "", fmt.Errorf("unknown tie-break %q: %w", value, ErrInvalidInput)
	}
}

// RankTribes sorts tribes by Points descending and assigns competition ranks:
// a tribe tied with the one above it shares that rank, otherwise its rank is
// its 1-based position. The slice is sorted in place and returned.
func RankTribes(tribes []*models.PlayerTribe, tieBreak TieBreak) []*models.PlayerTribe {
	sort.SliceStable(tribes, func(i, j int) bool {
		a, b := tribes[i], tribes[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		switch tieBreak {
		case TieBreakOldestFirst:
			return a.CreatedAt.Before(b.CreatedAt)
		case TieBreakName:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		default:
			return a.CreatedAt.After(b.CreatedAt)
		}
	})

	scores := make([]int, len(tribes))
	for i, t := range tribes {
		scores[i] = t.Points
	}
	for i, rank := range CompetitionRanks(scores) {
		tribes[i].Rank = rank
	}
	return tribes
}

// CompetitionRanks ranks scores that are already sorted descending.
// rank(0) = 1; rank(i) = rank(i-1) when scores tie, else i+1.
func CompetitionRanks(sorted []int) []int {
	ranks := make([]int, len(sorted))
	for i := range sorted {
		if i > 0 && sorted[i] == sorted[i-1] {
			ranks[i] = ranks[i-1]
			continue
		}
		ranks[i] = i + 1
	}
	return ranks
}
