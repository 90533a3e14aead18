package services

import (
	"sort"

	"survivor-league/models"
)

// ScorePick returns the points a selection earns on a market.
//
// Unscored markets are worth nothing. A correct selection earns the option's
// point value; a wrong one loses half of it for boolean and tribe options, a
// quarter for contestant options and nothing for text options. Selections that
// are not options of the market score zero.
func ScorePick(selection int, market *models.PickEm) int {
	if market == nil || !market.IsScored() {
		return 0
	}

	option, ok := market.Option(selection)
	if !ok {
		return 0
	}

	if market.IsCorrect(selection) {
		return option.PointValue
	}

	switch option.Kind {
	case models.OptionBoolean, models.OptionTribe:
		return -(option.PointValue / 2)
	case models.OptionContestant:
		return -(option.PointValue / 4)
	default:
		return 0
	}
}

// ScorePlayers aggregates picks into per-player totals. Picks on markets not in
// markets are ignored. Players are returned by total descending, then id.
func ScorePlayers(markets []*models.PickEm, picks []*models.Pick, players map[int]*models.Player) []models.PlayerPickEmScore {
	byID := make(map[int]*models.PickEm, len(markets))
	for _, m := range markets {
		byID[m.ID] = m
	}

	scores := make(map[int]*models.PlayerPickEmScore)
	for _, pick := range picks {
		market, ok := byID[pick.PickEmID]
		if !ok {
			continue
		}

		score, ok := scores[pick.PlayerID]
		if !ok {
			score = &models.PlayerPickEmScore{PlayerID: pick.PlayerID, Picks: []models.PickScore{}}
			if p, found := players[pick.PlayerID]; found {
				score.PlayerName = p.Name
			}
			scores[pick.PlayerID] = score
		}

		points := ScorePick(pick.Selection, market)
		score.Total += points
		score.Picks = append(score.Picks, models.PickScore{
			PickEmID:  pick.PickEmID,
			Selection: pick.Selection,
			Points:    points,
		})
	}

	result := make([]models.PlayerPickEmScore, 0, len(scores))
	for _, s := range scores {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Total != result[j].Total {
			return result[i].Total > result[j].Total
		}
		return result[i].PlayerID < result[j].PlayerID
	})
	return result
}
