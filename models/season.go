package models

// SeasonWeekOneAnchors holds the week-1 pick'em lock date (a Wednesday,
// YYYY-MM-DD in Pacific time) for every season with weekly markets.
var SeasonWeekOneAnchors = map[int]string{
	47: "2024-09-18",
	48: "2025-02-26",
	49: "2025-09-24",
}

// LegacyScoreSeasons are seasons whose tribe scores were frozen at import.
// Tribes from these seasons report their stored LegacyScore.
var LegacyScoreSeasons = map[int]bool{
	46: true,
}
