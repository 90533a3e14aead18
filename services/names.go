package services

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeDisplayName collapses whitespace and title-cases names typed
// entirely in lower case. Names with deliberate capitals are kept as typed.
func NormalizeDisplayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == strings.ToLower(name) {
		// Casers are stateful, so one per call
		return cases.Title(language.English).String(name)
	}
	return name
}

// TribeSlug builds the URL slug of a tribe. The player id suffix keeps slugs
// unique when two players pick the same tribe name.
func TribeSlug(tribeName string, playerID int) string {
	base := slug.Make(tribeName)
	if base == "" {
		base = "tribe"
	}
	return base + "-" + strconv.Itoa(playerID)
}
