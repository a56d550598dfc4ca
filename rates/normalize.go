package rates

import (
	"regexp"
	"strings"
)

var (
	rateWord      = regexp.MustCompile(`\brate\b`)
	nonAlnumRun   = regexp.MustCompile(`[^a-z0-9]+`)
	underscoreRun = regexp.MustCompile(`_+`)
)

// NormalizeKey converts a table label into a canonical key: lowercase, the
// standalone word "rate" removed, runs of other characters replaced by a
// single underscore, and no leading or trailing underscores.
//
//	NormalizeKey("22K Gold Rate") == "22k_gold"
//	NormalizeKey("Rate") == ""
func NormalizeKey(label string) string {
	key := strings.ToLower(label)
	key = rateWord.ReplaceAllString(key, "")
	key = nonAlnumRun.ReplaceAllString(key, "_")
	key = underscoreRun.ReplaceAllString(key, "_")
	return strings.Trim(key, "_")
}
