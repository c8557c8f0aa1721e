package graphapi

import (
	"regexp"
	"time"

	"github.com/ncruces/go-strftime"
)

// timeTokenPattern matches the WAS node suite's [time(<format>)] path tokens
var timeTokenPattern = regexp.MustCompile(`\[time\(([^)]+)\)\]`)

// ExpandTimeTokens replaces every [time(<strftime format>)] token in a path
// string with the current local time rendered in that format. Each token is
// evaluated independently; a string without tokens is returned unchanged.
func ExpandTimeTokens(path string) string {
	return timeTokenPattern.ReplaceAllStringFunc(path, func(token string) string {
		format := timeTokenPattern.FindStringSubmatch(token)[1]
		return strftime.Format(format, time.Now())
	})
}
