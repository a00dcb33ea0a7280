package revenue

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-freeagent/dates"
)

// monthToken matches "<month name> <4-digit year>". Month names are
// case-insensitive, full or abbreviated ("Jan", "Sept", "January").
var monthToken = regexp.MustCompile(`(?i)\b(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+(\d{4})\b`)

var monthPrefixes = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// ExtractMonth returns the calendar month named by the first "Month Year"
// token in description. Later tokens are ignored.
func ExtractMonth(description string) (dates.Month, bool) {
	m := monthToken.FindStringSubmatch(description)
	if m == nil {
		return dates.Month{}, false
	}

	month, ok := monthPrefixes[strings.ToLower(m[1][:3])]
	if !ok {
		return dates.Month{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return dates.Month{}, false
	}
	return dates.Month{Year: year, Month: month}, true
}
