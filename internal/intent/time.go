package intent

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// defaultWindow is the trailing window used when the text contains no
// recognizable time expression.
const defaultWindow = time.Hour

// fixedPhrases are checked first, in order.
var fixedPhrases = []struct {
	phrase string
	span   time.Duration
}{
	{"last hour", time.Hour},
	{"past hour", time.Hour},
	{"last day", 24 * time.Hour},
	{"past day", 24 * time.Hour},
	{"last week", 7 * 24 * time.Hour},
	{"recent", 15 * time.Minute},
}

var (
	agoPattern = regexp.MustCompile(
		`(\d+|one|two|three|four|five|six|seven|eight|nine|ten)\s+(second|minute|hour|day|week)s?\s+ago`)
	spanPattern = regexp.MustCompile(
		`(?:last|past)\s+(\d+)\s+(minute|hour|day|week)s?`)
)

var wordNumbers = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// parseWindow extracts a time window from lowercased text. The returned
// pair always satisfies start < end; end is always now.
func parseWindow(lower string, now time.Time) (time.Time, time.Time) {
	for _, fp := range fixedPhrases {
		if strings.Contains(lower, fp.phrase) {
			return now.Add(-fp.span), now
		}
	}

	if m := agoPattern.FindStringSubmatch(lower); m != nil {
		amount := wordNumbers[m[1]]
		if amount == 0 {
			if n, err := strconv.Atoi(m[1]); err == nil {
				amount = n
			} else {
				amount = 1
			}
		}
		return now.Add(-time.Duration(amount) * unitSpan(m[2])), now
	}

	if m := spanPattern.FindStringSubmatch(lower); m != nil {
		amount, err := strconv.Atoi(m[1])
		if err != nil || amount <= 0 {
			amount = 1
		}
		return now.Add(-time.Duration(amount) * unitSpan(m[2])), now
	}

	return now.Add(-defaultWindow), now
}

func unitSpan(unit string) time.Duration {
	switch unit {
	case "second":
		return time.Second
	case "minute":
		return time.Minute
	case "hour":
		return time.Hour
	case "day":
		return 24 * time.Hour
	case "week":
		return 7 * 24 * time.Hour
	}
	return time.Hour
}
