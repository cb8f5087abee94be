package roadmap

import (
	"regexp"
	"strconv"
	"strings"
)

var timeBoxPattern = regexp.MustCompile(`(?i)\b(?:(?:in|within|for|over)\s+)?(\d{1,4})\s*(hour|day|week|month)s?\b`)

var spaces = regexp.MustCompile(`\s{2,}`)

// intensiveDayLimit is the longest day count still treated as a crash
// course.
const intensiveDayLimit = 14

// ExtractTimeBox finds a duration phrase such as "in 3 days" in goal and
// returns it along with the goal stripped of that phrase. A goal without
// a duration is returned unchanged with a nil TimeBox.
func ExtractTimeBox(goal string) (*TimeBox, string) {
	loc := timeBoxPattern.FindStringSubmatchIndex(goal)
	if loc == nil {
		return nil, strings.TrimSpace(goal)
	}

	value, err := strconv.Atoi(goal[loc[2]:loc[3]])
	if err != nil || value <= 0 {
		return nil, strings.TrimSpace(goal)
	}
	unit := strings.ToLower(goal[loc[4]:loc[5]]) + "s"

	tb := &TimeBox{
		Value:       value,
		Unit:        unit,
		IsIntensive: unit == "hours" || (unit == "days" && value <= intensiveDayLimit),
	}

	cleaned := goal[:loc[0]] + " " + goal[loc[1]:]
	cleaned = spaces.ReplaceAllString(cleaned, " ")
	cleaned = strings.Trim(cleaned, " \t\n,.;:-!")
	if cleaned == "" {
		cleaned = strings.TrimSpace(goal)
	}
	return tb, cleaned
}
