package roadmap

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/abhisek/careerpilot/internal/search"
)

var ordinalLabel = regexp.MustCompile(`(?i)^\s*(?:(?:module|day|week|month|step|phase|part|stage|milestone|level|unit|chapter)\s*\d+|\d+)\s*[:.)\-–—]\s*`)

// SearchTopic strips a leading ordinal label such as "Module 1:" or
// "Day 2 -" from a milestone title.
func SearchTopic(title string) string {
	topic := strings.TrimSpace(ordinalLabel.ReplaceAllString(title, ""))
	if topic == "" {
		return strings.TrimSpace(title)
	}
	return topic
}

// Queries returns the search queries for one milestone. Intensive goals
// get fewer.
func Queries(topic, goal string, intensive bool) []string {
	qs := []string{
		strings.TrimSpace(fmt.Sprintf("best tutorial or github repo for learning %s %s", topic, goal)),
		topic + " official documentation",
		topic + " video course",
	}
	if intensive {
		return qs[:2]
	}
	return qs
}

type classifyRule struct {
	typ     ResourceType
	needles []string
}

// Rules are checked in order; the first match wins.
var classifyRules = []classifyRule{
	{TypeYouTube, []string{"youtube.com", "youtu.be"}},
	{TypeGitHub, []string{"github.com"}},
	{TypeInteractive, []string{"codecademy", "freecodecamp", "leetcode", "exercism", "replit", "codesandbox", "playground"}},
	{TypeArticle, []string{"medium.com", "dev.to", "hashnode", "substack", "blog"}},
}

// Classify returns the resource type of a URL.
func Classify(rawURL string) ResourceType {
	u := strings.ToLower(rawURL)
	for _, r := range classifyRules {
		for _, n := range r.needles {
			if strings.Contains(u, n) {
				return r.typ
			}
		}
	}
	return TypeDocs
}

// Diversify picks up to n candidates, first one per distinct type in
// arrival order, then the rest by descending score.
func Diversify(cands []Candidate, n int) []Candidate {
	if n <= 0 || len(cands) == 0 {
		return nil
	}

	picked := make([]Candidate, 0, n)
	taken := make([]bool, len(cands))
	types := make(map[ResourceType]bool)
	for i, c := range cands {
		if len(picked) == n {
			break
		}
		if types[c.Type] {
			continue
		}
		types[c.Type] = true
		taken[i] = true
		picked = append(picked, c)
	}

	var rest []Candidate
	for i, c := range cands {
		if !taken[i] {
			rest = append(rest, c)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Score > rest[j].Score })
	for _, c := range rest {
		if len(picked) == n {
			break
		}
		picked = append(picked, c)
	}
	return picked
}

// seenSet tracks URLs already used, normalized for comparison.
type seenSet map[string]struct{}

func (s seenSet) has(u string) bool {
	_, ok := s[normalizeURL(u)]
	return ok
}

func (s seenSet) add(u string) {
	s[normalizeURL(u)] = struct{}{}
}

func normalizeURL(u string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(u)), "/")
}

// fetchResults runs every query for one topic and returns the raw results
// in query order. Failed queries are logged and skipped.
func fetchResults(ctx context.Context, s search.Searcher, queries []string, perQuery int) []search.Result {
	var out []search.Result
	for _, q := range queries {
		res, err := s.Search(ctx, q, perQuery)
		if err != nil {
			logx.WithContext(ctx).Errorw("resource search failed",
				logx.Field("query", q),
				logx.Field("error", err.Error()))
			continue
		}
		out = append(out, res...)
	}
	return out
}

// selectResources dedups raw against the milestone and global seen-sets,
// classifies and diversifies the survivors. Every surviving URL is added
// to global.
func selectResources(raw []search.Result, global seenSet, max int) []Candidate {
	local := make(seenSet)
	var cands []Candidate
	for _, r := range raw {
		if strings.TrimSpace(r.URL) == "" || local.has(r.URL) || global.has(r.URL) {
			continue
		}
		local.add(r.URL)
		cands = append(cands, Candidate{
			Title: resourceTitle(r.Title, r.URL),
			URL:   strings.TrimSpace(r.URL),
			Type:  Classify(r.URL),
			Score: r.Score,
		})
	}
	for _, c := range cands {
		global.add(c.URL)
	}
	return Diversify(cands, max)
}

const maxTitleRunes = 80

func resourceTitle(title, rawURL string) string {
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
			return u.Host
		}
		return rawURL
	}
	if utf8.RuneCountInString(title) > maxTitleRunes {
		r := []rune(title)
		return strings.TrimSpace(string(r[:maxTitleRunes-3])) + "..."
	}
	return title
}

// PlaceholderResource is used when no search result survives for a
// milestone.
func PlaceholderResource(topic string) Candidate {
	return Candidate{
		Title: fmt.Sprintf("Official %s Docs", topic),
		URL:   "https://www.google.com/search?q=" + url.QueryEscape(topic+" official documentation"),
		Type:  TypeDocs,
	}
}
