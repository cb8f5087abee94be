package roadmap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/careerpilot/internal/search"
)

func TestSearchTopic(t *testing.T) {
	tests := map[string]string{
		"Module 1: Go Basics":      "Go Basics",
		"Day 2 - Goroutines":       "Goroutines",
		"Week 3. Testing in Go":    "Testing in Go",
		"Phase 10) Deployment":     "Deployment",
		"1. Variables and Types":   "Variables and Types",
		"Concurrency Patterns":     "Concurrency Patterns",
		"3D Graphics Fundamentals": "3D Graphics Fundamentals",
		"Module 4:":                "Module 4:",
	}
	for in, want := range tests {
		assert.Equal(t, want, SearchTopic(in), "SearchTopic(%q)", in)
	}
}

func TestQueries(t *testing.T) {
	normal := Queries("Goroutines", "Learn Go", false)
	require.Len(t, normal, 3)
	assert.Equal(t, "best tutorial or github repo for learning Goroutines Learn Go", normal[0])

	intensive := Queries("Goroutines", "Learn Go", true)
	assert.Len(t, intensive, 2)
	assert.Equal(t, normal[:2], intensive)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		url  string
		want ResourceType
	}{
		{"https://www.youtube.com/watch?v=abc", TypeYouTube},
		{"https://youtu.be/abc", TypeYouTube},
		{"https://github.com/golang/go", TypeGitHub},
		{"https://www.freecodecamp.org/learn", TypeInteractive},
		{"https://go.dev/play/p/xyz", TypeDocs},
		{"https://leetcode.com/problems/two-sum", TypeInteractive},
		{"https://medium.com/@someone/go-tips", TypeArticle},
		{"https://go.dev/blog/pipelines", TypeArticle},
		{"https://pkg.go.dev/net/http", TypeDocs},
		{"https://go.dev/doc/effective_go", TypeDocs},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.url), tt.url)
	}
}

func TestClassify_FirstRuleWins(t *testing.T) {
	// A GitHub blog post matches both the GitHub and article rules.
	assert.Equal(t, TypeGitHub, Classify("https://github.com/blog/123"))
	// A YouTube link mentioning github is still a video.
	assert.Equal(t, TypeYouTube, Classify("https://youtube.com/results?q=github"))
}

func TestDiversify_PrefersDistinctTypes(t *testing.T) {
	cands := []Candidate{
		{URL: "d1", Type: TypeDocs, Score: 0.5},
		{URL: "d2", Type: TypeDocs, Score: 0.5},
		{URL: "d3", Type: TypeDocs, Score: 0.5},
		{URL: "y1", Type: TypeYouTube, Score: 0.5},
		{URL: "g1", Type: TypeGitHub, Score: 0.5},
		{URL: "a1", Type: TypeArticle, Score: 0.5},
	}
	got := Diversify(cands, 4)
	require.Len(t, got, 4)
	types := make([]ResourceType, len(got))
	for i, c := range got {
		types[i] = c.Type
	}
	assert.Equal(t, []ResourceType{TypeDocs, TypeYouTube, TypeGitHub, TypeArticle}, types)
}

func TestDiversify_BackfillsByScore(t *testing.T) {
	cands := []Candidate{
		{URL: "d1", Type: TypeDocs, Score: 0.2},
		{URL: "d2", Type: TypeDocs, Score: 0.4},
		{URL: "d3", Type: TypeDocs, Score: 0.9},
		{URL: "y1", Type: TypeYouTube, Score: 0.1},
		{URL: "d4", Type: TypeDocs, Score: 0.6},
	}
	got := Diversify(cands, 4)
	urls := make([]string, len(got))
	for i, c := range got {
		urls[i] = c.URL
	}
	assert.Equal(t, []string{"d1", "y1", "d3", "d4"}, urls)

	assert.Len(t, Diversify(cands[:2], 4), 2, "fewer candidates than the cap")
	assert.Empty(t, Diversify(nil, 4))
}

func TestSelectResources_Dedup(t *testing.T) {
	global := make(seenSet)
	raw := []search.Result{
		{Title: "A", URL: "https://example.com/a", Score: 0.9},
		{Title: "A again", URL: "https://example.com/a", Score: 0.8},
		{Title: "B", URL: "https://example.com/b", Score: 0.7},
		{Title: "no url", URL: ""},
	}
	got := selectResources(raw, global, 4)
	require.Len(t, got, 2)
	assert.Equal(t, "https://example.com/a", got[0].URL)
	assert.Equal(t, "https://example.com/b", got[1].URL)

	// A later milestone does not get URLs already used.
	again := selectResources([]search.Result{
		{URL: "https://example.com/A/"},
		{URL: "https://example.com/c"},
	}, global, 4)
	require.Len(t, again, 1)
	assert.Equal(t, "https://example.com/c", again[0].URL)
}

func TestResourceTitle(t *testing.T) {
	assert.Equal(t, "example.com", resourceTitle("  ", "https://example.com/x"))
	assert.Equal(t, "Go Tour", resourceTitle("Go\n  Tour", "u"))

	long := strings.Repeat("x", 120)
	got := resourceTitle(long, "u")
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, maxTitleRunes, len([]rune(got)))
}

func TestPlaceholderResource(t *testing.T) {
	r := PlaceholderResource("Go Basics")
	assert.Equal(t, TypeDocs, r.Type)
	assert.Equal(t, "Official Go Basics Docs", r.Title)
	assert.True(t, strings.HasPrefix(r.URL, "https://www.google.com/search?q="))
	assert.Contains(t, r.URL, "Go+Basics")
}
