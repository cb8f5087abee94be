package progress

import (
	"testing"
	"time"

	"github.com/abhisek/careerpilot/internal/store"
)

func TestLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 1}, {99, 1}, {100, 2}, {399, 2}, {400, 3}, {900, 4}, {10000, 11}, {-5, 1},
	}
	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestXPToNextLevel(t *testing.T) {
	tests := []struct {
		xp   int
		want int
	}{
		{0, 100}, {50, 50}, {100, 300}, {510, 390}, {900, 700},
	}
	for _, tt := range tests {
		if got := XPToNextLevel(tt.xp); got != tt.want {
			t.Errorf("XPToNextLevel(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
}

func TestXPFor(t *testing.T) {
	if XPFor(ActionMilestoneComplete) != 100 || XPFor(ActionQuizFail) != 5 || XPFor(ActionStreakDay) != 15 {
		t.Error("XP table mismatch")
	}
	if XPFor("teleport") != 0 {
		t.Error("unknown action should earn nothing")
	}
}

func TestNextStreak(t *testing.T) {
	day := func(d, h int) time.Time { return time.Date(2026, 3, d, h, 0, 0, 0, time.UTC) }
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name     string
		current  int
		last     *time.Time
		now      time.Time
		want     int
		extended bool
	}{
		{"first activity", 0, nil, day(10, 9), 1, false},
		{"same day", 3, ptr(day(10, 1)), day(10, 23), 3, false},
		{"next day", 3, ptr(day(10, 23)), day(11, 0), 4, true},
		{"gap", 5, ptr(day(10, 12)), day(13, 12), 1, false},
		{"clock went back", 2, ptr(day(12, 12)), day(11, 12), 2, false},
		{"month boundary", 1, ptr(time.Date(2026, 2, 28, 20, 0, 0, 0, time.UTC)), day(1, 8), 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ext := NextStreak(tt.current, tt.last, tt.now)
			if got != tt.want || ext != tt.extended {
				t.Errorf("NextStreak = (%d, %v), want (%d, %v)", got, ext, tt.want, tt.extended)
			}
		})
	}
}

func TestNextStreak_UsesCallerLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC is already the next calendar day in IST.
	last := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC).In(ist)

	got, ext := NextStreak(1, &last, now)
	if got != 2 || !ext {
		t.Errorf("NextStreak across IST midnight = (%d, %v), want (2, true)", got, ext)
	}
}

func TestGoalProgress(t *testing.T) {
	tests := []struct {
		mins, quizzes int
		want          int
	}{
		{0, 0, 0},
		{15, 0, 25},
		{30, 1, 67},
		{30, 3, 100},
		{120, 9, 100},
	}
	for _, tt := range tests {
		g := store.DailyGoal{TargetMins: 30, TargetQuizzes: 3, MinsCompleted: tt.mins, QuizzesSolved: tt.quizzes}
		if got := GoalProgress(g); got != tt.want {
			t.Errorf("GoalProgress(%d mins, %d quizzes) = %d, want %d", tt.mins, tt.quizzes, got, tt.want)
		}
	}
}

func TestBadgeFor(t *testing.T) {
	b, ok := BadgeFor("week_streak")
	if !ok || b.Name != "Week Warrior" {
		t.Errorf("BadgeFor(week_streak) = %+v, %v", b, ok)
	}
	if _, ok := BadgeFor("nope"); ok {
		t.Error("unknown badge code found")
	}
	if len(AllBadges()) != 6 {
		t.Errorf("AllBadges() = %d badges, want 6", len(AllBadges()))
	}
}
