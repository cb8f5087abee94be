package progress

// Badge describes an achievement a learner can unlock once.
type Badge struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

var (
	BadgeFirstMilestone  = Badge{"first_milestone", "Getting Started", "🎯", "Complete your first milestone"}
	BadgeQuizMaster      = Badge{"quiz_master", "Quiz Master", "🧠", "Pass 10 quizzes"}
	BadgeWeekStreak      = Badge{"week_streak", "Week Warrior", "🔥", "Maintain a 7-day streak"}
	BadgeSpeedLearner    = Badge{"speed_learner", "Speed Learner", "⚡", "Complete a milestone in under 3 days"}
	BadgeDedicated       = Badge{"dedicated", "Dedicated Learner", "💎", "Study for 10 hours total"}
	BadgeRoadmapComplete = Badge{"roadmap_complete", "Mission Complete", "🏆", "Complete an entire roadmap"}
)

// Thresholds for badge conditions.
const (
	QuizMasterPasses   = 10
	SpeedLearnerMins   = 3 * 24 * 60
	DedicatedTotalMins = 600
)

// AllBadges returns every badge in display order.
func AllBadges() []Badge {
	return []Badge{
		BadgeFirstMilestone, BadgeQuizMaster, BadgeWeekStreak,
		BadgeSpeedLearner, BadgeDedicated, BadgeRoadmapComplete,
	}
}

// BadgeFor looks up a badge by code.
func BadgeFor(code string) (Badge, bool) {
	for _, b := range AllBadges() {
		if b.Code == code {
			return b, true
		}
	}
	return Badge{}, false
}
