package progress

import "math"

// Action is something a learner does that earns XP.
type Action string

const (
	ActionMilestoneStart    Action = "milestone_start"
	ActionMilestoneComplete Action = "milestone_complete"
	ActionQuizPass          Action = "quiz_pass"
	ActionQuizFail          Action = "quiz_fail"
	ActionResourceView      Action = "resource_view"
	ActionDailyGoal         Action = "daily_goal"
	ActionStreakDay         Action = "streak_day"
)

var xpTable = map[Action]int{
	ActionMilestoneStart:    10,
	ActionMilestoneComplete: 100,
	ActionQuizPass:          25,
	ActionQuizFail:          5,
	ActionResourceView:      5,
	ActionDailyGoal:         50,
	ActionStreakDay:         15,
}

// AchievementXP is the bonus for unlocking an achievement.
const AchievementXP = 200

// XPFor returns the XP earned by an action, 0 for unknown actions.
func XPFor(a Action) int {
	return xpTable[a]
}

// Level returns floor(sqrt(xp/100)) + 1.
func Level(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Floor(math.Sqrt(float64(xp)/100))) + 1
}

// XPToNextLevel is the XP still missing to reach the next level.
func XPToNextLevel(xp int) int {
	l := Level(xp)
	return 100*l*l - xp
}
