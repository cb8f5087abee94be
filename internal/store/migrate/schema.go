package migrate

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// textSize forces an unbounded text column on every dialect.
const textSize = 2147483647

var (
	// UsersColumns holds the columns for the "users" table.
	UsersColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "full_name", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	// UsersTable holds the schema information for the "users" table.
	UsersTable = &schema.Table{
		Name:       "users",
		Columns:    UsersColumns,
		PrimaryKey: []*schema.Column{UsersColumns[0]},
	}

	// InterviewSessionsColumns holds the columns for the "interview_sessions" table.
	InterviewSessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString, Default: ""},
		{Name: "role", Type: field.TypeString},
		{Name: "category", Type: field.TypeString},
		{Name: "seniority", Type: field.TypeString},
		{Name: "focus_topics", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "question_index", Type: field.TypeInt, Default: 0},
		{Name: "max_questions", Type: field.TypeInt},
		{Name: "status", Type: field.TypeString, Default: "NOT_STARTED"},
		{Name: "topics", Type: field.TypeJSON, Nullable: true},
		{Name: "hint_question", Type: field.TypeInt, Default: 0},
		{Name: "hint_text", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "report", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	// InterviewSessionsTable holds the schema information for the "interview_sessions" table.
	InterviewSessionsTable = &schema.Table{
		Name:       "interview_sessions",
		Columns:    InterviewSessionsColumns,
		PrimaryKey: []*schema.Column{InterviewSessionsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "interviewsession_user_id",
				Unique:  false,
				Columns: []*schema.Column{InterviewSessionsColumns[1]},
			},
		},
	}

	// InterviewTurnsColumns holds the columns for the "interview_turns" table.
	InterviewTurnsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "author", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: textSize},
		{Name: "question_index", Type: field.TypeInt},
		{Name: "metrics", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// InterviewTurnsTable holds the schema information for the "interview_turns" table.
	InterviewTurnsTable = &schema.Table{
		Name:       "interview_turns",
		Columns:    InterviewTurnsColumns,
		PrimaryKey: []*schema.Column{InterviewTurnsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "interview_turns_interview_sessions_turns",
				Columns:    []*schema.Column{InterviewTurnsColumns[1]},
				RefColumns: []*schema.Column{InterviewSessionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "interviewturn_session_id_position",
				Unique:  true,
				Columns: []*schema.Column{InterviewTurnsColumns[1], InterviewTurnsColumns[2]},
			},
		},
	}

	// RoadmapsColumns holds the columns for the "roadmaps" table.
	RoadmapsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString, Size: textSize},
		{Name: "goal", Type: field.TypeString, Size: textSize},
		{Name: "is_intensive", Type: field.TypeBool, Default: false},
		{Name: "time_box_value", Type: field.TypeInt, Default: 0},
		{Name: "time_box_unit", Type: field.TypeString, Default: ""},
		{Name: "is_completed", Type: field.TypeBool, Default: false},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
	}
	// RoadmapsTable holds the schema information for the "roadmaps" table.
	RoadmapsTable = &schema.Table{
		Name:       "roadmaps",
		Columns:    RoadmapsColumns,
		PrimaryKey: []*schema.Column{RoadmapsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "roadmaps_users_roadmaps",
				Columns:    []*schema.Column{RoadmapsColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "roadmap_user_id",
				Unique:  false,
				Columns: []*schema.Column{RoadmapsColumns[1]},
			},
		},
	}

	// MilestonesColumns holds the columns for the "milestones" table.
	MilestonesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "roadmap_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString, Size: textSize},
		{Name: "description", Type: field.TypeString, Size: textSize},
		{Name: "duration", Type: field.TypeInt},
		{Name: "duration_unit", Type: field.TypeString},
		{Name: "start_offset", Type: field.TypeInt},
		{Name: "estimated_hours", Type: field.TypeInt, Default: 0},
		{Name: "difficulty", Type: field.TypeString, Default: ""},
	}
	// MilestonesTable holds the schema information for the "milestones" table.
	MilestonesTable = &schema.Table{
		Name:       "milestones",
		Columns:    MilestonesColumns,
		PrimaryKey: []*schema.Column{MilestonesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "milestones_roadmaps_milestones",
				Columns:    []*schema.Column{MilestonesColumns[1]},
				RefColumns: []*schema.Column{RoadmapsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "milestone_roadmap_id_position",
				Unique:  true,
				Columns: []*schema.Column{MilestonesColumns[1], MilestonesColumns[2]},
			},
		},
	}

	// ResourcesColumns holds the columns for the "resources" table.
	ResourcesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "milestone_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "title", Type: field.TypeString, Size: textSize},
		{Name: "url", Type: field.TypeString, Size: textSize},
		{Name: "type", Type: field.TypeString},
		{Name: "score", Type: field.TypeFloat64, Default: 0},
	}
	// ResourcesTable holds the schema information for the "resources" table.
	ResourcesTable = &schema.Table{
		Name:       "resources",
		Columns:    ResourcesColumns,
		PrimaryKey: []*schema.Column{ResourcesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "resources_milestones_resources",
				Columns:    []*schema.Column{ResourcesColumns[1]},
				RefColumns: []*schema.Column{MilestonesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// QuizzesColumns holds the columns for the "quizzes" table.
	QuizzesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "milestone_id", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt},
		{Name: "question", Type: field.TypeString, Size: textSize},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_index", Type: field.TypeInt},
		{Name: "explanation", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// QuizzesTable holds the schema information for the "quizzes" table.
	QuizzesTable = &schema.Table{
		Name:       "quizzes",
		Columns:    QuizzesColumns,
		PrimaryKey: []*schema.Column{QuizzesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quizzes_milestones_quizzes",
				Columns:    []*schema.Column{QuizzesColumns[1]},
				RefColumns: []*schema.Column{MilestonesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// MilestoneProgressColumns holds the columns for the "milestone_progress" table.
	MilestoneProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "milestone_id", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "started_at", Type: field.TypeTime, Nullable: true},
		{Name: "completed_at", Type: field.TypeTime, Nullable: true},
		{Name: "time_spent_mins", Type: field.TypeInt, Default: 0},
	}
	// MilestoneProgressTable holds the schema information for the "milestone_progress" table.
	MilestoneProgressTable = &schema.Table{
		Name:       "milestone_progress",
		Columns:    MilestoneProgressColumns,
		PrimaryKey: []*schema.Column{MilestoneProgressColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "milestone_progress_milestones_progress",
				Columns:    []*schema.Column{MilestoneProgressColumns[2]},
				RefColumns: []*schema.Column{MilestonesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "milestoneprogress_user_id_milestone_id",
				Unique:  true,
				Columns: []*schema.Column{MilestoneProgressColumns[1], MilestoneProgressColumns[2]},
			},
		},
	}

	// LearningStatsColumns holds the columns for the "learning_stats" table.
	LearningStatsColumns = []*schema.Column{
		{Name: "user_id", Type: field.TypeString},
		{Name: "total_xp", Type: field.TypeInt, Default: 0},
		{Name: "level", Type: field.TypeInt, Default: 1},
		{Name: "current_streak", Type: field.TypeInt, Default: 0},
		{Name: "longest_streak", Type: field.TypeInt, Default: 0},
		{Name: "milestones_completed", Type: field.TypeInt, Default: 0},
		{Name: "quizzes_passed", Type: field.TypeInt, Default: 0},
		{Name: "quizzes_taken", Type: field.TypeInt, Default: 0},
		{Name: "total_time_spent_mins", Type: field.TypeInt, Default: 0},
		{Name: "badge_count", Type: field.TypeInt, Default: 0},
		{Name: "last_active_at", Type: field.TypeTime, Nullable: true},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// LearningStatsTable holds the schema information for the "learning_stats" table.
	LearningStatsTable = &schema.Table{
		Name:       "learning_stats",
		Columns:    LearningStatsColumns,
		PrimaryKey: []*schema.Column{LearningStatsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "learning_stats_users_stats",
				Columns:    []*schema.Column{LearningStatsColumns[0]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// AchievementsColumns holds the columns for the "achievements" table.
	AchievementsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "code", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "description", Type: field.TypeString, Default: ""},
		{Name: "awarded_at", Type: field.TypeTime},
	}
	// AchievementsTable holds the schema information for the "achievements" table.
	AchievementsTable = &schema.Table{
		Name:       "achievements",
		Columns:    AchievementsColumns,
		PrimaryKey: []*schema.Column{AchievementsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "achievement_user_id_code",
				Unique:  true,
				Columns: []*schema.Column{AchievementsColumns[1], AchievementsColumns[2]},
			},
		},
	}

	// DailyGoalsColumns holds the columns for the "daily_goals" table.
	DailyGoalsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "day", Type: field.TypeString},
		{Name: "target_mins", Type: field.TypeInt},
		{Name: "target_quizzes", Type: field.TypeInt},
		{Name: "mins_completed", Type: field.TypeInt, Default: 0},
		{Name: "quizzes_solved", Type: field.TypeInt, Default: 0},
		{Name: "goal_met", Type: field.TypeBool, Default: false},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// DailyGoalsTable holds the schema information for the "daily_goals" table.
	DailyGoalsTable = &schema.Table{
		Name:       "daily_goals",
		Columns:    DailyGoalsColumns,
		PrimaryKey: []*schema.Column{DailyGoalsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "dailygoal_user_id_day",
				Unique:  true,
				Columns: []*schema.Column{DailyGoalsColumns[1], DailyGoalsColumns[2]},
			},
		},
	}

	// QuizAttemptsColumns holds the columns for the "quiz_attempts" table.
	QuizAttemptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "quiz_id", Type: field.TypeString},
		{Name: "selected_index", Type: field.TypeInt},
		{Name: "correct", Type: field.TypeBool},
		{Name: "created_at", Type: field.TypeTime},
	}
	// QuizAttemptsTable holds the schema information for the "quiz_attempts" table.
	QuizAttemptsTable = &schema.Table{
		Name:       "quiz_attempts",
		Columns:    QuizAttemptsColumns,
		PrimaryKey: []*schema.Column{QuizAttemptsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "quiz_attempts_quizzes_attempts",
				Columns:    []*schema.Column{QuizAttemptsColumns[2]},
				RefColumns: []*schema.Column{QuizzesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "quizattempt_user_id",
				Unique:  false,
				Columns: []*schema.Column{QuizAttemptsColumns[1]},
			},
		},
	}

	// ResourceViewsColumns holds the columns for the "resource_views" table.
	ResourceViewsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "resource_id", Type: field.TypeString},
		{Name: "viewed_at", Type: field.TypeTime},
	}
	// ResourceViewsTable holds the schema information for the "resource_views" table.
	ResourceViewsTable = &schema.Table{
		Name:       "resource_views",
		Columns:    ResourceViewsColumns,
		PrimaryKey: []*schema.Column{ResourceViewsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "resource_views_resources_views",
				Columns:    []*schema.Column{ResourceViewsColumns[2]},
				RefColumns: []*schema.Column{ResourcesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "resourceview_user_id_resource_id",
				Unique:  true,
				Columns: []*schema.Column{ResourceViewsColumns[1], ResourceViewsColumns[2]},
			},
		},
	}

	// ResumesColumns holds the columns for the "resumes" table.
	ResumesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "file_name", Type: field.TypeString},
		{Name: "mime_type", Type: field.TypeString},
		{Name: "object_key", Type: field.TypeString, Default: ""},
		{Name: "raw_text", Type: field.TypeString, Size: textSize},
		{Name: "parsed", Type: field.TypeJSON, Nullable: true},
		{Name: "created_at", Type: field.TypeTime},
	}
	// ResumesTable holds the schema information for the "resumes" table.
	ResumesTable = &schema.Table{
		Name:       "resumes",
		Columns:    ResumesColumns,
		PrimaryKey: []*schema.Column{ResumesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "resumes_users_resumes",
				Columns:    []*schema.Column{ResumesColumns[1]},
				RefColumns: []*schema.Column{UsersColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// AnalysesColumns holds the columns for the "analyses" table.
	AnalysesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "user_id", Type: field.TypeString},
		{Name: "resume_id", Type: field.TypeString, Nullable: true},
		{Name: "target_role", Type: field.TypeString, Default: ""},
		{Name: "job_description", Type: field.TypeString, Size: textSize},
		{Name: "match_score", Type: field.TypeInt},
		{Name: "status", Type: field.TypeString},
		{Name: "result", Type: field.TypeJSON},
		{Name: "created_at", Type: field.TypeTime},
	}
	// AnalysesTable holds the schema information for the "analyses" table.
	AnalysesTable = &schema.Table{
		Name:       "analyses",
		Columns:    AnalysesColumns,
		PrimaryKey: []*schema.Column{AnalysesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "analyses_resumes_analyses",
				Columns:    []*schema.Column{AnalysesColumns[2]},
				RefColumns: []*schema.Column{ResumesColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "analysis_user_id",
				Unique:  false,
				Columns: []*schema.Column{AnalysesColumns[1]},
			},
		},
	}

	// LlmRequestEventsColumns holds the columns for the "llm_request_events" table.
	LlmRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: textSize, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: textSize, Default: ""},
	}
	// LlmRequestEventsTable holds the schema information for the "llm_request_events" table.
	LlmRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LlmRequestEventsColumns,
		PrimaryKey: []*schema.Column{LlmRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "llmrequestevent_purpose",
				Unique:  false,
				Columns: []*schema.Column{LlmRequestEventsColumns[4]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		UsersTable,
		InterviewSessionsTable,
		InterviewTurnsTable,
		RoadmapsTable,
		MilestonesTable,
		ResourcesTable,
		QuizzesTable,
		MilestoneProgressTable,
		LearningStatsTable,
		AchievementsTable,
		DailyGoalsTable,
		QuizAttemptsTable,
		ResourceViewsTable,
		ResumesTable,
		AnalysesTable,
		LlmRequestEventsTable,
	}
)

func init() {
	InterviewTurnsTable.ForeignKeys[0].RefTable = InterviewSessionsTable
	RoadmapsTable.ForeignKeys[0].RefTable = UsersTable
	MilestonesTable.ForeignKeys[0].RefTable = RoadmapsTable
	ResourcesTable.ForeignKeys[0].RefTable = MilestonesTable
	QuizzesTable.ForeignKeys[0].RefTable = MilestonesTable
	MilestoneProgressTable.ForeignKeys[0].RefTable = MilestonesTable
	LearningStatsTable.ForeignKeys[0].RefTable = UsersTable
	QuizAttemptsTable.ForeignKeys[0].RefTable = QuizzesTable
	ResourceViewsTable.ForeignKeys[0].RefTable = ResourcesTable
	ResumesTable.ForeignKeys[0].RefTable = UsersTable
	AnalysesTable.ForeignKeys[0].RefTable = ResumesTable
}

// Create runs the auto-migration for all tables against drv.
func Create(ctx context.Context, drv dialect.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
