package dto

import "time"

// CategoryScoreSummary is one category's share of an expert's aggregate.
type CategoryScoreSummary struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"max_score"`
	Percentage   float64 `json:"percentage"`
	GradedCount  int     `json:"graded_count"`
}

// ExpertScoreResponseDTO is the cached aggregate for one expert.
type ExpertScoreResponseDTO struct {
	ID                uint                   `json:"id"`
	ExpertID          uint                   `json:"expert_id"`
	TotalScore        float64                `json:"total_score"`
	MaxPossibleScore  float64                `json:"max_possible_score"`
	AveragePercentage float64                `json:"average_percentage"`
	CategoryScores    []CategoryScoreSummary `json:"category_scores"`
	GradedCount       int                    `json:"graded_count"`
	TotalCount        int                    `json:"total_count"`
	Rank              *int                   `json:"rank,omitempty"`
	Percentile        *float64               `json:"percentile,omitempty"`
	LastCalculatedAt  time.Time              `json:"last_calculated_at"`
}

// GradingProgressDTO breaks an expert's answers down by status.
type GradingProgressDTO struct {
	TotalAnswers       int64   `json:"total_answers"`
	GradedAnswers      int64   `json:"graded_answers"`
	PendingAnswers     int64   `json:"pending_answers"`
	ProgressPercentage float64 `json:"progress_percentage"`
	DraftCount         int64   `json:"draft_count"`
	SubmittedCount     int64   `json:"submitted_count"`
	GradedCount        int64   `json:"graded_count"`
	ReviewedCount      int64   `json:"reviewed_count"`
}

// CategoryStatDTO is one category row in the grading dashboard.
type CategoryStatDTO struct {
	CategoryID   uint    `json:"category_id"`
	CategoryName string  `json:"category_name"`
	AnswerCount  int     `json:"answer_count"`
	TotalScore   float64 `json:"total_score"`
}

// GradingStatisticsDTO is the operator dashboard summary.
type GradingStatisticsDTO struct {
	TotalExperts           int64             `json:"total_experts"`
	ExpertsWithSubmissions int64             `json:"experts_with_submissions"`
	TotalAnswers           int64             `json:"total_answers"`
	GradedAnswers          int64             `json:"graded_answers"`
	PendingAnswers         int64             `json:"pending_answers"`
	AverageScore           float64           `json:"average_score"`
	HighestScore           float64           `json:"highest_score"`
	LowestScore            float64           `json:"lowest_score"`
	CategoryStats          []CategoryStatDTO `json:"category_stats"`
}

// ExpertAnswersSummaryDTO totals an expert's submitted and graded answers.
type ExpertAnswersSummaryDTO struct {
	ExpertID      uint    `json:"expert_id"`
	AnsweredCount int     `json:"answered_count"`
	TotalScore    float64 `json:"total_score"`
	MaxTotalScore float64 `json:"max_total_score"`
	AverageScore  float64 `json:"average_score"`
}
