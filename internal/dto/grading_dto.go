package dto

import "time"

// SubmitAnswerRequest creates or updates a draft answer for one question.
type SubmitAnswerRequest struct {
	ExpertID     uint                   `json:"expert_id" binding:"required"`
	QuestionID   uint                   `json:"question_id" binding:"required"`
	ResponseData map[string]interface{} `json:"response_data" binding:"required"`
}

// AnswerResponseDTO mirrors an answer row for API consumers.
type AnswerResponseDTO struct {
	ID            uint                   `json:"id"`
	ExpertID      uint                   `json:"expert_id"`
	QuestionID    uint                   `json:"question_id"`
	Version       int                    `json:"version"`
	ResponseData  map[string]interface{} `json:"response_data"`
	Score         *float64               `json:"score,omitempty"`
	MaxScore      int                    `json:"max_score"`
	IsCorrect     *bool                  `json:"is_correct,omitempty"`
	GraderID      *uint                  `json:"grader_id,omitempty"`
	GraderComment *string                `json:"grader_comment,omitempty"`
	Status        string                 `json:"status"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// AutoGradeRequest asks the grading engine to grade one objective answer.
type AutoGradeRequest struct {
	AnswerID uint `json:"answer_id" binding:"required"`
}

// AutoGradeResponseDTO is the result of grading one objective answer.
type AutoGradeResponseDTO struct {
	AnswerID  uint    `json:"answer_id"`
	Score     float64 `json:"score"`
	MaxScore  int     `json:"max_score"`
	IsCorrect bool    `json:"is_correct"`
	Feedback  string  `json:"feedback,omitempty"`
}

// ManualGradeRequest carries an operator's grade for a subjective answer.
type ManualGradeRequest struct {
	AnswerID      uint    `json:"answer_id" binding:"required"`
	Score         float64 `json:"score"`
	GraderComment *string `json:"grader_comment,omitempty"`
}

// AIGradeRequest asks for an advisory score suggestion.
type AIGradeRequest struct {
	AnswerID uint `json:"answer_id" binding:"required"`
}

// AIGradeResponseDTO is an advisory grading suggestion. It never reflects a
// stored grade; an operator decides whether to apply it.
type AIGradeResponseDTO struct {
	AnswerID        uint     `json:"answer_id"`
	QuestionID      uint     `json:"question_id"`
	SuggestedScore  float64  `json:"suggested_score"`
	MaxScore        float64  `json:"max_score"`
	Confidence      float64  `json:"confidence"`
	Reasoning       string   `json:"reasoning"`
	MatchedKeywords []string `json:"matched_keywords"`
	RubricCoverage  float64  `json:"rubric_coverage"`
}

// BatchGradeFailure reports one answer that could not be graded in a batch.
type BatchGradeFailure struct {
	AnswerID uint   `json:"answer_id"`
	Reason   string `json:"reason"`
}

// BatchGradeResultDTO summarizes a batch auto-grade run. Failures do not
// abort the batch; they are reported here.
type BatchGradeResultDTO struct {
	ExpertID    uint                `json:"expert_id"`
	GradedCount int                 `json:"graded_count"`
	Failures    []BatchGradeFailure `json:"failures,omitempty"`
}

// FinalizeAnswersResultDTO reports how many drafts moved to SUBMITTED.
type FinalizeAnswersResultDTO struct {
	ExpertID       uint  `json:"expert_id"`
	SubmittedCount int64 `json:"submitted_count"`
}
