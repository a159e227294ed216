package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AnswerStatus string

const (
	AnswerStatusDraft     AnswerStatus = "DRAFT"
	AnswerStatusSubmitted AnswerStatus = "SUBMITTED"
	AnswerStatusGraded    AnswerStatus = "GRADED"
	AnswerStatusReviewed  AnswerStatus = "REVIEWED"
)

// Answer is one expert's response to one question. The row is reused while
// the answer is still a draft (Version increments on each edit); MaxScore is
// copied from the question at creation time and never changes afterwards.
type Answer struct {
	ID         uint     `gorm:"primarykey" json:"id"`
	ExpertID   uint     `json:"expert_id" gorm:"not null;index"`
	Expert     Expert   `json:"-" gorm:"foreignKey:ExpertID"`
	QuestionID uint     `json:"question_id" gorm:"not null;index"`
	Question   Question `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	Version    int      `json:"version" gorm:"not null;default:1"`

	// ResponseData shape depends on the question type:
	// single choice   {"value": "B"}
	// multiple choice {"value": ["A", "C"]}
	// short/essay     {"text": "..."}
	// file            {"file_url": "...", "file_name": "..."}
	ResponseData datatypes.JSONMap `json:"response_data" gorm:"not null"`

	Score         *float64     `json:"score,omitempty"`
	MaxScore      int          `json:"max_score" gorm:"not null"`
	IsCorrect     *bool        `json:"is_correct,omitempty"`
	GraderID      *uint        `json:"grader_id,omitempty"`
	GraderComment *string      `json:"grader_comment,omitempty" gorm:"type:text"`
	Status        AnswerStatus `json:"status" gorm:"not null;default:'DRAFT';index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsTerminal reports whether grading for this answer is finished.
func (s AnswerStatus) IsTerminal() bool {
	return s == AnswerStatusGraded || s == AnswerStatusReviewed
}
