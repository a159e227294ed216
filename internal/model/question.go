package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "SINGLE"
	QuestionTypeMultiple QuestionType = "MULTIPLE"
	QuestionTypeShort    QuestionType = "SHORT"
	QuestionTypeEssay    QuestionType = "ESSAY"
	QuestionTypeFile     QuestionType = "FILE"
)

// IsObjective reports whether answers to this type can be auto-graded.
func (t QuestionType) IsObjective() bool {
	return t == QuestionTypeSingle || t == QuestionTypeMultiple
}

// IsSubjective reports whether this type is eligible for AI-assisted grading.
func (t QuestionType) IsSubjective() bool {
	return t == QuestionTypeShort || t == QuestionTypeEssay
}

type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// QuestionCategory groups questions into evaluation areas. Weight is
// informational for reporting, it is not a normalization factor in the
// aggregate score.
type QuestionCategory struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Name         string         `json:"name" gorm:"not null;uniqueIndex"`
	Description  *string        `json:"description,omitempty" gorm:"type:text"`
	Weight       float64        `json:"weight" gorm:"not null;default:10"`
	DisplayOrder int            `json:"display_order" gorm:"not null;default:0"`
	IsActive     bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

type Question struct {
	ID         uint             `gorm:"primarykey" json:"id"`
	CategoryID uint             `json:"category_id" gorm:"not null;index"`
	Category   QuestionCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Type       QuestionType     `json:"type" gorm:"not null"`
	Content    string           `json:"content" gorm:"type:text;not null"`

	// Options holds choice labels for SINGLE/MULTIPLE, e.g. {"A": "2", "B": "3"}.
	Options datatypes.JSONMap `json:"options,omitempty"`
	// CorrectAnswer is {"value": "B"} for SINGLE, {"value": ["A","C"]} for MULTIPLE.
	CorrectAnswer datatypes.JSONMap `json:"correct_answer,omitempty"`
	// ScoringRubric drives AI-assisted grading of subjective answers:
	// {"keywords": [...], "criteria": [{"description": ..., "keywords": [...], "weight": ...}]}
	ScoringRubric datatypes.JSONMap `json:"scoring_rubric,omitempty"`

	MaxScore          int                        `json:"max_score" gorm:"not null"`
	Difficulty        Difficulty                 `json:"difficulty" gorm:"not null;default:'MEDIUM'"`
	TargetSpecialties datatypes.JSONSlice[string] `json:"target_specialties,omitempty"`
	Explanation       *string                    `json:"explanation,omitempty" gorm:"type:text"`
	DisplayOrder      int                        `json:"display_order" gorm:"not null;default:0"`
	IsActive          bool                       `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
