package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CategoryScore is one category's slice of an expert's aggregate.
type CategoryScore struct {
	CategoryName string  `json:"category_name"`
	Score        float64 `json:"score"`
	MaxScore     float64 `json:"max_score"`
	Percentage   float64 `json:"percentage"`
	GradedCount  int     `json:"graded_count"`
}

// ExpertScore caches the aggregate derived from all graded answers for one
// expert. Exactly one row per expert; every recalculation overwrites the
// whole row so it always reflects a single complete computation.
// Rank and Percentile are filled by the periodic ranking job, never by the
// aggregator.
type ExpertScore struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ExpertID uint   `json:"expert_id" gorm:"not null;uniqueIndex"`
	Expert   Expert `json:"-" gorm:"foreignKey:ExpertID"`

	TotalScore        float64 `json:"total_score" gorm:"not null;default:0"`
	MaxPossibleScore  float64 `json:"max_possible_score" gorm:"not null;default:0"`
	AveragePercentage float64 `json:"average_percentage" gorm:"not null;default:0"` // 0-100

	// CategoryScores maps category id (as string) to its breakdown.
	CategoryScores datatypes.JSONType[map[string]CategoryScore] `json:"category_scores"`

	GradedCount int `json:"graded_count" gorm:"not null;default:0"`
	TotalCount  int `json:"total_count" gorm:"not null;default:0"`

	Rank       *int     `json:"rank,omitempty"`
	Percentile *float64 `json:"percentile,omitempty"`

	LastCalculatedAt time.Time `json:"last_calculated_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
