package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MatchingStatus string

const (
	MatchingStatusProposed   MatchingStatus = "PROPOSED"
	MatchingStatusAccepted   MatchingStatus = "ACCEPTED"
	MatchingStatusRejected   MatchingStatus = "REJECTED"
	MatchingStatusInProgress MatchingStatus = "IN_PROGRESS"
	MatchingStatusCompleted  MatchingStatus = "COMPLETED"
	MatchingStatusCancelled  MatchingStatus = "CANCELLED"
)

// ActiveMatchingStatuses are the states that count against an expert's
// availability factor.
var ActiveMatchingStatuses = []MatchingStatus{
	MatchingStatusProposed,
	MatchingStatusAccepted,
	MatchingStatusInProgress,
}

type MatchingType string

const (
	MatchingTypeAuto      MatchingType = "AUTO"
	MatchingTypeManual    MatchingType = "MANUAL"
	MatchingTypeRequested MatchingType = "REQUESTED"
)

// ScoreBreakdown is the per-factor component of a persisted match score.
type ScoreBreakdown struct {
	Specialty     float64 `json:"specialty"`
	Qualification float64 `json:"qualification"`
	Career        float64 `json:"career"`
	Evaluation    float64 `json:"evaluation"`
	Availability  float64 `json:"availability"`
}

// Matching links one expert to one demand with the score computed at
// proposal time.
type Matching struct {
	ID       uint   `gorm:"primarykey" json:"id"`
	ExpertID uint   `json:"expert_id" gorm:"not null;index"`
	Expert   Expert `json:"expert,omitempty" gorm:"foreignKey:ExpertID"`
	DemandID uint   `json:"demand_id" gorm:"not null;index"`
	Demand   Demand `json:"demand,omitempty" gorm:"foreignKey:DemandID"`

	MatchingType MatchingType   `json:"matching_type" gorm:"not null;default:'AUTO'"`
	Status       MatchingStatus `json:"status" gorm:"not null;default:'PROPOSED';index"`

	MatchScore     *float64                             `json:"match_score,omitempty"`
	ScoreBreakdown datatypes.JSONType[*ScoreBreakdown]  `json:"score_breakdown,omitempty"`
	MatchingReason *string                              `json:"matching_reason,omitempty" gorm:"type:text"`

	ExpertResponse    *string    `json:"expert_response,omitempty" gorm:"type:text"`
	ExpertRespondedAt *time.Time `json:"expert_responded_at,omitempty"`

	CompanyFeedback *string `json:"company_feedback,omitempty" gorm:"type:text"`
	CompanyRating   *int    `json:"company_rating,omitempty"` // 1-5

	MatchedBy *uint `json:"matched_by,omitempty"`

	IsActive bool `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
