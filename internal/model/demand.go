package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type DemandStatus string

const (
	DemandStatusPending    DemandStatus = "PENDING"
	DemandStatusMatched    DemandStatus = "MATCHED"
	DemandStatusInProgress DemandStatus = "IN_PROGRESS"
	DemandStatusCompleted  DemandStatus = "COMPLETED"
	DemandStatusCancelled  DemandStatus = "CANCELLED"
)

// Demand is a company's request for expert assistance. The matching pipeline
// treats it as read-only input: required specialties and the optional
// minimum career requirement feed the match score factors.
type Demand struct {
	ID          uint    `gorm:"primarykey" json:"id"`
	CompanyName string  `json:"company_name" gorm:"not null"`
	Title       string  `json:"title" gorm:"not null"`
	Description *string `json:"description,omitempty" gorm:"type:text"`

	RequiredSpecialties datatypes.JSONSlice[string] `json:"required_specialties,omitempty"`
	// MinCareerYears of 0 means no career requirement.
	MinCareerYears int `json:"min_career_years" gorm:"not null;default:0"`
	ExpertCount    int `json:"expert_count" gorm:"not null;default:1"`

	// Requirements keeps free-form extras (budget range, duration, ...).
	Requirements datatypes.JSONMap `json:"requirements,omitempty"`

	Status   DemandStatus `json:"status" gorm:"not null;default:'PENDING';index"`
	Priority int          `json:"priority" gorm:"not null;default:3"`
	IsActive bool         `json:"is_active" gorm:"not null;default:true"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
