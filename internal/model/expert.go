package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QualificationStatus string

const (
	QualificationPending      QualificationStatus = "PENDING"
	QualificationQualified    QualificationStatus = "QUALIFIED"
	QualificationDisqualified QualificationStatus = "DISQUALIFIED"
)

type DegreeType string

const (
	DegreePhD      DegreeType = "PHD"
	DegreeMaster   DegreeType = "MASTER"
	DegreeBachelor DegreeType = "BACHELOR"
)

// Expert is a qualification-evaluated individual eligible for company
// matching. The matching pipeline only reads this row; qualification status
// is mutated by the verification workflow.
type Expert struct {
	ID                  uint                        `gorm:"primarykey" json:"id"`
	Name                string                      `json:"name" gorm:"not null"`
	Email               string                      `json:"email" gorm:"not null;uniqueIndex"`
	QualificationStatus QualificationStatus         `json:"qualification_status" gorm:"not null;default:'PENDING';index"`
	Specialties         datatypes.JSONSlice[string] `json:"specialties,omitempty"`
	CareerYears         int                         `json:"career_years" gorm:"not null;default:0"`
	DegreeType          *DegreeType                 `json:"degree_type,omitempty"`
	Bio                 *string                     `json:"bio,omitempty" gorm:"type:text"`
	IsActive            bool                        `json:"is_active" gorm:"not null;default:true"`
	CreatedAt           time.Time                   `json:"created_at"`
	UpdatedAt           time.Time                   `json:"updated_at"`
	DeletedAt           gorm.DeletedAt              `gorm:"index" json:"-"`
}
