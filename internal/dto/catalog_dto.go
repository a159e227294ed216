package dto

import "time"

// CreateCategoryRequest registers an evaluation area.
type CreateCategoryRequest struct {
	Name         string  `json:"name" binding:"required"`
	Description  *string `json:"description,omitempty"`
	Weight       float64 `json:"weight,omitempty"`
	DisplayOrder int     `json:"display_order,omitempty"`
}

type CategoryResponseDTO struct {
	ID           uint    `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Weight       float64 `json:"weight"`
	DisplayOrder int     `json:"display_order"`
	IsActive     bool    `json:"is_active"`
}

// CreateQuestionRequest registers one evaluation question. CorrectAnswer is
// required for SINGLE/MULTIPLE; ScoringRubric feeds AI-assisted grading of
// SHORT/ESSAY answers.
type CreateQuestionRequest struct {
	CategoryID        uint                   `json:"category_id" binding:"required"`
	Type              string                 `json:"type" binding:"required,oneof=SINGLE MULTIPLE SHORT ESSAY FILE"`
	Content           string                 `json:"content" binding:"required"`
	Options           map[string]interface{} `json:"options,omitempty"`
	CorrectAnswer     map[string]interface{} `json:"correct_answer,omitempty"`
	ScoringRubric     map[string]interface{} `json:"scoring_rubric,omitempty"`
	MaxScore          int                    `json:"max_score" binding:"required,min=1"`
	Difficulty        string                 `json:"difficulty,omitempty"`
	TargetSpecialties []string               `json:"target_specialties,omitempty"`
	Explanation       *string                `json:"explanation,omitempty"`
	DisplayOrder      int                    `json:"display_order,omitempty"`
}

// QuestionResponseDTO omits CorrectAnswer so graded keys never leak to
// answering experts.
type QuestionResponseDTO struct {
	ID                uint                   `json:"id"`
	CategoryID        uint                   `json:"category_id"`
	Type              string                 `json:"type"`
	Content           string                 `json:"content"`
	Options           map[string]interface{} `json:"options,omitempty"`
	MaxScore          int                    `json:"max_score"`
	Difficulty        string                 `json:"difficulty"`
	TargetSpecialties []string               `json:"target_specialties,omitempty"`
	DisplayOrder      int                    `json:"display_order"`
	IsActive          bool                   `json:"is_active"`
	CreatedAt         time.Time              `json:"created_at"`
}

// CreateExpertRequest registers an expert profile; qualification starts
// PENDING.
type CreateExpertRequest struct {
	Name        string   `json:"name" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Specialties []string `json:"specialties,omitempty"`
	CareerYears int      `json:"career_years,omitempty" binding:"omitempty,min=0"`
	DegreeType  *string  `json:"degree_type,omitempty"`
	Bio         *string  `json:"bio,omitempty"`
}

// UpdateExpertQualificationRequest moves an expert's qualification status.
type UpdateExpertQualificationRequest struct {
	QualificationStatus string `json:"qualification_status" binding:"required,oneof=PENDING QUALIFIED DISQUALIFIED"`
}

type ExpertResponseDTO struct {
	ID                  uint      `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	QualificationStatus string    `json:"qualification_status"`
	Specialties         []string  `json:"specialties,omitempty"`
	CareerYears         int       `json:"career_years"`
	DegreeType          *string   `json:"degree_type,omitempty"`
	Bio                 *string   `json:"bio,omitempty"`
	IsActive            bool      `json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
}

// CreateDemandRequest registers a company's request for experts.
type CreateDemandRequest struct {
	CompanyName         string                 `json:"company_name" binding:"required"`
	Title               string                 `json:"title" binding:"required"`
	Description         *string                `json:"description,omitempty"`
	RequiredSpecialties []string               `json:"required_specialties,omitempty"`
	MinCareerYears      int                    `json:"min_career_years,omitempty" binding:"omitempty,min=0"`
	ExpertCount         int                    `json:"expert_count,omitempty" binding:"omitempty,min=1"`
	Requirements        map[string]interface{} `json:"requirements,omitempty"`
	Priority            int                    `json:"priority,omitempty" binding:"omitempty,min=1,max=5"`
}

type DemandResponseDTO struct {
	ID                  uint                   `json:"id"`
	CompanyName         string                 `json:"company_name"`
	Title               string                 `json:"title"`
	Description         *string                `json:"description,omitempty"`
	RequiredSpecialties []string               `json:"required_specialties,omitempty"`
	MinCareerYears      int                    `json:"min_career_years"`
	ExpertCount         int                    `json:"expert_count"`
	Requirements        map[string]interface{} `json:"requirements,omitempty"`
	Status              string                 `json:"status"`
	Priority            int                    `json:"priority"`
	IsActive            bool                   `json:"is_active"`
	CreatedAt           time.Time              `json:"created_at"`
}
