package dto

import "time"

// MatchScoreDTO is the five-factor breakdown of one expert/demand pair.
type MatchScoreDTO struct {
	TotalScore         float64                `json:"total_score"`
	SpecialtyScore     float64                `json:"specialty_score"`
	QualificationScore float64                `json:"qualification_score"`
	CareerScore        float64                `json:"career_score"`
	EvaluationScore    float64                `json:"evaluation_score"`
	AvailabilityScore  float64                `json:"availability_score"`
	Details            map[string]interface{} `json:"details"`
}

// MatchCandidateDTO is one ranked entry from the match finder.
type MatchCandidateDTO struct {
	ExpertID              uint          `json:"expert_id"`
	ExpertName            string        `json:"expert_name"`
	Score                 MatchScoreDTO `json:"score"`
	RecommendationReasons []string      `json:"recommendation_reasons"`
}

// CompatibilityDTO is the detailed single-pair check, including the
// recommendation tier.
type CompatibilityDTO struct {
	ExpertID           uint                   `json:"expert_id"`
	DemandID           uint                   `json:"demand_id"`
	TotalScore         float64                `json:"total_score"`
	ScoreBreakdown     map[string]float64     `json:"score_breakdown"`
	Recommendation     string                 `json:"recommendation"`
	RecommendationText string                 `json:"recommendation_text"`
	Reasons            []string               `json:"reasons"`
	Details            map[string]interface{} `json:"details"`
}

// CreateMatchingRequest proposes a matching between an expert and a demand.
type CreateMatchingRequest struct {
	ExpertID       uint    `json:"expert_id" binding:"required"`
	DemandID       uint    `json:"demand_id" binding:"required"`
	MatchingType   string  `json:"matching_type,omitempty"`
	MatchingReason *string `json:"matching_reason,omitempty"`
	MatchedBy      *uint   `json:"matched_by,omitempty"`
}

// MatchingResponseDTO mirrors a stored matching record.
type MatchingResponseDTO struct {
	ID              uint               `json:"id"`
	ExpertID        uint               `json:"expert_id"`
	DemandID        uint               `json:"demand_id"`
	MatchingType    string             `json:"matching_type"`
	Status          string             `json:"status"`
	MatchScore      *float64           `json:"match_score,omitempty"`
	ScoreBreakdown  map[string]float64 `json:"score_breakdown,omitempty"`
	MatchingReason  *string            `json:"matching_reason,omitempty"`
	ExpertResponse  *string            `json:"expert_response,omitempty"`
	CompanyFeedback *string            `json:"company_feedback,omitempty"`
	CompanyRating   *int               `json:"company_rating,omitempty"`
	IsActive        bool               `json:"is_active"`
	CreatedAt       time.Time          `json:"created_at"`
}

// RespondToMatchingRequest is the expert's accept/reject step.
type RespondToMatchingRequest struct {
	Accept  bool    `json:"accept"`
	Message *string `json:"message,omitempty"`
}

// CompleteMatchingRequest closes a matching with company feedback.
type CompleteMatchingRequest struct {
	CompanyFeedback *string `json:"company_feedback,omitempty"`
	CompanyRating   *int    `json:"company_rating,omitempty" binding:"omitempty,min=1,max=5"`
}

// MatchingAnalyticsDTO is the operator-facing matching dashboard.
type MatchingAnalyticsDTO struct {
	StatusDistribution   map[string]int64         `json:"status_distribution"`
	SuccessRate          float64                  `json:"success_rate"`
	AverageMatchScore    float64                  `json:"average_match_score"`
	TotalActiveMatchings int64                    `json:"total_active_matchings"`
	TotalCompleted       int64                    `json:"total_completed"`
	TopMatchedExperts    []map[string]interface{} `json:"top_matched_experts"`
}

// ProfileMatchDTO is the advisory text-similarity profile comparison.
type ProfileMatchDTO struct {
	BioSimilarity      float64  `json:"bio_similarity"`
	SpecialtyOverlap   float64  `json:"specialty_overlap"`
	CombinedScore      float64  `json:"combined_score"`
	MatchedSpecialties []string `json:"matched_specialties"`
}
