package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"expertmatch/config"
	"expertmatch/internal/apperror"
	"expertmatch/internal/dto"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MatchScore is the computed five-factor compatibility between one expert
// and one demand. Every component is on a 0-100 scale; Total is the
// weighted sum.
type MatchScore struct {
	Total         float64
	Specialty     float64
	Qualification float64
	Career        float64
	Evaluation    float64
	Availability  float64
	Details       map[string]interface{}
}

// MatchCandidate is one ranked expert for a demand.
type MatchCandidate struct {
	ExpertID              uint
	ExpertName            string
	Score                 MatchScore
	RecommendationReasons []string
}

// MatchingService scores expert/demand pairs, ranks candidates for a
// demand, and manages the lifecycle of persisted matchings.
type MatchingService interface {
	CalculateMatchScore(expert *model.Expert, demand *model.Demand) (*MatchScore, error)
	FindBestMatches(demandID uint, topN int, minScore float64) ([]MatchCandidate, error)
	CheckCompatibility(expertID, demandID uint) (*dto.CompatibilityDTO, error)
	CreateMatching(req dto.CreateMatchingRequest) (*dto.MatchingResponseDTO, error)
	RespondToMatching(matchingID uint, req dto.RespondToMatchingRequest) (*dto.MatchingResponseDTO, error)
	CompleteMatching(matchingID uint, req dto.CompleteMatchingRequest) (*dto.MatchingResponseDTO, error)
	GetMatchingAnalytics() (*dto.MatchingAnalyticsDTO, error)
	ProfileMatch(ctx context.Context, expertID, demandID uint) (*dto.ProfileMatchDTO, error)
}

type matchingService struct {
	expertRepo   repository.ExpertRepository
	demandRepo   repository.DemandRepository
	matchingRepo repository.MatchingRepository
	scoreRepo    repository.ExpertScoreRepository
	similarity   SimilarityProvider
	weights      config.Matching
}

func NewMatchingService(
	expertRepo repository.ExpertRepository,
	demandRepo repository.DemandRepository,
	matchingRepo repository.MatchingRepository,
	scoreRepo repository.ExpertScoreRepository,
	similarity SimilarityProvider,
	cfg *config.Config,
) MatchingService {
	return &matchingService{
		expertRepo:   expertRepo,
		demandRepo:   demandRepo,
		matchingRepo: matchingRepo,
		scoreRepo:    scoreRepo,
		similarity:   similarity,
		weights:      cfg.Matching,
	}
}

// CalculateMatchScore computes the weighted five-factor score. Each factor
// is pure except evaluation (one ExpertScore read) and availability (one
// active-matching count).
func (s *matchingService) CalculateMatchScore(expert *model.Expert, demand *model.Demand) (*MatchScore, error) {
	details := make(map[string]interface{})

	specialty := s.specialtyScore(expert, demand, details)
	qualification := s.qualificationScore(expert, details)
	career := s.careerScore(expert, demand, details)

	evaluation, err := s.evaluationScore(expert, details)
	if err != nil {
		return nil, err
	}
	availability, err := s.availabilityScore(expert, details)
	if err != nil {
		return nil, err
	}

	total := specialty*s.weights.WeightSpecialty +
		qualification*s.weights.WeightQualification +
		career*s.weights.WeightCareer +
		evaluation*s.weights.WeightEvaluation +
		availability*s.weights.WeightAvailability

	return &MatchScore{
		Total:         round2(total),
		Specialty:     round2(specialty),
		Qualification: round2(qualification),
		Career:        round2(career),
		Evaluation:    round2(evaluation),
		Availability:  round2(availability),
		Details:       details,
	}, nil
}

// specialtyScore: coverage of the demand's required specialties. Without
// requirements the expert gets 80 for having any specialty, 50 otherwise.
func (s *matchingService) specialtyScore(expert *model.Expert, demand *model.Demand, details map[string]interface{}) float64 {
	expertSpecs := make(map[string]struct{}, len(expert.Specialties))
	for _, spec := range expert.Specialties {
		expertSpecs[spec] = struct{}{}
	}

	required := demand.RequiredSpecialties
	matched := make([]string, 0)
	for _, spec := range required {
		if _, ok := expertSpecs[spec]; ok {
			matched = append(matched, spec)
		}
	}

	var score float64
	if len(required) == 0 {
		if len(expertSpecs) > 0 {
			score = 80.0
		} else {
			score = 50.0
		}
	} else {
		score = float64(len(matched)) / float64(len(required)) * 100
	}

	details["specialty"] = map[string]interface{}{
		"expert_specialties":   []string(expert.Specialties),
		"required_specialties": []string(required),
		"matched":              matched,
		"score":                score,
	}
	return score
}

func (s *matchingService) qualificationScore(expert *model.Expert, details map[string]interface{}) float64 {
	var score float64
	switch expert.QualificationStatus {
	case model.QualificationQualified:
		score = 100.0
	case model.QualificationPending:
		score = 60.0
	default:
		score = 0.0
	}

	details["qualification"] = map[string]interface{}{
		"status": string(expert.QualificationStatus),
		"score":  score,
	}
	return score
}

// careerScore: without a requirement, 50 plus 5 per year capped at 100.
// Meeting the requirement earns 80 plus 5 per surplus year capped at 100;
// falling short scores proportionally up to 70.
func (s *matchingService) careerScore(expert *model.Expert, demand *model.Demand, details map[string]interface{}) float64 {
	expertYears := expert.CareerYears
	requiredYears := demand.MinCareerYears

	var score float64
	switch {
	case requiredYears == 0:
		score = math.Min(50+float64(expertYears)*5, 100)
	case expertYears >= requiredYears:
		bonus := math.Min(float64(expertYears-requiredYears)*5, 20)
		score = 80 + bonus
	default:
		score = float64(expertYears) / float64(requiredYears) * 70
	}

	details["career"] = map[string]interface{}{
		"expert_years":      expertYears,
		"required_years":    requiredYears,
		"meets_requirement": expertYears >= requiredYears,
		"score":             score,
	}
	return score
}

// evaluationScore: the expert's cached average percentage; a neutral 50
// when no evaluation data exists yet.
func (s *matchingService) evaluationScore(expert *model.Expert, details map[string]interface{}) (float64, error) {
	stored, err := s.scoreRepo.FindByExpert(expert.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, apperror.Internal("failed to load expert score", err)
	}

	score := 50.0
	detail := map[string]interface{}{
		"average_percentage": nil,
		"graded_count":       0,
		"total_count":        0,
	}
	if stored != nil && stored.AveragePercentage > 0 {
		score = stored.AveragePercentage
	}
	if stored != nil {
		detail["average_percentage"] = stored.AveragePercentage
		detail["graded_count"] = stored.GradedCount
		detail["total_count"] = stored.TotalCount
	}
	detail["score"] = score
	details["evaluation"] = detail
	return score, nil
}

// availabilityScore: inversely proportional to the count of active
// matchings. 0 active = 100, 1 = 80, 2 = 60, 3+ = max(40, 100-20n).
func (s *matchingService) availabilityScore(expert *model.Expert, details map[string]interface{}) (float64, error) {
	activeCount, err := s.matchingRepo.CountActiveByExpert(expert.ID)
	if err != nil {
		return 0, apperror.Internal("failed to count active matchings", err)
	}

	var score float64
	switch activeCount {
	case 0:
		score = 100.0
	case 1:
		score = 80.0
	case 2:
		score = 60.0
	default:
		score = math.Max(40.0, 100-float64(activeCount)*20)
	}

	details["availability"] = map[string]interface{}{
		"active_matchings": activeCount,
		"score":            score,
	}
	return score, nil
}

// FindBestMatches ranks all eligible experts for a demand. Eligible means
// active and QUALIFIED or PENDING; DISQUALIFIED experts are never
// candidates. The sort is stable: equal totals keep candidate-pool order.
func (s *matchingService) FindBestMatches(demandID uint, topN int, minScore float64) ([]MatchCandidate, error) {
	demand, err := s.demandRepo.FindByID(demandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("demand %d not found", demandID)
		}
		return nil, apperror.Internal("failed to load demand", err)
	}

	experts, err := s.expertRepo.FindCandidates()
	if err != nil {
		return nil, apperror.Internal("failed to load candidate experts", err)
	}

	candidates := make([]MatchCandidate, 0, len(experts))
	for i := range experts {
		expert := &experts[i]
		score, err := s.CalculateMatchScore(expert, demand)
		if err != nil {
			return nil, err
		}
		if score.Total < minScore {
			continue
		}
		candidates = append(candidates, MatchCandidate{
			ExpertID:              expert.ID,
			ExpertName:            expert.Name,
			Score:                 *score,
			RecommendationReasons: s.recommendationReasons(score),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score.Total > candidates[j].Score.Total
	})

	if topN > 0 && len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates, nil
}

// Recommendation reason thresholds. One string per factor at most; nothing
// is emitted for a factor below its thresholds.
func (s *matchingService) recommendationReasons(score *MatchScore) []string {
	reasons := make([]string, 0, 5)

	if score.Specialty >= 80 {
		reasons = append(reasons, "Specialties align well with the requirements")
	} else if score.Specialty >= 60 {
		reasons = append(reasons, "Specialties partially match the requirements")
	}
	if score.Qualification >= 100 {
		reasons = append(reasons, "Certified expert")
	}
	if score.Career >= 90 {
		reasons = append(reasons, "Extensive professional experience")
	} else if score.Career >= 70 {
		reasons = append(reasons, "Meets the required experience")
	}
	if score.Evaluation >= 80 {
		reasons = append(reasons, "Strong evaluation performance")
	}
	if score.Availability >= 80 {
		reasons = append(reasons, "Highly available")
	}
	return reasons
}

// CheckCompatibility scores a single pair and buckets the total into a
// recommendation tier using the configured thresholds.
func (s *matchingService) CheckCompatibility(expertID, demandID uint) (*dto.CompatibilityDTO, error) {
	expert, err := s.expertRepo.FindByID(expertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expert %d not found", expertID)
		}
		return nil, apperror.Internal("failed to load expert", err)
	}
	demand, err := s.demandRepo.FindByID(demandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("demand %d not found", demandID)
		}
		return nil, apperror.Internal("failed to load demand", err)
	}

	score, err := s.CalculateMatchScore(expert, demand)
	if err != nil {
		return nil, err
	}

	var recommendation, recommendationText string
	switch {
	case score.Total >= s.weights.HighlyRecommendedThreshold:
		recommendation, recommendationText = "HIGHLY_RECOMMENDED", "Highly recommended"
	case score.Total >= s.weights.RecommendedThreshold:
		recommendation, recommendationText = "RECOMMENDED", "Recommended"
	case score.Total >= s.weights.PossibleThreshold:
		recommendation, recommendationText = "POSSIBLE", "Possible"
	default:
		recommendation, recommendationText = "NOT_RECOMMENDED", "Not recommended"
	}

	return &dto.CompatibilityDTO{
		ExpertID:   expertID,
		DemandID:   demandID,
		TotalScore: score.Total,
		ScoreBreakdown: map[string]float64{
			"specialty":     score.Specialty,
			"qualification": score.Qualification,
			"career":        score.Career,
			"evaluation":    score.Evaluation,
			"availability":  score.Availability,
		},
		Recommendation:     recommendation,
		RecommendationText: recommendationText,
		Reasons:            s.recommendationReasons(score),
		Details:            score.Details,
	}, nil
}

// CreateMatching persists a PROPOSED matching with the score computed at
// proposal time.
func (s *matchingService) CreateMatching(req dto.CreateMatchingRequest) (*dto.MatchingResponseDTO, error) {
	expert, err := s.expertRepo.FindByID(req.ExpertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expert %d not found", req.ExpertID)
		}
		return nil, apperror.Internal("failed to load expert", err)
	}
	demand, err := s.demandRepo.FindByID(req.DemandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("demand %d not found", req.DemandID)
		}
		return nil, apperror.Internal("failed to load demand", err)
	}

	score, err := s.CalculateMatchScore(expert, demand)
	if err != nil {
		return nil, err
	}

	matchingType := model.MatchingTypeAuto
	switch model.MatchingType(req.MatchingType) {
	case model.MatchingTypeManual, model.MatchingTypeRequested:
		matchingType = model.MatchingType(req.MatchingType)
	}

	total := score.Total
	matching := &model.Matching{
		ExpertID:     req.ExpertID,
		DemandID:     req.DemandID,
		MatchingType: matchingType,
		Status:       model.MatchingStatusProposed,
		MatchScore:   &total,
		ScoreBreakdown: datatypes.NewJSONType(&model.ScoreBreakdown{
			Specialty:     score.Specialty,
			Qualification: score.Qualification,
			Career:        score.Career,
			Evaluation:    score.Evaluation,
			Availability:  score.Availability,
		}),
		MatchingReason: req.MatchingReason,
		MatchedBy:      req.MatchedBy,
		IsActive:       true,
	}
	if err := s.matchingRepo.Create(matching); err != nil {
		return nil, apperror.Internal("failed to create matching", err)
	}

	log.Info().Uint("matchingID", matching.ID).Uint("expertID", req.ExpertID).
		Uint("demandID", req.DemandID).Float64("score", total).Msg("Matching created")

	return matchingToDTO(matching), nil
}

// RespondToMatching records the expert's accept/reject decision on a
// PROPOSED matching.
func (s *matchingService) RespondToMatching(matchingID uint, req dto.RespondToMatchingRequest) (*dto.MatchingResponseDTO, error) {
	matching, err := s.matchingRepo.FindByID(matchingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("matching %d not found", matchingID)
		}
		return nil, apperror.Internal("failed to load matching", err)
	}
	if matching.Status != model.MatchingStatusProposed {
		return nil, apperror.InvalidState("matching %d is %s, only PROPOSED matchings accept a response",
			matchingID, matching.Status)
	}

	if req.Accept {
		matching.Status = model.MatchingStatusAccepted
	} else {
		matching.Status = model.MatchingStatusRejected
	}
	matching.ExpertResponse = req.Message
	now := time.Now().UTC()
	matching.ExpertRespondedAt = &now

	if err := s.matchingRepo.Save(matching); err != nil {
		return nil, apperror.Internal("failed to store matching response", err)
	}
	return matchingToDTO(matching), nil
}

// CompleteMatching closes an ACCEPTED or IN_PROGRESS matching with company
// feedback.
func (s *matchingService) CompleteMatching(matchingID uint, req dto.CompleteMatchingRequest) (*dto.MatchingResponseDTO, error) {
	matching, err := s.matchingRepo.FindByID(matchingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("matching %d not found", matchingID)
		}
		return nil, apperror.Internal("failed to load matching", err)
	}
	if matching.Status != model.MatchingStatusAccepted && matching.Status != model.MatchingStatusInProgress {
		return nil, apperror.InvalidState("matching %d is %s and cannot be completed",
			matchingID, matching.Status)
	}

	matching.Status = model.MatchingStatusCompleted
	matching.CompanyFeedback = req.CompanyFeedback
	matching.CompanyRating = req.CompanyRating

	if err := s.matchingRepo.Save(matching); err != nil {
		return nil, apperror.Internal("failed to complete matching", err)
	}
	return matchingToDTO(matching), nil
}

func (s *matchingService) GetMatchingAnalytics() (*dto.MatchingAnalyticsDTO, error) {
	statusCounts, err := s.matchingRepo.StatusCounts()
	if err != nil {
		return nil, apperror.Internal("failed to count matchings by status", err)
	}

	distribution := make(map[string]int64, len(statusCounts))
	for status, count := range statusCounts {
		distribution[string(status)] = count
	}

	completed := statusCounts[model.MatchingStatusCompleted]
	rejected := statusCounts[model.MatchingStatusRejected]
	cancelled := statusCounts[model.MatchingStatusCancelled]
	resolved := completed + rejected + cancelled
	successRate := 0.0
	if resolved > 0 {
		successRate = round1(float64(completed) / float64(resolved) * 100)
	}

	avgScore, err := s.matchingRepo.AverageActiveScore()
	if err != nil {
		return nil, apperror.Internal("failed to compute average match score", err)
	}

	topExperts, err := s.matchingRepo.TopMatchedExperts(5)
	if err != nil {
		return nil, apperror.Internal("failed to list top matched experts", err)
	}
	top := make([]map[string]interface{}, 0, len(topExperts))
	for _, row := range topExperts {
		top = append(top, map[string]interface{}{
			"expert_id":   row.ExpertID,
			"match_count": row.MatchCount,
		})
	}

	var active int64
	for _, status := range model.ActiveMatchingStatuses {
		active += statusCounts[status]
	}

	return &dto.MatchingAnalyticsDTO{
		StatusDistribution:   distribution,
		SuccessRate:          successRate,
		AverageMatchScore:    round1(avgScore),
		TotalActiveMatchings: active,
		TotalCompleted:       completed,
		TopMatchedExperts:    top,
	}, nil
}

// ProfileMatch is an advisory text comparison of an expert's bio against a
// demand's description, combined with specialty overlap. It feeds operator
// review, never the match score.
func (s *matchingService) ProfileMatch(ctx context.Context, expertID, demandID uint) (*dto.ProfileMatchDTO, error) {
	expert, err := s.expertRepo.FindByID(expertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expert %d not found", expertID)
		}
		return nil, apperror.Internal("failed to load expert", err)
	}
	demand, err := s.demandRepo.FindByID(demandID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("demand %d not found", demandID)
		}
		return nil, apperror.Internal("failed to load demand", err)
	}

	bio := ""
	if expert.Bio != nil {
		bio = *expert.Bio
	}
	description := ""
	if demand.Description != nil {
		description = *demand.Description
	}

	bioSimilarity, err := s.similarity.Similarity(ctx, bio, description)
	if err != nil {
		log.Warn().Err(err).Msg("ProfileMatch: similarity provider failed, using keyword fallback")
		bioSimilarity = jaccardSimilarity(bio, description)
	}

	expertSpecs := make(map[string]struct{}, len(expert.Specialties))
	for _, spec := range expert.Specialties {
		expertSpecs[spec] = struct{}{}
	}
	matched := make([]string, 0)
	for _, spec := range demand.RequiredSpecialties {
		if _, ok := expertSpecs[spec]; ok {
			matched = append(matched, spec)
		}
	}
	overlap := 0.0
	if len(demand.RequiredSpecialties) > 0 {
		overlap = float64(len(matched)) / float64(len(demand.RequiredSpecialties))
	}

	return &dto.ProfileMatchDTO{
		BioSimilarity:      round2(bioSimilarity),
		SpecialtyOverlap:   round2(overlap),
		CombinedScore:      round2(0.6*overlap + 0.4*bioSimilarity),
		MatchedSpecialties: matched,
	}, nil
}

func matchingToDTO(matching *model.Matching) *dto.MatchingResponseDTO {
	out := &dto.MatchingResponseDTO{
		ID:              matching.ID,
		ExpertID:        matching.ExpertID,
		DemandID:        matching.DemandID,
		MatchingType:    string(matching.MatchingType),
		Status:          string(matching.Status),
		MatchScore:      matching.MatchScore,
		MatchingReason:  matching.MatchingReason,
		ExpertResponse:  matching.ExpertResponse,
		CompanyFeedback: matching.CompanyFeedback,
		CompanyRating:   matching.CompanyRating,
		IsActive:        matching.IsActive,
		CreatedAt:       matching.CreatedAt,
	}
	if breakdown := matching.ScoreBreakdown.Data(); breakdown != nil {
		out.ScoreBreakdown = map[string]float64{
			"specialty":     breakdown.Specialty,
			"qualification": breakdown.Qualification,
			"career":        breakdown.Career,
			"evaluation":    breakdown.Evaluation,
			"availability":  breakdown.Availability,
		}
	}
	return out
}
