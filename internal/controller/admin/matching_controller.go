package admin

import (
	"net/http"
	"strconv"

	"expertmatch/internal/controller"
	"expertmatch/internal/dto"
	"expertmatch/internal/service"

	"github.com/gin-gonic/gin"
)

// MatchingController exposes the operator-side matching surface: candidate
// ranking, compatibility checks, matching lifecycle, and analytics.
type MatchingController struct {
	matchingSvc service.MatchingService
}

func NewMatchingController(matchingSvc service.MatchingService) *MatchingController {
	return &MatchingController{matchingSvc: matchingSvc}
}

// FindBestMatches godoc
// @Summary Rank candidate experts for a demand
// @Description Scores every eligible expert against the demand and returns the top candidates above min_score
// @Tags admin-matching
// @Produce json
// @Param demand_id path int true "Demand ID"
// @Param top_n query int false "Maximum candidates to return" default(10)
// @Param min_score query number false "Minimum total score" default(0)
// @Success 200 {array} dto.MatchCandidateDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Demand not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/demands/{demand_id}/matches [get]
func (ctrl *MatchingController) FindBestMatches(c *gin.Context) {
	demandID, ok := controller.ParseIDParam(c, "demand_id")
	if !ok {
		return
	}

	topN, err := strconv.Atoi(c.DefaultQuery("top_n", "10"))
	if err != nil || topN < 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid top_n value"})
		return
	}
	minScore, err := strconv.ParseFloat(c.DefaultQuery("min_score", "0"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid min_score value"})
		return
	}

	candidates, err := ctrl.matchingSvc.FindBestMatches(demandID, topN, minScore)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidatesToDTO(candidates))
}

// CheckCompatibility godoc
// @Summary Check one expert/demand pair
// @Description Full five-factor score with breakdown, recommendation tier, and reasons
// @Tags admin-matching
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Param demand_id path int true "Demand ID"
// @Success 200 {object} dto.CompatibilityDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Expert or demand not found"
// @Router /admin/compatibility/{expert_id}/{demand_id} [get]
func (ctrl *MatchingController) CheckCompatibility(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}
	demandID, ok := controller.ParseIDParam(c, "demand_id")
	if !ok {
		return
	}

	resp, err := ctrl.matchingSvc.CheckCompatibility(expertID, demandID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateMatching godoc
// @Summary Propose a matching
// @Description Persist a PROPOSED matching between an expert and a demand, with the score computed at proposal time
// @Tags admin-matching
// @Accept json
// @Produce json
// @Param matching body dto.CreateMatchingRequest true "Matching data"
// @Success 201 {object} dto.MatchingResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Expert or demand not found"
// @Router /admin/matchings [post]
func (ctrl *MatchingController) CreateMatching(c *gin.Context) {
	var req dto.CreateMatchingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.matchingSvc.CreateMatching(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// CompleteMatching godoc
// @Summary Complete a matching
// @Description Close an ACCEPTED or IN_PROGRESS matching with company feedback
// @Tags admin-matching
// @Accept json
// @Produce json
// @Param id path int true "Matching ID"
// @Param feedback body dto.CompleteMatchingRequest true "Company feedback"
// @Success 200 {object} dto.MatchingResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Matching not found"
// @Failure 409 {object} dto.ErrorResponse "Matching is not in a completable state"
// @Router /admin/matchings/{id}/complete [post]
func (ctrl *MatchingController) CompleteMatching(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.CompleteMatchingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.matchingSvc.CompleteMatching(id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMatchingAnalytics godoc
// @Summary Matching analytics dashboard
// @Description Status distribution, success rate, average active score, and the most matched experts
// @Tags admin-matching
// @Produce json
// @Success 200 {object} dto.MatchingAnalyticsDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/matchings/analytics [get]
func (ctrl *MatchingController) GetMatchingAnalytics(c *gin.Context) {
	resp, err := ctrl.matchingSvc.GetMatchingAnalytics()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ProfileMatch godoc
// @Summary Advisory profile comparison
// @Description Text similarity of expert bio vs demand description plus specialty overlap. Advisory only; never part of the match score.
// @Tags admin-matching
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Param demand_id path int true "Demand ID"
// @Success 200 {object} dto.ProfileMatchDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Expert or demand not found"
// @Router /admin/profile-match/{expert_id}/{demand_id} [get]
func (ctrl *MatchingController) ProfileMatch(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}
	demandID, ok := controller.ParseIDParam(c, "demand_id")
	if !ok {
		return
	}

	resp, err := ctrl.matchingSvc.ProfileMatch(c.Request.Context(), expertID, demandID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func candidatesToDTO(candidates []service.MatchCandidate) []dto.MatchCandidateDTO {
	out := make([]dto.MatchCandidateDTO, 0, len(candidates))
	for _, candidate := range candidates {
		out = append(out, dto.MatchCandidateDTO{
			ExpertID:   candidate.ExpertID,
			ExpertName: candidate.ExpertName,
			Score: dto.MatchScoreDTO{
				TotalScore:         candidate.Score.Total,
				SpecialtyScore:     candidate.Score.Specialty,
				QualificationScore: candidate.Score.Qualification,
				CareerScore:        candidate.Score.Career,
				EvaluationScore:    candidate.Score.Evaluation,
				AvailabilityScore:  candidate.Score.Availability,
				Details:            candidate.Score.Details,
			},
			RecommendationReasons: candidate.RecommendationReasons,
		})
	}
	return out
}
