package user

import (
	"net/http"

	"expertmatch/internal/controller"
	"expertmatch/internal/dto"
	"expertmatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ExpertController exposes the expert-facing surface: answering questions,
// finalizing drafts, and reading own scores and matchings.
type ExpertController struct {
	gradingSvc  service.GradingService
	scoreSvc    service.ScoreService
	matchingSvc service.MatchingService
}

func NewExpertController(
	gradingSvc service.GradingService,
	scoreSvc service.ScoreService,
	matchingSvc service.MatchingService,
) *ExpertController {
	return &ExpertController{
		gradingSvc:  gradingSvc,
		scoreSvc:    scoreSvc,
		matchingSvc: matchingSvc,
	}
}

// SubmitAnswer godoc
// @Summary Submit or update a draft answer
// @Description Creates a draft answer, or bumps the version and overwrites the response of an existing draft for the same question
// @Tags expert
// @Accept json
// @Produce json
// @Param answer body dto.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} dto.AnswerResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /answers [post]
func (ctrl *ExpertController) SubmitAnswer(c *gin.Context) {
	var req dto.SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind SubmitAnswerRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.gradingSvc.SubmitAnswer(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FinalizeAnswers godoc
// @Summary Finalize all draft answers
// @Description Moves every DRAFT answer of the expert to SUBMITTED, locking them for grading
// @Tags expert
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {object} dto.FinalizeAnswersResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /experts/{expert_id}/answers/finalize [post]
func (ctrl *ExpertController) FinalizeAnswers(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.gradingSvc.FinalizeAnswers(expertID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAnswers godoc
// @Summary List an expert's answers
// @Tags expert
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {array} dto.AnswerResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /experts/{expert_id}/answers [get]
func (ctrl *ExpertController) GetAnswers(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.gradingSvc.GetExpertAnswers(expertID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAnswersSummary godoc
// @Summary Totals over an expert's non-draft answers
// @Tags expert
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {object} dto.ExpertAnswersSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /experts/{expert_id}/answers/summary [get]
func (ctrl *ExpertController) GetAnswersSummary(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.gradingSvc.GetExpertAnswersSummary(expertID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetScore godoc
// @Summary Get an expert's aggregate score
// @Description The cached aggregate as of the last recalculation
// @Tags expert
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {object} dto.ExpertScoreResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "No score calculated yet"
// @Router /experts/{expert_id}/score [get]
func (ctrl *ExpertController) GetScore(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.scoreSvc.GetExpertScore(expertID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetGradingProgress godoc
// @Summary Per-status breakdown of an expert's answers
// @Tags expert
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {object} dto.GradingProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /experts/{expert_id}/progress [get]
func (ctrl *ExpertController) GetGradingProgress(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.scoreSvc.GetGradingProgress(expertID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RespondToMatching godoc
// @Summary Accept or reject a proposed matching
// @Tags expert
// @Accept json
// @Produce json
// @Param id path int true "Matching ID"
// @Param response body dto.RespondToMatchingRequest true "Accept or reject with an optional message"
// @Success 200 {object} dto.MatchingResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Matching not found"
// @Failure 409 {object} dto.ErrorResponse "Matching is not awaiting a response"
// @Router /matchings/{id}/respond [post]
func (ctrl *ExpertController) RespondToMatching(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RespondToMatchingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.matchingSvc.RespondToMatching(id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
