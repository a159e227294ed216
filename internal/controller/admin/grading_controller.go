package admin

import (
	"net/http"
	"strconv"

	"expertmatch/internal/controller"
	"expertmatch/internal/dto"
	"expertmatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// GradingController exposes the operator-side grading surface: auto and
// manual grading, AI suggestions, batch runs, the score aggregator, and the
// grading dashboard.
type GradingController struct {
	gradingSvc   service.GradingService
	aiGradingSvc service.AIGradingService
	scoreSvc     service.ScoreService
}

func NewGradingController(
	gradingSvc service.GradingService,
	aiGradingSvc service.AIGradingService,
	scoreSvc service.ScoreService,
) *GradingController {
	return &GradingController{
		gradingSvc:   gradingSvc,
		aiGradingSvc: aiGradingSvc,
		scoreSvc:     scoreSvc,
	}
}

// AutoGrade godoc
// @Summary Auto-grade one objective answer
// @Description Grade a SINGLE or MULTIPLE choice answer against its answer key
// @Tags admin-grading
// @Accept json
// @Produce json
// @Param request body dto.AutoGradeRequest true "Answer to grade"
// @Success 200 {object} dto.AutoGradeResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Question type is not objective"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/grades/auto [post]
func (ctrl *GradingController) AutoGrade(c *gin.Context) {
	var req dto.AutoGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.gradingSvc.AutoGrade(req.AnswerID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ManualGrade godoc
// @Summary Manually grade an answer
// @Description Record an operator's score for an answer. The score must be within [0, max_score].
// @Tags admin-grading
// @Accept json
// @Produce json
// @Param grader_id query int true "Grader ID"
// @Param request body dto.ManualGradeRequest true "Grade to record"
// @Success 200 {object} dto.AnswerResponseDTO
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Failure 422 {object} dto.ErrorResponse "Score out of range"
// @Router /admin/grades/manual [post]
func (ctrl *GradingController) ManualGrade(c *gin.Context) {
	graderID, ok := parseQueryID(c, "grader_id")
	if !ok {
		return
	}

	var req dto.ManualGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.gradingSvc.ManualGrade(graderID, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SuggestGrade godoc
// @Summary Suggest a grade for a subjective answer
// @Description Produce an advisory score for a SHORT or ESSAY answer from its scoring rubric. The suggestion is never stored.
// @Tags admin-grading
// @Accept json
// @Produce json
// @Param request body dto.AIGradeRequest true "Answer to analyze"
// @Success 200 {object} dto.AIGradeResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Question type is not subjective"
// @Failure 404 {object} dto.ErrorResponse "Answer not found"
// @Router /admin/grades/suggest [post]
func (ctrl *GradingController) SuggestGrade(c *gin.Context) {
	var req dto.AIGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.aiGradingSvc.AIGradeSubjective(req.AnswerID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// BatchAutoGrade godoc
// @Summary Auto-grade all of an expert's submitted objective answers
// @Description Grades every SUBMITTED objective answer of the expert. Individual failures are reported, not fatal.
// @Tags admin-grading
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {object} dto.BatchGradeResultDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/experts/{expert_id}/grades/batch [post]
func (ctrl *GradingController) BatchAutoGrade(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.gradingSvc.BatchAutoGrade(expertID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecalculateExpertScore godoc
// @Summary Recompute an expert's aggregate score
// @Description Full recompute from all graded answers; rank and percentile are preserved.
// @Tags admin-grading
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {object} dto.ExpertScoreResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Expert not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/experts/{expert_id}/score/recalculate [post]
func (ctrl *GradingController) RecalculateExpertScore(c *gin.Context) {
	expertID, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.scoreSvc.CalculateExpertTotalScore(expertID)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetGradingStatistics godoc
// @Summary Grading dashboard statistics
// @Description Expert counts, graded/pending totals, score distribution, and per-category stats
// @Tags admin-grading
// @Produce json
// @Success 200 {object} dto.GradingStatisticsDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/grading/statistics [get]
func (ctrl *GradingController) GetGradingStatistics(c *gin.Context) {
	resp, err := ctrl.scoreSvc.GetGradingStatistics()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func parseQueryID(c *gin.Context, name string) (uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: name + " query parameter is required"})
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		log.Warn().Str(name, raw).Msg("Invalid ID query parameter")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}
