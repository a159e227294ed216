package admin

import (
	"net/http"

	"expertmatch/internal/controller"
	"expertmatch/internal/dto"
	"expertmatch/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// CatalogController exposes the admin CRUD surface for categories,
// questions, experts, and demands.
type CatalogController struct {
	catalogSvc service.CatalogService
}

func NewCatalogController(catalogSvc service.CatalogService) *CatalogController {
	return &CatalogController{catalogSvc: catalogSvc}
}

// CreateCategory godoc
// @Summary Create a question category
// @Description Register a new evaluation area for questions
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param category body dto.CreateCategoryRequest true "Category data"
// @Success 201 {object} dto.CategoryResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/categories [post]
func (ctrl *CatalogController) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateCategoryRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.catalogSvc.CreateCategory(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAllCategories godoc
// @Summary List question categories
// @Tags admin-catalog
// @Produce json
// @Success 200 {array} dto.CategoryResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/categories [get]
func (ctrl *CatalogController) GetAllCategories(c *gin.Context) {
	resp, err := ctrl.catalogSvc.GetAllCategories()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateQuestion godoc
// @Summary Create a question
// @Description Register an evaluation question. SINGLE/MULTIPLE questions require a correct_answer; SHORT/ESSAY questions may carry a scoring_rubric.
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param question body dto.CreateQuestionRequest true "Question data"
// @Success 201 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or missing answer key"
// @Failure 404 {object} dto.ErrorResponse "Category not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [post]
func (ctrl *CatalogController) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateQuestionRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.catalogSvc.CreateQuestion(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAllQuestions godoc
// @Summary List questions
// @Tags admin-catalog
// @Produce json
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/questions [get]
func (ctrl *CatalogController) GetAllQuestions(c *gin.Context) {
	resp, err := ctrl.catalogSvc.GetAllQuestions()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetQuestion godoc
// @Summary Get a question by ID
// @Tags admin-catalog
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /admin/questions/{id} [get]
func (ctrl *CatalogController) GetQuestion(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := ctrl.catalogSvc.GetQuestion(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateExpert godoc
// @Summary Register an expert
// @Description Create an expert profile. Qualification status starts as PENDING.
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param expert body dto.CreateExpertRequest true "Expert data"
// @Success 201 {object} dto.ExpertResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/experts [post]
func (ctrl *CatalogController) CreateExpert(c *gin.Context) {
	var req dto.CreateExpertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateExpertRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.catalogSvc.CreateExpert(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetExpert godoc
// @Summary Get an expert by ID
// @Tags admin-catalog
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Success 200 {object} dto.ExpertResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID format"
// @Failure 404 {object} dto.ErrorResponse "Expert not found"
// @Router /admin/experts/{expert_id} [get]
func (ctrl *CatalogController) GetExpert(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	resp, err := ctrl.catalogSvc.GetExpert(id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateExpertQualification godoc
// @Summary Update an expert's qualification status
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param expert_id path int true "Expert ID"
// @Param status body dto.UpdateExpertQualificationRequest true "New qualification status"
// @Success 200 {object} dto.ExpertResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body or ID"
// @Failure 404 {object} dto.ErrorResponse "Expert not found"
// @Router /admin/experts/{expert_id}/qualification [put]
func (ctrl *CatalogController) UpdateExpertQualification(c *gin.Context) {
	id, ok := controller.ParseIDParam(c, "expert_id")
	if !ok {
		return
	}

	var req dto.UpdateExpertQualificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.catalogSvc.UpdateExpertQualification(id, req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateDemand godoc
// @Summary Register a company demand
// @Tags admin-catalog
// @Accept json
// @Produce json
// @Param demand body dto.CreateDemandRequest true "Demand data"
// @Success 201 {object} dto.DemandResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/demands [post]
func (ctrl *CatalogController) CreateDemand(c *gin.Context) {
	var req dto.CreateDemandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("Failed to bind CreateDemandRequest")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: err.Error()})
		return
	}

	resp, err := ctrl.catalogSvc.CreateDemand(req)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetAllDemands godoc
// @Summary List company demands
// @Tags admin-catalog
// @Produce json
// @Success 200 {array} dto.DemandResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/demands [get]
func (ctrl *CatalogController) GetAllDemands(c *gin.Context) {
	resp, err := ctrl.catalogSvc.GetAllDemands()
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
