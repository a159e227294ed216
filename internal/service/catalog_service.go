package service

import (
	"errors"

	"expertmatch/internal/apperror"
	"expertmatch/internal/dto"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// CatalogService manages the reference data the grading and matching
// pipelines read: categories, questions, experts, and demands.
type CatalogService interface {
	CreateCategory(req dto.CreateCategoryRequest) (*dto.CategoryResponseDTO, error)
	GetAllCategories() ([]dto.CategoryResponseDTO, error)
	CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponseDTO, error)
	GetAllQuestions() ([]dto.QuestionResponseDTO, error)
	GetQuestion(id uint) (*dto.QuestionResponseDTO, error)
	CreateExpert(req dto.CreateExpertRequest) (*dto.ExpertResponseDTO, error)
	GetExpert(id uint) (*dto.ExpertResponseDTO, error)
	UpdateExpertQualification(id uint, req dto.UpdateExpertQualificationRequest) (*dto.ExpertResponseDTO, error)
	CreateDemand(req dto.CreateDemandRequest) (*dto.DemandResponseDTO, error)
	GetAllDemands() ([]dto.DemandResponseDTO, error)
}

type catalogService struct {
	categoryRepo repository.CategoryRepository
	questionRepo repository.QuestionRepository
	expertRepo   repository.ExpertRepository
	demandRepo   repository.DemandRepository
}

func NewCatalogService(
	categoryRepo repository.CategoryRepository,
	questionRepo repository.QuestionRepository,
	expertRepo repository.ExpertRepository,
	demandRepo repository.DemandRepository,
) CatalogService {
	return &catalogService{
		categoryRepo: categoryRepo,
		questionRepo: questionRepo,
		expertRepo:   expertRepo,
		demandRepo:   demandRepo,
	}
}

func (s *catalogService) CreateCategory(req dto.CreateCategoryRequest) (*dto.CategoryResponseDTO, error) {
	category := &model.QuestionCategory{
		Name:         req.Name,
		Description:  req.Description,
		Weight:       req.Weight,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if category.Weight == 0 {
		category.Weight = 10
	}
	if err := s.categoryRepo.Create(category); err != nil {
		return nil, apperror.Internal("failed to create category", err)
	}
	return categoryToDTO(category), nil
}

func (s *catalogService) GetAllCategories() ([]dto.CategoryResponseDTO, error) {
	categories, err := s.categoryRepo.FindAll()
	if err != nil {
		return nil, apperror.Internal("failed to list categories", err)
	}
	out := make([]dto.CategoryResponseDTO, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryToDTO(&categories[i]))
	}
	return out, nil
}

func (s *catalogService) CreateQuestion(req dto.CreateQuestionRequest) (*dto.QuestionResponseDTO, error) {
	if _, err := s.categoryRepo.FindByID(req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category %d not found", req.CategoryID)
		}
		return nil, apperror.Internal("failed to load category", err)
	}

	questionType := model.QuestionType(req.Type)
	if questionType.IsObjective() && len(req.CorrectAnswer) == 0 {
		return nil, apperror.UnsupportedQuestionType(
			"question type %s requires a correct_answer", req.Type)
	}

	difficulty := model.Difficulty(req.Difficulty)
	if difficulty == "" {
		difficulty = model.DifficultyMedium
	}

	question := &model.Question{
		CategoryID:        req.CategoryID,
		Type:              questionType,
		Content:           req.Content,
		Options:           datatypes.JSONMap(req.Options),
		CorrectAnswer:     datatypes.JSONMap(req.CorrectAnswer),
		ScoringRubric:     datatypes.JSONMap(req.ScoringRubric),
		MaxScore:          req.MaxScore,
		Difficulty:        difficulty,
		TargetSpecialties: datatypes.NewJSONSlice(req.TargetSpecialties),
		Explanation:       req.Explanation,
		DisplayOrder:      req.DisplayOrder,
		IsActive:          true,
	}
	if err := s.questionRepo.Create(question); err != nil {
		return nil, apperror.Internal("failed to create question", err)
	}

	log.Info().Uint("questionID", question.ID).Str("type", req.Type).Msg("Question created")
	return questionToDTO(question), nil
}

func (s *catalogService) GetAllQuestions() ([]dto.QuestionResponseDTO, error) {
	questions, err := s.questionRepo.FindAll()
	if err != nil {
		return nil, apperror.Internal("failed to list questions", err)
	}
	out := make([]dto.QuestionResponseDTO, 0, len(questions))
	for i := range questions {
		out = append(out, *questionToDTO(&questions[i]))
	}
	return out, nil
}

func (s *catalogService) GetQuestion(id uint) (*dto.QuestionResponseDTO, error) {
	question, err := s.questionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("question %d not found", id)
		}
		return nil, apperror.Internal("failed to load question", err)
	}
	return questionToDTO(question), nil
}

func (s *catalogService) CreateExpert(req dto.CreateExpertRequest) (*dto.ExpertResponseDTO, error) {
	expert := &model.Expert{
		Name:                req.Name,
		Email:               req.Email,
		QualificationStatus: model.QualificationPending,
		Specialties:         datatypes.NewJSONSlice(req.Specialties),
		CareerYears:         req.CareerYears,
		Bio:                 req.Bio,
		IsActive:            true,
	}
	if req.DegreeType != nil {
		degree := model.DegreeType(*req.DegreeType)
		expert.DegreeType = &degree
	}
	if err := s.expertRepo.Create(expert); err != nil {
		return nil, apperror.Internal("failed to create expert", err)
	}
	return expertToDTO(expert), nil
}

func (s *catalogService) GetExpert(id uint) (*dto.ExpertResponseDTO, error) {
	expert, err := s.expertRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expert %d not found", id)
		}
		return nil, apperror.Internal("failed to load expert", err)
	}
	return expertToDTO(expert), nil
}

func (s *catalogService) UpdateExpertQualification(id uint, req dto.UpdateExpertQualificationRequest) (*dto.ExpertResponseDTO, error) {
	expert, err := s.expertRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expert %d not found", id)
		}
		return nil, apperror.Internal("failed to load expert", err)
	}

	expert.QualificationStatus = model.QualificationStatus(req.QualificationStatus)
	if err := s.expertRepo.Update(expert); err != nil {
		return nil, apperror.Internal("failed to update expert", err)
	}

	log.Info().Uint("expertID", id).Str("status", req.QualificationStatus).
		Msg("Expert qualification updated")
	return expertToDTO(expert), nil
}

func (s *catalogService) CreateDemand(req dto.CreateDemandRequest) (*dto.DemandResponseDTO, error) {
	demand := &model.Demand{
		CompanyName:         req.CompanyName,
		Title:               req.Title,
		Description:         req.Description,
		RequiredSpecialties: datatypes.NewJSONSlice(req.RequiredSpecialties),
		MinCareerYears:      req.MinCareerYears,
		ExpertCount:         req.ExpertCount,
		Requirements:        datatypes.JSONMap(req.Requirements),
		Status:              model.DemandStatusPending,
		Priority:            req.Priority,
		IsActive:            true,
	}
	if demand.ExpertCount == 0 {
		demand.ExpertCount = 1
	}
	if demand.Priority == 0 {
		demand.Priority = 3
	}
	if err := s.demandRepo.Create(demand); err != nil {
		return nil, apperror.Internal("failed to create demand", err)
	}
	return demandToDTO(demand), nil
}

func (s *catalogService) GetAllDemands() ([]dto.DemandResponseDTO, error) {
	demands, err := s.demandRepo.FindAll()
	if err != nil {
		return nil, apperror.Internal("failed to list demands", err)
	}
	out := make([]dto.DemandResponseDTO, 0, len(demands))
	for i := range demands {
		out = append(out, *demandToDTO(&demands[i]))
	}
	return out, nil
}

func categoryToDTO(category *model.QuestionCategory) *dto.CategoryResponseDTO {
	var out dto.CategoryResponseDTO
	if err := copier.Copy(&out, category); err != nil {
		log.Error().Err(err).Msg("Failed to map category to DTO")
	}
	return &out
}

func questionToDTO(question *model.Question) *dto.QuestionResponseDTO {
	return &dto.QuestionResponseDTO{
		ID:                question.ID,
		CategoryID:        question.CategoryID,
		Type:              string(question.Type),
		Content:           question.Content,
		Options:           map[string]interface{}(question.Options),
		MaxScore:          question.MaxScore,
		Difficulty:        string(question.Difficulty),
		TargetSpecialties: []string(question.TargetSpecialties),
		DisplayOrder:      question.DisplayOrder,
		IsActive:          question.IsActive,
		CreatedAt:         question.CreatedAt,
	}
}

func expertToDTO(expert *model.Expert) *dto.ExpertResponseDTO {
	out := &dto.ExpertResponseDTO{
		ID:                  expert.ID,
		Name:                expert.Name,
		Email:               expert.Email,
		QualificationStatus: string(expert.QualificationStatus),
		Specialties:         []string(expert.Specialties),
		CareerYears:         expert.CareerYears,
		Bio:                 expert.Bio,
		IsActive:            expert.IsActive,
		CreatedAt:           expert.CreatedAt,
	}
	if expert.DegreeType != nil {
		degree := string(*expert.DegreeType)
		out.DegreeType = &degree
	}
	return out
}

func demandToDTO(demand *model.Demand) *dto.DemandResponseDTO {
	return &dto.DemandResponseDTO{
		ID:                  demand.ID,
		CompanyName:         demand.CompanyName,
		Title:               demand.Title,
		Description:         demand.Description,
		RequiredSpecialties: []string(demand.RequiredSpecialties),
		MinCareerYears:      demand.MinCareerYears,
		ExpertCount:         demand.ExpertCount,
		Requirements:        map[string]interface{}(demand.Requirements),
		Status:              string(demand.Status),
		Priority:            demand.Priority,
		IsActive:            demand.IsActive,
		CreatedAt:           demand.CreatedAt,
	}
}
