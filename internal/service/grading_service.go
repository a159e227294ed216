package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"expertmatch/internal/apperror"
	"expertmatch/internal/dto"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// GradingService grades answers: deterministic auto-grading for objective
// questions and operator-entered grades for subjective ones.
type GradingService interface {
	SubmitAnswer(req dto.SubmitAnswerRequest) (*dto.AnswerResponseDTO, error)
	FinalizeAnswers(expertID uint) (*dto.FinalizeAnswersResultDTO, error)
	AutoGrade(answerID uint) (*dto.AutoGradeResponseDTO, error)
	ManualGrade(graderID uint, req dto.ManualGradeRequest) (*dto.AnswerResponseDTO, error)
	BatchAutoGrade(expertID uint) (*dto.BatchGradeResultDTO, error)
	GetExpertAnswers(expertID uint) ([]dto.AnswerResponseDTO, error)
	GetExpertAnswersSummary(expertID uint) (*dto.ExpertAnswersSummaryDTO, error)
}

type gradingService struct {
	answerRepo   repository.AnswerRepository
	questionRepo repository.QuestionRepository
}

func NewGradingService(
	answerRepo repository.AnswerRepository,
	questionRepo repository.QuestionRepository,
) GradingService {
	return &gradingService{
		answerRepo:   answerRepo,
		questionRepo: questionRepo,
	}
}

// SubmitAnswer upserts a draft answer for (expert, question). An existing
// draft is overwritten in place with a version bump; otherwise a new row is
// created with the question's max score frozen in.
//
// The lookup is deliberately scoped to DRAFT rows: once the earlier answer
// left DRAFT, a second submission creates an independent new row for the
// same question. That mirrors the long-standing observed behavior; see
// DESIGN.md before "fixing" it.
func (s *gradingService) SubmitAnswer(req dto.SubmitAnswerRequest) (*dto.AnswerResponseDTO, error) {
	existing, err := s.answerRepo.FindDraft(req.ExpertID, req.QuestionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Error().Err(err).Uint("expertID", req.ExpertID).Uint("questionID", req.QuestionID).
			Msg("SubmitAnswer: draft lookup failed")
		return nil, apperror.Internal("failed to look up draft answer", err)
	}

	var answer *model.Answer
	if existing != nil {
		existing.Version++
		existing.ResponseData = req.ResponseData
		if err := s.answerRepo.Save(existing); err != nil {
			return nil, apperror.Internal("failed to update draft answer", err)
		}
		answer = existing
	} else {
		question, err := s.questionRepo.FindByID(req.QuestionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperror.NotFound("question %d not found", req.QuestionID)
			}
			return nil, apperror.Internal("failed to load question", err)
		}
		answer = &model.Answer{
			ExpertID:     req.ExpertID,
			QuestionID:   req.QuestionID,
			Version:      1,
			ResponseData: req.ResponseData,
			MaxScore:     question.MaxScore,
			Status:       model.AnswerStatusDraft,
		}
		if err := s.answerRepo.Create(answer); err != nil {
			return nil, apperror.Internal("failed to create answer", err)
		}
	}

	return answerToDTO(answer), nil
}

// FinalizeAnswers moves every draft of the expert to SUBMITTED.
func (s *gradingService) FinalizeAnswers(expertID uint) (*dto.FinalizeAnswersResultDTO, error) {
	moved, err := s.answerRepo.MarkDraftsSubmitted(expertID)
	if err != nil {
		return nil, apperror.Internal("failed to finalize answers", err)
	}
	log.Info().Uint("expertID", expertID).Int64("submitted", moved).Msg("Answers finalized")
	return &dto.FinalizeAnswersResultDTO{ExpertID: expertID, SubmittedCount: moved}, nil
}

// AutoGrade grades a single objective answer. Single choice requires an
// exact value match for full credit. Multiple choice earns full credit for
// the exact correct set, proportional partial credit when only a subset of
// correct options is selected, and zero as soon as any wrong option is
// picked.
func (s *gradingService) AutoGrade(answerID uint) (*dto.AutoGradeResponseDTO, error) {
	answer, err := s.answerRepo.FindByIDWithQuestion(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("answer %d not found", answerID)
		}
		return nil, apperror.Internal("failed to load answer", err)
	}

	question := answer.Question
	if !question.Type.IsObjective() {
		return nil, apperror.UnsupportedQuestionType(
			"question type %s cannot be auto-graded; only SINGLE and MULTIPLE choice are supported",
			question.Type)
	}

	result := gradeObjective(answer, &question)

	answer.Score = &result.Score
	answer.IsCorrect = &result.IsCorrect
	answer.Status = model.AnswerStatusGraded
	if err := s.answerRepo.Save(answer); err != nil {
		return nil, apperror.Internal("failed to store grading result", err)
	}

	log.Info().Uint("answerID", answer.ID).Float64("score", result.Score).
		Bool("correct", result.IsCorrect).Msg("Answer auto-graded")

	return result, nil
}

// gradeObjective computes score/correctness without touching storage, so the
// same rules serve both single and batch grading.
func gradeObjective(answer *model.Answer, question *model.Question) *dto.AutoGradeResponseDTO {
	result := &dto.AutoGradeResponseDTO{
		AnswerID: answer.ID,
		MaxScore: question.MaxScore,
	}

	switch question.Type {
	case model.QuestionTypeSingle:
		userValue, _ := answer.ResponseData["value"].(string)
		correctValue := correctAnswerValue(question)

		if userValue != "" && userValue == correctValue {
			result.Score = float64(question.MaxScore)
			result.IsCorrect = true
			result.Feedback = correctFeedback(question)
		} else if correctValue != "" {
			result.Feedback = fmt.Sprintf("Incorrect. Correct answer: %s", correctValue)
		} else {
			result.Feedback = "Incorrect."
		}

	case model.QuestionTypeMultiple:
		userSet := stringSet(answer.ResponseData["value"])
		correctSet := stringSet(correctAnswerValues(question))

		matched := intersectCount(userSet, correctSet)
		wrong := len(userSet) - matched

		switch {
		case len(correctSet) > 0 && wrong == 0 && matched == len(correctSet) && len(userSet) == len(correctSet):
			result.Score = float64(question.MaxScore)
			result.IsCorrect = true
			result.Feedback = correctFeedback(question)
		case len(correctSet) > 0 && wrong == 0 && matched > 0:
			result.Score = float64(matched) / float64(len(correctSet)) * float64(question.MaxScore)
			result.Feedback = fmt.Sprintf("Partially correct (%d/%d). Earned score: %.1f/%d",
				matched, len(correctSet), result.Score, question.MaxScore)
		case len(correctSet) > 0:
			result.Feedback = fmt.Sprintf("Incorrect. Wrong options were selected. Correct answer: %s",
				strings.Join(sortedKeys(correctSet), ", "))
		default:
			result.Feedback = "Incorrect."
		}
	}

	return result
}

// ManualGrade stores an operator's grade for an answer. The score must lie
// within [0, max_score]; correctness is cleared because subjective grading
// has no binary notion of correct.
func (s *gradingService) ManualGrade(graderID uint, req dto.ManualGradeRequest) (*dto.AnswerResponseDTO, error) {
	answer, err := s.answerRepo.FindByID(req.AnswerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("answer %d not found", req.AnswerID)
		}
		return nil, apperror.Internal("failed to load answer", err)
	}

	question, err := s.questionRepo.FindByID(answer.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("question %d not found", answer.QuestionID)
		}
		return nil, apperror.Internal("failed to load question", err)
	}

	if req.Score < 0 || req.Score > float64(question.MaxScore) {
		return nil, apperror.ScoreOutOfRange(
			"score %.1f is outside the allowed range [0, %d]", req.Score, question.MaxScore)
	}

	answer.Score = &req.Score
	answer.IsCorrect = nil
	answer.GraderID = &graderID
	answer.GraderComment = req.GraderComment
	answer.Status = model.AnswerStatusGraded

	if err := s.answerRepo.Save(answer); err != nil {
		return nil, apperror.Internal("failed to store manual grade", err)
	}

	log.Info().Uint("answerID", answer.ID).Uint("graderID", graderID).
		Float64("score", req.Score).Msg("Answer manually graded")

	return answerToDTO(answer), nil
}

// BatchAutoGrade grades every SUBMITTED objective answer of an expert.
// Per-item failures never abort the batch; they are collected and reported.
func (s *gradingService) BatchAutoGrade(expertID uint) (*dto.BatchGradeResultDTO, error) {
	answers, err := s.answerRepo.FindSubmittedObjectiveByExpert(expertID)
	if err != nil {
		return nil, apperror.Internal("failed to list gradable answers", err)
	}

	result := &dto.BatchGradeResultDTO{ExpertID: expertID}
	for i := range answers {
		if _, err := s.AutoGrade(answers[i].ID); err != nil {
			log.Warn().Err(err).Uint("answerID", answers[i].ID).
				Msg("BatchAutoGrade: answer skipped")
			result.Failures = append(result.Failures, dto.BatchGradeFailure{
				AnswerID: answers[i].ID,
				Reason:   err.Error(),
			})
			continue
		}
		result.GradedCount++
	}

	log.Info().Uint("expertID", expertID).Int("graded", result.GradedCount).
		Int("failed", len(result.Failures)).Msg("Batch auto-grade finished")
	return result, nil
}

func (s *gradingService) GetExpertAnswers(expertID uint) ([]dto.AnswerResponseDTO, error) {
	answers, err := s.answerRepo.FindByExpert(expertID)
	if err != nil {
		return nil, apperror.Internal("failed to list answers", err)
	}
	dtos := make([]dto.AnswerResponseDTO, 0, len(answers))
	for i := range answers {
		dtos = append(dtos, *answerToDTO(&answers[i]))
	}
	return dtos, nil
}

// GetExpertAnswersSummary totals every answer that has left DRAFT.
func (s *gradingService) GetExpertAnswersSummary(expertID uint) (*dto.ExpertAnswersSummaryDTO, error) {
	answers, err := s.answerRepo.FindByExpert(expertID)
	if err != nil {
		return nil, apperror.Internal("failed to list answers", err)
	}

	summary := &dto.ExpertAnswersSummaryDTO{ExpertID: expertID}
	for i := range answers {
		if answers[i].Status == model.AnswerStatusDraft {
			continue
		}
		summary.AnsweredCount++
		if answers[i].Score != nil {
			summary.TotalScore += *answers[i].Score
		}
		summary.MaxTotalScore += float64(answers[i].MaxScore)
	}
	if summary.MaxTotalScore > 0 {
		summary.AverageScore = summary.TotalScore / summary.MaxTotalScore * 100
	}
	return summary, nil
}

func answerToDTO(answer *model.Answer) *dto.AnswerResponseDTO {
	var out dto.AnswerResponseDTO
	if err := copier.Copy(&out, answer); err != nil {
		log.Error().Err(err).Uint("answerID", answer.ID).Msg("Failed to copy answer to DTO")
	}
	out.ResponseData = answer.ResponseData
	out.Status = string(answer.Status)
	return &out
}

func correctFeedback(question *model.Question) string {
	if question.Explanation != nil && *question.Explanation != "" {
		return *question.Explanation
	}
	return "Correct."
}

func correctAnswerValue(question *model.Question) string {
	if question.CorrectAnswer == nil {
		return ""
	}
	value, _ := question.CorrectAnswer["value"].(string)
	return value
}

func correctAnswerValues(question *model.Question) interface{} {
	if question.CorrectAnswer == nil {
		return nil
	}
	return question.CorrectAnswer["value"]
}

// stringSet normalizes a JSON value ([]interface{}, []string or nil) into a
// set of strings.
func stringSet(value interface{}) map[string]struct{} {
	set := make(map[string]struct{})
	switch typed := value.(type) {
	case []interface{}:
		for _, v := range typed {
			if s, ok := v.(string); ok {
				set[s] = struct{}{}
			}
		}
	case []string:
		for _, s := range typed {
			set[s] = struct{}{}
		}
	}
	return set
}

func intersectCount(a, b map[string]struct{}) int {
	count := 0
	for k := range a {
		if _, ok := b[k]; ok {
			count++
		}
	}
	return count
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
