package service

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"expertmatch/internal/apperror"
	"expertmatch/internal/dto"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScoreService maintains the per-expert aggregate score cache and serves
// grading progress/statistics views.
type ScoreService interface {
	// CalculateExpertTotalScore fully recomputes the expert's aggregate from
	// all GRADED/REVIEWED answers and overwrites the cached row. Idempotent:
	// with no intervening grading activity two calls produce identical output.
	CalculateExpertTotalScore(expertID uint) (*dto.ExpertScoreResponseDTO, error)
	GetExpertScore(expertID uint) (*dto.ExpertScoreResponseDTO, error)
	GetGradingProgress(expertID uint) (*dto.GradingProgressDTO, error)
	GetGradingStatistics() (*dto.GradingStatisticsDTO, error)
}

type scoreService struct {
	answerRepo repository.AnswerRepository
	expertRepo repository.ExpertRepository
	scoreRepo  repository.ExpertScoreRepository
	db         *gorm.DB // transaction boundary for the aggregate upsert
}

func NewScoreService(
	answerRepo repository.AnswerRepository,
	expertRepo repository.ExpertRepository,
	scoreRepo repository.ExpertScoreRepository,
	db *gorm.DB,
) ScoreService {
	return &scoreService{
		answerRepo: answerRepo,
		expertRepo: expertRepo,
		scoreRepo:  scoreRepo,
		db:         db,
	}
}

func (s *scoreService) CalculateExpertTotalScore(expertID uint) (*dto.ExpertScoreResponseDTO, error) {
	if _, err := s.expertRepo.FindByID(expertID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("expert %d not found", expertID)
		}
		return nil, apperror.Internal("failed to load expert", err)
	}

	answers, err := s.answerRepo.FindGradedByExpert(expertID)
	if err != nil {
		return nil, apperror.Internal("failed to load graded answers", err)
	}

	totalCount, err := s.answerRepo.CountByExpert(expertID)
	if err != nil {
		return nil, apperror.Internal("failed to count answers", err)
	}

	// Accumulate per category. The whole aggregate is computed into locals
	// first; the stored row is only touched once the computation is complete.
	categoryData := make(map[uint]*dto.CategoryScoreSummary)
	totalScore := 0.0
	maxPossibleScore := 0.0

	for i := range answers {
		answer := &answers[i]
		category := answer.Question.Category

		entry, ok := categoryData[category.ID]
		if !ok {
			entry = &dto.CategoryScoreSummary{
				CategoryID:   category.ID,
				CategoryName: category.Name,
			}
			categoryData[category.ID] = entry
		}

		score := 0.0
		if answer.Score != nil {
			score = *answer.Score
		}
		entry.Score += score
		entry.MaxScore += float64(answer.MaxScore)
		entry.GradedCount++

		totalScore += score
		maxPossibleScore += float64(answer.MaxScore)
	}

	summaries := make([]dto.CategoryScoreSummary, 0, len(categoryData))
	for _, entry := range categoryData {
		if entry.MaxScore > 0 {
			entry.Percentage = round1(entry.Score / entry.MaxScore * 100)
		}
		summaries = append(summaries, *entry)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].CategoryID < summaries[j].CategoryID })

	averagePercentage := 0.0
	if maxPossibleScore > 0 {
		averagePercentage = round1(totalScore / maxPossibleScore * 100)
	}

	categoryScores := make(map[string]model.CategoryScore, len(summaries))
	for _, cs := range summaries {
		categoryScores[strconv.FormatUint(uint64(cs.CategoryID), 10)] = model.CategoryScore{
			CategoryName: cs.CategoryName,
			Score:        cs.Score,
			MaxScore:     cs.MaxScore,
			Percentage:   cs.Percentage,
			GradedCount:  cs.GradedCount,
		}
	}

	calculatedAt := time.Now().UTC()

	// One transaction, one full overwrite. Rank/percentile belong to the
	// batch ranking job and are carried over untouched.
	var stored model.ExpertScore
	err = s.db.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("expert_id = ?", expertID).First(&stored).Error
		if findErr != nil && !errors.Is(findErr, gorm.ErrRecordNotFound) {
			return fmt.Errorf("load expert score row: %w", findErr)
		}

		stored.ExpertID = expertID
		stored.TotalScore = totalScore
		stored.MaxPossibleScore = maxPossibleScore
		stored.AveragePercentage = averagePercentage
		stored.CategoryScores = datatypes.NewJSONType(categoryScores)
		stored.GradedCount = len(answers)
		stored.TotalCount = int(totalCount)
		stored.LastCalculatedAt = calculatedAt

		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return tx.Create(&stored).Error
		}
		return tx.Save(&stored).Error
	})
	if err != nil {
		log.Error().Err(err).Uint("expertID", expertID).Msg("Expert score upsert failed, rolled back")
		return nil, apperror.Internal("failed to store expert score", err)
	}

	log.Info().Uint("expertID", expertID).Float64("total", totalScore).
		Float64("percentage", averagePercentage).Int("graded", len(answers)).
		Msg("Expert score recalculated")

	return expertScoreToDTO(&stored, summaries), nil
}

func (s *scoreService) GetExpertScore(expertID uint) (*dto.ExpertScoreResponseDTO, error) {
	stored, err := s.scoreRepo.FindByExpert(expertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("no score calculated yet for expert %d", expertID)
		}
		return nil, apperror.Internal("failed to load expert score", err)
	}
	return expertScoreToDTO(stored, categorySummaries(stored)), nil
}

func (s *scoreService) GetGradingProgress(expertID uint) (*dto.GradingProgressDTO, error) {
	counts, err := s.answerRepo.StatusCountsByExpert(expertID)
	if err != nil {
		return nil, apperror.Internal("failed to count answers by status", err)
	}

	progress := &dto.GradingProgressDTO{
		DraftCount:     counts[model.AnswerStatusDraft],
		SubmittedCount: counts[model.AnswerStatusSubmitted],
		GradedCount:    counts[model.AnswerStatusGraded],
		ReviewedCount:  counts[model.AnswerStatusReviewed],
	}
	for _, c := range counts {
		progress.TotalAnswers += c
	}
	progress.GradedAnswers = progress.GradedCount + progress.ReviewedCount
	progress.PendingAnswers = progress.SubmittedCount
	if progress.TotalAnswers > 0 {
		progress.ProgressPercentage = round1(float64(progress.GradedAnswers) / float64(progress.TotalAnswers) * 100)
	}
	return progress, nil
}

func (s *scoreService) GetGradingStatistics() (*dto.GradingStatisticsDTO, error) {
	totalExperts, err := s.expertRepo.Count()
	if err != nil {
		return nil, apperror.Internal("failed to count experts", err)
	}
	withSubmissions, err := s.answerRepo.CountDistinctExpertsNonDraft()
	if err != nil {
		return nil, apperror.Internal("failed to count experts with submissions", err)
	}
	totalAnswers, err := s.answerRepo.CountNonDraft()
	if err != nil {
		return nil, apperror.Internal("failed to count answers", err)
	}
	gradedAnswers, err := s.answerRepo.CountGraded()
	if err != nil {
		return nil, apperror.Internal("failed to count graded answers", err)
	}
	scoreStats, err := s.answerRepo.ScoreStats()
	if err != nil {
		return nil, apperror.Internal("failed to compute score statistics", err)
	}
	categoryStats, err := s.answerRepo.CategoryStats()
	if err != nil {
		return nil, apperror.Internal("failed to compute category statistics", err)
	}

	stats := &dto.GradingStatisticsDTO{
		TotalExperts:           totalExperts,
		ExpertsWithSubmissions: withSubmissions,
		TotalAnswers:           totalAnswers,
		GradedAnswers:          gradedAnswers,
		PendingAnswers:         totalAnswers - gradedAnswers,
		AverageScore:           round1(scoreStats.Average),
		HighestScore:           round1(scoreStats.Highest),
		LowestScore:            round1(scoreStats.Lowest),
	}
	for _, cs := range categoryStats {
		stats.CategoryStats = append(stats.CategoryStats, dto.CategoryStatDTO{
			CategoryID:   cs.CategoryID,
			CategoryName: cs.CategoryName,
			AnswerCount:  cs.AnswerCount,
			TotalScore:   cs.TotalScore,
		})
	}
	return stats, nil
}

func expertScoreToDTO(stored *model.ExpertScore, summaries []dto.CategoryScoreSummary) *dto.ExpertScoreResponseDTO {
	return &dto.ExpertScoreResponseDTO{
		ID:                stored.ID,
		ExpertID:          stored.ExpertID,
		TotalScore:        stored.TotalScore,
		MaxPossibleScore:  stored.MaxPossibleScore,
		AveragePercentage: stored.AveragePercentage,
		CategoryScores:    summaries,
		GradedCount:       stored.GradedCount,
		TotalCount:        stored.TotalCount,
		Rank:              stored.Rank,
		Percentile:        stored.Percentile,
		LastCalculatedAt:  stored.LastCalculatedAt,
	}
}

func categorySummaries(stored *model.ExpertScore) []dto.CategoryScoreSummary {
	data := stored.CategoryScores.Data()
	summaries := make([]dto.CategoryScoreSummary, 0, len(data))
	for key, cs := range data {
		id, _ := strconv.ParseUint(key, 10, 32)
		summaries = append(summaries, dto.CategoryScoreSummary{
			CategoryID:   uint(id),
			CategoryName: cs.CategoryName,
			Score:        cs.Score,
			MaxScore:     cs.MaxScore,
			Percentage:   cs.Percentage,
			GradedCount:  cs.GradedCount,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].CategoryID < summaries[j].CategoryID })
	return summaries
}
