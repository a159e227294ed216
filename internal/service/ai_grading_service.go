package service

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"expertmatch/internal/apperror"
	"expertmatch/internal/dto"
	"expertmatch/internal/model"
	"expertmatch/internal/repository"

	"gorm.io/gorm"
)

// AIGradingService produces advisory score suggestions for subjective
// answers from the question's scoring rubric. Suggestions are never written
// back; an operator applies them through manual grading.
type AIGradingService interface {
	AIGradeSubjective(answerID uint) (*dto.AIGradeResponseDTO, error)
}

type aiGradingService struct {
	answerRepo repository.AnswerRepository
}

func NewAIGradingService(answerRepo repository.AnswerRepository) AIGradingService {
	return &aiGradingService{answerRepo: answerRepo}
}

const (
	keywordWeight  = 0.5
	criteriaWeight = 0.5
	baseConfidence = 0.7
)

type rubricCriterion struct {
	description string
	keywords    []string
	weight      float64
}

// AIGradeSubjective suggests a score for a SHORT or ESSAY answer.
//
// The suggestion is a deterministic rubric-coverage heuristic: the matched
// fraction of rubric keywords contributes half the score, the weight sum of
// satisfied criteria the other half. Confidence starts at 0.7 and is dampened
// for very short essays, raised (capped at 1.0) for long ones.
func (s *aiGradingService) AIGradeSubjective(answerID uint) (*dto.AIGradeResponseDTO, error) {
	answer, err := s.answerRepo.FindByIDWithQuestion(answerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("answer %d not found", answerID)
		}
		return nil, apperror.Internal("failed to load answer", err)
	}

	question := answer.Question
	if !question.Type.IsSubjective() {
		return nil, apperror.NotSubjective(
			"question type %s is not subjective; use auto-grading for objective questions",
			question.Type)
	}

	resp := &dto.AIGradeResponseDTO{
		AnswerID:        answer.ID,
		QuestionID:      question.ID,
		MaxScore:        float64(question.MaxScore),
		MatchedKeywords: []string{},
	}

	text, _ := answer.ResponseData["text"].(string)
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		resp.Confidence = 1.0
		resp.Reasoning = "Empty response."
		return resp, nil
	}

	keywords := rubricKeywords(question.ScoringRubric)
	criteria := rubricCriteria(question.ScoringRubric)

	var reasoningParts []string

	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			resp.MatchedKeywords = append(resp.MatchedKeywords, kw)
		}
	}

	keywordComponent := 0.0
	if len(keywords) > 0 {
		keywordComponent = float64(len(resp.MatchedKeywords)) / float64(len(keywords)) * keywordWeight
	}

	criteriaMet := 0
	criteriaSum := 0.0
	for _, criterion := range criteria {
		for _, ck := range criterion.keywords {
			if strings.Contains(text, ck) {
				criteriaMet++
				criteriaSum += criterion.weight
				reasoningParts = append(reasoningParts,
					fmt.Sprintf("criterion %q satisfied", criterion.description))
				break
			}
		}
	}

	criteriaComponent := 0.0
	if len(criteria) > 0 {
		criteriaComponent = criteriaSum / float64(len(criteria)) * criteriaWeight
	}

	resp.SuggestedScore = round1((keywordComponent + criteriaComponent) * float64(question.MaxScore))

	if len(keywords) > 0 || len(criteria) > 0 {
		keywordCoverage := 0.0
		if len(keywords) > 0 {
			keywordCoverage = float64(len(resp.MatchedKeywords)) / float64(len(keywords))
		}
		criteriaCoverage := 0.0
		if len(criteria) > 0 {
			criteriaCoverage = float64(criteriaMet) / float64(len(criteria))
		}
		resp.RubricCoverage = round1((keywordCoverage + criteriaCoverage) / 2 * 100)
	}

	confidence := baseConfidence
	if question.Type == model.QuestionTypeEssay {
		wordCount := len(strings.Fields(text))
		if wordCount < 50 {
			confidence *= 0.8
			reasoningParts = append(reasoningParts, "short response (confidence reduced)")
		} else if wordCount > 200 {
			confidence = math.Min(confidence*1.1, 1.0)
		}
	}
	resp.Confidence = round2(confidence)

	if len(resp.MatchedKeywords) > 0 {
		reasoningParts = append(
			[]string{fmt.Sprintf("keyword matches: %d/%d", len(resp.MatchedKeywords), len(keywords))},
			reasoningParts...)
	}
	if len(reasoningParts) == 0 {
		reasoningParts = append(reasoningParts, "partial match against the scoring rubric")
	}
	resp.Reasoning = strings.Join(reasoningParts, "; ")

	return resp, nil
}

// rubricKeywords accepts both plain strings and {"term": ...} objects,
// lowercased.
func rubricKeywords(rubric map[string]interface{}) []string {
	if rubric == nil {
		return nil
	}
	raw, _ := rubric["keywords"].([]interface{})
	keywords := make([]string, 0, len(raw))
	for _, item := range raw {
		switch typed := item.(type) {
		case string:
			keywords = append(keywords, strings.ToLower(typed))
		case map[string]interface{}:
			if term, ok := typed["term"].(string); ok && term != "" {
				keywords = append(keywords, strings.ToLower(term))
			}
		}
	}
	return keywords
}

func rubricCriteria(rubric map[string]interface{}) []rubricCriterion {
	if rubric == nil {
		return nil
	}
	raw, _ := rubric["criteria"].([]interface{})
	criteria := make([]rubricCriterion, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		criterion := rubricCriterion{weight: 1.0}
		criterion.description, _ = entry["description"].(string)
		if w, ok := entry["weight"].(float64); ok {
			criterion.weight = w
		}
		if kws, ok := entry["keywords"].([]interface{}); ok {
			for _, kw := range kws {
				if s, ok := kw.(string); ok {
					criterion.keywords = append(criterion.keywords, strings.ToLower(s))
				}
			}
		}
		criteria = append(criteria, criterion)
	}
	return criteria
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
