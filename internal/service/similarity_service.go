package service

import (
	"context"
	"math"
	"strings"

	"expertmatch/config"
	"expertmatch/internal/apperror"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// SimilarityProvider scores the closeness of two free-text profiles on a
// 0.0-1.0 scale.
type SimilarityProvider interface {
	Similarity(ctx context.Context, a, b string) (float64, error)
	// BatchSimilarities scores the query against each candidate. The result
	// slice is index-aligned with candidates.
	BatchSimilarities(ctx context.Context, query string, candidates []string) ([]float64, error)
}

// NewSimilarityProvider picks the embedding-backed provider when a Gemini
// key is configured and falls back to keyword overlap otherwise. The choice
// is made once at construction.
func NewSimilarityProvider(cfg *config.Config) (SimilarityProvider, error) {
	if cfg.GeminiApiKey == "" {
		log.Info().Msg("No Gemini API key configured, using keyword similarity")
		return NewKeywordSimilarityProvider(), nil
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, apperror.Internal("failed to create Gemini client", err)
	}
	return &GeminiSimilarityProvider{
		client: client,
		model:  client.EmbeddingModel("text-embedding-004"),
	}, nil
}

// KeywordSimilarityProvider scores texts by Jaccard overlap of their
// lowercased word sets. Deterministic and dependency-free, so it also
// serves as the test double.
type KeywordSimilarityProvider struct{}

func NewKeywordSimilarityProvider() *KeywordSimilarityProvider {
	return &KeywordSimilarityProvider{}
}

func (p *KeywordSimilarityProvider) Similarity(_ context.Context, a, b string) (float64, error) {
	return jaccardSimilarity(a, b), nil
}

func (p *KeywordSimilarityProvider) BatchSimilarities(_ context.Context, query string, candidates []string) ([]float64, error) {
	out := make([]float64, len(candidates))
	for i, candidate := range candidates {
		out[i] = jaccardSimilarity(query, candidate)
	}
	return out, nil
}

func jaccardSimilarity(a, b string) float64 {
	wordsA := wordSet(a)
	wordsB := wordSet(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	intersection := 0
	for word := range wordsA {
		if _, ok := wordsB[word]; ok {
			intersection++
		}
	}
	union := len(wordsA) + len(wordsB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?()[]\"'")
		if word != "" {
			set[word] = struct{}{}
		}
	}
	return set
}

// GeminiSimilarityProvider embeds both texts with text-embedding-004 and
// maps their cosine similarity from [-1,1] to [0,1].
type GeminiSimilarityProvider struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

func (p *GeminiSimilarityProvider) Similarity(ctx context.Context, a, b string) (float64, error) {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0, nil
	}

	batch := p.model.NewBatch().
		AddContent(genai.Text(a)).
		AddContent(genai.Text(b))
	res, err := p.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return 0, apperror.Internal("failed to embed texts", err)
	}
	if len(res.Embeddings) < 2 {
		return 0, apperror.Internal("embedding response incomplete", nil)
	}

	return normalizedCosine(res.Embeddings[0].Values, res.Embeddings[1].Values), nil
}

func (p *GeminiSimilarityProvider) BatchSimilarities(ctx context.Context, query string, candidates []string) ([]float64, error) {
	out := make([]float64, len(candidates))
	if strings.TrimSpace(query) == "" || len(candidates) == 0 {
		return out, nil
	}

	batch := p.model.NewBatch().AddContent(genai.Text(query))
	for _, candidate := range candidates {
		batch = batch.AddContent(genai.Text(candidate))
	}
	res, err := p.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, apperror.Internal("failed to embed texts", err)
	}
	if len(res.Embeddings) != len(candidates)+1 {
		return nil, apperror.Internal("embedding response incomplete", nil)
	}

	queryVec := res.Embeddings[0].Values
	for i := range candidates {
		out[i] = normalizedCosine(queryVec, res.Embeddings[i+1].Values)
	}
	return out, nil
}

// Close releases the underlying Gemini client.
func (p *GeminiSimilarityProvider) Close() error {
	return p.client.Close()
}

func normalizedCosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	cosine := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	normalized := (cosine + 1) / 2
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}
