package config

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server       Server
	Database     Database
	Matching     Matching
	GeminiApiKey string
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

// Matching holds the factor weights and recommendation thresholds of the
// match scorer. Weights must sum to 1.0; they are configuration so the
// weighting scheme can be tuned without a code change.
type Matching struct {
	WeightSpecialty     float64
	WeightQualification float64
	WeightCareer        float64
	WeightEvaluation    float64
	WeightAvailability  float64

	HighlyRecommendedThreshold float64
	RecommendedThreshold       float64
	PossibleThreshold          float64
}

// WeightsSum returns the sum of the five factor weights.
func (m Matching) WeightsSum() float64 {
	return m.WeightSpecialty + m.WeightQualification + m.WeightCareer +
		m.WeightEvaluation + m.WeightAvailability
}

// Validate rejects weight sets that do not sum to 1.0 (within float
// tolerance) or misordered recommendation thresholds.
func (m Matching) Validate() error {
	if math.Abs(m.WeightsSum()-1.0) > 1e-9 {
		return fmt.Errorf("matching weights must sum to 1.0, got %.4f", m.WeightsSum())
	}
	if m.HighlyRecommendedThreshold < m.RecommendedThreshold ||
		m.RecommendedThreshold < m.PossibleThreshold {
		return fmt.Errorf("recommendation thresholds must be descending: %.1f/%.1f/%.1f",
			m.HighlyRecommendedThreshold, m.RecommendedThreshold, m.PossibleThreshold)
	}
	return nil
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("MATCH_WEIGHT_SPECIALTY", 0.40)
	viper.SetDefault("MATCH_WEIGHT_QUALIFICATION", 0.15)
	viper.SetDefault("MATCH_WEIGHT_CAREER", 0.15)
	viper.SetDefault("MATCH_WEIGHT_EVALUATION", 0.20)
	viper.SetDefault("MATCH_WEIGHT_AVAILABILITY", 0.10)
	viper.SetDefault("MATCH_THRESHOLD_HIGHLY_RECOMMENDED", 80.0)
	viper.SetDefault("MATCH_THRESHOLD_RECOMMENDED", 60.0)
	viper.SetDefault("MATCH_THRESHOLD_POSSIBLE", 40.0)

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Server.Port = viper.GetString("SERVER_PORT")
	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")

	config.Matching.WeightSpecialty = viper.GetFloat64("MATCH_WEIGHT_SPECIALTY")
	config.Matching.WeightQualification = viper.GetFloat64("MATCH_WEIGHT_QUALIFICATION")
	config.Matching.WeightCareer = viper.GetFloat64("MATCH_WEIGHT_CAREER")
	config.Matching.WeightEvaluation = viper.GetFloat64("MATCH_WEIGHT_EVALUATION")
	config.Matching.WeightAvailability = viper.GetFloat64("MATCH_WEIGHT_AVAILABILITY")
	config.Matching.HighlyRecommendedThreshold = viper.GetFloat64("MATCH_THRESHOLD_HIGHLY_RECOMMENDED")
	config.Matching.RecommendedThreshold = viper.GetFloat64("MATCH_THRESHOLD_RECOMMENDED")
	config.Matching.PossibleThreshold = viper.GetFloat64("MATCH_THRESHOLD_POSSIBLE")

	if err := config.Matching.Validate(); err != nil {
		return nil, err
	}

	config.GeminiApiKey = viper.GetString("GEMINI_API_KEY")

	log.Info().Str("port", config.Server.Port).Msg("Config loaded")
	return &config, nil
}

// DefaultMatching returns the stock weight/threshold set. Used when a caller
// (tests, tools) needs a valid Matching without reading configuration.
func DefaultMatching() Matching {
	return Matching{
		WeightSpecialty:            0.40,
		WeightQualification:        0.15,
		WeightCareer:               0.15,
		WeightEvaluation:           0.20,
		WeightAvailability:         0.10,
		HighlyRecommendedThreshold: 80.0,
		RecommendedThreshold:       60.0,
		PossibleThreshold:          40.0,
	}
}
