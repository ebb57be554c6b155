package sentiment

import (
	"strings"
	"sync"
	"time"

	"knowledge-assist/internal/config"
	"knowledge-assist/internal/model"
)

// Provider names accepted by Analyze. Anything other than model-based falls
// back to the rule-based analyzer.
const (
	ProviderRuleBased  = "rule-based"
	ProviderModelBased = "model-based"
)

const (
	ruleLabelThreshold      = 0.05
	modelNeutralProbability = 0.6
)

// Service classifies text polarity with one of two interchangeable
// providers. Providers are lazily and independently initialized on first
// use and reused for the process lifetime. Provider failures degrade to a
// neutral result with the error in the breakdown; they never propagate —
// caller stability is prioritized over correctness transparency.
type Service struct {
	lexiconOnce sync.Once
	lexicon     *LexiconAnalyzer

	classifierOnce sync.Once
	classifier     *Classifier

	cfg config.SentimentConfig
}

func NewService(cfg config.SentimentConfig) *Service {
	return &Service{cfg: cfg}
}

func (s *Service) Analyze(text, provider string) model.SentimentResult {
	if provider != ProviderModelBased {
		provider = ProviderRuleBased
	}

	if strings.TrimSpace(text) == "" {
		return model.SentimentResult{
			Provider:   provider,
			Sentiment:  model.SentimentNeutral,
			Score:      0,
			Confidence: 50,
			Breakdown:  map[string]interface{}{"error": "empty text provided"},
		}
	}

	if provider == ProviderModelBased {
		return s.analyzeModel(text)
	}
	return s.analyzeRule(text)
}

func (s *Service) analyzeRule(text string) model.SentimentResult {
	s.lexiconOnce.Do(func() {
		s.lexicon = NewLexiconAnalyzer()
	})

	start := time.Now()
	scores := s.lexicon.PolarityScores(text)
	elapsed := time.Since(start).Milliseconds()

	return model.SentimentResult{
		Provider:         ProviderRuleBased,
		Sentiment:        ruleLabel(scores.Compound),
		Score:            scores.Compound,
		Confidence:       ruleConfidence(scores.Compound),
		ProcessingTimeMs: elapsed,
		Breakdown: map[string]interface{}{
			"positive": scores.Positive,
			"neutral":  scores.Neutral,
			"negative": scores.Negative,
			"compound": scores.Compound,
		},
	}
}

func (s *Service) analyzeModel(text string) model.SentimentResult {
	s.classifierOnce.Do(func() {
		s.classifier = NewClassifier(
			s.cfg.ModelPath,
			s.cfg.VocabPath,
			s.cfg.ONNXSharedLibPath,
			s.cfg.MaxTokens,
		)
	})

	start := time.Now()
	rawLabel, rawScore, err := s.classifier.Classify(text)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		return model.SentimentResult{
			Provider:   ProviderModelBased,
			Sentiment:  model.SentimentNeutral,
			Score:      0,
			Confidence: 0,
			Breakdown:  map[string]interface{}{"error": err.Error()},
		}
	}

	sentiment, score := decideFromProbability(rawLabel, rawScore)

	return model.SentimentResult{
		Provider:         ProviderModelBased,
		Sentiment:        sentiment,
		Score:            roundTo(score, 4),
		Confidence:       roundTo(rawScore*100, 1),
		ProcessingTimeMs: elapsed,
		Breakdown: map[string]interface{}{
			"label":     rawLabel,
			"raw_score": roundTo(rawScore, 4),
			"model":     s.cfg.ModelPath,
		},
	}
}

// ruleLabel applies the rule-based thresholds: >= 0.05 positive, <= -0.05
// negative, neutral between. Boundary values are inclusive.
func ruleLabel(compound float64) string {
	switch {
	case compound >= ruleLabelThreshold:
		return model.SentimentPositive
	case compound <= -ruleLabelThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// ruleConfidence maps compound magnitude to a confidence percentage in
// three bands, scaling more generously as magnitude rises.
func ruleConfidence(compound float64) float64 {
	abs := compound
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 0.6:
		confidence := 75 + abs*30
		if confidence > 95 {
			confidence = 95
		}
		return roundTo(confidence, 1)
	case abs >= 0.3:
		return roundTo(55+abs*40, 1)
	default:
		return roundTo(40+abs*50, 1)
	}
}

// decideFromProbability converts the binary model output into a ternary
// label. A raw probability below 0.6 is forced to neutral with score 0:
// intentional under-confidence handling. A negative label flips the sign.
func decideFromProbability(rawLabel string, rawScore float64) (string, float64) {
	if rawScore < modelNeutralProbability {
		return model.SentimentNeutral, 0
	}
	if rawLabel == labelRawNegative {
		return model.SentimentNegative, -rawScore
	}
	return model.SentimentPositive, rawScore
}

// Providers returns metadata about the available providers.
func (s *Service) Providers() []model.ProviderInfo {
	return []model.ProviderInfo{
		{
			ID:          ProviderRuleBased,
			Name:        "Lexicon",
			Description: "Fast rule-based sentiment analysis optimized for short informal text",
			Speed:       "~1ms",
			Accuracy:    "Good for informal text, emphasis, negation",
			BestFor:     "Real-time analysis, high volume, social media content",
		},
		{
			ID:          ProviderModelBased,
			Name:        "Binary Transformer",
			Description: "ONNX transformer fine-tuned for binary sentiment classification",
			Speed:       "~50-200ms",
			Accuracy:    "High accuracy on formal text and reviews",
			BestFor:     "Accuracy-critical analysis, formal documents",
		},
	}
}
