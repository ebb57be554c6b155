package model

// Sentiment labels shared by the classifier and the history generator.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// SentimentResult is the outcome of one classification call.
type SentimentResult struct {
	Provider         string                 `json:"provider"`
	Sentiment        string                 `json:"sentiment"`
	Score            float64                `json:"score"`      // -1.0 to 1.0
	Confidence       float64                `json:"confidence"` // 0-100
	ProcessingTimeMs int64                  `json:"processing_time_ms"`
	Breakdown        map[string]interface{} `json:"breakdown"`
}

// ProviderInfo is metadata describing one sentiment provider.
type ProviderInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Speed       string `json:"speed"`
	Accuracy    string `json:"accuracy"`
	BestFor     string `json:"best_for"`
}
