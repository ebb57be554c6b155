package model

// Channel is the contact channel of a simulated interaction.
const (
	ChannelCall   = "call"
	ChannelChat   = "chat"
	ChannelEmail  = "email"
	ChannelSurvey = "survey"
	ChannelSocial = "social"
)

// Resolution outcomes for a simulated interaction.
const (
	ResolutionResolved  = "resolved"
	ResolutionEscalated = "escalated"
	ResolutionPending   = "pending"
)

// HistoricalInteraction is one simulated customer contact. Immutable once
// generated.
type HistoricalInteraction struct {
	ID             string  `json:"id"`
	CustomerID     string  `json:"customer_id"`
	Timestamp      string  `json:"timestamp"` // ISO-8601
	Channel        string  `json:"channel"`
	SentimentScore float64 `json:"sentiment_score"` // -1.0 to 1.0
	SentimentLabel string  `json:"sentiment_label"` // positive, neutral, negative
	Confidence     int     `json:"confidence"`      // 65-95
	Summary        string  `json:"summary"`
	AgentID        string  `json:"agent_id,omitempty"` // call/chat only
	Resolution     string  `json:"resolution"`
}

// HistorySummary is the rollup over one generated interaction sequence.
type HistorySummary struct {
	TotalInteractions     int            `json:"total_interactions"`
	AverageSentiment      float64        `json:"average_sentiment"`
	Trend                 string         `json:"trend"` // improving, declining, stable
	ChannelBreakdown      map[string]int `json:"channel_breakdown"`
	SentimentDistribution map[string]int `json:"sentiment_distribution"`
	PeriodDays            int            `json:"period_days"`
	LastInteraction       string         `json:"last_interaction,omitempty"`
}

// CustomerHistory is the cached unit returned per (customer_id, days).
type CustomerHistory struct {
	CustomerID   string                  `json:"customer_id"`
	CustomerInfo CustomerInfo            `json:"customer_info"`
	Interactions []HistoricalInteraction `json:"interactions"`
	Summary      HistorySummary          `json:"summary"`
}

// Persona is a named sentiment-generation profile. It drives generation but
// is never persisted per customer beyond the static registry.
type Persona struct {
	Description          string  `json:"description"`
	BaseSentiment        float64 `json:"base_sentiment"`
	Variance             float64 `json:"variance"`
	Trend                string  `json:"trend"`                 // stable, declining, improving, volatile
	InteractionFrequency string  `json:"interaction_frequency"` // low, medium, high
}

// CustomerInfo describes a known demo customer.
type CustomerInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Tier       string `json:"tier,omitempty"`
	Persona    string `json:"persona,omitempty"`
	AccountAge string `json:"account_age,omitempty"`
}

// DemoCustomer is the catalog entry returned by the customer listing.
type DemoCustomer struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	Tier               string `json:"tier"`
	Persona            string `json:"persona"`
	PersonaDescription string `json:"persona_description"`
}
