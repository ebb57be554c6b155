package app

import (
	"context"
	"strings"

	"knowledge-assist/internal/model"
	"knowledge-assist/internal/sentiment"
)

const (
	assistTopK       = 3
	cardSummaryLimit = 200
)

// AssistService turns a conversation transcript into canned agent
// suggestions backed by knowledge search and a quick sentiment read of the
// customer's last message.
type AssistService struct {
	knowledge *KnowledgeService
	sentiment *sentiment.Service
}

func NewAssistService(knowledge *KnowledgeService, sentimentSvc *sentiment.Service) *AssistService {
	return &AssistService{
		knowledge: knowledge,
		sentiment: sentimentSvc,
	}
}

// ConversationMessage is one turn of the transcript. Role is "customer" or
// "agent"; only customer turns drive suggestions.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// KnowledgeCard is a condensed search hit for the agent-assist sidebar.
type KnowledgeCard struct {
	Title     string  `json:"title"`
	Summary   string  `json:"summary"`
	URL       string  `json:"url"`
	Category  string  `json:"category"`
	Relevance float64 `json:"relevance"`
}

// SuggestResult is the assist payload for one conversation state.
type SuggestResult struct {
	Suggestions    []string        `json:"suggestions"`
	KnowledgeCards []KnowledgeCard `json:"knowledge_cards"`
	Sentiment      string          `json:"sentiment"`
}

// Suggest searches the knowledge base for the last customer message and
// assembles up to three response suggestions plus knowledge cards.
func (s *AssistService) Suggest(ctx context.Context, conversation []ConversationMessage) (*SuggestResult, error) {
	lastMessage := ""
	for _, msg := range conversation {
		if msg.Role == "customer" && strings.TrimSpace(msg.Content) != "" {
			lastMessage = msg.Content
		}
	}
	if lastMessage == "" {
		return &SuggestResult{
			Suggestions:    []string{"Hello! How can I help you today?"},
			KnowledgeCards: []KnowledgeCard{},
			Sentiment:      model.SentimentNeutral,
		}, nil
	}

	results, err := s.knowledge.Search(ctx, lastMessage, assistTopK, "")
	if err != nil {
		return nil, err
	}

	mood := s.sentiment.Analyze(lastMessage, sentiment.ProviderRuleBased).Sentiment
	suggestions := buildSuggestions(lastMessage, results, mood)

	cards := make([]KnowledgeCard, 0, len(results))
	for _, r := range results {
		// Truncate on rune boundaries so multi-byte content stays valid.
		summary := r.Content
		if runes := []rune(summary); len(runes) > cardSummaryLimit {
			summary = string(runes[:cardSummaryLimit]) + "..."
		}
		cards = append(cards, KnowledgeCard{
			Title:     r.Title,
			Summary:   summary,
			URL:       r.URL,
			Category:  r.Category,
			Relevance: r.Relevance,
		})
	}

	return &SuggestResult{
		Suggestions:    suggestions,
		KnowledgeCards: cards,
		Sentiment:      mood,
	}, nil
}

func buildSuggestions(message string, results []model.SearchResult, mood string) []string {
	var suggestions []string
	lower := strings.ToLower(message)

	if containsAny(lower, "hi", "hello", "hey") {
		suggestions = append(suggestions, "Hello! I'd be happy to help you today. What can I assist you with?")
	}
	if mood == model.SentimentNegative {
		suggestions = append(suggestions, "I understand this can be frustrating. Let me help you resolve this issue.")
	}

	if len(results) > 0 {
		top := results[0]
		if containsAny(lower, "configure", "setup", "set up") {
			suggestions = append(suggestions,
				"Based on our documentation about "+top.Title+", let me walk you through the configuration steps.")
		}
		if containsAny(lower, "not working", "error", "issue") {
			suggestions = append(suggestions,
				"I found a relevant troubleshooting guide: "+top.Title+". The most common cause is a configuration setting — shall we check it together?")
		}
		if containsAny(lower, "where", "how do i") {
			suggestions = append(suggestions,
				"According to our "+top.Title+" documentation, you can find this in the Admin section. Here are the steps...")
		}
	}

	if len(suggestions) == 0 {
		suggestions = append(suggestions,
			"I'll be happy to help you with that. Could you provide more details about what you're trying to accomplish?",
			"Let me look into this for you. Can you tell me which feature this relates to?")
	}
	if len(suggestions) > 3 {
		suggestions = suggestions[:3]
	}
	return suggestions
}

func containsAny(haystack string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}
