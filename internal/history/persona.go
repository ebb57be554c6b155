package history

import "knowledge-assist/internal/model"

// channelWeight pairs a contact channel with its selection weight. Weights
// are persona-independent.
type channelWeight struct {
	name   string
	weight float64
}

var channelWeights = []channelWeight{
	{model.ChannelCall, 0.35},
	{model.ChannelChat, 0.30},
	{model.ChannelEmail, 0.20},
	{model.ChannelSurvey, 0.10},
	{model.ChannelSocial, 0.05},
}

// channelSummaries maps channel -> sentiment label -> canned summary pool.
var channelSummaries = map[string]map[string][]string{
	model.ChannelCall: {
		model.SentimentPositive: {
			"Called to thank support for quick resolution",
			"Appreciation call for excellent service",
			"Called to provide positive feedback",
			"Renewal call - very satisfied with service",
			"Quick call - issue resolved immediately",
		},
		model.SentimentNeutral: {
			"Called about billing inquiry",
			"Phone support for account settings update",
			"Follow-up call on previous ticket",
			"Phone verification for account change",
			"Called about promotional offer details",
		},
		model.SentimentNegative: {
			"Complaint call about service quality",
			"Called frustrated about recurring issue",
			"Voice call regarding service outage",
			"Called to escalate unresolved problem",
			"Called to cancel due to poor experience",
		},
	},
	model.ChannelChat: {
		model.SentimentPositive: {
			"Chat feedback - great support experience",
			"Quick chat - agent resolved instantly",
			"Chat to express satisfaction with new feature",
			"Positive chat about recent upgrade",
		},
		model.SentimentNeutral: {
			"Web chat asking about features",
			"Chat inquiry about pricing",
			"Chat about order status",
			"Live chat billing question",
			"Quick question via chat widget",
		},
		model.SentimentNegative: {
			"Chat complaint about wait times",
			"Frustrated chat - issue not resolved",
			"Chat about ongoing service problems",
			"Bot-to-agent transfer - complex issue",
		},
	},
	model.ChannelEmail: {
		model.SentimentPositive: {
			"Email thanking team for support",
			"Positive feedback on recent changes",
			"Email praising customer service rep",
			"Satisfied response to resolution email",
		},
		model.SentimentNeutral: {
			"Email inquiry about documentation",
			"Account verification email",
			"Email about contract renewal",
			"Feature request submission",
		},
		model.SentimentNegative: {
			"Email complaint escalation",
			"Email about invoice discrepancy",
			"Email requesting refund",
			"Frustrated email about delayed response",
		},
	},
	model.ChannelSurvey: {
		model.SentimentPositive: {
			"NPS survey - promoter score (9-10)",
			"Excellent rating on satisfaction survey",
			"Positive product feedback survey",
		},
		model.SentimentNeutral: {
			"NPS survey - passive score (7-8)",
			"Annual customer survey response",
			"Quick pulse survey completed",
		},
		model.SentimentNegative: {
			"NPS survey - detractor score (0-6)",
			"Low satisfaction survey rating",
			"Critical feedback in service survey",
		},
	},
	model.ChannelSocial: {
		model.SentimentPositive: {
			"Social media praise/testimonial",
			"Positive public review",
			"Twitter shoutout to support team",
		},
		model.SentimentNeutral: {
			"Facebook message inquiry",
			"LinkedIn comment interaction",
			"Instagram DM support question",
		},
		model.SentimentNegative: {
			"Social media complaint",
			"Negative public review",
			"Twitter complaint about service",
		},
	},
}

// personaNames fixes the registry order so seeded fallback choice is stable.
var personaNames = []string{
	"satisfied_loyal",
	"frustrated_at_risk",
	"new_curious",
	"volatile_mixed",
	"recovering_churned",
}

// Real customers contact support about once a month on average; personas
// keep interaction counts in that realistic range.
var personas = map[string]model.Persona{
	"satisfied_loyal": {
		Description:          "Long-term happy customer with occasional minor issues",
		BaseSentiment:        0.45,
		Variance:             0.35,
		Trend:                "stable",
		InteractionFrequency: "low",
	},
	"frustrated_at_risk": {
		Description:          "Customer experiencing recurring issues, at risk of churning",
		BaseSentiment:        -0.15,
		Variance:             0.50,
		Trend:                "declining",
		InteractionFrequency: "medium",
	},
	"new_curious": {
		Description:          "New customer learning the product, sentiment improving",
		BaseSentiment:        0.10,
		Variance:             0.45,
		Trend:                "improving",
		InteractionFrequency: "low",
	},
	"volatile_mixed": {
		Description:          "Customer with unpredictable sentiment swings",
		BaseSentiment:        0.0,
		Variance:             0.60,
		Trend:                "volatile",
		InteractionFrequency: "low",
	},
	"recovering_churned": {
		Description:          "Previously churned customer who returned, rebuilding trust",
		BaseSentiment:        0.10,
		Variance:             0.40,
		Trend:                "improving",
		InteractionFrequency: "low",
	},
}

// demoCustomerIDs fixes the catalog listing order.
var demoCustomerIDs = []string{
	"CUST-12345",
	"CUST-67890",
	"CUST-11111",
	"CUST-22222",
	"CUST-33333",
}

type demoCustomer struct {
	Name       string
	Email      string
	Tier       string
	Persona    string
	AccountAge string
}

var demoCustomers = map[string]demoCustomer{
	"CUST-12345": {
		Name:       "Sarah Johnson",
		Email:      "s.johnson@email.com",
		Tier:       "Platinum",
		Persona:    "recovering_churned",
		AccountAge: "4 years",
	},
	"CUST-67890": {
		Name:       "Michael Chen",
		Email:      "m.chen@company.com",
		Tier:       "Gold",
		Persona:    "satisfied_loyal",
		AccountAge: "6 years",
	},
	"CUST-11111": {
		Name:       "Emily Rodriguez",
		Email:      "e.rodriguez@email.com",
		Tier:       "Silver",
		Persona:    "new_curious",
		AccountAge: "3 months",
	},
	"CUST-22222": {
		Name:       "James Wilson",
		Email:      "j.wilson@business.com",
		Tier:       "Enterprise",
		Persona:    "volatile_mixed",
		AccountAge: "2 years",
	},
	"CUST-33333": {
		Name:       "Amanda Foster",
		Email:      "a.foster@startup.io",
		Tier:       "Gold",
		Persona:    "recovering_churned",
		AccountAge: "1 year",
	},
}
