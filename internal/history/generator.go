package history

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"knowledge-assist/internal/model"
)

// dataVersion is folded into every seed. Bumping it regenerates all demo
// data without touching any other code.
const dataVersion = "v2"

const (
	positiveThreshold = 0.15
	negativeThreshold = -0.15
	trendThreshold    = 0.15
)

// seededRand derives a deterministic generator from a versioned seed string:
// md5, truncated to 32 bits. Same inputs, same stream, within one version.
func seededRand(seedString string) *rand.Rand {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s", dataVersion, seedString)))
	seed := binary.BigEndian.Uint32(sum[:4])
	return rand.New(rand.NewSource(int64(seed)))
}

// interactionCount maps (frequency, period) to a small realistic contact
// count. Counts are intentionally single-digit, not proportional to days.
func interactionCount(rng *rand.Rand, frequency string, days int) int {
	type span struct{ min, max int }
	var counts map[string]span
	switch {
	case days <= 30:
		counts = map[string]span{"low": {1, 2}, "medium": {2, 2}, "high": {2, 3}}
	case days <= 60:
		counts = map[string]span{"low": {2, 3}, "medium": {2, 3}, "high": {3, 4}}
	default:
		counts = map[string]span{"low": {3, 4}, "medium": {3, 5}, "high": {4, 5}}
	}
	bounds, ok := counts[frequency]
	if !ok {
		bounds = span{3, 4}
	}
	return bounds.min + rng.Intn(bounds.max-bounds.min+1)
}

// sentimentScore combines the persona base, a progress-dependent trend
// modifier, and uniform noise, clamped to [-1, 1]. Noise is dampened to 60%
// of the persona variance so trends stay visible.
func sentimentScore(rng *rand.Rand, base, variance float64, trend string, progress float64) float64 {
	modifier := 0.0
	switch trend {
	case "improving":
		modifier = -0.3 + progress*0.7 // -0.3 at start, +0.4 at end
	case "declining":
		modifier = 0.3 - progress*0.7 // +0.3 at start, -0.4 at end
	case "volatile":
		modifier = uniform(rng, -0.3, 0.3)
	}
	// "stable" adds nothing.

	noise := variance * 0.6
	score := base + modifier + uniform(rng, -noise, noise)
	return clamp(score, -1, 1)
}

func scoreToLabel(score float64) string {
	switch {
	case score >= positiveThreshold:
		return model.SentimentPositive
	case score <= negativeThreshold:
		return model.SentimentNegative
	default:
		return model.SentimentNeutral
	}
}

// pickChannel selects a channel by fixed weights.
func pickChannel(rng *rand.Rand) string {
	r := rng.Float64()
	cumulative := 0.0
	for _, cw := range channelWeights {
		cumulative += cw.weight
		if r < cumulative {
			return cw.name
		}
	}
	return channelWeights[len(channelWeights)-1].name
}

// generate produces the interaction sequence for one (customer, days) pair.
// now anchors the period; the rng stream is fully determined by the seed.
func generate(customerID string, days int, now time.Time) []model.HistoricalInteraction {
	rng := seededRand(fmt.Sprintf("%s_%d", customerID, days))

	personaName := ""
	if info, ok := demoCustomers[customerID]; ok {
		personaName = info.Persona
	} else {
		personaName = personaNames[rng.Intn(len(personaNames))]
	}
	persona, ok := personas[personaName]
	if !ok {
		persona = personas["satisfied_loyal"]
	}

	count := interactionCount(rng, persona.InteractionFrequency, days)

	start := now.AddDate(0, 0, -days)
	period := now.Sub(start)

	timestamps := make([]time.Time, 0, count)
	for i := 0; i < count; i++ {
		day := start.AddDate(0, 0, int(rng.Float64()*float64(days)))
		// Interactions land inside business hours, 08:00-19:59.
		timestamps = append(timestamps, time.Date(
			day.Year(), day.Month(), day.Day(),
			8+rng.Intn(12), rng.Intn(60), 0, 0, day.Location(),
		))
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })

	interactions := make([]model.HistoricalInteraction, 0, count)
	for i, ts := range timestamps {
		channel := pickChannel(rng)
		progress := float64(ts.Sub(start)) / float64(period)

		score := sentimentScore(rng, persona.BaseSentiment, persona.Variance, persona.Trend, progress)
		label := scoreToLabel(score)
		confidence := 65 + rng.Intn(31)

		pool := channelSummaries[channel][label]
		summary := pool[rng.Intn(len(pool))]

		var resolution string
		switch {
		case label == model.SentimentPositive:
			resolution = model.ResolutionResolved
		case label == model.SentimentNegative && rng.Float64() > 0.6:
			resolution = model.ResolutionEscalated
		default:
			// Resolved is twice as likely as pending by construction.
			options := []string{model.ResolutionResolved, model.ResolutionPending, model.ResolutionResolved}
			resolution = options[rng.Intn(len(options))]
		}

		agentID := ""
		if channel == model.ChannelCall || channel == model.ChannelChat {
			agentID = fmt.Sprintf("AGENT-%d", 100+rng.Intn(900))
		}

		interactions = append(interactions, model.HistoricalInteraction{
			ID:             fmt.Sprintf("INT-%s-%04d", customerID, i+1),
			CustomerID:     customerID,
			Timestamp:      ts.Format(time.RFC3339),
			Channel:        channel,
			SentimentScore: round3(score),
			SentimentLabel: label,
			Confidence:     confidence,
			Summary:        summary,
			AgentID:        agentID,
			Resolution:     resolution,
		})
	}
	return interactions
}

// summarize rolls an interaction sequence up into averages, trend, and
// distributions. The trend compares the first-third mean against the
// last-third mean; for sequences of length 1 or 2 the thirds overlap the
// whole sequence, which is intentional degenerate behavior.
func summarize(interactions []model.HistoricalInteraction) model.HistorySummary {
	summary := model.HistorySummary{
		Trend:            "stable",
		ChannelBreakdown: map[string]int{},
		SentimentDistribution: map[string]int{
			model.SentimentPositive: 0,
			model.SentimentNeutral:  0,
			model.SentimentNegative: 0,
		},
	}
	if len(interactions) == 0 {
		return summary
	}

	total := 0.0
	for _, it := range interactions {
		total += it.SentimentScore
		summary.ChannelBreakdown[it.Channel]++
		summary.SentimentDistribution[it.SentimentLabel]++
	}
	summary.TotalInteractions = len(interactions)
	summary.AverageSentiment = round3(total / float64(len(interactions)))

	third := len(interactions) / 3
	if third < 1 {
		third = 1
	}
	firstAvg := 0.0
	for _, it := range interactions[:third] {
		firstAvg += it.SentimentScore
	}
	firstAvg /= float64(third)
	lastAvg := 0.0
	for _, it := range interactions[len(interactions)-third:] {
		lastAvg += it.SentimentScore
	}
	lastAvg /= float64(third)

	diff := lastAvg - firstAvg
	switch {
	case diff > trendThreshold:
		summary.Trend = "improving"
	case diff < -trendThreshold:
		summary.Trend = "declining"
	}

	first, errFirst := time.Parse(time.RFC3339, interactions[0].Timestamp)
	last, errLast := time.Parse(time.RFC3339, interactions[len(interactions)-1].Timestamp)
	if len(interactions) >= 2 && errFirst == nil && errLast == nil {
		summary.PeriodDays = int(last.Sub(first) / (24 * time.Hour))
	}
	summary.LastInteraction = interactions[len(interactions)-1].Timestamp

	return summary
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
