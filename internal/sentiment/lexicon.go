package sentiment

import (
	"math"
	"strings"
)

// Lexicon-and-heuristic analyzer in the VADER family: word valences on a
// -4..4 scale, booster and negation handling, punctuation and capitalization
// emphasis, and the standard compound normalization.

const (
	boosterIncrement   = 0.293
	capsIncrement      = 0.733
	negationDampener   = -0.74
	exclamationBoost   = 0.292
	normalizationAlpha = 15.0
)

var valences = map[string]float64{
	// positive
	"amazing": 2.8, "appreciate": 1.8, "appreciated": 1.9, "awesome": 3.1,
	"best": 3.2, "better": 1.9, "brilliant": 2.8, "delighted": 2.9,
	"easy": 1.9, "excellent": 2.7, "fantastic": 2.6, "fast": 1.2,
	"fine": 0.8, "fixed": 1.4, "glad": 2.0, "good": 1.9, "great": 3.1,
	"happy": 2.7, "help": 1.7, "helped": 1.7, "helpful": 1.8,
	"impressed": 2.2, "like": 1.5, "love": 3.2, "loved": 2.9,
	"nice": 1.8, "perfect": 2.7, "pleased": 1.9, "quick": 1.3,
	"resolved": 1.6, "satisfied": 2.0, "smooth": 1.5, "solved": 1.6,
	"superb": 3.0, "thank": 1.9, "thanks": 1.9, "wonderful": 2.7,
	"works": 1.3,
	// negative
	"angry": -2.3, "annoyed": -1.8, "annoying": -1.9, "awful": -2.8,
	"bad": -2.5, "broken": -1.9, "cancel": -1.3, "complaint": -1.6,
	"confused": -1.2, "confusing": -1.4, "crash": -2.0, "crashed": -2.0,
	"disappointed": -2.1, "disappointing": -2.2, "dreadful": -2.8,
	"error": -1.6, "fail": -2.3, "failed": -2.3, "failure": -2.4,
	"frustrated": -2.2, "frustrating": -2.3, "hate": -2.7, "hated": -2.6,
	"horrible": -2.9, "issue": -1.1, "issues": -1.2, "lost": -1.3,
	"mess": -1.6, "outage": -1.8, "poor": -2.1, "problem": -1.4,
	"problems": -1.5, "refund": -0.8, "sad": -2.1, "slow": -1.3,
	"stuck": -1.4, "terrible": -2.1, "unacceptable": -2.4,
	"unhappy": -1.8, "unusable": -2.3, "upset": -1.9, "useless": -1.8,
	"waiting": -0.6, "worst": -3.1, "wrong": -1.7,
}

var boosters = map[string]float64{
	"absolutely": boosterIncrement, "completely": boosterIncrement,
	"extremely": boosterIncrement, "highly": boosterIncrement,
	"incredibly": boosterIncrement, "really": boosterIncrement,
	"so": boosterIncrement, "totally": boosterIncrement,
	"very": boosterIncrement,
	"barely": -boosterIncrement, "hardly": -boosterIncrement,
	"kind of": -boosterIncrement, "kinda": -boosterIncrement,
	"marginally": -boosterIncrement, "slightly": -boosterIncrement,
	"somewhat": -boosterIncrement,
}

var negations = map[string]bool{
	"aint": true, "cannot": true, "cant": true, "didnt": true,
	"doesnt": true, "dont": true, "isnt": true, "never": true,
	"no": true, "none": true, "not": true, "nothing": true,
	"wasnt": true, "without": true, "wont": true, "wouldnt": true,
}

// LexiconAnalyzer scores free text by summing word valences with heuristic
// adjustments, then normalizing to a [-1, 1] compound score.
type LexiconAnalyzer struct{}

func NewLexiconAnalyzer() *LexiconAnalyzer {
	return &LexiconAnalyzer{}
}

// Scores holds the compound score plus the positive/neutral/negative
// proportions of scored words.
type Scores struct {
	Compound float64
	Positive float64
	Neutral  float64
	Negative float64
}

func (a *LexiconAnalyzer) PolarityScores(text string) Scores {
	words := strings.Fields(text)
	allCapsMixed := hasMixedCase(words)

	var sentiments []float64
	for i, raw := range words {
		word := normalizeWord(raw)
		valence, ok := valences[word]
		if !ok {
			if _, isBooster := boosters[word]; !isBooster && !negations[word] {
				sentiments = append(sentiments, 0)
			}
			continue
		}

		if allCapsMixed && isAllCaps(raw) {
			if valence > 0 {
				valence += capsIncrement
			} else {
				valence -= capsIncrement
			}
		}

		// Look back up to two words for boosters and negations.
		for back := 1; back <= 2 && i-back >= 0; back++ {
			prev := normalizeWord(words[i-back])
			if boost, ok := boosters[prev]; ok {
				scaled := boost
				if valence < 0 {
					scaled = -boost
				}
				if back == 2 {
					scaled *= 0.95
				}
				valence += scaled
			}
			if negations[prev] {
				valence *= negationDampener
			}
		}

		sentiments = append(sentiments, valence)
	}

	sum := 0.0
	var posSum, negSum float64
	neutralCount := 0
	for _, s := range sentiments {
		sum += s
		switch {
		case s > 0:
			posSum += s + 1
		case s < 0:
			negSum += s - 1
		default:
			neutralCount++
		}
	}

	// Exclamation emphasis, capped at four marks like the reference
	// heuristics.
	exclamations := strings.Count(text, "!")
	if exclamations > 4 {
		exclamations = 4
	}
	emphasis := float64(exclamations) * exclamationBoost
	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}

	compound := sum / math.Sqrt(sum*sum+normalizationAlpha)

	total := posSum + math.Abs(negSum) + float64(neutralCount)
	scores := Scores{Compound: roundTo(compound, 4)}
	if total > 0 {
		scores.Positive = roundTo(posSum/total, 4)
		scores.Negative = roundTo(math.Abs(negSum)/total, 4)
		scores.Neutral = roundTo(float64(neutralCount)/total, 4)
	} else {
		scores.Neutral = 1
	}
	return scores
}

func normalizeWord(raw string) string {
	word := strings.ToLower(raw)
	word = strings.Trim(word, ".,;:!?\"'()[]{}")
	return strings.ReplaceAll(word, "'", "")
}

func isAllCaps(word string) bool {
	hasLetter := false
	for _, r := range word {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}

// hasMixedCase reports whether some but not all words are fully capitalized;
// emphasis only counts when capitalization is selective.
func hasMixedCase(words []string) bool {
	caps := 0
	for _, w := range words {
		if isAllCaps(w) {
			caps++
		}
	}
	return caps > 0 && caps < len(words)
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(v*scale) / scale
}
