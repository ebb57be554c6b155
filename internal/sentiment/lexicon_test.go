package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolarityScoresBasic(t *testing.T) {
	a := NewLexiconAnalyzer()

	t.Run("positive text", func(t *testing.T) {
		scores := a.PolarityScores("the support was great and very helpful")
		assert.Greater(t, scores.Compound, 0.05)
		assert.Greater(t, scores.Positive, 0.0)
	})

	t.Run("negative text", func(t *testing.T) {
		scores := a.PolarityScores("this is terrible, the app crashed and I am frustrated")
		assert.Less(t, scores.Compound, -0.05)
		assert.Greater(t, scores.Negative, 0.0)
	})

	t.Run("neutral text", func(t *testing.T) {
		scores := a.PolarityScores("please update the shipping address on file")
		assert.Equal(t, 0.0, scores.Compound)
	})

	t.Run("no scorable words", func(t *testing.T) {
		scores := a.PolarityScores("")
		assert.Equal(t, 0.0, scores.Compound)
		assert.Equal(t, 1.0, scores.Neutral)
	})

	t.Run("compound stays in range", func(t *testing.T) {
		scores := a.PolarityScores("great great great great great great great great great great")
		assert.LessOrEqual(t, scores.Compound, 1.0)
		assert.GreaterOrEqual(t, scores.Compound, -1.0)
	})
}

func TestPolarityScoresHeuristics(t *testing.T) {
	a := NewLexiconAnalyzer()

	t.Run("negation flips polarity", func(t *testing.T) {
		plain := a.PolarityScores("the service was good")
		negated := a.PolarityScores("the service was not good")
		assert.Greater(t, plain.Compound, 0.0)
		assert.Less(t, negated.Compound, 0.0)
	})

	t.Run("booster amplifies", func(t *testing.T) {
		plain := a.PolarityScores("the service was good")
		boosted := a.PolarityScores("the service was very good")
		assert.Greater(t, boosted.Compound, plain.Compound)
	})

	t.Run("dampener softens", func(t *testing.T) {
		plain := a.PolarityScores("the release was disappointing")
		dampened := a.PolarityScores("the release was slightly disappointing")
		assert.Greater(t, dampened.Compound, plain.Compound)
	})

	t.Run("exclamations add emphasis", func(t *testing.T) {
		plain := a.PolarityScores("this is great")
		excited := a.PolarityScores("this is great!!!")
		assert.Greater(t, excited.Compound, plain.Compound)
	})

	t.Run("exclamation emphasis is capped", func(t *testing.T) {
		four := a.PolarityScores("this is great!!!!")
		ten := a.PolarityScores("this is great!!!!!!!!!!")
		assert.Equal(t, four.Compound, ten.Compound)
	})

	t.Run("selective caps add emphasis", func(t *testing.T) {
		plain := a.PolarityScores("the outage was terrible today")
		shouted := a.PolarityScores("the outage was TERRIBLE today")
		assert.Less(t, shouted.Compound, plain.Compound)
	})

	t.Run("uniform caps add nothing", func(t *testing.T) {
		plain := a.PolarityScores("great service")
		allCaps := a.PolarityScores("GREAT SERVICE")
		assert.Equal(t, plain.Compound, allCaps.Compound)
	})

	t.Run("punctuation does not hide words", func(t *testing.T) {
		scores := a.PolarityScores("Great! Thanks, everything works.")
		assert.Greater(t, scores.Compound, 0.05)
	})
}
