package classify_test

import (
	"testing"

	"github.com/carefacts/carefacts/classify"
	"github.com/stretchr/testify/assert"
)

func TestScorer_Score(t *testing.T) {
	t.Parallel()

	s := classify.NewScorer(nil, classify.DefaultWeights())

	t.Run("zero when no term is present", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("", "", "patient reports severe pain")
		assert.Zero(t, s.Score([]string{"dyspnea"}, nil, p))
	})

	t.Run("zero for empty documents", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("", "", "")
		assert.Zero(t, s.Score([]string{"dyspnea"}, nil, p))
	})

	t.Run("title match outscores body-only match", func(t *testing.T) {
		t.Parallel()
		inTitle := s.Profile("Dyspnea management", "", "supportive measures help breathing")
		inBody := s.Profile("Supportive measures", "", "dyspnea responds to supportive measures and opioid dosing adjustments over time")

		assert.Greater(t,
			s.Score([]string{"dyspnea"}, nil, inTitle),
			s.Score([]string{"dyspnea"}, nil, inBody))
	})

	t.Run("context terms raise the score", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("", "", "dyspnea in physical care settings")

		plain := s.Score([]string{"dyspnea"}, nil, p)
		withCtx := s.Score([]string{"dyspnea"}, []string{"physical", "care"}, p)
		assert.Greater(t, withCtx, plain)
	})

	t.Run("partial coverage scales the score down", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("", "", "nausea persisted overnight despite treatment with standard antiemetics")

		full := s.Score([]string{"nausea"}, nil, p)
		partial := s.Score([]string{"nausea", "vomiting"}, nil, p)
		assert.Greater(t, full, partial)
		assert.Greater(t, partial, 0.0)
	})

	t.Run("score stays within [0,1]", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("pain pain pain", "pain pain", "pain pain pain pain")
		score := s.Score([]string{"pain"}, []string{"pain"}, p)
		assert.LessOrEqual(t, score, 1.0)
		assert.Greater(t, score, 0.0)
	})
}

func TestProfile_ContainsPhrase(t *testing.T) {
	t.Parallel()

	s := classify.NewScorer(nil, classify.DefaultWeights())

	t.Run("detects contiguous token sequences across punctuation", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("", "", "Discussing goals of care: family meetings work best.")
		assert.True(t, p.ContainsPhrase([]string{"family", "meetings"}))
	})

	t.Run("rejects interleaved tokens", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("", "", "family discussed meetings separately")
		assert.False(t, p.ContainsPhrase([]string{"family", "meetings"}))
	})

	t.Run("checks title and summary streams too", func(t *testing.T) {
		t.Parallel()
		p := s.Profile("Family meetings", "", "unrelated body text here")
		assert.True(t, p.ContainsPhrase([]string{"family", "meetings"}))
	})
}
