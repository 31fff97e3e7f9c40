package domain

import (
	"errors"
	"math"
)

// EmotionCategory is one of the five fixed categories the analyzer scores.
type EmotionCategory string

const (
	Happiness EmotionCategory = "happiness"
	Sadness   EmotionCategory = "sadness"
	Anger     EmotionCategory = "anger"
	Fear      EmotionCategory = "fear"
	Love      EmotionCategory = "love"
)

// Categories lists the closed category set in its canonical order.
// The order doubles as the tie-break for Dominant.
var Categories = []EmotionCategory{Happiness, Sadness, Anger, Fear, Love}

// ScoreSumTolerance is how far the five scores may drift from 1.0
// before Rescale renormalizes them.
const ScoreSumTolerance = 0.01

var (
	ErrDegenerateScores = errors.New("domain: all emotion scores are zero")
	ErrScoreOutOfRange  = errors.New("domain: emotion score outside [0,1]")
)

// EmotionScores is a distribution over the five categories.
// A valid distribution has every value in [0,1] and sums to 1.0
// within ScoreSumTolerance.
type EmotionScores struct {
	Happiness float64 `json:"happiness"`
	Sadness   float64 `json:"sadness"`
	Anger     float64 `json:"anger"`
	Fear      float64 `json:"fear"`
	Love      float64 `json:"love"`
}

func (s EmotionScores) Get(c EmotionCategory) float64 {
	switch c {
	case Happiness:
		return s.Happiness
	case Sadness:
		return s.Sadness
	case Anger:
		return s.Anger
	case Fear:
		return s.Fear
	case Love:
		return s.Love
	}
	return 0
}

func (s EmotionScores) Sum() float64 {
	return s.Happiness + s.Sadness + s.Anger + s.Fear + s.Love
}

// Validate checks every score is in [0,1] and the sum is 1.0 within tolerance.
func (s EmotionScores) Validate() error {
	for _, c := range Categories {
		v := s.Get(c)
		if v < 0 || v > 1 || math.IsNaN(v) {
			return ErrScoreOutOfRange
		}
	}
	if math.Abs(s.Sum()-1.0) > ScoreSumTolerance {
		return errors.New("domain: emotion scores do not sum to 1.0")
	}
	return nil
}

// Rescale proportionally renormalizes the scores to sum to 1.0 when they
// drift outside tolerance. An all-zero distribution cannot be rescaled and
// returns ErrDegenerateScores.
func (s EmotionScores) Rescale() (EmotionScores, error) {
	sum := s.Sum()
	if sum == 0 {
		return EmotionScores{}, ErrDegenerateScores
	}
	if math.Abs(sum-1.0) <= ScoreSumTolerance {
		return s, nil
	}
	return EmotionScores{
		Happiness: s.Happiness / sum,
		Sadness:   s.Sadness / sum,
		Anger:     s.Anger / sum,
		Fear:      s.Fear / sum,
		Love:      s.Love / sum,
	}, nil
}

// Dominant returns the highest-scoring category. Ties resolve to the
// category that comes first in Categories so repeated runs are stable.
func (s EmotionScores) Dominant() EmotionCategory {
	best := Categories[0]
	bestScore := s.Get(best)
	for _, c := range Categories[1:] {
		if v := s.Get(c); v > bestScore {
			best = c
			bestScore = v
		}
	}
	return best
}

// EmotionReport is what the analyzer returns: a valid distribution plus
// optional model commentary.
type EmotionReport struct {
	Scores     EmotionScores
	Confidence float64 // 0 when the model did not report one
	Summary    string
}
