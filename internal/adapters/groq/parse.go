package groq

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ewilliams-labs/lyricmood/internal/core/domain"
	"github.com/ewilliams-labs/lyricmood/internal/core/ports"
)

// parseEmotionContent validates the model reply at the boundary: exactly
// the five category keys, numeric, each in [0,1]. Distributions that
// drift from summing to 1.0 are rescaled proportionally; an all-zero
// reply fails with domain.ErrDegenerateScores.
func parseEmotionContent(content string) (domain.EmotionReport, error) {
	jsonStr := extractJSONObject(content)
	if jsonStr == "" {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: no JSON object in model reply: %w", ports.ErrMalformedResponse)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &fields); err != nil {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: decode model reply: %w", ports.ErrMalformedResponse)
	}

	var report domain.EmotionReport
	seen := make(map[domain.EmotionCategory]bool, len(domain.Categories))

	for key, value := range fields {
		if cat, ok := asCategory(key); ok {
			score, ok := value.(float64)
			if !ok {
				return domain.EmotionReport{}, fmt.Errorf("groq adapter: category %q is not numeric: %w", key, ports.ErrMalformedResponse)
			}
			if score < 0 || score > 1 {
				return domain.EmotionReport{}, fmt.Errorf("groq adapter: category %q out of [0,1]: %w", key, ports.ErrMalformedResponse)
			}
			setScore(&report.Scores, cat, score)
			seen[cat] = true
			continue
		}

		switch key {
		case "confidence":
			if conf, ok := value.(float64); ok && conf >= 0 && conf <= 1 {
				report.Confidence = conf
			}
		case "summary":
			if summary, ok := value.(string); ok {
				report.Summary = strings.TrimSpace(summary)
			}
		case "dominant_emotion":
			// Recomputed from the scores; the model's claim is ignored.
		default:
			return domain.EmotionReport{}, fmt.Errorf("groq adapter: unexpected field %q in model reply: %w", key, ports.ErrMalformedResponse)
		}
	}

	for _, cat := range domain.Categories {
		if !seen[cat] {
			return domain.EmotionReport{}, fmt.Errorf("groq adapter: category %q missing from model reply: %w", cat, ports.ErrMalformedResponse)
		}
	}

	rescaled, err := report.Scores.Rescale()
	if err != nil {
		return domain.EmotionReport{}, fmt.Errorf("groq adapter: %w", err)
	}
	report.Scores = rescaled

	return report, nil
}

// extractJSONObject cuts the first balanced-looking JSON object out of the
// reply, tolerating markdown fences around it.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return content[start : end+1]
}

func asCategory(key string) (domain.EmotionCategory, bool) {
	cat := domain.EmotionCategory(strings.ToLower(key))
	for _, known := range domain.Categories {
		if cat == known {
			return cat, true
		}
	}
	return "", false
}

func setScore(s *domain.EmotionScores, cat domain.EmotionCategory, score float64) {
	switch cat {
	case domain.Happiness:
		s.Happiness = score
	case domain.Sadness:
		s.Sadness = score
	case domain.Anger:
		s.Anger = score
	case domain.Fear:
		s.Fear = score
	case domain.Love:
		s.Love = score
	}
}
