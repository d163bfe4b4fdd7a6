package report

import (
	"fmt"
	"strings"
)

// RenderText форматирует отчет для терминала и текстового экспорта.
// Чистое форматирование поверх уже полученного объекта.
func RenderText(r *Report) string {
	var b strings.Builder

	b.WriteString("===== Interview Report =====\n\n")
	b.WriteString(fmt.Sprintf("Overall score:       %.0f\n", r.OverallScore))
	b.WriteString(fmt.Sprintf("Technical score:     %.0f\n", r.TechnicalScore))
	b.WriteString(fmt.Sprintf("Communication score: %.0f\n", r.CommunicationScore))
	b.WriteString(fmt.Sprintf("Confidence score:    %.0f\n", r.ConfidenceScore))

	if len(r.Strengths) > 0 {
		b.WriteString("\nStrengths:\n")
		for _, s := range r.Strengths {
			b.WriteString(fmt.Sprintf("  + %s\n", s))
		}
	}

	if len(r.Improvements) > 0 {
		b.WriteString("\nAreas to improve:\n")
		for _, s := range r.Improvements {
			b.WriteString(fmt.Sprintf("  - %s\n", s))
		}
	}

	if len(r.PerQuestionFeedback) > 0 {
		b.WriteString("\nPer-question feedback:\n")
		for i, fb := range r.PerQuestionFeedback {
			b.WriteString(fmt.Sprintf("  %d.", i+1))
			if q, ok := fb["question"].(string); ok && q != "" {
				b.WriteString(" " + q)
			}
			b.WriteString("\n")
			if text, ok := fb["feedback"].(string); ok && text != "" {
				b.WriteString(fmt.Sprintf("     %s\n", text))
			}
			if score, ok := fb["score"].(float64); ok {
				b.WriteString(fmt.Sprintf("     score: %.0f\n", score))
			}
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, s := range r.Recommendations {
			b.WriteString(fmt.Sprintf("  * %s\n", s))
		}
	}

	return b.String()
}
