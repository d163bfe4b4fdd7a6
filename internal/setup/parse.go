package setup

import (
	"regexp"
	"strconv"
	"strings"
)

// Допустимые типы интервью
const (
	TypeTechnical  = "technical"
	TypeBehavioral = "behavioral"
	TypeMix        = "mix"
)

// Границы количества вопросов
const (
	MinQuestionCount = 5
	MaxQuestionCount = 15
)

// techKeywords - фиксированный словарь распознаваемых технологий
var techKeywords = []string{
	"react", "node", "python", "java", "javascript", "typescript", "angular", "vue",
}

// numberWords отображает числительные в значения, пределы [5,15]
var numberWords = map[string]int{
	"five":     5,
	"six":      6,
	"seven":    7,
	"eight":    8,
	"nine":     9,
	"ten":      10,
	"eleven":   11,
	"twelve":   12,
	"thirteen": 13,
	"fourteen": 14,
	"fifteen":  15,
}

var (
	digitRun   = regexp.MustCompile(`\d+`)
	stackSplit = regexp.MustCompile(`(?i)\s*(?:,|\band\b)\s*`)
	// Границы слова обязательны: "ten" входит в "fifteen"
	numberWord = regexp.MustCompile(`\b(five|six|seven|eight|nine|ten|eleven|twelve|thirteen|fourteen|fifteen)\b`)
)

// MatchInterviewType возвращает тип интервью по транскрипту.
// Сопоставление по подстроке без учета регистра, первый матч побеждает.
func MatchInterviewType(transcript string) (string, bool) {
	lower := strings.ToLower(transcript)

	switch {
	case strings.Contains(lower, "technical") || strings.Contains(lower, "tech"):
		return TypeTechnical, true
	case strings.Contains(lower, "behavioral") || strings.Contains(lower, "behavior"):
		return TypeBehavioral, true
	case strings.Contains(lower, "mixed") || strings.Contains(lower, "mix") || strings.Contains(lower, "both"):
		return TypeMix, true
	}
	return "", false
}

// ParseTechStack разбирает транскрипт в список технологий.
// Транскрипт валиден, если содержит хотя бы одно известное ключевое слово;
// тогда он делится по запятым и слову "and" на непустые токены.
func ParseTechStack(transcript string) ([]string, bool) {
	lower := strings.ToLower(transcript)

	found := false
	for _, keyword := range techKeywords {
		if strings.Contains(lower, keyword) {
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}

	var stack []string
	for _, token := range stackSplit.Split(transcript, -1) {
		token = strings.TrimSpace(token)
		if token != "" {
			stack = append(stack, token)
		}
	}
	if len(stack) == 0 {
		return nil, false
	}
	return stack, true
}

// ParseQuestionCount извлекает количество вопросов из транскрипта:
// сначала первая цифровая последовательность, затем числительные.
func ParseQuestionCount(transcript string) (int, bool) {
	if run := digitRun.FindString(transcript); run != "" {
		count, err := strconv.Atoi(run)
		if err == nil && count >= MinQuestionCount && count <= MaxQuestionCount {
			return count, true
		}
		return 0, false
	}

	lower := strings.ToLower(transcript)
	if word := numberWord.FindString(lower); word != "" {
		return numberWords[word], true
	}
	return 0, false
}
