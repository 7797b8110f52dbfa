// Package questions подбирает технические вопросы по стеку кандидата.
package questions

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// QuestionsPerTechnology сколько вопросов берется на одну технологию
	QuestionsPerTechnology = 2
	// MaxQuestions максимальная длина итогового списка
	MaxQuestions = 5
)

const (
	dataScienceKey     = "data science"
	machineLearningKey = "machine learning"
	defaultTechnology  = "your primary technology"
)

var (
	separators = regexp.MustCompile(`[,;|\n]`)

	dataScienceSignals = []string{"data", "analytics", "statistics", "ml", "ai", "analysis"}
)

// Tokenize разбивает стек на отдельные технологии в нижнем регистре.
// Пустые элементы сохраняются.
func Tokenize(techStack string) []string {
	parts := separators.Split(strings.ToLower(techStack), -1)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// Select возвращает до MaxQuestions вопросов для указанного стека.
// Результат детерминирован: порядок определяется порядком токенов и таблицы.
// Дубликаты не удаляются.
func Select(techStack string) []string {
	lower := strings.ToLower(techStack)
	technologies := Tokenize(techStack)

	var selected []string
	for _, tech := range technologies {
		if t, ok := match(tech); ok {
			selected = append(selected, head(t.Questions, QuestionsPerTechnology)...)
		}
	}

	if hasDataScienceSignal(lower) {
		if qs, ok := Lookup(dataScienceKey); ok {
			selected = append(selected, head(qs, 2)...)
		}
		if qs, ok := Lookup(machineLearningKey); ok {
			selected = append(selected, head(qs, 1)...)
		}
	}

	if len(selected) == 0 {
		first := defaultTechnology
		if len(technologies) > 0 && technologies[0] != "" {
			first = technologies[0]
		}
		selected = genericQuestions(first)
	}

	return head(selected, MaxQuestions)
}

// match ищет сначала точное совпадение, затем первое частичное в порядке таблицы
func match(tech string) (Template, bool) {
	for _, t := range table {
		if t.Key == tech {
			return t, true
		}
	}
	for _, t := range table {
		if strings.Contains(tech, t.Key) || strings.Contains(t.Key, tech) {
			return t, true
		}
	}
	return Template{}, false
}

func hasDataScienceSignal(lower string) bool {
	for _, w := range dataScienceSignals {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func genericQuestions(technology string) []string {
	return []string{
		fmt.Sprintf("Can you explain your experience with %s?", technology),
		"Describe a challenging technical problem you've solved recently.",
		"How do you stay updated with the latest trends in your tech stack?",
		"What best practices do you follow in your development process?",
		"How do you approach debugging and troubleshooting in your projects?",
	}
}

func head(list []string, n int) []string {
	if len(list) > n {
		list = list[:n]
	}
	return append([]string(nil), list...)
}
