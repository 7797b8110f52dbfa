package conversation

import (
	"regexp"
	"strings"
)

// minNameLength минимальная длина имени после обрезки пробелов
const minNameLength = 2

// ExitKeywords слова, завершающие диалог на любом этапе
var ExitKeywords = []string{"bye", "goodbye", "exit", "quit", "end", "stop", "thank you", "thanks"}

var (
	emailPattern   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern   = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
	phoneSeparator = regexp.MustCompile(`[\s\-()]`)

	// ключевое слово должно начинаться с начала слова, продолжение не важно:
	// "thanksgiving" завершает диалог, "backend" нет
	exitPattern = regexp.MustCompile(`(?i)\b(?:` + exitAlternation() + `)`)
)

func exitAlternation() string {
	quoted := make([]string, len(ExitKeywords))
	for i, k := range ExitKeywords {
		quoted[i] = regexp.QuoteMeta(k)
	}
	return strings.Join(quoted, "|")
}

// ValidName проверяет имя: не короче двух символов
func ValidName(name string) bool {
	return len([]rune(strings.TrimSpace(name))) >= minNameLength
}

// ValidEmail проверяет формат email
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone проверяет номер после удаления пробелов, дефисов и скобок
func ValidPhone(phone string) bool {
	cleaned := phoneSeparator.ReplaceAllString(phone, "")
	return phonePattern.MatchString(cleaned)
}

// IsExitIntent сообщает, хочет ли пользователь завершить диалог
func IsExitIntent(input string) bool {
	return exitPattern.MatchString(strings.TrimSpace(input))
}
