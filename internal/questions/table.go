package questions

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

// Template представляет одну строку таблицы вопросов
type Template struct {
	Key       string   `yaml:"key"`
	Questions []string `yaml:"questions"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// table загружается один раз при инициализации пакета и больше не меняется
var table = mustParseTable(templatesYAML)

// parseTable разбирает YAML с шаблонами вопросов, сохраняя порядок записей
func parseTable(data []byte) ([]Template, error) {
	var file templateFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("ошибка парсинга шаблонов вопросов: %w", err)
	}

	if len(file.Templates) == 0 {
		return nil, fmt.Errorf("таблица шаблонов пуста")
	}

	seen := make(map[string]bool, len(file.Templates))
	for i, t := range file.Templates {
		if t.Key == "" {
			return nil, fmt.Errorf("шаблон %d должен иметь key", i)
		}
		if seen[t.Key] {
			return nil, fmt.Errorf("ключ %q встречается дважды", t.Key)
		}
		if len(t.Questions) == 0 {
			return nil, fmt.Errorf("шаблон %q не содержит вопросов", t.Key)
		}
		seen[t.Key] = true
	}

	return file.Templates, nil
}

func mustParseTable(data []byte) []Template {
	t, err := parseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Templates возвращает копию таблицы в порядке обхода
func Templates() []Template {
	out := make([]Template, len(table))
	for i, t := range table {
		out[i] = Template{Key: t.Key, Questions: append([]string(nil), t.Questions...)}
	}
	return out
}

// Lookup ищет вопросы по точному ключу
func Lookup(key string) ([]string, bool) {
	for _, t := range table {
		if t.Key == key {
			return append([]string(nil), t.Questions...), true
		}
	}
	return nil, false
}
