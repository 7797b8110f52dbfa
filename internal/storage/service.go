package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"
)

const (
	exportPrefix     = "candidate_data_"
	exportFileLayout = "20060102_150405"
)

// ExportFileName формирует имя файла выгрузки: имя кандидата и время.
// Все, кроме букв, цифр, '-' и '_', заменяется на '_', поэтому имя не может
// содержать разделители пути или "..".
func ExportFileName(fullName string, at time.Time) string {
	name := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, fullName)
	return fmt.Sprintf("%s%s_%s.json", exportPrefix, name, at.Format(exportFileLayout))
}

// SaveExport сохраняет выгрузку сессии в JSON файл и возвращает путь к нему
func SaveExport(dir string, export *Export, at time.Time) (string, error) {
	// Создаем директорию если её нет
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return "", fmt.Errorf("ошибка создания директории %s: %w", dir, err)
	}

	path := filepath.Join(dir, ExportFileName(export.CandidateInfo.FullName, at))
	if rel, err := filepath.Rel(dir, path); err != nil || rel != filepath.Base(path) {
		return "", fmt.Errorf("путь выгрузки %s вне директории %s", path, dir)
	}

	jsonData, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации выгрузки: %w", err)
	}

	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return "", fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return path, nil
}

// LoadExport загружает выгрузку из JSON файла
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var export Export
	err = json.Unmarshal(data, &export)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &export, nil
}

// ListExports возвращает отсортированный список файлов выгрузки в директории
func ListExports(dir string) ([]string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", dir, err)
	}

	var results []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || !strings.HasPrefix(name, exportPrefix) {
			continue
		}
		results = append(results, filepath.Join(dir, name))
	}
	sort.Strings(results)

	return results, nil
}
