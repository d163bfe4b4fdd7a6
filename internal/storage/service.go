package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"minterviewer/internal/session"
)

const resultsDir = "results"

// SaveSession сохраняет результат сессии в JSON файл
func SaveSession(result *session.Result) error {
	return writeJSON(fmt.Sprintf("session_%s.json", result.InterviewID), result)
}

// SaveReport сохраняет отчет интервью в JSON файл
func SaveReport(interviewID string, report interface{}) error {
	if interviewID == "" {
		interviewID = "unsaved"
	}
	return writeJSON(fmt.Sprintf("report_%s.json", interviewID), report)
}

// LoadSession загружает результат сессии из JSON файла
func LoadSession(interviewID string) (*session.Result, error) {
	path := filepath.Join(resultsDir, fmt.Sprintf("session_%s.json", interviewID))

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var result session.Result
	err = json.Unmarshal(data, &result)
	if err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &result, nil
}

// ListSessions возвращает список ID всех сохраненных сессий
func ListSessions() ([]string, error) {
	if _, err := os.Stat(resultsDir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", resultsDir, err)
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if strings.HasPrefix(name, "session_") {
			ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, "session_"), ".json"))
		}
	}

	return ids, nil
}

func writeJSON(filename string, v interface{}) error {
	err := os.MkdirAll(resultsDir, 0755)
	if err != nil {
		return fmt.Errorf("ошибка создания директории %s: %w", resultsDir, err)
	}

	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	path := filepath.Join(resultsDir, filename)
	err = os.WriteFile(path, jsonData, 0644)
	if err != nil {
		return fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return nil
}
