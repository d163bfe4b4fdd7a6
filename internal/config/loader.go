package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load загружает конфигурацию из YAML файла
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", filename, err)
	}

	var config Config
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("ошибка парсинга YAML: %w", err)
	}

	// Валидация конфигурации
	err = validateConfig(&config)
	if err != nil {
		return nil, fmt.Errorf("ошибка валидации конфигурации: %w", err)
	}

	return &config, nil
}

// validateConfig проверяет корректность конфигурации
func validateConfig(config *Config) error {
	sc := config.SessionConfig

	if sc.MinQuestions <= 0 {
		return fmt.Errorf("min_questions должно быть больше 0")
	}

	if sc.MaxQuestions < sc.MinQuestions {
		return fmt.Errorf("max_questions (%d) не может быть меньше min_questions (%d)",
			sc.MaxQuestions, sc.MinQuestions)
	}

	if sc.AnswerAdvanceDelayMS < 0 || sc.CodeAdvanceDelayMS < 0 {
		return fmt.Errorf("задержки перехода не могут быть отрицательными")
	}

	if sc.EmotionInterviewIntervalMS <= 0 || sc.EmotionRecordingIntervalMS <= 0 {
		return fmt.Errorf("интервалы сэмплирования эмоций должны быть больше 0")
	}

	if sc.CountdownTickMS <= 0 {
		return fmt.Errorf("countdown_tick_ms должно быть больше 0")
	}

	if len(config.FallbackQuestions) == 0 {
		return fmt.Errorf("fallback_questions не может быть пустым")
	}

	for i, q := range config.FallbackQuestions {
		if q.Text == "" {
			return fmt.Errorf("резервный вопрос %d должен иметь text", i+1)
		}
	}

	if len(config.VideoScript) == 0 {
		return fmt.Errorf("video_script не может быть пустым")
	}

	// Последняя запись сценария - прощальное сообщение без фазы ответа
	for i, vq := range config.VideoScript {
		if vq.Text == "" {
			return fmt.Errorf("запись сценария %d должна иметь text", i+1)
		}

		last := i == len(config.VideoScript)-1
		if last && vq.ResponseTime != 0 {
			return fmt.Errorf("последняя запись сценария должна иметь response_time 0, получено %d", vq.ResponseTime)
		}
		if !last && vq.ResponseTime <= 0 {
			return fmt.Errorf("запись сценария %d должна иметь положительный response_time", i+1)
		}
	}

	return nil
}
