package config

import "time"

// Config представляет конфигурацию сессии интервью
type Config struct {
	SessionConfig     SessionConfig   `yaml:"session_config"`
	Prompts           PromptsConfig   `yaml:"prompts"`
	FallbackQuestions []Question      `yaml:"fallback_questions"`
	VideoScript       []VideoQuestion `yaml:"video_script"`
}

// SessionConfig содержит тайминги и границы сессии
type SessionConfig struct {
	MinQuestions               int `yaml:"min_questions"`
	MaxQuestions               int `yaml:"max_questions"`
	AnswerAdvanceDelayMS       int `yaml:"answer_advance_delay_ms"`
	CodeAdvanceDelayMS         int `yaml:"code_advance_delay_ms"`
	EmotionInterviewIntervalMS int `yaml:"emotion_interview_interval_ms"`
	EmotionRecordingIntervalMS int `yaml:"emotion_recording_interval_ms"`
	CountdownTickMS            int `yaml:"countdown_tick_ms"`
}

// PromptsConfig содержит тексты голосовых подсказок мастера настройки
type PromptsConfig struct {
	Role          string `yaml:"role"`
	InterviewType string `yaml:"interview_type"`
	TechStack     string `yaml:"tech_stack"`
	QuestionCount string `yaml:"question_count"`
	InvalidRole   string `yaml:"invalid_role"`
	InvalidType   string `yaml:"invalid_type"`
	InvalidStack  string `yaml:"invalid_stack"`
	InvalidCount  string `yaml:"invalid_count"`
}

// Question представляет один вопрос аудио-интервью
type Question struct {
	Text     string `yaml:"text"`
	IsCoding bool   `yaml:"is_coding"`
}

// VideoQuestion представляет одну запись фиксированного видео-сценария.
// ResponseTime == 0 означает прощальное сообщение без фазы ответа.
type VideoQuestion struct {
	VideoFile    string `yaml:"video_file"`
	Text         string `yaml:"text"`
	ResponseTime int    `yaml:"response_time"`
}

// Методы для удобного доступа к конфигурации
func (c *Config) GetAnswerAdvanceDelay() time.Duration {
	return time.Duration(c.SessionConfig.AnswerAdvanceDelayMS) * time.Millisecond
}

func (c *Config) GetCodeAdvanceDelay() time.Duration {
	return time.Duration(c.SessionConfig.CodeAdvanceDelayMS) * time.Millisecond
}

func (c *Config) GetEmotionInterviewInterval() time.Duration {
	return time.Duration(c.SessionConfig.EmotionInterviewIntervalMS) * time.Millisecond
}

func (c *Config) GetEmotionRecordingInterval() time.Duration {
	return time.Duration(c.SessionConfig.EmotionRecordingIntervalMS) * time.Millisecond
}

func (c *Config) GetCountdownTick() time.Duration {
	return time.Duration(c.SessionConfig.CountdownTickMS) * time.Millisecond
}

func (c *Config) GetMinQuestions() int {
	return c.SessionConfig.MinQuestions
}

func (c *Config) GetMaxQuestions() int {
	return c.SessionConfig.MaxQuestions
}
