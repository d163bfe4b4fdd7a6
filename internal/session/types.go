package session

import (
	"context"
	"log"

	"minterviewer/internal/api"
	"minterviewer/internal/emotion"
	"minterviewer/internal/setup"
)

// State представляет состояние машины сессии
type State string

const (
	// Аудио/кодинг вариант
	StateSpeakingPrompt State = "speaking_prompt"
	StateRecording      State = "recording"
	StateCoding         State = "coding"
	StateSubmitted      State = "submitted"

	// Видео вариант
	StateWatching   State = "watching"
	StateResponding State = "responding"

	StateCompleted State = "completed"
)

// Question представляет один вопрос интервью
type Question struct {
	Text     string `json:"text"`
	IsCoding bool   `json:"isCoding"`
}

// AnswerRecord представляет нормализованный результат одного вопроса.
// Создается при финализации вопроса и не изменяется после.
type AnswerRecord struct {
	Question Question               `json:"question"`
	Answer   string                 `json:"answer"`
	IsCoding bool                   `json:"isCoding"`
	ToneData map[string]interface{} `json:"toneData"`
}

// Result представляет терминальную полезную нагрузку сессии.
// Создается ровно один раз при финализации последнего ответа
// и передается генератору отчетов без изменений.
type Result struct {
	InterviewID  string                `json:"interviewId,omitempty"`
	Answers      []AnswerRecord        `json:"answers"`
	EmotionData  []emotion.Observation `json:"emotionData"`
	Questions    []Question            `json:"questions"`
	Timestamp    string                `json:"timestamp"`
	Duration     int                   `json:"duration,omitempty"`
	SetupData    *setup.Parameters     `json:"setupData,omitempty"`
	HasVideoData bool                  `json:"hasVideoData,omitempty"`
}

// Зависимости машин сессии как узкие интерфейсы

type questionSource interface {
	GenerateQuestions(ctx context.Context, req api.GenerateQuestionsRequest) ([]api.QuestionPayload, error)
}

type toneAnalyzer interface {
	AnalyzeTone(ctx context.Context, audio []byte) (map[string]interface{}, error)
}

type speaker interface {
	Speak(ctx context.Context, text string) error
}

type transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// transcribeWithRetry транскрибирует ответ с одной повторной попыткой.
// После второго сбоя ответ фиксируется пустым, а интервью продолжается:
// потеря одного ответа лучше потери всей сессии.
func transcribeWithRetry(ctx context.Context, t transcriber, audio []byte) string {
	text, err := t.Transcribe(ctx, audio)
	if err == nil {
		return text
	}
	log.Printf("⚠️ Ошибка транскрипции, повторная попытка: %v", err)

	text, err = t.Transcribe(ctx, audio)
	if err != nil {
		log.Printf("⚠️ Повторная транскрипция не удалась, ответ записан пустым: %v", err)
		return ""
	}
	return text
}
