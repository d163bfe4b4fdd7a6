package setup

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"minterviewer/internal/config"
	"minterviewer/internal/media"
)

// Step представляет шаг мастера настройки
type Step int

const (
	StepRole Step = iota
	StepType
	StepStack
	StepCount
	StepComplete
)

// Parameters представляет собранные параметры интервью.
// Неизменяемы после передачи в сессию.
type Parameters struct {
	Role          string   `json:"role"`
	InterviewType string   `json:"interviewType"`
	TechStack     []string `json:"techStack"`
	QuestionCount int      `json:"questionCount"`
	InterviewMode string   `json:"interviewMode,omitempty"`
}

// DefaultParameters возвращает параметры для видео-пути,
// который минует мастер настройки целиком
func DefaultParameters() Parameters {
	return Parameters{
		Role:          "Software Engineer",
		InterviewType: TypeBehavioral,
		TechStack:     []string{"general"},
		QuestionCount: 6,
		InterviewMode: "video",
	}
}

type speaker interface {
	Speak(ctx context.Context, text string) error
}

type transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Wizard представляет голосовой мастер настройки из четырех шагов.
// Переход только вперед и только на валидном вводе; невалидный ввод
// проигрывает корректирующую подсказку и возвращает шаг к прослушиванию.
type Wizard struct {
	speaker     speaker
	transcriber transcriber
	recorder    media.Recorder
	prompts     config.PromptsConfig
	onComplete  func(Parameters)

	mu         sync.Mutex
	step       Step
	params     Parameters
	transcript string
	listening  bool
	// Подсказка шага озвучивается ровно один раз; повторный вход
	// в тот же шаг речь не перезапускает
	promptedStep Step
}

func NewWizard(speaker speaker, transcriber transcriber, recorder media.Recorder, prompts config.PromptsConfig, onComplete func(Parameters)) *Wizard {
	return &Wizard{
		speaker:      speaker,
		transcriber:  transcriber,
		recorder:     recorder,
		prompts:      prompts,
		onComplete:   onComplete,
		promptedStep: -1,
	}
}

// Begin запускает мастер с первого шага
func (w *Wizard) Begin(ctx context.Context) {
	w.mu.Lock()
	w.step = StepRole
	w.mu.Unlock()
	w.speakStepPrompt(ctx)
}

// Step возвращает текущий шаг
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Transcript возвращает отображаемый транскрипт последнего ответа
func (w *Wizard) Transcript() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.transcript
}

// StartListening начинает запись ответа (push-to-talk)
func (w *Wizard) StartListening(ctx context.Context) error {
	w.mu.Lock()
	if w.step == StepComplete {
		w.mu.Unlock()
		return fmt.Errorf("мастер настройки уже завершен")
	}
	if w.listening {
		w.mu.Unlock()
		return fmt.Errorf("прослушивание уже идет")
	}
	w.listening = true
	w.mu.Unlock()

	err := w.recorder.Start(ctx)
	if err != nil {
		w.mu.Lock()
		w.listening = false
		w.mu.Unlock()
		return fmt.Errorf("ошибка начала записи: %w", err)
	}
	return nil
}

// StopListening завершает запись, транскрибирует и валидирует ответ
func (w *Wizard) StopListening(ctx context.Context) error {
	w.mu.Lock()
	if !w.listening {
		w.mu.Unlock()
		return fmt.Errorf("прослушивание не начато")
	}
	w.listening = false
	w.mu.Unlock()

	audio, err := w.recorder.Stop(ctx)
	if err != nil {
		return fmt.Errorf("ошибка остановки записи: %w", err)
	}

	transcript, err := w.transcriber.Transcribe(ctx, audio)
	if err != nil {
		// Сбой транскрипции равнозначен невалидному вводу шага
		log.Printf("⚠️ Ошибка транскрипции в мастере настройки: %v", err)
		w.rejectInput(ctx)
		return nil
	}

	w.handleTranscript(ctx, transcript)
	return nil
}

// handleTranscript валидирует транскрипт текущего шага
func (w *Wizard) handleTranscript(ctx context.Context, transcript string) {
	w.mu.Lock()
	w.transcript = transcript
	step := w.step
	w.mu.Unlock()

	switch step {
	case StepRole:
		role := strings.TrimSpace(transcript)
		if role == "" {
			w.rejectInput(ctx)
			return
		}
		w.mu.Lock()
		w.params.Role = role
		w.mu.Unlock()
		w.advance(ctx)

	case StepType:
		interviewType, ok := MatchInterviewType(transcript)
		if !ok {
			w.rejectInput(ctx)
			return
		}
		w.mu.Lock()
		w.params.InterviewType = interviewType
		w.mu.Unlock()
		w.advance(ctx)

	case StepStack:
		stack, ok := ParseTechStack(transcript)
		if !ok {
			w.rejectInput(ctx)
			return
		}
		w.mu.Lock()
		w.params.TechStack = stack
		w.mu.Unlock()
		w.advance(ctx)

	case StepCount:
		count, ok := ParseQuestionCount(transcript)
		if !ok {
			w.rejectInput(ctx)
			return
		}
		w.mu.Lock()
		w.params.QuestionCount = count
		w.params.InterviewMode = "audio"
		w.mu.Unlock()
		w.advance(ctx)
	}
}

// advance переводит мастер на следующий шаг или завершает его.
// Мастер не сбрасывает себя после завершения.
func (w *Wizard) advance(ctx context.Context) {
	w.mu.Lock()
	w.step++
	w.transcript = ""
	done := w.step == StepComplete
	params := w.params
	w.mu.Unlock()

	if done {
		if w.onComplete != nil {
			w.onComplete(params)
		}
		return
	}
	w.speakStepPrompt(ctx)
}

// rejectInput проигрывает корректирующую подсказку и очищает транскрипт,
// оставляя шаг без изменений
func (w *Wizard) rejectInput(ctx context.Context) {
	w.mu.Lock()
	w.transcript = ""
	step := w.step
	w.mu.Unlock()

	if err := w.speaker.Speak(ctx, w.correctivePrompt(step)); err != nil {
		log.Printf("⚠️ Ошибка озвучивания подсказки: %v", err)
	}
}

// speakStepPrompt озвучивает подсказку шага ровно один раз
func (w *Wizard) speakStepPrompt(ctx context.Context) {
	w.mu.Lock()
	step := w.step
	if w.promptedStep == step {
		w.mu.Unlock()
		return
	}
	w.promptedStep = step
	w.mu.Unlock()

	if err := w.speaker.Speak(ctx, w.stepPrompt(step)); err != nil {
		log.Printf("⚠️ Ошибка озвучивания подсказки: %v", err)
	}
}

func (w *Wizard) stepPrompt(step Step) string {
	switch step {
	case StepRole:
		return w.prompts.Role
	case StepType:
		return w.prompts.InterviewType
	case StepStack:
		return w.prompts.TechStack
	case StepCount:
		return w.prompts.QuestionCount
	}
	return ""
}

func (w *Wizard) correctivePrompt(step Step) string {
	switch step {
	case StepRole:
		return w.prompts.InvalidRole
	case StepType:
		return w.prompts.InvalidType
	case StepStack:
		return w.prompts.InvalidStack
	case StepCount:
		return w.prompts.InvalidCount
	}
	return ""
}
