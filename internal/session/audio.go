package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"minterviewer/internal/api"
	"minterviewer/internal/config"
	"minterviewer/internal/emotion"
	"minterviewer/internal/media"
	"minterviewer/internal/metrics"
	"minterviewer/internal/setup"
)

// AudioInterview представляет свободное аудио/кодинг интервью:
// N сгенерированных сервером вопросов, голосовой или кодовый ответ
// на каждый, завершение в Result.
type AudioInterview struct {
	questions   questionSource
	speaker     speaker
	transcriber transcriber
	recorder    media.Recorder
	camera      media.Camera
	sampler     *emotion.Sampler
	cfg         *config.Config
	metrics     *metrics.Metrics
	onComplete  func(*Result)

	mu           sync.Mutex
	interviewID  string
	params       setup.Parameters
	list         []Question
	answers      []AnswerRecord
	index        int
	state        State
	code         string
	recording    bool
	videoEnabled bool
	// Первый вопрос озвучивается ровно один раз после загрузки вопросов;
	// защита от двойного озвучивания на старте
	spokenInitial bool
	startedAt     time.Time
	done          bool
}

// AudioDeps собирает зависимости аудио-варианта
type AudioDeps struct {
	Questions   questionSource
	Speaker     speaker
	Transcriber transcriber
	Recorder    media.Recorder
	Camera      media.Camera
	Sampler     *emotion.Sampler
	Config      *config.Config
	Metrics     *metrics.Metrics
}

func NewAudioInterview(deps AudioDeps, params setup.Parameters, onComplete func(*Result)) *AudioInterview {
	return &AudioInterview{
		questions:   deps.Questions,
		speaker:     deps.Speaker,
		transcriber: deps.Transcriber,
		recorder:    deps.Recorder,
		camera:      deps.Camera,
		sampler:     deps.Sampler,
		cfg:         deps.Config,
		metrics:     deps.Metrics,
		onComplete:  onComplete,
		params:      params,
	}
}

// Begin загружает вопросы и озвучивает первый. Сбой генерации не блокирует
// сессию: используется резервный набор вопросов из конфигурации.
func (a *AudioInterview) Begin(ctx context.Context) error {
	list, err := a.loadQuestions(ctx)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.interviewID = uuid.New().String()
	a.list = list
	a.answers = make([]AnswerRecord, len(list))
	a.index = 0
	a.state = StateSpeakingPrompt
	a.startedAt = time.Now()
	spoken := a.spokenInitial
	a.spokenInitial = true
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.IncrementSessionsStarted()
		a.metrics.IncrementQuestionsAsked()
	}

	if !spoken {
		a.speakCurrentQuestion(ctx)
	}
	return nil
}

func (a *AudioInterview) loadQuestions(ctx context.Context) ([]Question, error) {
	req := api.GenerateQuestionsRequest{
		Role:          a.params.Role,
		InterviewType: a.params.InterviewType,
		TechStack:     a.params.TechStack,
		QuestionCount: a.params.QuestionCount,
	}

	payloads, err := a.questions.GenerateQuestions(ctx, req)
	if err != nil {
		log.Printf("⚠️ Ошибка генерации вопросов, используется резервный набор: %v", err)
		fallback := a.cfg.FallbackQuestions
		if len(fallback) == 0 {
			return nil, fmt.Errorf("генерация вопросов не удалась и резервный набор пуст")
		}
		list := make([]Question, len(fallback))
		for i, q := range fallback {
			list[i] = Question{Text: q.Text, IsCoding: q.IsCoding}
		}
		return list, nil
	}

	list := make([]Question, len(payloads))
	for i, p := range payloads {
		list[i] = Question{Text: p.Text, IsCoding: p.IsCoding}
	}
	return list, nil
}

// InterviewID возвращает идентификатор интервью
func (a *AudioInterview) InterviewID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interviewID
}

// CurrentIndex возвращает индекс активного вопроса
func (a *AudioInterview) CurrentIndex() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.index
}

// State возвращает состояние машины
func (a *AudioInterview) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Questions возвращает загруженный список вопросов
func (a *AudioInterview) Questions() []Question {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Question, len(a.list))
	copy(out, a.list)
	return out
}

// CurrentQuestion возвращает активный вопрос
func (a *AudioInterview) CurrentQuestion() Question {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.index < len(a.list) {
		return a.list[a.index]
	}
	return Question{}
}

// StartRecording начинает запись голосового ответа. Запись может начаться,
// пока подсказка еще звучит: воспроизведение не блокирует пользователя.
func (a *AudioInterview) StartRecording(ctx context.Context) error {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return fmt.Errorf("интервью уже завершено")
	}
	if a.recording {
		a.mu.Unlock()
		return fmt.Errorf("запись уже идет")
	}
	if a.index < len(a.list) && a.list[a.index].IsCoding {
		a.mu.Unlock()
		return fmt.Errorf("текущий вопрос ожидает код")
	}
	a.recording = true
	a.state = StateRecording
	a.mu.Unlock()

	err := a.recorder.Start(ctx)
	if err != nil {
		a.mu.Lock()
		a.recording = false
		a.state = StateSpeakingPrompt
		a.mu.Unlock()
		return fmt.Errorf("ошибка начала записи: %w", err)
	}
	return nil
}

// StopRecording завершает запись, транскрибирует и финализирует ответ
func (a *AudioInterview) StopRecording(ctx context.Context) error {
	a.mu.Lock()
	if !a.recording {
		a.mu.Unlock()
		return fmt.Errorf("запись не идет")
	}
	a.recording = false
	index := a.index
	a.mu.Unlock()

	audio, err := a.recorder.Stop(ctx)
	if err != nil {
		return fmt.Errorf("ошибка остановки записи: %w", err)
	}

	answer := transcribeWithRetry(ctx, a.transcriber, audio)

	// Синтетическое наблюдение эмоции при сдаче ответа
	a.sampler.Append(emotion.Observation{
		Timestamp:     time.Now().UnixMilli(),
		Emotion:       "neutral",
		Confidence:    50,
		QuestionIndex: index,
	})

	a.finalizeAnswer(ctx, answer, false, a.cfg.GetAnswerAdvanceDelay())
	return nil
}

// SetCode обновляет текст редактора кода
func (a *AudioInterview) SetCode(code string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.code = code
	if !a.done && a.index < len(a.list) && a.list[a.index].IsCoding {
		a.state = StateCoding
	}
}

// Code возвращает текущее содержимое редактора
func (a *AudioInterview) Code() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.code
}

// SubmitCode финализирует кодовый ответ
func (a *AudioInterview) SubmitCode(ctx context.Context) error {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return fmt.Errorf("интервью уже завершено")
	}
	if a.index >= len(a.list) || !a.list[a.index].IsCoding {
		a.mu.Unlock()
		return fmt.Errorf("текущий вопрос не является кодовым")
	}
	code := a.code
	a.mu.Unlock()

	a.finalizeAnswer(ctx, code, true, a.cfg.GetCodeAdvanceDelay())
	return nil
}

// SwitchToVoice переключает кодовый вопрос на голосовой ответ
// и сразу начинает запись ("объяснить словами")
func (a *AudioInterview) SwitchToVoice(ctx context.Context) error {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return fmt.Errorf("интервью уже завершено")
	}
	if a.index >= len(a.list) || !a.list[a.index].IsCoding {
		a.mu.Unlock()
		return fmt.Errorf("текущий вопрос не является кодовым")
	}
	a.code = ""
	a.list[a.index].IsCoding = false
	a.mu.Unlock()

	return a.StartRecording(ctx)
}

// ToggleCamera включает или выключает захват видео. Отказ устройства
// восстановим: камера остается выключенной, сессия продолжается.
// Переключение камеры не прерывает запись и ввод кода.
func (a *AudioInterview) ToggleCamera(ctx context.Context, enabled bool) {
	a.mu.Lock()
	index := a.index
	a.mu.Unlock()

	if !enabled {
		a.sampler.Stop()
		if err := a.camera.Close(); err != nil {
			log.Printf("⚠️ Ошибка закрытия камеры: %v", err)
		}
		a.mu.Lock()
		a.videoEnabled = false
		a.mu.Unlock()
		return
	}

	if err := a.camera.Open(ctx); err != nil {
		log.Printf("⚠️ Камера недоступна, продолжаем без видео: %v", err)
		return
	}

	a.sampler.SetQuestionIndex(index)
	a.sampler.Start(ctx, a.cfg.GetEmotionInterviewInterval())
	a.mu.Lock()
	a.videoEnabled = true
	a.mu.Unlock()
}

// VideoEnabled сообщает, включен ли захват видео
func (a *AudioInterview) VideoEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.videoEnabled
}

// finalizeAnswer записывает ответ по текущему индексу и после паузы
// переходит к следующему вопросу или завершает интервью
func (a *AudioInterview) finalizeAnswer(ctx context.Context, answer string, isCoding bool, delay time.Duration) {
	a.mu.Lock()
	if a.done || a.index >= len(a.list) {
		a.mu.Unlock()
		return
	}
	question := a.list[a.index]
	a.answers[a.index] = AnswerRecord{
		Question: question,
		Answer:   answer,
		IsCoding: isCoding,
		ToneData: nil,
	}
	a.state = StateSubmitted
	a.mu.Unlock()

	// Пауза дает интерфейсу показать отметку о принятом ответе
	time.Sleep(delay)
	a.advance(ctx)
}

// advance переходит к следующему вопросу или собирает итоговый Result
func (a *AudioInterview) advance(ctx context.Context) {
	a.mu.Lock()
	if a.done {
		a.mu.Unlock()
		return
	}

	if a.index == len(a.list)-1 {
		result := a.buildResultLocked()
		a.done = true
		a.state = StateCompleted
		videoEnabled := a.videoEnabled
		a.mu.Unlock()

		// Таймеры останавливаются до выхода из сессии
		a.sampler.Stop()
		if videoEnabled {
			if err := a.camera.Close(); err != nil {
				log.Printf("⚠️ Ошибка закрытия камеры: %v", err)
			}
		}

		if a.metrics != nil {
			a.metrics.IncrementSessionsCompleted()
		}
		if a.onComplete != nil {
			a.onComplete(result)
		}
		return
	}

	a.index++
	a.code = ""
	if a.list[a.index].IsCoding {
		a.state = StateCoding
	} else {
		a.state = StateSpeakingPrompt
	}
	index := a.index
	videoEnabled := a.videoEnabled
	a.mu.Unlock()

	if a.metrics != nil {
		a.metrics.IncrementQuestionsAsked()
	}

	// Таймер сэмплирования перезапускается на новом индексе, чтобы
	// устаревшие метки вопроса не попали в окно следующего
	if videoEnabled {
		a.sampler.Stop()
		a.sampler.SetQuestionIndex(index)
		a.sampler.Start(ctx, a.cfg.GetEmotionInterviewInterval())
	}

	a.speakCurrentQuestion(ctx)
}

// buildResultLocked собирает итоговый Result. Вызывается ровно один раз.
func (a *AudioInterview) buildResultLocked() *Result {
	answers := make([]AnswerRecord, len(a.answers))
	copy(answers, a.answers)
	questions := make([]Question, len(a.list))
	copy(questions, a.list)
	params := a.params

	return &Result{
		InterviewID: a.interviewID,
		Answers:     answers,
		EmotionData: a.sampler.Observations(),
		Questions:   questions,
		Timestamp:   time.Now().Format(time.RFC3339),
		Duration:    int(time.Since(a.startedAt).Seconds()),
		SetupData:   &params,
	}
}

func (a *AudioInterview) speakCurrentQuestion(ctx context.Context) {
	a.mu.Lock()
	if a.index >= len(a.list) {
		a.mu.Unlock()
		return
	}
	text := a.list[a.index].Text
	a.mu.Unlock()

	if err := a.speaker.Speak(ctx, text); err != nil {
		log.Printf("⚠️ Ошибка озвучивания вопроса: %v", err)
	}
}
