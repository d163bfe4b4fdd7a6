package session

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"minterviewer/internal/config"
	"minterviewer/internal/emotion"
	"minterviewer/internal/media"
	"minterviewer/internal/metrics"
	"minterviewer/internal/setup"
)

// videoAnswer представляет внутреннюю запись ответа видео-варианта.
// При завершении список пересобирается в общий контракт AnswerRecord.
type videoAnswer struct {
	QuestionIndex int                    `json:"questionIndex"`
	QuestionText  string                 `json:"questionText"`
	Transcription string                 `json:"transcription"`
	ToneData      map[string]interface{} `json:"toneData"`
	EmotionData   []emotion.Observation  `json:"emotionData"`
	Timestamp     string                 `json:"timestamp"`
}

// VideoInterview представляет интервью по фиксированному видео-сценарию:
// просмотр ролика вопроса, ответ с обратным отсчетом, завершение в тот же
// Result, что и аудио-вариант.
type VideoInterview struct {
	tone        toneAnalyzer
	transcriber transcriber
	recorder    media.Recorder
	camera      media.Camera
	sampler     *emotion.Sampler
	cfg         *config.Config
	metrics     *metrics.Metrics
	onComplete  func(*Result)

	mu            sync.Mutex
	interviewID   string
	params        setup.Parameters
	script        []config.VideoQuestion
	answers       []videoAnswer
	index         int
	state         State
	videoEnded    bool
	countdown     int
	recording     bool
	countdownStop chan struct{}
	startedAt     time.Time
	done          bool
}

// VideoDeps собирает зависимости видео-варианта
type VideoDeps struct {
	Tone        toneAnalyzer
	Transcriber transcriber
	Recorder    media.Recorder
	Camera      media.Camera
	Sampler     *emotion.Sampler
	Config      *config.Config
	Metrics     *metrics.Metrics
}

// NewVideoInterview создает видео-интервью. Пустые params заменяются
// значениями по умолчанию: видео-путь минует мастер настройки.
func NewVideoInterview(deps VideoDeps, params setup.Parameters, onComplete func(*Result)) *VideoInterview {
	if params.Role == "" {
		params = setup.DefaultParameters()
	}
	params.InterviewMode = "video"

	return &VideoInterview{
		tone:        deps.Tone,
		transcriber: deps.Transcriber,
		recorder:    deps.Recorder,
		camera:      deps.Camera,
		sampler:     deps.Sampler,
		cfg:         deps.Config,
		metrics:     deps.Metrics,
		onComplete:  onComplete,
		params:      params,
		script:      deps.Config.VideoScript,
	}
}

// Begin запускает сессию с первого ролика
func (v *VideoInterview) Begin(ctx context.Context) error {
	if len(v.script) == 0 {
		return fmt.Errorf("видео-сценарий пуст")
	}

	v.mu.Lock()
	v.interviewID = uuid.New().String()
	v.index = 0
	v.state = StateWatching
	v.startedAt = time.Now()
	v.mu.Unlock()

	if err := v.camera.Open(ctx); err != nil {
		log.Printf("⚠️ Камера недоступна, продолжаем без видео: %v", err)
	}

	if v.metrics != nil {
		v.metrics.IncrementSessionsStarted()
		v.metrics.IncrementQuestionsAsked()
	}
	return nil
}

// State возвращает состояние машины
func (v *VideoInterview) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// CurrentIndex возвращает индекс активного вопроса
func (v *VideoInterview) CurrentIndex() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.index
}

// Countdown возвращает оставшиеся секунды фазы ответа
func (v *VideoInterview) Countdown() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.countdown
}

// Recording сообщает, идет ли запись ответа
func (v *VideoInterview) Recording() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.recording
}

// CurrentQuestion возвращает активную запись сценария
func (v *VideoInterview) CurrentQuestion() config.VideoQuestion {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.index < len(v.script) {
		return v.script[v.index]
	}
	return config.VideoQuestion{}
}

// OnVideoEnded обрабатывает естественное окончание ролика вопроса.
// Отвечать раньше конца ролика нельзя: переход в фазу ответа происходит
// только здесь. Для прощального ролика (responseTime == 0) фазы ответа
// нет - его окончание завершает интервью.
func (v *VideoInterview) OnVideoEnded(ctx context.Context) error {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return fmt.Errorf("интервью уже завершено")
	}
	if v.state != StateWatching || v.videoEnded {
		v.mu.Unlock()
		return nil
	}
	v.videoEnded = true

	q := v.script[v.index]
	if q.ResponseTime == 0 {
		v.mu.Unlock()
		v.complete()
		return nil
	}

	v.countdown = q.ResponseTime
	v.state = StateResponding
	v.recording = true
	v.countdownStop = make(chan struct{})
	stop := v.countdownStop
	index := v.index
	v.mu.Unlock()

	// Запись начинается автоматически, без действия пользователя
	if err := v.recorder.Start(ctx); err != nil {
		v.mu.Lock()
		v.recording = false
		v.mu.Unlock()
		return fmt.Errorf("ошибка начала записи: %w", err)
	}

	// Сэмплирование эмоций учащается только в ограниченной фазе ответа
	v.sampler.SetQuestionIndex(index)
	v.sampler.Start(ctx, v.cfg.GetEmotionRecordingInterval())

	go v.runCountdown(ctx, stop)
	return nil
}

// runCountdown уменьшает счетчик раз в тик; ноль останавливает запись
func (v *VideoInterview) runCountdown(ctx context.Context, stop chan struct{}) {
	ticker := time.NewTicker(v.cfg.GetCountdownTick())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.mu.Lock()
			if v.state != StateResponding || !v.recording {
				v.mu.Unlock()
				return
			}
			v.countdown--
			expired := v.countdown <= 0
			v.mu.Unlock()

			if expired {
				v.finishResponse(ctx)
				return
			}
		}
	}
}

// FinishAnswer завершает ответ досрочно. Допустим только во время записи.
func (v *VideoInterview) FinishAnswer(ctx context.Context) error {
	v.mu.Lock()
	if v.state != StateResponding || !v.recording {
		v.mu.Unlock()
		return fmt.Errorf("ответ сейчас не записывается")
	}
	v.mu.Unlock()

	v.finishResponse(ctx)
	return nil
}

// SkipQuestion пропускает текущий вопрос. Пропуск во время записи
// останавливает ее с обычной обработкой; пропуск до записи переходит
// дальше без записи ответа. Пока ответ финализируется, пропуск - no-op:
// переход выполнит finishResponse, второго быть не должно.
func (v *VideoInterview) SkipQuestion(ctx context.Context) error {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return fmt.Errorf("интервью уже завершено")
	}
	if v.recording {
		v.mu.Unlock()
		v.finishResponse(ctx)
		return nil
	}
	if v.state != StateWatching {
		v.mu.Unlock()
		return nil
	}
	v.closeCountdownLocked()
	v.mu.Unlock()

	v.sampler.Stop()
	v.advance(ctx)
	return nil
}

// finishResponse останавливает запись и обрабатывает ответ.
// Первый из конкурирующих вызовов (тик таймера, досрочное завершение,
// пропуск) побеждает; остальные становятся no-op.
func (v *VideoInterview) finishResponse(ctx context.Context) {
	v.mu.Lock()
	if !v.recording {
		v.mu.Unlock()
		return
	}
	v.recording = false
	v.state = StateSubmitted
	v.closeCountdownLocked()
	index := v.index
	questionText := v.script[v.index].Text
	v.mu.Unlock()

	v.sampler.Stop()

	audio, err := v.recorder.Stop(ctx)
	if err != nil {
		log.Printf("⚠️ Ошибка остановки записи, ответ записан пустым: %v", err)
		audio = nil
	}

	transcription := ""
	if len(audio) > 0 {
		transcription = transcribeWithRetry(ctx, v.transcriber, audio)
	}

	// Анализ тональности best-effort: сбой дает nil, а не фатальную ошибку
	var toneData map[string]interface{}
	if len(audio) > 0 {
		toneData, err = v.tone.AnalyzeTone(ctx, audio)
		if err != nil {
			log.Printf("⚠️ Ошибка анализа тональности: %v", err)
			toneData = nil
		}
	}

	v.mu.Lock()
	v.answers = append(v.answers, videoAnswer{
		QuestionIndex: index,
		QuestionText:  questionText,
		Transcription: transcription,
		ToneData:      toneData,
		EmotionData:   v.sampler.ForQuestion(index),
		Timestamp:     time.Now().Format(time.RFC3339),
	})
	v.mu.Unlock()

	// Пауза дает интерфейсу показать отметку о принятом ответе
	time.Sleep(v.cfg.GetAnswerAdvanceDelay())
	v.advance(ctx)
}

// closeCountdownLocked останавливает таймер обратного отсчета.
// Вызывается под мьютексом.
func (v *VideoInterview) closeCountdownLocked() {
	if v.countdownStop != nil {
		close(v.countdownStop)
		v.countdownStop = nil
	}
}

// advance сбрасывает состояние просмотра и переходит к следующему ролику
func (v *VideoInterview) advance(ctx context.Context) {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return
	}
	v.videoEnded = false
	v.countdown = 0

	if v.index == len(v.script)-1 {
		v.mu.Unlock()
		v.complete()
		return
	}

	v.index++
	v.state = StateWatching
	v.mu.Unlock()

	if v.metrics != nil {
		v.metrics.IncrementQuestionsAsked()
	}
}

// complete пересобирает ответы в общий контракт AnswerRecord и отдает Result.
// Генератор отчетов получает один и тот же вход независимо от варианта.
func (v *VideoInterview) complete() {
	v.mu.Lock()
	if v.done {
		v.mu.Unlock()
		return
	}
	v.done = true
	v.state = StateCompleted
	v.closeCountdownLocked()

	answers := make([]AnswerRecord, 0, len(v.answers))
	for _, va := range v.answers {
		answers = append(answers, AnswerRecord{
			Question: Question{Text: va.QuestionText},
			Answer:   va.Transcription,
			IsCoding: false,
			ToneData: va.ToneData,
		})
	}

	questions := make([]Question, len(v.script))
	for i, q := range v.script {
		questions[i] = Question{Text: q.Text}
	}

	params := v.params
	result := &Result{
		InterviewID:  v.interviewID,
		Answers:      answers,
		EmotionData:  v.sampler.Observations(),
		Questions:    questions,
		Timestamp:    time.Now().Format(time.RFC3339),
		Duration:     int(time.Since(v.startedAt).Seconds()),
		SetupData:    &params,
		HasVideoData: true,
	}
	v.mu.Unlock()

	v.sampler.Stop()
	if err := v.camera.Close(); err != nil {
		log.Printf("⚠️ Ошибка закрытия камеры: %v", err)
	}

	if v.metrics != nil {
		v.metrics.IncrementSessionsCompleted()
	}
	if v.onComplete != nil {
		v.onComplete(result)
	}
}
