package emotion

import (
	"context"
	"log"
	"sync"
	"time"

	"minterviewer/internal/api"
	"minterviewer/internal/media"
	"minterviewer/internal/metrics"
)

// Observation представляет одно наблюдение эмоции, привязанное к вопросу
type Observation struct {
	Timestamp     int64   `json:"timestamp"`
	Emotion       string  `json:"emotion"`
	Confidence    float64 `json:"confidence"`
	QuestionIndex int     `json:"questionIndex"`
}

// FailureMode задает поведение при сбое классификации
type FailureMode int

const (
	// SkipOnError пропускает наблюдение (аудио-вариант)
	SkipOnError FailureMode = iota
	// NeutralOnError добавляет нейтральное наблюдение с нулевой уверенностью,
	// чтобы массив эмоций вопроса не рассинхронизировался (видео-вариант)
	NeutralOnError
)

// analyzer описывает backend классификации эмоций
type analyzer interface {
	AnalyzeEmotion(ctx context.Context, frame []byte, questionIndex int) (*api.EmotionResult, error)
}

// Sampler периодически захватывает кадр и классифицирует эмоцию.
// Список наблюдений только пополняется и накапливается за всю сессию.
type Sampler struct {
	analyzer analyzer
	camera   media.Camera
	mode     FailureMode
	metrics  *metrics.Metrics

	mu            sync.Mutex
	observations  []Observation
	questionIndex int
	running       bool
	stop          chan struct{}
}

func NewSampler(analyzer analyzer, camera media.Camera, mode FailureMode) *Sampler {
	return &Sampler{
		analyzer: analyzer,
		camera:   camera,
		mode:     mode,
	}
}

// SetMetrics подключает счетчики наблюдений
func (s *Sampler) SetMetrics(m *metrics.Metrics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = m
}

// SetQuestionIndex задает индекс вопроса, которым помечаются новые наблюдения
func (s *Sampler) SetQuestionIndex(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.questionIndex = index
}

// Start запускает цикл сэмплирования с заданным интервалом.
// Повторный запуск при работающем цикле игнорируется.
func (s *Sampler) Start(ctx context.Context, interval time.Duration) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stop = make(chan struct{})
	stop := s.stop
	s.mu.Unlock()

	go s.loop(ctx, interval, stop)
}

// Stop останавливает цикл. Идемпотентен; обязателен перед сменой
// индекса вопроса или отключением камеры, чтобы таймер не пережил владельца.
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stop)
}

// Running сообщает, работает ли цикл
func (s *Sampler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Sampler) loop(ctx context.Context, interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleOnce(ctx)
		}
	}
}

// sampleOnce делает один независимый тик: кадр, классификация, наблюдение.
// Сбой не останавливает ни цикл, ни интервью.
func (s *Sampler) sampleOnce(ctx context.Context) {
	s.mu.Lock()
	index := s.questionIndex
	s.mu.Unlock()

	frame, err := s.camera.CaptureFrame(ctx)
	if err != nil {
		log.Printf("⚠️ Ошибка захвата кадра: %v", err)
		s.recordFailure(index)
		return
	}

	result, err := s.analyzer.AnalyzeEmotion(ctx, frame, index)
	if err != nil {
		log.Printf("⚠️ Ошибка классификации эмоции: %v", err)
		s.recordFailure(index)
		return
	}

	s.Append(Observation{
		Timestamp:     time.Now().UnixMilli(),
		Emotion:       result.Emotion,
		Confidence:    result.Confidence,
		QuestionIndex: index,
	})
}

func (s *Sampler) recordFailure(index int) {
	if s.mode != NeutralOnError {
		return
	}
	s.Append(Observation{
		Timestamp:     time.Now().UnixMilli(),
		Emotion:       "neutral",
		Confidence:    0,
		QuestionIndex: index,
	})
}

// Append добавляет наблюдение в накопленный список
func (s *Sampler) Append(obs Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations = append(s.observations, obs)
	if s.metrics != nil {
		s.metrics.IncrementEmotionSamples()
	}
}

// Observations возвращает копию накопленных наблюдений
func (s *Sampler) Observations() []Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Observation, len(s.observations))
	copy(out, s.observations)
	return out
}

// ForQuestion возвращает наблюдения, помеченные заданным индексом вопроса
func (s *Sampler) ForQuestion(index int) []Observation {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Observation
	for _, obs := range s.observations {
		if obs.QuestionIndex == index {
			out = append(out, obs)
		}
	}
	return out
}
