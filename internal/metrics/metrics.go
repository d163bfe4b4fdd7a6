package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics содержит счетчики сессий и вызовов backend API
type Metrics struct {
	registry *prometheus.Registry

	sessionsStarted   prometheus.Counter
	sessionsCompleted prometheus.Counter
	questionsAsked    prometheus.Counter
	reportsGenerated  prometheus.Counter
	emotionSamples    prometheus.Counter
	apiCalls          *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		sessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "minterviewer_sessions_started_total",
			Help: "Количество начатых сессий интервью.",
		}),
		sessionsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "minterviewer_sessions_completed_total",
			Help: "Количество завершенных сессий интервью.",
		}),
		questionsAsked: factory.NewCounter(prometheus.CounterOpts{
			Name: "minterviewer_questions_asked_total",
			Help: "Количество заданных вопросов.",
		}),
		reportsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "minterviewer_reports_generated_total",
			Help: "Количество сгенерированных отчетов.",
		}),
		emotionSamples: factory.NewCounter(prometheus.CounterOpts{
			Name: "minterviewer_emotion_samples_total",
			Help: "Количество собранных наблюдений эмоций.",
		}),
		apiCalls: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "minterviewer_api_calls_total",
			Help: "Вызовы backend API по endpoint и результату.",
		}, []string{"endpoint", "outcome"}),
	}
}

func (m *Metrics) IncrementSessionsStarted() {
	m.sessionsStarted.Inc()
}

func (m *Metrics) IncrementSessionsCompleted() {
	m.sessionsCompleted.Inc()
}

func (m *Metrics) IncrementQuestionsAsked() {
	m.questionsAsked.Inc()
}

func (m *Metrics) IncrementReportsGenerated() {
	m.reportsGenerated.Inc()
}

func (m *Metrics) IncrementEmotionSamples() {
	m.emotionSamples.Inc()
}

func (m *Metrics) IncrementAPICall(endpoint string, success bool) {
	outcome := "success"
	if !success {
		outcome = "error"
	}
	m.apiCalls.WithLabelValues(endpoint, outcome).Inc()
}

// Handler возвращает HTTP handler для /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
