package report

import (
	"context"
	"fmt"
	"log"
	"sync"

	"minterviewer/internal/api"
	"minterviewer/internal/metrics"
	"minterviewer/internal/session"
	"minterviewer/internal/storage"
)

// Report представляет структурированный отчет об интервью.
// Непрозрачный объект сервера; ядро лишь отображает и экспортирует его.
type Report struct {
	OverallScore        float64                  `json:"overallScore"`
	TechnicalScore      float64                  `json:"technicalScore"`
	CommunicationScore  float64                  `json:"communicationScore"`
	ConfidenceScore     float64                  `json:"confidenceScore"`
	Strengths           []string                 `json:"strengths"`
	Improvements        []string                 `json:"improvements"`
	PerQuestionFeedback []map[string]interface{} `json:"perQuestionFeedback"`
	Recommendations     []string                 `json:"recommendations"`
	ToneAnalysis        map[string]interface{}   `json:"toneAnalysis"`
	PerformanceMetrics  map[string]interface{}   `json:"performanceMetrics,omitempty"`
}

// backend описывает вызовы сервера, нужные генератору отчетов
type backend interface {
	GenerateReport(ctx context.Context, result interface{}, out interface{}) error
	SaveResult(ctx context.Context, req api.SaveRequest) error
}

// Client представляет генератор отчетов. На одну завершенную сессию
// выполняется ровно один запрос генерации; повторный вызов с тем же
// результатом возвращает кэшированный отчет.
type Client struct {
	backend backend
	metrics *metrics.Metrics

	mu         sync.Mutex
	lastResult *session.Result
	lastReport *Report
}

func NewClient(backend backend, m *metrics.Metrics) *Client {
	return &Client{
		backend: backend,
		metrics: m,
	}
}

// Generate запрашивает отчет по результату сессии. Сбой генерации -
// жесткая ошибка с явным повтором на стороне пользователя; сам Result
// при этом не портится и не требует прохождения интервью заново.
func (c *Client) Generate(ctx context.Context, result *session.Result) (*Report, error) {
	c.mu.Lock()
	if c.lastResult == result && c.lastReport != nil {
		report := c.lastReport
		c.mu.Unlock()
		return report, nil
	}
	c.mu.Unlock()

	var report Report
	err := c.backend.GenerateReport(ctx, result, &report)
	if err != nil {
		return nil, fmt.Errorf("не удалось сгенерировать отчет: %w", err)
	}

	c.mu.Lock()
	c.lastResult = result
	c.lastReport = &report
	c.mu.Unlock()

	if c.metrics != nil {
		c.metrics.IncrementReportsGenerated()
	}

	// Сохранение итоговых оценок best-effort: сбой логируется
	// и не мешает показу уже полученного отчета
	if result.InterviewID != "" {
		c.saveScores(ctx, result, &report)
	}

	if err := storage.SaveReport(result.InterviewID, &report); err != nil {
		log.Printf("⚠️ Ошибка локального сохранения отчета: %v", err)
	}

	return &report, nil
}

// Retry сбрасывает кэшированный отчет, позволяя повторить генерацию
// для того же результата
func (c *Client) Retry() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastReport = nil
}

func (c *Client) saveScores(ctx context.Context, result *session.Result, report *Report) {
	req := api.SaveRequest{
		InterviewID:        result.InterviewID,
		OverallScore:       report.OverallScore,
		TechnicalScore:     report.TechnicalScore,
		CommunicationScore: report.CommunicationScore,
		ConfidenceScore:    report.ConfidenceScore,
		Duration:           result.Duration,
		Strengths:          report.Strengths,
		Improvements:       report.Improvements,
	}

	if err := c.backend.SaveResult(ctx, req); err != nil {
		log.Printf("⚠️ Ошибка сохранения оценок на сервере: %v", err)
	}
}
