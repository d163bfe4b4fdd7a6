package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"minterviewer/internal/metrics"
)

// Endpoints backend AI сервиса
const (
	endpointGenerateQuestions = "/api/generate-questions"
	endpointSTT               = "/api/openai-stt"
	endpointTTS               = "/api/elevenlabs-tts"
	endpointAnalyzeEmotion    = "/api/analyze-emotion"
	endpointAnalyzeTone       = "/api/analyze-tone"
	endpointGenerateReport    = "/api/generate-report"
	endpointSaveResult        = "/api/save-interview-result"
)

// Client представляет HTTP клиент backend AI endpoints
type Client struct {
	baseURL string
	client  *http.Client
	metrics *metrics.Metrics
}

// GenerateQuestionsRequest представляет запрос на генерацию вопросов
type GenerateQuestionsRequest struct {
	Role          string   `json:"role"`
	InterviewType string   `json:"interviewType"`
	TechStack     []string `json:"techStack"`
	QuestionCount int      `json:"questionCount"`
}

// QuestionPayload представляет вопрос, сгенерированный сервером
type QuestionPayload struct {
	Text     string `json:"text"`
	IsCoding bool   `json:"isCoding"`
}

type generateQuestionsResponse struct {
	Questions []QuestionPayload `json:"questions"`
}

type sttResponse struct {
	Text string `json:"text"`
}

// EmotionResult представляет результат классификации эмоции по кадру
type EmotionResult struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
}

// SaveRequest представляет запрос на сохранение итоговых оценок
type SaveRequest struct {
	InterviewID        string   `json:"interviewId"`
	OverallScore       float64  `json:"overallScore"`
	TechnicalScore     float64  `json:"technicalScore"`
	CommunicationScore float64  `json:"communicationScore"`
	ConfidenceScore    float64  `json:"confidenceScore"`
	Duration           int      `json:"duration"`
	Strengths          []string `json:"strengths"`
	Improvements       []string `json:"improvements"`
}

type saveResponse struct {
	OK bool `json:"ok"`
}

// New создает новый клиент backend API
func New(baseURL string, timeout time.Duration, m *metrics.Metrics) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		metrics: m,
	}
}

// GenerateQuestions запрашивает список вопросов для аудио-интервью
func (c *Client) GenerateQuestions(ctx context.Context, req GenerateQuestionsRequest) ([]QuestionPayload, error) {
	var resp generateQuestionsResponse
	err := c.postJSON(ctx, endpointGenerateQuestions, req, &resp)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации вопросов: %w", err)
	}
	if len(resp.Questions) == 0 {
		return nil, fmt.Errorf("сервер вернул пустой список вопросов")
	}
	return resp.Questions, nil
}

// TranscribeAudio отправляет аудио на распознавание речи
func (c *Client) TranscribeAudio(ctx context.Context, audio []byte) (string, error) {
	var resp sttResponse
	err := c.postMultipart(ctx, endpointSTT, "file", "audio.webm", audio, nil, &resp)
	if err != nil {
		return "", fmt.Errorf("ошибка распознавания речи: %w", err)
	}
	return resp.Text, nil
}

// SynthesizeSpeech преобразует текст в аудио
func (c *Client) SynthesizeSpeech(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpointTTS, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := c.do(req, endpointTTS)
	if err != nil {
		return nil, fmt.Errorf("ошибка синтеза речи: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("сервер вернул пустое аудио")
	}
	return data, nil
}

// AnalyzeEmotion отправляет кадр на классификацию эмоции
func (c *Client) AnalyzeEmotion(ctx context.Context, frame []byte, questionIndex int) (*EmotionResult, error) {
	var resp EmotionResult
	extra := map[string]string{"questionIndex": strconv.Itoa(questionIndex)}
	err := c.postMultipart(ctx, endpointAnalyzeEmotion, "image", "frame.jpg", frame, extra, &resp)
	if err != nil {
		return nil, fmt.Errorf("ошибка анализа эмоции: %w", err)
	}
	return &resp, nil
}

// AnalyzeTone отправляет аудио ответа на анализ тональности.
// Структура ответа непрозрачна для ядра и передается как есть.
func (c *Client) AnalyzeTone(ctx context.Context, audio []byte) (map[string]interface{}, error) {
	var resp map[string]interface{}
	err := c.postMultipart(ctx, endpointAnalyzeTone, "audio", "answer.webm", audio, nil, &resp)
	if err != nil {
		return nil, fmt.Errorf("ошибка анализа тональности: %w", err)
	}
	return resp, nil
}

// GenerateReport отправляет результат сессии и разбирает отчет в out
func (c *Client) GenerateReport(ctx context.Context, result interface{}, out interface{}) error {
	err := c.postJSON(ctx, endpointGenerateReport, result, out)
	if err != nil {
		return fmt.Errorf("ошибка генерации отчета: %w", err)
	}
	return nil
}

// SaveResult сохраняет итоговые оценки на сервере
func (c *Client) SaveResult(ctx context.Context, req SaveRequest) error {
	var resp saveResponse
	err := c.postJSON(ctx, endpointSaveResult, req, &resp)
	if err != nil {
		return fmt.Errorf("ошибка сохранения результата: %w", err)
	}
	if !resp.OK {
		return fmt.Errorf("сервер отклонил сохранение результата")
	}
	return nil
}

// postJSON выполняет JSON запрос и разбирает ответ
func (c *Client) postJSON(ctx context.Context, endpoint string, in interface{}, out interface{}) error {
	jsonData, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, endpoint)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}
	return nil
}

// postMultipart выполняет multipart запрос с одним файлом и разбирает ответ
func (c *Client) postMultipart(ctx context.Context, endpoint, field, filename string, data []byte, extra map[string]string, out interface{}) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("ошибка создания multipart формы: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return fmt.Errorf("ошибка записи данных в форму: %w", err)
	}

	for key, value := range extra {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("ошибка записи поля %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия multipart формы: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	body, err := c.do(req, endpoint)
	if err != nil {
		return err
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}
	return nil
}

// do выполняет запрос, читает тело и проверяет статус код
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		c.countCall(endpoint, false)
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.countCall(endpoint, false)
		return nil, fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.countCall(endpoint, false)
		return nil, fmt.Errorf("HTTP ошибка %d: %s", resp.StatusCode, excerpt(body))
	}

	c.countCall(endpoint, true)
	return body, nil
}

func (c *Client) countCall(endpoint string, success bool) {
	if c.metrics != nil {
		c.metrics.IncrementAPICall(endpoint, success)
	}
}

// excerpt обрезает тело ответа для сообщения об ошибке
func excerpt(body []byte) string {
	const maxLen = 512
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
