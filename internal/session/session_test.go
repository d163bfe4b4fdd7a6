package session

import (
	"context"
	"sync"
	"sync/atomic"

	"minterviewer/internal/api"
	"minterviewer/internal/config"
)

// Общие фейки зависимостей машин сессии

type fakeQuestions struct {
	payloads []api.QuestionPayload
	err      error
}

func (f *fakeQuestions) GenerateQuestions(ctx context.Context, req api.GenerateQuestionsRequest) ([]api.QuestionPayload, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payloads, nil
}

type fakeSpeaker struct {
	mu     sync.Mutex
	spoken []string
}

func (f *fakeSpeaker) Speak(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spoken = append(f.spoken, text)
	return nil
}

func (f *fakeSpeaker) count(text string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.spoken {
		if s == text {
			n++
		}
	}
	return n
}

type fakeTranscriber struct {
	mu   sync.Mutex
	text string
	errs []error
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return "", err
		}
	}
	return f.text, nil
}

type fakeRecorder struct {
	mu      sync.Mutex
	started int
	stopped int
}

func (f *fakeRecorder) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started++
	return nil
}

func (f *fakeRecorder) Stop(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
	return []byte("audio"), nil
}

func (f *fakeRecorder) startCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.started
}

type fakeCamera struct {
	openErr  error
	opens    int32
	closes   int32
	captures int32
}

func (f *fakeCamera) Open(ctx context.Context) error {
	atomic.AddInt32(&f.opens, 1)
	return f.openErr
}

func (f *fakeCamera) CaptureFrame(ctx context.Context) ([]byte, error) {
	atomic.AddInt32(&f.captures, 1)
	return []byte("frame"), nil
}

func (f *fakeCamera) Close() error {
	atomic.AddInt32(&f.closes, 1)
	return nil
}

type fakeAnalyzer struct {
	calls int32
}

func (f *fakeAnalyzer) AnalyzeEmotion(ctx context.Context, frame []byte, questionIndex int) (*api.EmotionResult, error) {
	atomic.AddInt32(&f.calls, 1)
	return &api.EmotionResult{Emotion: "calm", Confidence: 70}, nil
}

type fakeTone struct {
	data map[string]interface{}
	err  error
}

func (f *fakeTone) AnalyzeTone(ctx context.Context, audio []byte) (map[string]interface{}, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data, nil
}

func testConfig() *config.Config {
	return &config.Config{
		SessionConfig: config.SessionConfig{
			MinQuestions:               5,
			MaxQuestions:               15,
			AnswerAdvanceDelayMS:       1,
			CodeAdvanceDelayMS:         1,
			EmotionInterviewIntervalMS: 10,
			EmotionRecordingIntervalMS: 10,
			CountdownTickMS:            10,
		},
		FallbackQuestions: []config.Question{
			{Text: "fallback one"},
			{Text: "fallback two"},
			{Text: "fallback three"},
			{Text: "fallback four", IsCoding: true},
			{Text: "fallback five"},
		},
		VideoScript: []config.VideoQuestion{
			{VideoFile: "q1.mp4", Text: "video question one", ResponseTime: 2},
			{VideoFile: "q2.mp4", Text: "video question two", ResponseTime: 1},
			{VideoFile: "q3.mp4", Text: "sign-off", ResponseTime: 0},
		},
	}
}
