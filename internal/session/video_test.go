package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minterviewer/internal/emotion"
	"minterviewer/internal/setup"
)

func newVideoFixture(t *testing.T, tone toneAnalyzer) (*VideoInterview, *fakeRecorder, chan *Result) {
	t.Helper()

	recorder := &fakeRecorder{}
	camera := &fakeCamera{}
	sampler := emotion.NewSampler(&fakeAnalyzer{}, camera, emotion.NeutralOnError)

	done := make(chan *Result, 1)
	interview := NewVideoInterview(VideoDeps{
		Tone:        tone,
		Transcriber: &fakeTranscriber{text: "video answer"},
		Recorder:    recorder,
		Camera:      camera,
		Sampler:     sampler,
		Config:      testConfig(),
	}, setup.Parameters{}, func(r *Result) {
		done <- r
	})
	return interview, recorder, done
}

func TestVideoInterviewSignOffCompletesOnVideoEnd(t *testing.T) {
	tone := &fakeTone{data: map[string]interface{}{"pace": "steady"}}
	interview, recorder, done := newVideoFixture(t, tone)

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))
	assert.Equal(t, StateWatching, interview.State())

	// Два обычных вопроса с досрочным завершением ответа
	for i := 0; i < 2; i++ {
		require.NoError(t, interview.OnVideoEnded(ctx))
		assert.Equal(t, StateResponding, interview.State())
		assert.True(t, interview.Recording())
		require.NoError(t, interview.FinishAnswer(ctx))
	}

	// Прощальный ролик: окончание завершает интервью, записи нет
	assert.Equal(t, 2, interview.CurrentIndex())
	require.NoError(t, interview.OnVideoEnded(ctx))
	assert.Equal(t, StateCompleted, interview.State())
	assert.Equal(t, 2, recorder.startCount())

	var result *Result
	select {
	case result = <-done:
	default:
		t.Fatal("интервью не завершилось")
	}

	assert.True(t, result.HasVideoData)
	assert.Len(t, result.Answers, 2)
	assert.Len(t, result.Questions, 3)
	assert.Equal(t, "video", result.SetupData.InterviewMode)
}

func TestVideoInterviewCountdownExpiresAutomatically(t *testing.T) {
	tone := &fakeTone{}
	interview, recorder, _ := newVideoFixture(t, tone)

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))

	// Без действий пользователя отсчет сам останавливает запись
	// и переводит машину к следующему ролику
	require.Eventually(t, func() bool {
		return interview.CurrentIndex() == 1 && interview.State() == StateWatching
	}, time.Second, 5*time.Millisecond)

	assert.False(t, interview.Recording())
	assert.Equal(t, 1, recorder.startCount())
}

func TestVideoInterviewSkipBeforeRecording(t *testing.T) {
	interview, recorder, _ := newVideoFixture(t, &fakeTone{})

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))

	// Пропуск во время просмотра: ответ не записывается
	require.NoError(t, interview.SkipQuestion(ctx))
	assert.Equal(t, 1, interview.CurrentIndex())
	assert.Equal(t, StateWatching, interview.State())
	assert.Equal(t, 0, recorder.startCount())

	interview.mu.Lock()
	count := len(interview.answers)
	interview.mu.Unlock()
	assert.Zero(t, count)
}

func TestVideoInterviewSkipWhileRecording(t *testing.T) {
	interview, _, _ := newVideoFixture(t, &fakeTone{})

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))

	// Пропуск во время записи равносилен досрочному завершению
	require.NoError(t, interview.SkipQuestion(ctx))
	assert.Equal(t, 1, interview.CurrentIndex())
	assert.Equal(t, StateWatching, interview.State())

	interview.mu.Lock()
	answer := interview.answers[0]
	interview.mu.Unlock()
	assert.Equal(t, "video answer", answer.Transcription)
	assert.Equal(t, 0, answer.QuestionIndex)
}

func TestVideoInterviewAnswerReshape(t *testing.T) {
	tone := &fakeTone{data: map[string]interface{}{"pace": "steady"}}
	interview, _, done := newVideoFixture(t, tone)

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))

	require.NoError(t, interview.OnVideoEnded(ctx))
	require.NoError(t, interview.FinishAnswer(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))
	require.NoError(t, interview.FinishAnswer(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))

	result := <-done

	// Видео-ответы пересобраны в общий контракт: текст вопроса из сценария,
	// тональность сохранена, кодовых ответов в видео-варианте не бывает
	require.Len(t, result.Answers, 2)
	assert.Equal(t, "video question one", result.Answers[0].Question.Text)
	assert.Equal(t, "video question two", result.Answers[1].Question.Text)
	for _, answer := range result.Answers {
		assert.False(t, answer.IsCoding)
		assert.Equal(t, "video answer", answer.Answer)
		assert.Equal(t, "steady", answer.ToneData["pace"])
	}
}

func TestVideoInterviewToneFailureGivesNil(t *testing.T) {
	interview, _, _ := newVideoFixture(t, &fakeTone{err: fmt.Errorf("tone service down")})

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))
	require.NoError(t, interview.FinishAnswer(ctx))

	interview.mu.Lock()
	answer := interview.answers[0]
	interview.mu.Unlock()
	assert.Equal(t, "video answer", answer.Transcription)
	assert.Nil(t, answer.ToneData)
}

func TestVideoInterviewSkipDuringAnswerFinalization(t *testing.T) {
	cfg := testConfig()
	cfg.SessionConfig.AnswerAdvanceDelayMS = 100

	camera := &fakeCamera{}
	sampler := emotion.NewSampler(&fakeAnalyzer{}, camera, emotion.NeutralOnError)
	interview := NewVideoInterview(VideoDeps{
		Tone:        &fakeTone{},
		Transcriber: &fakeTranscriber{text: "video answer"},
		Recorder:    &fakeRecorder{},
		Camera:      camera,
		Sampler:     sampler,
		Config:      cfg,
	}, setup.Parameters{}, nil)

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))

	finished := make(chan error, 1)
	go func() {
		finished <- interview.FinishAnswer(ctx)
	}()

	require.Eventually(t, func() bool {
		return interview.State() == StateSubmitted
	}, time.Second, time.Millisecond)

	// Пропуск во время финализации ответа не продвигает машину второй раз
	require.NoError(t, interview.SkipQuestion(ctx))
	require.NoError(t, <-finished)

	assert.Equal(t, 1, interview.CurrentIndex())
	assert.Equal(t, StateWatching, interview.State())

	interview.mu.Lock()
	count := len(interview.answers)
	interview.mu.Unlock()
	assert.Equal(t, 1, count)
}

func TestVideoInterviewFinishBeforeVideoEnded(t *testing.T) {
	interview, _, _ := newVideoFixture(t, &fakeTone{})

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))

	// Отвечать раньше конца ролика нельзя
	assert.Error(t, interview.FinishAnswer(ctx))
	assert.Equal(t, StateWatching, interview.State())
}

func TestVideoInterviewRepeatedVideoEndedIgnored(t *testing.T) {
	interview, recorder, _ := newVideoFixture(t, &fakeTone{})

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))

	assert.Equal(t, 1, recorder.startCount())
}

func TestVideoInterviewDefaultParameters(t *testing.T) {
	interview, _, done := newVideoFixture(t, &fakeTone{})

	ctx := context.Background()
	require.NoError(t, interview.Begin(ctx))
	require.NoError(t, interview.SkipQuestion(ctx))
	require.NoError(t, interview.SkipQuestion(ctx))
	require.NoError(t, interview.OnVideoEnded(ctx))

	result := <-done

	// Видео-путь минует мастер настройки: параметры по умолчанию
	defaults := setup.DefaultParameters()
	assert.Equal(t, defaults.Role, result.SetupData.Role)
	assert.Equal(t, "video", result.SetupData.InterviewMode)
	assert.Empty(t, result.Answers)
}
