package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"minterviewer/internal/api"
	"minterviewer/internal/config"
	"minterviewer/internal/emotion"
	"minterviewer/internal/media"
	"minterviewer/internal/metrics"
	"minterviewer/internal/report"
	"minterviewer/internal/session"
	"minterviewer/internal/setup"
	"minterviewer/internal/speech"
	"minterviewer/internal/storage"
)

// Runner представляет терминальный проигрыватель сессии интервью.
// Push-to-talk имитируется клавишей Enter, аудио и кадры берутся из
// файловых реализаций портов захвата.
type Runner struct {
	cfg     *config.Config
	app     *config.AppConfig
	client  *api.Client
	metrics *metrics.Metrics
	in      *bufio.Scanner
	out     io.Writer
}

func New(cfg *config.Config, app *config.AppConfig, client *api.Client, m *metrics.Metrics, in io.Reader, out io.Writer) *Runner {
	return &Runner{
		cfg:     cfg,
		app:     app,
		client:  client,
		metrics: m,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Run проводит одну полную сессию: настройка (опционально) →
// интервью → отчет
func (r *Runner) Run(ctx context.Context) error {
	r.printf("🎙 Minterviewer mock interview session\n\n")

	mode := r.readLine("Choose interview mode [audio/video]: ")
	mode = strings.ToLower(strings.TrimSpace(mode))

	recorder := media.NewFileRecorder(r.app.Media.AudioSamplePath)
	camera := media.NewStaticCamera(r.app.Media.CameraImagePath, media.FrameQualityNormal)
	player := media.NewFilePlayer(r.app.Media.PlaybackDir)

	speaker := speech.NewSpeaker(r.client, player)
	transcriber := speech.NewTranscriber(r.client)

	var result *session.Result
	var err error
	if mode == "video" {
		result, err = r.runVideo(ctx, transcriber, recorder, camera)
	} else {
		result, err = r.runAudio(ctx, speaker, transcriber, recorder, camera)
	}
	if err != nil {
		return err
	}

	if err := storage.SaveSession(result); err != nil {
		r.printf("⚠️ Не удалось сохранить сессию локально: %v\n", err)
	}

	return r.showReport(ctx, result)
}

// runAudio проводит мастер настройки и аудио/кодинг интервью
func (r *Runner) runAudio(ctx context.Context, speaker *speech.Speaker, transcriber *speech.Transcriber, recorder media.Recorder, camera media.Camera) (*session.Result, error) {
	paramsCh := make(chan setup.Parameters, 1)
	wizard := setup.NewWizard(speaker, transcriber, recorder, r.cfg.Prompts, func(p setup.Parameters) {
		paramsCh <- p
	})

	r.printf("\n--- Setup ---\n")
	wizard.Begin(ctx)

	for wizard.Step() != setup.StepComplete {
		r.readLine("Press Enter to answer the current step... ")
		if err := wizard.StartListening(ctx); err != nil {
			return nil, err
		}
		r.readLine("Recording. Press Enter to stop... ")
		if err := wizard.StopListening(ctx); err != nil {
			return nil, err
		}
		if t := wizard.Transcript(); t != "" {
			r.printf("Heard: %q\n", t)
		}
	}
	params := <-paramsCh
	r.printf("\nSetup complete: %s / %s / %v / %d questions\n",
		params.Role, params.InterviewType, params.TechStack, params.QuestionCount)

	sampler := emotion.NewSampler(r.client, camera, emotion.SkipOnError)
	sampler.SetMetrics(r.metrics)

	done := make(chan *session.Result, 1)
	interview := session.NewAudioInterview(session.AudioDeps{
		Questions:   r.client,
		Speaker:     speaker,
		Transcriber: transcriber,
		Recorder:    recorder,
		Camera:      camera,
		Sampler:     sampler,
		Config:      r.cfg,
		Metrics:     r.metrics,
	}, params, func(res *session.Result) {
		done <- res
	})

	r.printf("\n--- Interview ---\n")
	if err := interview.Begin(ctx); err != nil {
		return nil, err
	}

	for {
		select {
		case res := <-done:
			r.printf("\n✅ Интервью завершено, собрано ответов: %d\n", len(res.Answers))
			return res, nil
		default:
		}

		q := interview.CurrentQuestion()
		r.printf("\nQuestion %d: %s\n", interview.CurrentIndex()+1, q.Text)

		if q.IsCoding {
			r.printf("Enter your code, finish with a single '.' line (or type 'voice' to explain aloud):\n")
			code, voice := r.readCode()
			if voice {
				if err := interview.SwitchToVoice(ctx); err != nil {
					return nil, err
				}
				r.readLine("Recording. Press Enter to stop... ")
				if err := interview.StopRecording(ctx); err != nil {
					return nil, err
				}
				continue
			}
			interview.SetCode(code)
			if err := interview.SubmitCode(ctx); err != nil {
				return nil, err
			}
			continue
		}

		line := r.readLine("Press Enter to record (or type 'camera' to toggle video)... ")
		if strings.TrimSpace(strings.ToLower(line)) == "camera" {
			interview.ToggleCamera(ctx, !interview.VideoEnabled())
			r.printf("Camera enabled: %v\n", interview.VideoEnabled())
			continue
		}
		if err := interview.StartRecording(ctx); err != nil {
			return nil, err
		}
		r.readLine("Recording. Press Enter to stop... ")
		if err := interview.StopRecording(ctx); err != nil {
			return nil, err
		}
	}
}

// runVideo проводит интервью по фиксированному видео-сценарию.
// Видео-путь минует мастер настройки: параметры по умолчанию.
func (r *Runner) runVideo(ctx context.Context, transcriber *speech.Transcriber, recorder media.Recorder, camera media.Camera) (*session.Result, error) {
	sampler := emotion.NewSampler(r.client, camera, emotion.NeutralOnError)
	sampler.SetMetrics(r.metrics)

	done := make(chan *session.Result, 1)
	interview := session.NewVideoInterview(session.VideoDeps{
		Tone:        r.client,
		Transcriber: transcriber,
		Recorder:    recorder,
		Camera:      camera,
		Sampler:     sampler,
		Config:      r.cfg,
		Metrics:     r.metrics,
	}, setup.DefaultParameters(), func(res *session.Result) {
		done <- res
	})

	r.printf("\n--- Video interview ---\n")
	if err := interview.Begin(ctx); err != nil {
		return nil, err
	}

	for {
		select {
		case res := <-done:
			r.printf("\n✅ Интервью завершено, собрано ответов: %d\n", len(res.Answers))
			return res, nil
		default:
		}

		q := interview.CurrentQuestion()
		r.printf("\n▶ Playing %s\n   %q\n", q.VideoFile, q.Text)
		r.readLine("Press Enter when the video ends... ")
		if err := interview.OnVideoEnded(ctx); err != nil {
			return nil, err
		}

		select {
		case res := <-done:
			r.printf("\n✅ Интервью завершено, собрано ответов: %d\n", len(res.Answers))
			return res, nil
		default:
		}

		if interview.Recording() {
			r.printf("Recording your answer (%d seconds budget).\n", q.ResponseTime)
			line := r.readLine("Press Enter to finish, or type 'skip'... ")
			if strings.TrimSpace(strings.ToLower(line)) == "skip" {
				if err := interview.SkipQuestion(ctx); err != nil {
					return nil, err
				}
				continue
			}
			// Отсчет мог успеть остановить запись сам
			if interview.Recording() {
				if err := interview.FinishAnswer(ctx); err != nil {
					return nil, err
				}
			}
		}
	}
}

// showReport генерирует и показывает отчет с явным повтором при сбое
func (r *Runner) showReport(ctx context.Context, result *session.Result) error {
	client := report.NewClient(r.client, r.metrics)

	for {
		rep, err := client.Generate(ctx, result)
		if err != nil {
			r.printf("❌ Ошибка генерации отчета: %v\n", err)
			answer := r.readLine("Try again? [y/n]: ")
			if strings.TrimSpace(strings.ToLower(answer)) == "y" {
				client.Retry()
				continue
			}
			return err
		}

		r.printf("\n%s\n", report.RenderText(rep))
		return nil
	}
}

func (r *Runner) readLine(prompt string) string {
	r.printf("%s", prompt)
	if !r.in.Scan() {
		return ""
	}
	return r.in.Text()
}

// readCode читает многострочный код до строки-точки
func (r *Runner) readCode() (string, bool) {
	var lines []string
	for r.in.Scan() {
		line := r.in.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		if len(lines) == 0 && strings.TrimSpace(strings.ToLower(line)) == "voice" {
			return "", true
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), false
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}
