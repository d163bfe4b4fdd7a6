package speech

import (
	"context"
	"fmt"
	"strings"
)

// sttClient описывает backend распознавания речи
type sttClient interface {
	TranscribeAudio(ctx context.Context, audio []byte) (string, error)
}

// Transcriber представляет клиент распознавания речи
type Transcriber struct {
	client sttClient
}

func NewTranscriber(client sttClient) *Transcriber {
	return &Transcriber{client: client}
}

// Transcribe преобразует аудио blob в текст. Ошибка распознавания
// возвращается вызывающему явно: молчаливая подмена транскрипта недопустима.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) (string, error) {
	if len(audio) == 0 {
		return "", fmt.Errorf("пустая аудиозапись")
	}

	text, err := t.client.TranscribeAudio(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("ошибка транскрипции: %w", err)
	}

	return strings.TrimSpace(text), nil
}
