package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"

	"golang.org/x/image/draw"
)

// Camera представляет источник видеокадров (веб-камера)
type Camera interface {
	// Open захватывает устройство. Ошибка открытия восстановима:
	// сессия продолжается с отключенной камерой.
	Open(ctx context.Context) error
	// CaptureFrame возвращает текущий кадр как JPEG blob
	CaptureFrame(ctx context.Context) ([]byte, error)
	// Close освобождает устройство. Вызывается при любом пути выхода.
	Close() error
}

// Recorder представляет запись аудио с микрофона.
// Одновременно активна не более одной записи; очередность обеспечивает вызывающий.
type Recorder interface {
	Start(ctx context.Context) error
	// Stop финализирует запись и возвращает один blob (audio/webm)
	Stop(ctx context.Context) ([]byte, error)
}

// Player представляет воспроизведение синтезированной речи.
// Один Player разделяется всей сессией; новая речь вытесняет текущую.
type Player interface {
	Play(ctx context.Context, audio []byte) error
	Stop()
}

// Параметры кодирования кадров. Качество подбирается на месте вызова,
// чтобы ограничить размер полезной нагрузки.
const (
	FrameMaxWidth      = 1280
	FrameQualityHigh   = 80
	FrameQualityNormal = 70
)

// EncodeFrame масштабирует кадр до maxWidth и кодирует в JPEG
func EncodeFrame(img image.Image, maxWidth, quality int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("пустой кадр")
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxWidth {
		ratio := float64(maxWidth) / float64(bounds.Dx())
		height := int(float64(bounds.Dy()) * ratio)
		scaled := image.NewRGBA(image.Rect(0, 0, maxWidth, height))
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, draw.Over, nil)
		img = scaled
	}

	var buf bytes.Buffer
	err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	if err != nil {
		return nil, fmt.Errorf("ошибка кодирования JPEG: %w", err)
	}
	return buf.Bytes(), nil
}
