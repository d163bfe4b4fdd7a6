package media

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Файловые реализации портов захвата для локального запуска.
// Реальные устройства живут на стороне клиента; движку сессии
// достаточно блобов, откуда бы они ни пришли.

// StaticCamera отдает кадры из файла изображения
type StaticCamera struct {
	path    string
	quality int

	mu     sync.Mutex
	opened bool
}

func NewStaticCamera(path string, quality int) *StaticCamera {
	return &StaticCamera{path: path, quality: quality}
}

func (c *StaticCamera) Open(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.opened {
		return nil
	}
	if _, err := os.Stat(c.path); err != nil {
		return fmt.Errorf("камера недоступна (%s): %w", c.path, err)
	}
	c.opened = true
	return nil
}

func (c *StaticCamera) CaptureFrame(ctx context.Context) ([]byte, error) {
	c.mu.Lock()
	opened := c.opened
	c.mu.Unlock()

	if !opened {
		return nil, fmt.Errorf("камера не открыта")
	}

	file, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения кадра: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("ошибка декодирования кадра: %w", err)
	}

	return EncodeFrame(img, FrameMaxWidth, c.quality)
}

func (c *StaticCamera) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opened = false
	return nil
}

// FileRecorder имитирует запись микрофона, возвращая содержимое файла
type FileRecorder struct {
	path string

	mu        sync.Mutex
	recording bool
}

func NewFileRecorder(path string) *FileRecorder {
	return &FileRecorder{path: path}
}

func (r *FileRecorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recording {
		return fmt.Errorf("запись уже активна")
	}
	r.recording = true
	return nil
}

func (r *FileRecorder) Stop(ctx context.Context) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.recording {
		return nil, fmt.Errorf("запись не активна")
	}
	r.recording = false

	data, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения аудио %s: %w", r.path, err)
	}
	return data, nil
}

// FilePlayer сохраняет воспроизводимое аудио в каталог (для отладки).
// Пустой каталог превращает Play в no-op.
type FilePlayer struct {
	dir string

	mu  sync.Mutex
	seq int
}

func NewFilePlayer(dir string) *FilePlayer {
	return &FilePlayer{dir: dir}
}

func (p *FilePlayer) Play(ctx context.Context, audio []byte) error {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	dir := p.dir
	p.mu.Unlock()

	if dir == "" {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("ошибка создания каталога %s: %w", dir, err)
	}

	name := filepath.Join(dir, fmt.Sprintf("tts_%d_%d.mp3", time.Now().Unix(), seq))
	if err := os.WriteFile(name, audio, 0644); err != nil {
		return fmt.Errorf("ошибка записи аудио %s: %w", name, err)
	}

	log.Printf("🔊 Аудио сохранено в %s (%d байт)", name, len(audio))
	return nil
}

func (p *FilePlayer) Stop() {}
