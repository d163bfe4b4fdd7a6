package speech

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"minterviewer/internal/media"
)

// ttsClient описывает backend синтеза речи
type ttsClient interface {
	SynthesizeSpeech(ctx context.Context, text string) ([]byte, error)
}

// Speaker представляет озвучивание подсказок с кэшированием.
// Кэш принадлежит экземпляру и живет одну сессию приложения;
// словарь подсказок мал и фиксирован, поэтому записи не вытесняются.
type Speaker struct {
	client ttsClient
	player media.Player

	mu          sync.Mutex
	cache       map[string][]byte
	speaking    bool
	currentText string

	// Одновременные запросы одного текста делят один сетевой вызов
	group singleflight.Group
}

func NewSpeaker(client ttsClient, player media.Player) *Speaker {
	return &Speaker{
		client: client,
		player: player,
		cache:  make(map[string][]byte),
	}
}

// Speak озвучивает текст. Повторный вызов с текстом, который уже
// воспроизводится, является no-op: подсказки не накладываются друг на друга.
// Новый текст вытесняет текущее воспроизведение.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.speaking && s.currentText == text {
		s.mu.Unlock()
		return nil
	}
	cached, ok := s.cache[text]
	s.mu.Unlock()

	if ok {
		return s.play(ctx, text, cached)
	}

	v, err, _ := s.group.Do(text, func() (interface{}, error) {
		return s.client.SynthesizeSpeech(ctx, text)
	})
	if err != nil {
		return fmt.Errorf("ошибка получения аудио подсказки: %w", err)
	}
	audio := v.([]byte)

	s.mu.Lock()
	s.cache[text] = audio
	s.mu.Unlock()

	return s.play(ctx, text, audio)
}

// play воспроизводит аудио. Сбой воспроизведения сбрасывает флаг
// и логируется: озвучка - удобство, а не условие продвижения сессии.
func (s *Speaker) play(ctx context.Context, text string, audio []byte) error {
	s.mu.Lock()
	s.player.Stop()
	s.speaking = true
	s.currentText = text
	s.mu.Unlock()

	err := s.player.Play(ctx, audio)

	s.mu.Lock()
	s.speaking = false
	s.currentText = ""
	s.mu.Unlock()

	if err != nil {
		log.Printf("⚠️ Ошибка воспроизведения подсказки: %v", err)
	}
	return nil
}

// Speaking сообщает, идет ли воспроизведение
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.speaking
}

// Reset очищает кэш (перезапуск сессии или выход пользователя)
func (s *Speaker) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string][]byte)
}
