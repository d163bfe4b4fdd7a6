package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"minterviewer/internal/api"
	"minterviewer/internal/config"
	"minterviewer/internal/console"
	"minterviewer/internal/metrics"
)

func main() {
	fmt.Println("🚀 Запуск Minterviewer session engine...")

	// Загружаем переменные окружения (.env опционален)
	if err := godotenv.Load(); err != nil {
		log.Println("Файл .env не найден, используются переменные окружения")
	}

	appCfg := config.LoadAppConfig()
	if appCfg.API.BaseURL == "" {
		log.Fatal("API_BASE_URL не установлен")
	}

	// Загружаем конфигурацию сессии интервью
	cfg, err := config.Load("config/interview.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации интервью: %v", err)
	}

	// Инициализируем сервисы
	fmt.Println("🔧 Инициализация сервисов...")

	m := metrics.NewMetrics()
	client := api.New(appCfg.API.BaseURL, appCfg.API.Timeout, m)
	fmt.Println("✅ Backend API клиент инициализирован")

	// Метрики отдаются в фоне
	go serveMetrics(appCfg, m)

	// Выводим информацию о конфигурации
	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Backend: %s\n", appCfg.API.BaseURL)
	fmt.Printf("• Вопросов в аудио-интервью: %d-%d\n", cfg.GetMinQuestions(), cfg.GetMaxQuestions())
	fmt.Printf("• Роликов в видео-сценарии: %d\n", len(cfg.VideoScript))
	fmt.Printf("• Метрики: http://localhost:%d/metrics\n\n", appCfg.Server.MetricsPort)

	runner := console.New(cfg, appCfg, client, m, os.Stdin, os.Stdout)
	if err := runner.Run(context.Background()); err != nil {
		log.Fatalf("Ошибка сессии интервью: %v", err)
	}
}

func serveMetrics(appCfg *config.AppConfig, m *metrics.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", appCfg.Server.MetricsPort),
		Handler:      mux,
		ReadTimeout:  appCfg.Server.ReadTimeout,
		WriteTimeout: appCfg.Server.WriteTimeout,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("⚠️ Сервер метрик остановлен: %v", err)
	}
}
