package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"hiring-assistant/internal/config"
	"hiring-assistant/internal/metrics"
	"hiring-assistant/internal/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "hiring-assistant",
	Short:         "TalentScout hiring assistant",
	Long:          "Screens candidates: collects contact details, then asks technical questions chosen from the declared tech stack.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Путь к YAML конфигурации (по умолчанию ASSISTANT_CONFIG или config/assistant.yaml)")
}

func main() {
	// .env не обязателен
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig читает конфигурацию с учетом флага --config и окружения
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		os.Setenv("ASSISTANT_CONFIG", configPath)
	}
	cfg, err := config.LoadAppConfig()
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}
	return cfg, nil
}

// openRepository открывает архив собеседований; пустой путь отключает его
func openRepository(cfg *config.Config) (*storage.Repository, error) {
	if cfg.Storage.DatabasePath == "" {
		return nil, nil
	}
	repo, err := storage.OpenRepository(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы %s: %w", cfg.Storage.DatabasePath, err)
	}
	return repo, nil
}

// startMetricsServer поднимает /metrics и останавливает его при отмене ctx
func startMetricsServer(ctx context.Context, addr string, m *metrics.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Ошибка сервера метрик: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
