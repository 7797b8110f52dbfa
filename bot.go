package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"hiring-assistant/internal/conversation"
	"hiring-assistant/internal/metrics"
	"hiring-assistant/internal/telegram"

	"github.com/spf13/cobra"
)

var telegramCmd = &cobra.Command{
	Use:   "telegram",
	Short: "Run the assistant as a Telegram bot",
	RunE:  runTelegram,
}

func init() {
	rootCmd.AddCommand(telegramCmd)
}

func runTelegram(cmd *cobra.Command, _ []string) error {
	fmt.Println("🚀 Запуск Hiring Assistant...")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireTelegramToken(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("🔧 Инициализация сервисов...")

	m := metrics.NewMetrics()
	driver := conversation.NewDriver(
		conversation.WithCompanyName(cfg.GetCompanyName()),
		conversation.WithObserver(m),
		conversation.WithEscaper(telegram.EscapeMarkdown),
	)

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	var archive telegram.Archive
	if repo != nil {
		defer repo.Close()
		archive = repo
		fmt.Println("✅ База собеседований открыта")
	}

	bot := telegram.New(cfg.Telegram.Token)
	bot.SetPollTimeout(cfg.Telegram.PollTimeout)
	handler := telegram.NewHandler(bot, cfg, driver, m, archive)
	handler.StartSessionCleanup(ctx)
	fmt.Println("✅ Telegram бот инициализирован")

	if cfg.MetricsEnabled() {
		startMetricsServer(ctx, cfg.Metrics.ListenAddr, m)
		fmt.Printf("✅ Метрики доступны на %s/metrics\n", cfg.Metrics.ListenAddr)
	}

	fmt.Println("\n📋 Конфигурация:")
	fmt.Printf("• Компания: %s\n", cfg.GetCompanyName())
	fmt.Printf("• Каталог выгрузок: %s\n", cfg.GetExportDir())
	fmt.Printf("• Лимит сообщений: %d за %s\n", cfg.Telegram.RateLimit, cfg.Telegram.RateWindow)
	if repo != nil {
		fmt.Printf("• База: %s\n", cfg.Storage.DatabasePath)
	} else {
		fmt.Println("• База: отключена ⚠️")
	}

	fmt.Println("\n🤖 Telegram бот запущен!")
	fmt.Println("⏳ Ожидание сообщений...")
	fmt.Println("📱 Найдите бота в Telegram и отправьте /start")

	if err := bot.StartPolling(ctx, handler.Dispatch); err != nil {
		return fmt.Errorf("ошибка запуска бота: %w", err)
	}
	handler.Wait()

	log.Printf("Бот остановлен, сессий в памяти: %d", handler.SessionCount())
	return nil
}
