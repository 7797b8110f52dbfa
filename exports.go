package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"hiring-assistant/internal/storage"

	"github.com/spf13/cobra"
)

var exportsCmd = &cobra.Command{
	Use:   "exports",
	Short: "Inspect saved screenings",
}

var exportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List export files and archived screenings",
	Args:  cobra.NoArgs,
	RunE:  runExportsList,
}

var exportsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print an archived screening as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExportsShow,
}

var exportsLimit int

func init() {
	exportsListCmd.Flags().IntVarP(&exportsLimit, "limit", "n", 50, "Сколько последних собеседований показать из базы")
	exportsCmd.AddCommand(exportsListCmd, exportsShowCmd)
	rootCmd.AddCommand(exportsCmd)
}

func runExportsList(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	files, err := storage.ListExports(cfg.GetExportDir())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "📁 Выгрузки в %s: %d\n", cfg.GetExportDir(), len(files))
	for _, f := range files {
		fmt.Fprintf(out, "• %s\n", f)
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	if repo == nil {
		return nil
	}
	defer repo.Close()

	summaries, err := repo.ListScreenings(cmd.Context(), exportsLimit)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n🗄 Собеседования в базе: %d\n", len(summaries))
	for _, s := range summaries {
		status := "не завершено"
		if s.SessionCompleted {
			status = "завершено"
		}
		fmt.Fprintf(out, "• %s  %s <%s>  ответов: %d  %s  (%s)\n",
			s.SessionID, s.FullName, s.Email, s.AnsweredCount, s.ExportTimestamp, status)
	}
	return nil
}

func runExportsShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo, err := openRepository(cfg)
	if err != nil {
		return err
	}
	if repo == nil {
		return errors.New("база собеседований отключена (storage.database_path пуст)")
	}
	defer repo.Close()

	export, err := repo.GetScreening(cmd.Context(), args[0])
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("собеседование %s не найдено", args[0])
	}
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
