package main

import (
	"os"
	"os/signal"

	"hiring-assistant/internal/console"
	"hiring-assistant/internal/conversation"

	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Run a screening in the terminal",
	RunE:  runConsole,
}

var consoleNoSave bool

func init() {
	consoleCmd.Flags().BoolVar(&consoleNoSave, "no-save", false, "Не сохранять результат в каталог выгрузок и базу")
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	driver := conversation.NewDriver(conversation.WithCompanyName(cfg.GetCompanyName()))

	var opts []console.Option
	if !consoleNoSave {
		opts = append(opts, console.WithExportDir(cfg.GetExportDir()))

		repo, err := openRepository(cfg)
		if err != nil {
			return err
		}
		if repo != nil {
			defer repo.Close()
			opts = append(opts, console.WithArchive(repo))
		}
	}

	return console.New(driver, opts...).Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
