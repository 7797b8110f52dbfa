// Package console проводит собеседование в терминале.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"hiring-assistant/internal/conversation"
	"hiring-assistant/internal/storage"
)

// Archive сохраняет завершенные собеседования
type Archive interface {
	SaveScreening(ctx context.Context, sessionID string, export *storage.Export) error
}

type Console struct {
	driver    *conversation.Driver
	exportDir string
	archive   Archive
	now       func() time.Time
}

type Option func(*Console)

// WithExportDir включает сохранение JSON после завершения
func WithExportDir(dir string) Option {
	return func(c *Console) { c.exportDir = dir }
}

// WithArchive включает запись результата в базу
func WithArchive(a Archive) Option {
	return func(c *Console) { c.archive = a }
}

func WithClock(now func() time.Time) Option {
	return func(c *Console) { c.now = now }
}

func New(driver *conversation.Driver, opts ...Option) *Console {
	c := &Console{driver: driver, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run ведет диалог построчно до конца ввода, выхода или завершения
func (c *Console) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	session := conversation.NewSession(c.now())
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Fprintln(out, c.driver.ProcessInput(session, ""))

	for session.Active() {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(out, "\n> ")
		if !scanner.Scan() {
			break
		}
		fmt.Fprintln(out, c.driver.ProcessInput(session, scanner.Text()))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("ошибка чтения ввода: %w", err)
	}

	if !session.Completed() {
		return nil
	}
	return c.save(ctx, session, out)
}

func (c *Console) save(ctx context.Context, session *conversation.Session, out io.Writer) error {
	export := session.Export(c.now())

	if c.exportDir != "" {
		path, err := storage.SaveExport(c.exportDir, export, c.now())
		if err != nil {
			return fmt.Errorf("ошибка сохранения выгрузки: %w", err)
		}
		fmt.Fprintf(out, "\n💾 Screening data saved to %s\n", path)
	}

	if c.archive != nil {
		if err := c.archive.SaveScreening(ctx, session.ID, export); err != nil {
			return fmt.Errorf("ошибка записи в базу: %w", err)
		}
		log.Printf("Собеседование %s записано в базу", session.ID)
	}
	return nil
}
