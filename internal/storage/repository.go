package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound возвращается, если собеседование не найдено в архиве
var ErrNotFound = errors.New("screening not found")

const schema = `
CREATE TABLE IF NOT EXISTS screenings (
	session_id        TEXT PRIMARY KEY,
	full_name         TEXT NOT NULL DEFAULT '',
	email             TEXT NOT NULL DEFAULT '',
	phone             TEXT NOT NULL DEFAULT '',
	experience_years  TEXT NOT NULL DEFAULT '',
	desired_positions TEXT NOT NULL DEFAULT '',
	current_location  TEXT NOT NULL DEFAULT '',
	tech_stack        TEXT NOT NULL DEFAULT '',
	session_start     TEXT NOT NULL DEFAULT '',
	session_completed INTEGER NOT NULL DEFAULT 0,
	export_timestamp  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS screening_answers (
	session_id TEXT NOT NULL,
	position   INTEGER NOT NULL,
	question   TEXT NOT NULL,
	answer     TEXT NOT NULL,
	timestamp  TEXT NOT NULL,
	PRIMARY KEY (session_id, position),
	FOREIGN KEY (session_id) REFERENCES screenings(session_id) ON DELETE CASCADE
);
`

// Repository хранит завершенные собеседования в SQLite
type Repository struct {
	db *sql.DB
}

// OpenRepository открывает (или создает) базу и применяет схему.
// Путь ":memory:" подходит для тестов.
func OpenRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия базы %s: %w", path, err)
	}

	// SQLite поддерживает одного писателя; для :memory: это еще и одна и та же база
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка подключения к базе: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ошибка инициализации схемы: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close закрывает соединение с базой
func (r *Repository) Close() error {
	return r.db.Close()
}

// SaveScreening сохраняет выгрузку сессии, перезаписывая прежнюю запись с тем же ID
func (r *Repository) SaveScreening(ctx context.Context, sessionID string, export *Export) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	c := export.CandidateInfo
	_, err = tx.ExecContext(ctx, `
		INSERT INTO screenings (session_id, full_name, email, phone, experience_years,
			desired_positions, current_location, tech_stack, session_start,
			session_completed, export_timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			full_name = excluded.full_name,
			email = excluded.email,
			phone = excluded.phone,
			experience_years = excluded.experience_years,
			desired_positions = excluded.desired_positions,
			current_location = excluded.current_location,
			tech_stack = excluded.tech_stack,
			session_start = excluded.session_start,
			session_completed = excluded.session_completed,
			export_timestamp = excluded.export_timestamp`,
		sessionID, c.FullName, c.Email, c.Phone, c.ExperienceYears, c.DesiredPositions,
		c.CurrentLocation, c.TechStack, c.SessionStart, export.SessionCompleted, export.ExportTimestamp)
	if err != nil {
		return fmt.Errorf("ошибка сохранения собеседования %s: %w", sessionID, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM screening_answers WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("ошибка очистки ответов %s: %w", sessionID, err)
	}

	for i, qa := range export.TechnicalQA {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO screening_answers (session_id, position, question, answer, timestamp)
			VALUES (?, ?, ?, ?, ?)`,
			sessionID, i, qa.Question, qa.Answer, qa.Timestamp)
		if err != nil {
			return fmt.Errorf("ошибка сохранения ответа %d: %w", i+1, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// GetScreening загружает собеседование по ID сессии
func (r *Repository) GetScreening(ctx context.Context, sessionID string) (*Export, error) {
	var export Export
	c := &export.CandidateInfo
	err := r.db.QueryRowContext(ctx, `
		SELECT full_name, email, phone, experience_years, desired_positions,
			current_location, tech_stack, session_start, session_completed, export_timestamp
		FROM screenings WHERE session_id = ?`, sessionID).
		Scan(&c.FullName, &c.Email, &c.Phone, &c.ExperienceYears, &c.DesiredPositions,
			&c.CurrentLocation, &c.TechStack, &c.SessionStart, &export.SessionCompleted, &export.ExportTimestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения собеседования %s: %w", sessionID, err)
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT question, answer, timestamp FROM screening_answers
		WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения ответов %s: %w", sessionID, err)
	}
	defer rows.Close()

	export.TechnicalQA = []QA{}
	for rows.Next() {
		var qa QA
		if err := rows.Scan(&qa.Question, &qa.Answer, &qa.Timestamp); err != nil {
			return nil, fmt.Errorf("ошибка разбора ответа: %w", err)
		}
		export.TechnicalQA = append(export.TechnicalQA, qa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения ответов %s: %w", sessionID, err)
	}

	return &export, nil
}

// ListScreenings возвращает последние собеседования, новые первыми
func (r *Repository) ListScreenings(ctx context.Context, limit int) ([]ScreeningSummary, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT s.session_id, s.full_name, s.email, s.session_completed, s.export_timestamp,
			(SELECT COUNT(*) FROM screening_answers a WHERE a.session_id = s.session_id)
		FROM screenings s
		ORDER BY s.export_timestamp DESC, s.session_id
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения архива: %w", err)
	}
	defer rows.Close()

	var result []ScreeningSummary
	for rows.Next() {
		var s ScreeningSummary
		if err := rows.Scan(&s.SessionID, &s.FullName, &s.Email, &s.SessionCompleted,
			&s.ExportTimestamp, &s.AnsweredCount); err != nil {
			return nil, fmt.Errorf("ошибка разбора записи архива: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}
