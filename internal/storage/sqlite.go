package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	_ "github.com/mattn/go-sqlite3"

	"github.com/farhan/gametrack/internal/models"
)

type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			issue_id INTEGER NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_games_issue ON games(issue_id)`,
	}

	for _, q := range queries {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) CreateGame(ctx context.Context, game *models.Game) error {
	metadata, _ := json.Marshal(game.Metadata)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, name, issue_id, metadata, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		game.ID, game.Name, game.IssueID, string(metadata), game.CreatedAt, game.UpdatedAt,
	)
	return err
}

func (s *SQLiteStorage) scanGame(row interface{ Scan(...interface{}) error }) (*models.Game, error) {
	var game models.Game
	var metadata string
	err := row.Scan(&game.ID, &game.Name, &game.IssueID, &metadata, &game.CreatedAt, &game.UpdatedAt)
	if err != nil {
		return nil, err
	}
	json.Unmarshal([]byte(metadata), &game.Metadata)
	return &game, nil
}

func (s *SQLiteStorage) GetGame(ctx context.Context, id string) (*models.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, issue_id, metadata, created_at, updated_at FROM games WHERE id = ?`, id)
	game, err := s.scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return game, err
}

func (s *SQLiteStorage) GetGameByIssue(ctx context.Context, issueID int64) (*models.Game, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, issue_id, metadata, created_at, updated_at FROM games WHERE issue_id = ?`, issueID)
	game, err := s.scanGame(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return game, err
}

func (s *SQLiteStorage) ListGames(ctx context.Context) ([]models.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, issue_id, metadata, created_at, updated_at FROM games ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []models.Game
	for rows.Next() {
		game, err := s.scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, *game)
	}
	return games, rows.Err()
}

func (s *SQLiteStorage) DeleteGame(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	return err
}
