package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"surveyengine/internal/model"
)

// fixed width so text order matches time order
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLiteResponseRepository keeps responses in a single sqlite table,
// one JSON document per row.
type SQLiteResponseRepository struct {
	db *sql.DB
}

// NewSQLiteResponseRepository opens dbPath (":memory:" works) and creates
// the responses table if needed.
func NewSQLiteResponseRepository(dbPath string) (*SQLiteResponseRepository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "" {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
		}
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	createSQL := `CREATE TABLE IF NOT EXISTS responses (
		id           TEXT PRIMARY KEY,
		submitted_at TEXT NOT NULL,
		data         TEXT NOT NULL
	)`
	if _, err := db.Exec(createSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}
	return &SQLiteResponseRepository{db: db}, nil
}

func (r *SQLiteResponseRepository) Close() error {
	return r.db.Close()
}

func (r *SQLiteResponseRepository) Create(ctx context.Context, resp *model.Response) error {
	if err := checkResponse(resp); err != nil {
		return err
	}
	data, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO responses (id, submitted_at, data) VALUES (?, ?, ?)`,
		resp.ID, resp.SubmittedAt.UTC().Format(sqliteTimeLayout), string(data),
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (r *SQLiteResponseRepository) List(ctx context.Context) ([]*model.Response, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, submitted_at, data FROM responses ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	responses := []*model.Response{}
	for rows.Next() {
		var (
			resp      model.Response
			submitted string
			data      string
		)
		if err := rows.Scan(&resp.ID, &submitted, &data); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if resp.SubmittedAt, err = time.Parse(sqliteTimeLayout, submitted); err != nil {
			return nil, fmt.Errorf("parse submitted_at: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &resp.Data); err != nil {
			return nil, fmt.Errorf("unmarshal data: %w", err)
		}
		responses = append(responses, &resp)
	}
	return responses, rows.Err()
}
