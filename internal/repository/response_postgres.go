package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"surveyengine/internal/model"
)

type PostgresResponseRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresResponseRepository(ctx context.Context, url string) (*PostgresResponseRepository, error) {
	if url == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse DATABASE_URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	repo := &PostgresResponseRepository{pool: pool}
	if err := repo.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}

func (r *PostgresResponseRepository) Close() {
	r.pool.Close()
}

func (r *PostgresResponseRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS survey_responses (
	id text primary key,
	submitted_at timestamptz not null,
	data jsonb not null
);
CREATE INDEX IF NOT EXISTS survey_responses_submitted_at_idx ON survey_responses (submitted_at DESC);
`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (r *PostgresResponseRepository) Create(ctx context.Context, resp *model.Response) error {
	if err := checkResponse(resp); err != nil {
		return err
	}
	data, err := json.Marshal(resp.Data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO survey_responses (id, submitted_at, data) VALUES ($1, $2, $3::jsonb)`,
		resp.ID, resp.SubmittedAt, string(data),
	)
	if err != nil {
		return fmt.Errorf("insert response: %w", err)
	}
	return nil
}

func (r *PostgresResponseRepository) List(ctx context.Context) ([]*model.Response, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, submitted_at, data FROM survey_responses ORDER BY submitted_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query responses: %w", err)
	}
	defer rows.Close()

	responses := []*model.Response{}
	for rows.Next() {
		var (
			resp model.Response
			data []byte
		)
		if err := rows.Scan(&resp.ID, &resp.SubmittedAt, &data); err != nil {
			return nil, fmt.Errorf("scan response: %w", err)
		}
		if err := json.Unmarshal(data, &resp.Data); err != nil {
			return nil, fmt.Errorf("unmarshal data: %w", err)
		}
		responses = append(responses, &resp)
	}
	return responses, rows.Err()
}
