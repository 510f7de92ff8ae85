// Package store persists generated roadmaps in PostgreSQL.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"nanolez-eduai/internal/models"
)

var ErrRoadmapNotFound = errors.New("ROADMAP_NOT_FOUND")

const (
	schemaSQL = `CREATE TABLE IF NOT EXISTS roadmaps (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL DEFAULT '',
	title      TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
)`

	upsertSQL = `INSERT INTO roadmaps (id, user_id, title, payload, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE SET title = EXCLUDED.title, payload = EXCLUDED.payload`

	selectSQL = `SELECT payload FROM roadmaps WHERE id = $1`
)

type RoadmapRepository struct {
	db *sql.DB
}

func NewRoadmapRepository(db *sql.DB) *RoadmapRepository {
	return &RoadmapRepository{db: db}
}

// EnsureSchema creates the roadmaps table if it is missing.
func (r *RoadmapRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create roadmaps table: %w", err)
	}
	return nil
}

func (r *RoadmapRepository) Save(ctx context.Context, userID string, roadmap *models.Roadmap) error {
	payload, err := json.Marshal(roadmap)
	if err != nil {
		return fmt.Errorf("encode roadmap: %w", err)
	}
	_, err = r.db.ExecContext(ctx, upsertSQL, roadmap.ID, userID, roadmap.Title, payload, roadmap.CreatedAt)
	if err != nil {
		return fmt.Errorf("save roadmap %s: %w", roadmap.ID, err)
	}
	return nil
}

func (r *RoadmapRepository) Get(ctx context.Context, id string) (*models.Roadmap, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, selectSQL, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRoadmapNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load roadmap %s: %w", id, err)
	}

	var roadmap models.Roadmap
	if err := json.Unmarshal(payload, &roadmap); err != nil {
		return nil, fmt.Errorf("decode roadmap %s: %w", id, err)
	}
	return &roadmap, nil
}
