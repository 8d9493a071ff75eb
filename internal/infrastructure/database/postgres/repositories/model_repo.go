// Package repositories contains the persistence layer for universal models.
// Models are stored as JSONB documents keyed by model identifier; queries
// that only need counts read the summary columns instead of the document.
package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmundy42/cobrababel/internal/domain/model"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Querier is the subset of pgxpool.Pool the repository uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ModelSummary is one row of the model listing.
type ModelSummary struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	MetaboliteCount int       `json:"metabolite_count"`
	ReactionCount   int       `json:"reaction_count"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ModelRepository persists universal models.
type ModelRepository struct {
	db     Querier
	logger logging.Logger
}

// NewModelRepository builds a ModelRepository.
func NewModelRepository(db Querier, logger logging.Logger) *ModelRepository {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ModelRepository{db: db, logger: logger}
}

// Save upserts a model document.  runID may be empty when the model did not
// come from a build run.
func (r *ModelRepository) Save(ctx context.Context, m *model.UniversalModel, runID string) error {
	document, err := json.Marshal(m)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encoding model "+m.ID)
	}

	var runArg any
	if runID != "" {
		runArg = runID
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO universal_models (id, name, run_id, document, metabolite_count, reaction_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			run_id = EXCLUDED.run_id,
			document = EXCLUDED.document,
			metabolite_count = EXCLUDED.metabolite_count,
			reaction_count = EXCLUDED.reaction_count,
			updated_at = now()`,
		m.ID, m.Name, runArg, document, len(m.Metabolites), len(m.Reactions))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "saving model "+m.ID)
	}

	r.logger.Info("model saved",
		logging.String("model_id", m.ID),
		logging.Int("metabolites", len(m.Metabolites)),
		logging.Int("reactions", len(m.Reactions)),
	)
	return nil
}

// Get loads a model document by identifier.
func (r *ModelRepository) Get(ctx context.Context, id string) (*model.UniversalModel, error) {
	var document []byte
	err := r.db.QueryRow(ctx,
		`SELECT document FROM universal_models WHERE id = $1`, id).Scan(&document)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("model " + id + " not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "loading model "+id)
	}

	var m model.UniversalModel
	if err := json.Unmarshal(document, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "decoding model "+id)
	}
	m.Reindex()
	return &m, nil
}

// List returns summaries of every stored model, most recently updated first.
func (r *ModelRepository) List(ctx context.Context) ([]ModelSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, metabolite_count, reaction_count, updated_at
		FROM universal_models
		ORDER BY updated_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "listing models")
	}
	defer rows.Close()

	var out []ModelSummary
	for rows.Next() {
		var s ModelSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.MetaboliteCount, &s.ReactionCount, &s.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "scanning model summary")
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "listing models")
	}
	return out, nil
}

// Delete removes a stored model.
func (r *ModelRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM universal_models WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "deleting model "+id)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("model " + id + " not found")
	}
	return nil
}
