package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pathweaver/pathweaver/internal/pipeline"
)

// RunSummary is a compact view of a persisted run.
type RunSummary struct {
	ID           string
	CreatedAt    time.Time
	Status       pipeline.Status
	Iterations   int
	TotalMinutes float64
}

// RunRecord is a fully hydrated persisted run.
type RunRecord struct {
	RunSummary
	Sprints      []SprintRecord
	FinalMastery map[string]float64
}

// SprintRecord is one consumed sprint of a persisted run.
type SprintRecord struct {
	Seq        int
	Activities []string
	Minutes    float64
}

// RunRepo persists and queries pipeline run history.
type RunRepo interface {
	// Save stores a finished pipeline result.
	Save(ctx context.Context, res *pipeline.Result) error

	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]RunSummary, error)

	// Get returns a run with its sprints and final mastery.
	Get(ctx context.Context, id string) (*RunRecord, error)
}

type runRepo struct {
	db *sql.DB
}

func (r *runRepo) Save(ctx context.Context, res *pipeline.Result) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stalled := 0
	if res.Diagnostics.Stalled {
		stalled = 1
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, status, iterations, total_minutes, suboptimal_selections, stalled)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		res.RunID,
		time.Now().UTC().Format(time.RFC3339),
		string(res.Status),
		res.Diagnostics.Iterations,
		res.TotalDuration,
		res.Diagnostics.SuboptimalSelections,
		stalled,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, cs := range res.SprintsConsumed {
		acts, err := json.Marshal(cs.Activities)
		if err != nil {
			return fmt.Errorf("marshal sprint activities: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_sprints (run_id, seq, activities, minutes) VALUES (?, ?, ?, ?)`,
			res.RunID, cs.Index, string(acts), cs.Duration,
		)
		if err != nil {
			return fmt.Errorf("insert sprint %d: %w", cs.Index, err)
		}
	}

	for lessonID, m := range res.FinalMastery {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_mastery (run_id, lesson_id, mastery) VALUES (?, ?, ?)`,
			res.RunID, lessonID, m,
		)
		if err != nil {
			return fmt.Errorf("insert mastery %q: %w", lessonID, err)
		}
	}

	return tx.Commit()
}

func (r *runRepo) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, created_at, status, iterations, total_minutes
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		var created, status string
		if err := rows.Scan(&s.ID, &created, &status, &s.Iterations, &s.TotalMinutes); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.CreatedAt, _ = time.Parse(time.RFC3339, created)
		s.Status = pipeline.Status(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *runRepo) Get(ctx context.Context, id string) (*RunRecord, error) {
	rec := &RunRecord{FinalMastery: make(map[string]float64)}
	var created, status string
	err := r.db.QueryRowContext(ctx,
		`SELECT id, created_at, status, iterations, total_minutes FROM runs WHERE id = ?`, id,
	).Scan(&rec.ID, &created, &status, &rec.Iterations, &rec.TotalMinutes)
	if err != nil {
		return nil, fmt.Errorf("query run %q: %w", id, err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, created)
	rec.Status = pipeline.Status(status)

	rows, err := r.db.QueryContext(ctx,
		`SELECT seq, activities, minutes FROM run_sprints WHERE run_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query sprints: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var sr SprintRecord
		var acts string
		if err := rows.Scan(&sr.Seq, &acts, &sr.Minutes); err != nil {
			return nil, fmt.Errorf("scan sprint: %w", err)
		}
		if err := json.Unmarshal([]byte(acts), &sr.Activities); err != nil {
			return nil, fmt.Errorf("decode sprint activities: %w", err)
		}
		rec.Sprints = append(rec.Sprints, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	mrows, err := r.db.QueryContext(ctx,
		`SELECT lesson_id, mastery FROM run_mastery WHERE run_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var lessonID string
		var m float64
		if err := mrows.Scan(&lessonID, &m); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		rec.FinalMastery[lessonID] = m
	}
	return rec, mrows.Err()
}
