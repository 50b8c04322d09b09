package workouts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/weightrec/internal/telemetry/tracing"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS weightrec_workout
(
    id               SERIAL PRIMARY KEY,
    exercise         VARCHAR          NOT NULL,
    sets             INTEGER          NOT NULL,
    reps             INTEGER          NOT NULL,
    weight           DOUBLE PRECISION NOT NULL,
    experience_level VARCHAR          NOT NULL,
    previous_success BOOLEAN          NOT NULL,
    created_at       TIMESTAMPTZ      NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_weightrec_workout_created_at ON weightrec_workout USING btree (created_at);`

var ErrInvalidPage = errors.New("invalid page params")

// Repo stores the history of logged workouts in postgres.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) EnsureSchema(ctx context.Context) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.schema")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if _, err := r.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create workout table: %w", err)
	}
	return nil
}

func (r *Repo) Add(ctx context.Context, workout *Workout) (_ *Workout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if workout.CreatedAt.IsZero() {
		workout.CreatedAt = time.Now().UTC()
	}
	input := workout.Input()

	var id int
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO weightrec_workout
				(exercise, sets, reps, weight, experience_level, previous_success, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id;`,
		input.Exercise, input.Sets, input.Reps, input.Weight, input.ExperienceLevel, input.PreviousSuccess, workout.CreatedAt,
	).Scan(&id); err != nil {
		return nil, err
	}

	workout.ID = id
	workout.ExperienceLevel = input.ExperienceLevel
	return workout, nil
}

func (r *Repo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM weightrec_workout;`).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

// List returns up to limit workouts, newest first.
func (r *Repo) List(ctx context.Context, limit, offset int) ([]Workout, error) {
	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, exercise, sets, reps, weight, experience_level, previous_success, created_at
			FROM weightrec_workout
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2;`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2workouts(rows)
}

func (r *Repo) ListPage(ctx context.Context, page, size int) (_ []Workout, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.page")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if page < 1 || size < 1 {
		return nil, -1, fmt.Errorf("%w: page %d, size %d", ErrInvalidPage, page, size)
	}

	total, err = r.Count(ctx)
	if err != nil {
		return nil, -1, err
	}

	offset := (page - 1) * size
	if offset >= total {
		return []Workout{}, total, nil
	}

	log.Tracef("getting workouts, total count %d, limit %d, offset %d", total, size, offset)
	list, err := r.List(ctx, size, offset)
	if err != nil {
		return nil, -1, err
	}
	return list, total, nil
}

func rows2workouts(rows pgx.Rows) ([]Workout, error) {
	list := []Workout{}
	for rows.Next() {
		var w Workout
		if err := rows.Scan(
			&w.ID, &w.Exercise, &w.Sets, &w.Reps, &w.Weight, &w.ExperienceLevel, &w.PreviousSuccess, &w.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		list = append(list, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
