package signals

import (
	"context"
	"time"

	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// WorkoutsRepo reads logged workout sessions.
type WorkoutsRepo struct {
	db *pgxpool.Pool
}

func NewWorkoutsRepo(db *pgxpool.Pool) *WorkoutsRepo {
	return &WorkoutsRepo{
		db: db,
	}
}

// Count returns the number of workouts logged in [from, to].
func (r *WorkoutsRepo) Count(ctx context.Context, memberID int, from, to time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var count int
	err = r.db.
		QueryRow(ctx, `
			SELECT COUNT(*) FROM workout_log
			WHERE member_id = $1 AND logged_at >= $2 AND logged_at <= $3;`,
			memberID, from, to,
		).
		Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// PersonalBests returns the number of workouts up to asOf that were
// flagged as a personal best.
func (r *WorkoutsRepo) PersonalBests(ctx context.Context, memberID int, asOf time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.personalBests")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var count int
	err = r.db.
		QueryRow(ctx, `
			SELECT COUNT(*) FROM workout_log
			WHERE member_id = $1 AND is_personal_best AND logged_at <= $2;`,
			memberID, asOf,
		).
		Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}
