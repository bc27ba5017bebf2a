package signals

import (
	"context"
	"time"

	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// AchievementsRepo reads earned member achievements.
type AchievementsRepo struct {
	db *pgxpool.Pool
}

func NewAchievementsRepo(db *pgxpool.Pool) *AchievementsRepo {
	return &AchievementsRepo{
		db: db,
	}
}

// Count returns the number of achievements earned in [from, to].
func (r *AchievementsRepo) Count(ctx context.Context, memberID int, from, to time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.achievements.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var count int
	err = r.db.
		QueryRow(ctx, `
			SELECT COUNT(*) FROM achievement
			WHERE member_id = $1 AND earned_at >= $2 AND earned_at <= $3;`,
			memberID, from, to,
		).
		Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}
