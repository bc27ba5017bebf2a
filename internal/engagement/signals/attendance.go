package signals

import (
	"context"
	"time"

	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// AttendanceRepo reads gym check-in events.
type AttendanceRepo struct {
	db *pgxpool.Pool
}

func NewAttendanceRepo(db *pgxpool.Pool) *AttendanceRepo {
	return &AttendanceRepo{
		db: db,
	}
}

// CountInRange returns the number of check-ins for a member with a
// visit date in [from, to].
func (r *AttendanceRepo) CountInRange(ctx context.Context, memberID int, from, to time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.attendance.countInRange")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var count int
	err = r.db.
		QueryRow(ctx, `
			SELECT COUNT(*) FROM attendance
			WHERE member_id = $1 AND date >= $2::date AND date <= $3::date;`,
			memberID, from, to,
		).
		Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// LastVisit returns the date of the most recent check-in at or before
// asOf, or nil when the member has never checked in.
func (r *AttendanceRepo) LastVisit(ctx context.Context, memberID int, asOf time.Time) (_ *time.Time, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.attendance.lastVisit")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var lastVisit time.Time
	err = r.db.
		QueryRow(ctx, `
			SELECT date FROM attendance
			WHERE member_id = $1 AND date <= $2::date
			ORDER BY date DESC
			LIMIT 1;`,
			memberID, asOf,
		).
		Scan(&lastVisit)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &lastVisit, nil
}

// ActiveMembers returns the number of distinct members of the tenant
// with at least one check-in dated within [from, to].
func (r *AttendanceRepo) ActiveMembers(ctx context.Context, tenantID int, from, to time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.attendance.activeMembers")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	var count int
	err = r.db.
		QueryRow(ctx, `
			SELECT COUNT(DISTINCT a.member_id)
			FROM attendance a
			INNER JOIN member m ON m.id = a.member_id
			WHERE m.tenant_id = $1 AND a.date >= $2::date AND a.date <= $3::date;`,
			tenantID, from, to,
		).
		Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}
