package signals

import (
	"context"
	"time"

	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// PaymentsRepo reads subscription payment records.
type PaymentsRepo struct {
	db *pgxpool.Pool
}

func NewPaymentsRepo(db *pgxpool.Pool) *PaymentsRepo {
	return &PaymentsRepo{
		db: db,
	}
}

// CompletedCount returns the number of completed payments in [from, to].
func (r *PaymentsRepo) CompletedCount(ctx context.Context, memberID int, from, to time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.payments.completedCount")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var count int
	err = r.db.
		QueryRow(ctx, `
			SELECT COUNT(*) FROM subscription_payment
			WHERE member_id = $1 AND status = 'completed'
				AND payment_date >= $2 AND payment_date <= $3;`,
			memberID, from, to,
		).
		Scan(&count)
	if err != nil {
		return -1, err
	}
	return count, nil
}

// HasFailed reports whether the member has any failed payment up to
// asOf, regardless of how long ago.
func (r *PaymentsRepo) HasFailed(ctx context.Context, memberID int, asOf time.Time) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.payments.hasFailed")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var exists bool
	err = r.db.
		QueryRow(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM subscription_payment
				WHERE member_id = $1 AND status = 'failed' AND payment_date <= $2
			);`,
			memberID, asOf,
		).
		Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// TotalCompleted returns the lifetime sum of completed payment amounts
// up to asOf.
func (r *PaymentsRepo) TotalCompleted(ctx context.Context, memberID int, asOf time.Time) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.payments.totalCompleted")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	var total float64
	err = r.db.
		QueryRow(ctx, `
			SELECT COALESCE(SUM(amount), 0) FROM subscription_payment
			WHERE member_id = $1 AND status = 'completed' AND payment_date <= $2;`,
			memberID, asOf,
		).
		Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

// TenantRevenue returns the sum of completed payment amounts across the
// whole tenant in [from, to].
func (r *PaymentsRepo) TenantRevenue(ctx context.Context, tenantID int, from, to time.Time) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.payments.tenantRevenue")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	var total float64
	err = r.db.
		QueryRow(ctx, `
			SELECT COALESCE(SUM(p.amount), 0)
			FROM subscription_payment p
			INNER JOIN member m ON m.id = p.member_id
			WHERE m.tenant_id = $1 AND p.status = 'completed'
				AND p.payment_date >= $2 AND p.payment_date <= $3;`,
			tenantID, from, to,
		).
		Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}
