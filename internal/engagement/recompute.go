package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/flexclub/memberpulse/internal/engagement/snapshots"
	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
)

// RecomputeAll recalculates and upserts the engagement snapshot of
// every member under the tenant, treating asOf as now. It returns the
// number of members successfully processed; one member failing does
// not abort the rest, their errors come back combined. Cancellation is
// checked between members, never mid-snapshot, so a stopped run leaves
// no torn rows behind.
//
// Re-running with the same asOf and unchanged signals overwrites every
// snapshot with identical values.
func (s *Service) RecomputeAll(ctx context.Context, tenantID int, asOf time.Time) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engagement.recomputeAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	s.metrics.CounterRecomputeRuns.Inc()
	start := time.Now()
	defer func() {
		s.metrics.HistRecomputeBatchDuration.Observe(time.Since(start).Seconds())
	}()

	memberIDs, err := s.members.IDs(ctx, tenantID)
	if err != nil {
		return 0, fmt.Errorf("list tenant members: %w", err)
	}

	var processed int
	var memberErrs error
	for _, memberID := range memberIDs {
		if err := ctx.Err(); err != nil {
			return processed, multierr.Append(memberErrs, err)
		}

		if err := s.recomputeMember(ctx, memberID, asOf); err != nil {
			log.Errorf("recompute member %d: %s", memberID, err)
			s.metrics.CounterRecomputeFailures.Inc()
			memberErrs = multierr.Append(memberErrs, fmt.Errorf("member %d: %w", memberID, err))
			continue
		}
		processed++
	}

	log.Debugf(
		"recompute for tenant %d done, %d of %d members processed",
		tenantID, processed, len(memberIDs),
	)
	span.SetAttributes(attribute.Int("processed", processed))

	return processed, memberErrs
}

func (s *Service) recomputeMember(ctx context.Context, memberID int, asOf time.Time) error {
	b, err := s.scorer.ComputeBreakdown(ctx, memberID, asOf)
	if err != nil {
		return err
	}

	hasFailedPayment, err := s.payments.HasFailed(ctx, memberID, asOf)
	if err != nil {
		return fmt.Errorf("check failed payments: %w", err)
	}

	paymentStatus := snapshots.PaymentStatusCurrent
	paymentScore := paymentWeight
	if hasFailedPayment {
		paymentStatus = snapshots.PaymentStatusOverdue
		paymentScore = 0
	}

	snapshot := snapshots.Snapshot{
		MemberID:         memberID,
		OverallScore:     b.Total,
		AttendanceScore:  b.Attendance,
		WorkoutScore:     b.Workout,
		PaymentScore:     paymentScore,
		LastVisitDaysAgo: b.DaysSinceLastVisit,
		ChurnRisk:        string(Classify(b.Total, b.DaysSinceLastVisit)),
		PaymentStatus:    paymentStatus,
		ComputedAt:       asOf,
	}

	if err := s.snapshots.Upsert(ctx, snapshot); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	s.metrics.CounterSnapshotUpserts.Inc()

	return nil
}
