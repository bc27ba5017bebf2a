package engagement

import (
	"context"
	"fmt"
	"time"

	"github.com/flexclub/memberpulse/internal/engagement/snapshots"
	"github.com/flexclub/memberpulse/internal/telemetry/metrics"
	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const insightsWindow90Days = 90

// weeks in a 30 day window, used for the visits-per-week average
const weeksPer30Days = 4.3

// Service is the entry point for all engagement analytics. Every
// operation takes an explicit asOf instant so results are
// deterministic and replayable for any point in time.
type Service struct {
	scorer     *Scorer
	members    membersRepo
	attendance attendanceRepo
	payments   paymentsRepo
	workouts   workoutsRepo
	snapshots  snapshotsRepo
	metrics    *metrics.Manager
}

func NewService(
	scorer *Scorer,
	members membersRepo,
	attendance attendanceRepo,
	payments paymentsRepo,
	workouts workoutsRepo,
	snapshots snapshotsRepo,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		scorer:     scorer,
		members:    members,
		attendance: attendance,
		payments:   payments,
		workouts:   workouts,
		snapshots:  snapshots,
		metrics:    metricsManager,
	}
}

// Score computes the member's engagement score breakdown at asOf.
// Returns members.ErrMemberNotFound for unknown members.
func (s *Service) Score(ctx context.Context, memberID int, asOf time.Time) (_ Breakdown, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engagement.score")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	if _, err := s.members.Get(ctx, memberID); err != nil {
		return Breakdown{}, err
	}

	return s.scorer.ComputeBreakdown(ctx, memberID, asOf)
}

// Risk classifies the member's churn risk at asOf.
func (s *Service) Risk(ctx context.Context, memberID int, asOf time.Time) (_ Risk, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engagement.risk")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	b, err := s.Score(ctx, memberID, asOf)
	if err != nil {
		return "", err
	}

	return Classify(b.Total, b.DaysSinceLastVisit), nil
}

// MemberInsights assembles the full read-facing summary for a member.
func (s *Service) MemberInsights(ctx context.Context, memberID int, asOf time.Time) (_ *MemberInsights, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engagement.memberInsights")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	b, err := s.Score(ctx, memberID, asOf)
	if err != nil {
		return nil, err
	}

	windowStart30 := asOf.AddDate(0, 0, -signalWindowDays)
	windowStart90 := asOf.AddDate(0, 0, -insightsWindow90Days)

	visits30, err := s.attendance.CountInRange(ctx, memberID, windowStart30, asOf)
	if err != nil {
		return nil, fmt.Errorf("count attendance 30d: %w", err)
	}
	visits90, err := s.attendance.CountInRange(ctx, memberID, windowStart90, asOf)
	if err != nil {
		return nil, fmt.Errorf("count attendance 90d: %w", err)
	}

	workouts30, err := s.workouts.Count(ctx, memberID, windowStart30, asOf)
	if err != nil {
		return nil, fmt.Errorf("count workouts 30d: %w", err)
	}
	personalBests, err := s.workouts.PersonalBests(ctx, memberID, asOf)
	if err != nil {
		return nil, fmt.Errorf("count personal bests: %w", err)
	}

	totalPaid, err := s.payments.TotalCompleted(ctx, memberID, asOf)
	if err != nil {
		return nil, fmt.Errorf("total completed payments: %w", err)
	}

	return &MemberInsights{
		MemberID:        memberID,
		EngagementScore: b.Total,
		ChurnRisk:       Classify(b.Total, b.DaysSinceLastVisit),
		Attendance: AttendanceInsights{
			Visits30Days:  visits30,
			Visits90Days:  visits90,
			AvgPerWeek:    round1(float64(visits30) / weeksPer30Days),
			LastVisitDays: b.DaysSinceLastVisit,
		},
		Workouts: WorkoutInsights{
			Workouts30Days: workouts30,
			PersonalBests:  personalBests,
		},
		Financial: FinancialInsights{
			TotalPaid:     totalPaid,
			LifetimeValue: totalPaid,
		},
		AsOf: asOf,
	}, nil
}

// GymAnalytics computes the tenant-wide rollup at asOf. Ratios over an
// empty tenant come back as 0, never as an error.
func (s *Service) GymAnalytics(ctx context.Context, tenantID int, asOf time.Time) (_ *GymAnalytics, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engagement.gymAnalytics")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	windowStart := asOf.AddDate(0, 0, -signalWindowDays)

	total, err := s.members.Count(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("count members: %w", err)
	}

	active, err := s.attendance.ActiveMembers(ctx, tenantID, windowStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("count active members: %w", err)
	}

	revenue, err := s.payments.TenantRevenue(ctx, tenantID, windowStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("tenant revenue: %w", err)
	}

	avgScore, err := s.snapshots.AverageScore(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("average snapshot score: %w", err)
	}

	distribution, err := s.snapshots.RiskDistribution(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("risk distribution: %w", err)
	}

	var retentionRate, avgPerMember float64
	if total > 0 {
		retentionRate = round2(float64(active) / float64(total) * 100)
		avgPerMember = round2(revenue / float64(total))
	}

	return &GymAnalytics{
		TenantID: tenantID,
		Members: GymMembers{
			Total:         total,
			Active30Days:  active,
			RetentionRate: retentionRate,
		},
		Revenue: GymRevenue{
			Last30Days:   revenue,
			AvgPerMember: avgPerMember,
		},
		Engagement: GymEngagement{
			AvgScore:         round2(avgScore),
			RiskDistribution: distribution,
		},
		AsOf: asOf,
	}, nil
}

// Snapshot returns the latest persisted snapshot without recomputing
// anything.
func (s *Service) Snapshot(ctx context.Context, memberID int) (_ *snapshots.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engagement.snapshot")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	if _, err := s.members.Get(ctx, memberID); err != nil {
		return nil, err
	}

	return s.snapshots.Get(ctx, memberID)
}
