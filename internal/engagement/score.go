package engagement

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/flexclub/memberpulse/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

const (
	attendanceWeight  = 30.0
	paymentWeight     = 20.0
	workoutWeight     = 25.0
	recencyWeight     = 15.0
	achievementWeight = 10.0

	// normalizing baseline of expected gym visits per month
	expectedMonthlyVisits = 12
	pointsPerAchievement  = 2
	signalWindowDays      = 30

	// NoVisitSentinelDays marks a member without a single attendance
	// record, far beyond every recency threshold.
	NoVisitSentinelDays = 999
)

// Breakdown holds the five capped sub-scores and their sum for one
// member at one instant. Total is always within [0, 100].
type Breakdown struct {
	Attendance         float64 `json:"attendance"`
	Payment            float64 `json:"payment"`
	Workout            float64 `json:"workout"`
	Recency            float64 `json:"recency"`
	Achievement        float64 `json:"achievement"`
	Total              float64 `json:"total"`
	DaysSinceLastVisit int     `json:"daysSinceLastVisit"`
}

// Scorer computes engagement scores from raw behavioral signals.
// It never touches the wall clock, the caller supplies the instant
// treated as now.
type Scorer struct {
	attendance   attendanceRepo
	payments     paymentsRepo
	workouts     workoutsRepo
	achievements achievementsRepo
}

func NewScorer(
	attendance attendanceRepo,
	payments paymentsRepo,
	workouts workoutsRepo,
	achievements achievementsRepo,
) *Scorer {
	return &Scorer{
		attendance:   attendance,
		payments:     payments,
		workouts:     workouts,
		achievements: achievements,
	}
}

// ComputeBreakdown aggregates the member's signals over the trailing
// 30 day window ending at asOf into the five sub-scores.
func (s *Scorer) ComputeBreakdown(ctx context.Context, memberID int, asOf time.Time) (_ Breakdown, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "engagement.computeBreakdown")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	windowStart := asOf.AddDate(0, 0, -signalWindowDays)

	visits, err := s.attendance.CountInRange(ctx, memberID, windowStart, asOf)
	if err != nil {
		return Breakdown{}, fmt.Errorf("count attendance: %w", err)
	}

	payments, err := s.payments.CompletedCount(ctx, memberID, windowStart, asOf)
	if err != nil {
		return Breakdown{}, fmt.Errorf("count completed payments: %w", err)
	}

	workouts, err := s.workouts.Count(ctx, memberID, windowStart, asOf)
	if err != nil {
		return Breakdown{}, fmt.Errorf("count workouts: %w", err)
	}

	achievements, err := s.achievements.Count(ctx, memberID, windowStart, asOf)
	if err != nil {
		return Breakdown{}, fmt.Errorf("count achievements: %w", err)
	}

	daysSinceVisit, err := s.DaysSinceLastVisit(ctx, memberID, asOf)
	if err != nil {
		return Breakdown{}, fmt.Errorf("days since last visit: %w", err)
	}

	b := Breakdown{
		Attendance:         capped(float64(visits)/expectedMonthlyVisits*attendanceWeight, attendanceWeight),
		Payment:            capped(float64(payments)*paymentWeight, paymentWeight),
		Workout:            capped(float64(workouts)/expectedMonthlyVisits*workoutWeight, workoutWeight),
		Recency:            recencyPoints(daysSinceVisit),
		Achievement:        capped(float64(achievements*pointsPerAchievement), achievementWeight),
		DaysSinceLastVisit: daysSinceVisit,
	}
	b.Total = round2(b.Attendance + b.Payment + b.Workout + b.Recency + b.Achievement)

	span.SetAttributes(attribute.Float64("score", b.Total))

	return b, nil
}

// ComputeScore returns just the composite score in [0, 100].
func (s *Scorer) ComputeScore(ctx context.Context, memberID int, asOf time.Time) (float64, error) {
	b, err := s.ComputeBreakdown(ctx, memberID, asOf)
	if err != nil {
		return 0, err
	}
	return b.Total, nil
}

// DaysSinceLastVisit returns whole days between the member's most
// recent visit and asOf, or NoVisitSentinelDays for members who never
// visited.
func (s *Scorer) DaysSinceLastVisit(ctx context.Context, memberID int, asOf time.Time) (int, error) {
	lastVisit, err := s.attendance.LastVisit(ctx, memberID, asOf)
	if err != nil {
		return 0, err
	}
	if lastVisit == nil {
		return NoVisitSentinelDays, nil
	}
	return int(asOf.Sub(*lastVisit).Hours() / 24), nil
}

func recencyPoints(daysSinceVisit int) float64 {
	switch {
	case daysSinceVisit <= 3:
		return recencyWeight
	case daysSinceVisit <= 7:
		return 10
	case daysSinceVisit <= 14:
		return 5
	default:
		return 0
	}
}

func capped(score, weight float64) float64 {
	return math.Min(score, weight)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
