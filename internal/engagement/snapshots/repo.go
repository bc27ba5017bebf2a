package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/flexclub/memberpulse/internal/telemetry/tracing"
	"github.com/flexclub/memberpulse/pkg"

	"github.com/coocood/freecache"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cacheSizeBytes     = 10 * 1024 * 1024
	cacheExpireSeconds = 60
	cacheKeyFormat     = "snapshot::%d"
)

// Repo persists engagement snapshots, one row per member. Reads go
// through a small in-process cache since the admin dashboard polls
// the same members repeatedly between recompute runs.
type Repo struct {
	db    *pgxpool.Pool
	cache *freecache.Cache
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db:    db,
		cache: freecache.NewCache(cacheSizeBytes),
	}
}

func cacheKey(memberID int) []byte {
	return []byte(fmt.Sprintf(cacheKeyFormat, memberID))
}

// Upsert inserts or replaces the snapshot row for s.MemberID.
func (r *Repo) Upsert(ctx context.Context, s Snapshot) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.snapshots.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", s.MemberID))

	_, err = r.db.Exec(ctx, `
		INSERT INTO engagement_snapshot (
			member_id, overall_score, attendance_score, workout_score,
			payment_score, last_visit_days_ago, churn_risk, payment_status, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (member_id) DO UPDATE SET
			overall_score = EXCLUDED.overall_score,
			attendance_score = EXCLUDED.attendance_score,
			workout_score = EXCLUDED.workout_score,
			payment_score = EXCLUDED.payment_score,
			last_visit_days_ago = EXCLUDED.last_visit_days_ago,
			churn_risk = EXCLUDED.churn_risk,
			payment_status = EXCLUDED.payment_status,
			computed_at = EXCLUDED.computed_at;`,
		s.MemberID, s.OverallScore, s.AttendanceScore, s.WorkoutScore,
		s.PaymentScore, s.LastVisitDaysAgo, s.ChurnRisk, s.PaymentStatus, s.ComputedAt,
	)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return fmt.Errorf("%w: member %d", ErrMemberGone, s.MemberID)
		}
		return err
	}

	r.cache.Del(cacheKey(s.MemberID))
	return nil
}

// Get returns the stored snapshot for a member.
func (r *Repo) Get(ctx context.Context, memberID int) (_ *Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.snapshots.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("member_id", memberID))

	if cached, err := r.cache.Get(cacheKey(memberID)); err == nil {
		var s Snapshot
		if err := json.Unmarshal(cached, &s); err == nil {
			span.SetAttributes(attribute.Bool("cache_hit", true))
			return &s, nil
		}
		r.cache.Del(cacheKey(memberID))
	}

	s := &Snapshot{}
	err = r.db.
		QueryRow(ctx, `
			SELECT
				member_id, overall_score, attendance_score, workout_score,
				payment_score, last_visit_days_ago, churn_risk, payment_status, computed_at
			FROM engagement_snapshot
			WHERE member_id = $1;`, memberID).
		Scan(
			&s.MemberID, &s.OverallScore, &s.AttendanceScore, &s.WorkoutScore,
			&s.PaymentScore, &s.LastVisitDaysAgo, &s.ChurnRisk, &s.PaymentStatus, &s.ComputedAt,
		)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, err
	}

	if sBytes, err := json.Marshal(s); err == nil {
		if err := r.cache.Set(cacheKey(memberID), sBytes, cacheExpireSeconds); err != nil {
			log.Tracef("snapshot cache set for member %d: %s", memberID, err)
		}
	}

	return s, nil
}

// AverageScore returns the mean overall score across the tenant's
// snapshots, or 0 when the tenant has none.
func (r *Repo) AverageScore(ctx context.Context, tenantID int) (_ float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.snapshots.averageScore")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	var avg float64
	err = r.db.
		QueryRow(ctx, `
			SELECT COALESCE(AVG(s.overall_score), 0)
			FROM engagement_snapshot s
			INNER JOIN member m ON m.id = s.member_id
			WHERE m.tenant_id = $1;`, tenantID).
		Scan(&avg)
	if err != nil {
		return 0, err
	}
	return avg, nil
}

// RiskDistribution returns a churn risk level -> member count map for
// the tenant. Levels with no members are absent from the map.
func (r *Repo) RiskDistribution(ctx context.Context, tenantID int) (_ map[string]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.snapshots.riskDistribution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("tenant_id", tenantID))

	rows, err := r.db.Query(ctx, `
		SELECT s.churn_risk, COUNT(*)
		FROM engagement_snapshot s
		INNER JOIN member m ON m.id = s.member_id
		WHERE m.tenant_id = $1
		GROUP BY s.churn_risk;`, tenantID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	distribution := make(map[string]int)
	for rows.Next() {
		var risk string
		var count int
		if err := rows.Scan(&risk, &count); err != nil {
			return nil, err
		}
		distribution[risk] = count
	}

	return distribution, nil
}
