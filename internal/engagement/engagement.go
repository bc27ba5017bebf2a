package engagement

import (
	"context"
	"time"

	"github.com/flexclub/memberpulse/internal/engagement/snapshots"
	"github.com/flexclub/memberpulse/internal/members"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=engagement_test

type membersRepo interface {
	Get(ctx context.Context, id int) (*members.Member, error)
	IDs(ctx context.Context, tenantID int) ([]int, error)
	Count(ctx context.Context, tenantID int) (int, error)
}

type attendanceRepo interface {
	CountInRange(ctx context.Context, memberID int, from, to time.Time) (int, error)
	LastVisit(ctx context.Context, memberID int, asOf time.Time) (*time.Time, error)
	ActiveMembers(ctx context.Context, tenantID int, from, to time.Time) (int, error)
}

type paymentsRepo interface {
	CompletedCount(ctx context.Context, memberID int, from, to time.Time) (int, error)
	HasFailed(ctx context.Context, memberID int, asOf time.Time) (bool, error)
	TotalCompleted(ctx context.Context, memberID int, asOf time.Time) (float64, error)
	TenantRevenue(ctx context.Context, tenantID int, from, to time.Time) (float64, error)
}

type workoutsRepo interface {
	Count(ctx context.Context, memberID int, from, to time.Time) (int, error)
	PersonalBests(ctx context.Context, memberID int, asOf time.Time) (int, error)
}

type achievementsRepo interface {
	Count(ctx context.Context, memberID int, from, to time.Time) (int, error)
}

type snapshotsRepo interface {
	Upsert(ctx context.Context, s snapshots.Snapshot) error
	Get(ctx context.Context, memberID int) (*snapshots.Snapshot, error)
	AverageScore(ctx context.Context, tenantID int) (float64, error)
	RiskDistribution(ctx context.Context, tenantID int) (map[string]int, error)
}
