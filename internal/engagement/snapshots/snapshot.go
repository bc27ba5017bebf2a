package snapshots

import (
	"errors"
	"time"
)

var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	// ErrMemberGone marks an upsert that hit the member foreign key,
	// i.e. the member row was deleted while a recompute was running.
	ErrMemberGone = errors.New("member gone")
)

// PaymentStatus of a member at the time a snapshot was taken.
type PaymentStatus string

const (
	PaymentStatusCurrent PaymentStatus = "current"
	PaymentStatusOverdue PaymentStatus = "overdue"
)

// Snapshot is the persisted engagement state of a single member.
// One row per member, replaced on every recompute.
type Snapshot struct {
	MemberID         int           `json:"memberId"`
	OverallScore     float64       `json:"overallScore"`
	AttendanceScore  float64       `json:"attendanceScore"`
	WorkoutScore     float64       `json:"workoutScore"`
	PaymentScore     float64       `json:"paymentScore"`
	LastVisitDaysAgo int           `json:"lastVisitDaysAgo"`
	ChurnRisk        string        `json:"churnRisk"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	ComputedAt       time.Time     `json:"computedAt"`
}
