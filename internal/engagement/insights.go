package engagement

import "time"

type AttendanceInsights struct {
	Visits30Days  int     `json:"visits30Days"`
	Visits90Days  int     `json:"visits90Days"`
	AvgPerWeek    float64 `json:"avgPerWeek"`
	LastVisitDays int     `json:"lastVisitDays"`
}

type WorkoutInsights struct {
	Workouts30Days int `json:"workouts30Days"`
	PersonalBests  int `json:"personalBests"`
}

// FinancialInsights reports the member's lifetime completed payments.
// TotalPaid and LifetimeValue are intentionally the same figure.
type FinancialInsights struct {
	TotalPaid     float64 `json:"totalPaid"`
	LifetimeValue float64 `json:"lifetimeValue"`
}

// MemberInsights is the read-facing summary for one member, assembled
// fresh on every call.
type MemberInsights struct {
	MemberID        int                `json:"memberId"`
	EngagementScore float64            `json:"engagementScore"`
	ChurnRisk       Risk               `json:"churnRisk"`
	Attendance      AttendanceInsights `json:"attendance"`
	Workouts        WorkoutInsights    `json:"workouts"`
	Financial       FinancialInsights  `json:"financial"`
	AsOf            time.Time          `json:"asOf"`
}

type GymMembers struct {
	Total         int     `json:"total"`
	Active30Days  int     `json:"active30Days"`
	RetentionRate float64 `json:"retentionRate"`
}

type GymRevenue struct {
	Last30Days   float64 `json:"last30Days"`
	AvgPerMember float64 `json:"avgPerMember"`
}

type GymEngagement struct {
	AvgScore         float64        `json:"avgScore"`
	RiskDistribution map[string]int `json:"riskDistribution"`
}

// GymAnalytics is the tenant-wide rollup, recomputed on every request
// and never persisted.
type GymAnalytics struct {
	TenantID   int           `json:"tenantId"`
	Members    GymMembers    `json:"members"`
	Revenue    GymRevenue    `json:"revenue"`
	Engagement GymEngagement `json:"engagement"`
	AsOf       time.Time     `json:"asOf"`
}
