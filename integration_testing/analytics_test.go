package integration_testing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/flexclub/memberpulse/internal/engagement"
	"github.com/flexclub/memberpulse/internal/engagement/snapshots"
	"github.com/flexclub/memberpulse/internal/middleware"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) do(ctx context.Context, token, method, path string) (int, []byte) {
	t := s.T()
	t.Helper()

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "test")
	req.Header.Set(middleware.AuthTokenHeader, token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, resp.Body.Close())
	}()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBytes
}

// seedTenant writes two members for tenant 1, one fully engaged and one
// with no signals at all, plus a member of another tenant as noise.
func (s *IntegrationTestSuite) seedTenant(ctx context.Context, asOf time.Time) {
	t := s.T()
	t.Helper()

	for _, m := range []struct {
		id, tenantID int
	}{
		{id: 1, tenantID: 1},
		{id: 2, tenantID: 1},
		{id: 3, tenantID: 2},
	} {
		_, err := s.dbPool.Exec(ctx, `
			INSERT INTO member (id, tenant_id, name, created_at)
			VALUES ($1, $2, $3, NOW())`,
			m.id, m.tenantID, gofakeit.Name(),
		)
		require.NoError(t, err)
	}

	// member 1: 12 visits and 12 workouts in the window, one payment
	for day := 1; day <= 12; day++ {
		_, err := s.dbPool.Exec(ctx, `
			INSERT INTO attendance (member_id, date, status)
			VALUES (1, $1, 'present')`, asOf.AddDate(0, 0, -day))
		require.NoError(t, err)
		_, err = s.dbPool.Exec(ctx, `
			INSERT INTO workout_log (member_id, exercise_id, value, is_personal_best, logged_at)
			VALUES (1, 1, $1, $2, $3)`,
			gofakeit.Float64Range(20, 120), day == 1, asOf.AddDate(0, 0, -day),
		)
		require.NoError(t, err)
	}
	_, err := s.dbPool.Exec(ctx, `
		INSERT INTO subscription_payment (member_id, amount, status, payment_date)
		VALUES (1, 49.90, 'completed', $1)`, asOf.AddDate(0, 0, -3))
	require.NoError(t, err)
}

func (s *IntegrationTestSuite) TestAnalyticsEndToEnd() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	asOf := time.Now().UTC().Truncate(time.Second)
	asOfParam := asOf.Format(time.RFC3339)
	s.seedTenant(ctx, asOf)

	token := s.login(ctx)

	// engaged member scores 90 and is low risk
	status, body := s.do(ctx, token, "GET",
		fmt.Sprintf("/analytics/member/1/score?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	var scoreResp engagement.ScoreResponse
	require.NoError(t, json.Unmarshal(body, &scoreResp))
	assert.Equal(t, 30.0, scoreResp.Breakdown.Attendance)
	assert.Equal(t, 20.0, scoreResp.Breakdown.Payment)
	assert.Equal(t, 25.0, scoreResp.Breakdown.Workout)
	assert.Equal(t, 15.0, scoreResp.Breakdown.Recency)
	assert.Equal(t, 90.0, scoreResp.Breakdown.Total)

	status, body = s.do(ctx, token, "GET",
		fmt.Sprintf("/analytics/member/1/risk?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	var riskResp engagement.RiskResponse
	require.NoError(t, json.Unmarshal(body, &riskResp))
	assert.Equal(t, engagement.RiskLow, riskResp.ChurnRisk)

	// member with no signals scores 0 and is critical
	status, body = s.do(ctx, token, "GET",
		fmt.Sprintf("/analytics/member/2/score?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &scoreResp))
	assert.Equal(t, 0.0, scoreResp.Breakdown.Total)
	assert.Equal(t, 999, scoreResp.Breakdown.DaysSinceLastVisit)

	status, body = s.do(ctx, token, "GET",
		fmt.Sprintf("/analytics/member/2/risk?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &riskResp))
	assert.Equal(t, engagement.RiskCritical, riskResp.ChurnRisk)

	// unknown member
	status, _ = s.do(ctx, token, "GET", "/analytics/member/4242/score")
	assert.Equal(t, http.StatusNotFound, status)

	// insights
	status, body = s.do(ctx, token, "GET",
		fmt.Sprintf("/analytics/member/1/insights?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	var insights engagement.MemberInsights
	require.NoError(t, json.Unmarshal(body, &insights))
	assert.Equal(t, 90.0, insights.EngagementScore)
	assert.Equal(t, 12, insights.Attendance.Visits30Days)
	assert.Equal(t, 12, insights.Attendance.Visits90Days)
	assert.Equal(t, 2.8, insights.Attendance.AvgPerWeek)
	assert.Equal(t, 1, insights.Workouts.PersonalBests)
	assert.InDelta(t, 49.90, insights.Financial.TotalPaid, 0.001)
	assert.Equal(t, insights.Financial.TotalPaid, insights.Financial.LifetimeValue)

	// no snapshot before the first recompute
	status, _ = s.do(ctx, token, "GET", "/analytics/member/1/snapshot")
	assert.Equal(t, http.StatusNotFound, status)

	// batch recompute persists snapshots for the whole tenant
	status, body = s.do(ctx, token, "POST",
		fmt.Sprintf("/analytics/gym/1/recompute?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	var recomputeResp engagement.RecomputeResponse
	require.NoError(t, json.Unmarshal(body, &recomputeResp))
	assert.Equal(t, 2, recomputeResp.Processed)
	assert.Equal(t, 0, recomputeResp.Failed)

	status, body = s.do(ctx, token, "GET", "/analytics/member/1/snapshot")
	require.Equal(t, http.StatusOK, status)
	var snapshot snapshots.Snapshot
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, 90.0, snapshot.OverallScore)
	assert.Equal(t, "low", snapshot.ChurnRisk)
	assert.Equal(t, snapshots.PaymentStatusCurrent, snapshot.PaymentStatus)

	status, body = s.do(ctx, token, "GET", "/analytics/member/2/snapshot")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, 0.0, snapshot.OverallScore)
	assert.Equal(t, 999, snapshot.LastVisitDaysAgo)
	assert.Equal(t, "critical", snapshot.ChurnRisk)

	// rerunning with the same as_of changes nothing
	status, body = s.do(ctx, token, "POST",
		fmt.Sprintf("/analytics/gym/1/recompute?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &recomputeResp))
	assert.Equal(t, 2, recomputeResp.Processed)

	status, body = s.do(ctx, token, "GET", "/analytics/member/1/snapshot")
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &snapshot))
	assert.Equal(t, 90.0, snapshot.OverallScore)
	assert.Equal(t, "low", snapshot.ChurnRisk)
	assert.True(t, asOf.Equal(snapshot.ComputedAt))

	// gym wide rollup
	status, body = s.do(ctx, token, "GET",
		fmt.Sprintf("/analytics/gym/1?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	var analytics engagement.GymAnalytics
	require.NoError(t, json.Unmarshal(body, &analytics))
	assert.Equal(t, 2, analytics.Members.Total)
	assert.Equal(t, 1, analytics.Members.Active30Days)
	assert.Equal(t, 50.0, analytics.Members.RetentionRate)
	assert.InDelta(t, 49.90, analytics.Revenue.Last30Days, 0.001)
	assert.InDelta(t, 24.95, analytics.Revenue.AvgPerMember, 0.001)
	assert.Equal(t, 45.0, analytics.Engagement.AvgScore)
	assert.Equal(t, map[string]int{"low": 1, "critical": 1}, analytics.Engagement.RiskDistribution)

	// tenant with no members at all gets zeros, not errors
	status, body = s.do(ctx, token, "GET",
		fmt.Sprintf("/analytics/gym/77?as_of=%s", asOfParam))
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &analytics))
	assert.Equal(t, 0, analytics.Members.Total)
	assert.Equal(t, 0.0, analytics.Members.RetentionRate)
	assert.Equal(t, 0.0, analytics.Revenue.AvgPerMember)
}
