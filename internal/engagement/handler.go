package engagement

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/flexclub/memberpulse/internal/engagement/snapshots"
	"github.com/flexclub/memberpulse/internal/members"
	"github.com/flexclub/memberpulse/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=engagement_test

type analyticsService interface {
	Score(ctx context.Context, memberID int, asOf time.Time) (Breakdown, error)
	Risk(ctx context.Context, memberID int, asOf time.Time) (Risk, error)
	MemberInsights(ctx context.Context, memberID int, asOf time.Time) (*MemberInsights, error)
	GymAnalytics(ctx context.Context, tenantID int, asOf time.Time) (*GymAnalytics, error)
	Snapshot(ctx context.Context, memberID int) (*snapshots.Snapshot, error)
	RecomputeAll(ctx context.Context, tenantID int, asOf time.Time) (int, error)
}

type Handler struct {
	service analyticsService
	// ability to inject the clock used when as_of is absent (for unit and dev testing)
	NowFunc func() time.Time
}

func NewHandler(service analyticsService) *Handler {
	return &Handler{
		service: service,
		NowFunc: time.Now,
	}
}

type ScoreResponse struct {
	MemberID  int       `json:"memberId"`
	Breakdown Breakdown `json:"breakdown"`
	AsOf      time.Time `json:"asOf"`
}

type RiskResponse struct {
	MemberID  int       `json:"memberId"`
	ChurnRisk Risk      `json:"churnRisk"`
	AsOf      time.Time `json:"asOf"`
}

type RecomputeResponse struct {
	TenantID  int       `json:"tenantId"`
	Processed int       `json:"processed"`
	Failed    int       `json:"failed"`
	AsOf      time.Time `json:"asOf"`
}

// asOf reads the optional as_of query parameter, falling back to the
// current instant. This boundary is the only place the wall clock
// enters the analytics path.
func (handler *Handler) asOf(r *http.Request) (time.Time, error) {
	asOfParam := r.URL.Query().Get("as_of")
	if asOfParam == "" {
		return handler.NowFunc(), nil
	}
	asOf, err := time.Parse(time.RFC3339, asOfParam)
	if err != nil {
		return time.Time{}, err
	}
	return asOf, nil
}

func pathID(r *http.Request, name string) (int, error) {
	vars := mux.Vars(r)
	return strconv.Atoi(vars[name])
}

func (handler *Handler) HandleMemberScore(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "error, member id invalid", http.StatusBadRequest)
		return
	}
	asOf, err := handler.asOf(r)
	if err != nil {
		http.Error(w, "error, as_of invalid", http.StatusBadRequest)
		return
	}

	breakdown, err := handler.service.Score(r.Context(), memberID, asOf)
	if err != nil {
		handler.writeServiceError(w, err, "get member score")
		return
	}

	handler.writeJSON(w, ScoreResponse{
		MemberID:  memberID,
		Breakdown: breakdown,
		AsOf:      asOf,
	})
}

func (handler *Handler) HandleMemberRisk(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "error, member id invalid", http.StatusBadRequest)
		return
	}
	asOf, err := handler.asOf(r)
	if err != nil {
		http.Error(w, "error, as_of invalid", http.StatusBadRequest)
		return
	}

	risk, err := handler.service.Risk(r.Context(), memberID, asOf)
	if err != nil {
		handler.writeServiceError(w, err, "get member risk")
		return
	}

	handler.writeJSON(w, RiskResponse{
		MemberID:  memberID,
		ChurnRisk: risk,
		AsOf:      asOf,
	})
}

func (handler *Handler) HandleMemberInsights(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "error, member id invalid", http.StatusBadRequest)
		return
	}
	asOf, err := handler.asOf(r)
	if err != nil {
		http.Error(w, "error, as_of invalid", http.StatusBadRequest)
		return
	}

	insights, err := handler.service.MemberInsights(r.Context(), memberID, asOf)
	if err != nil {
		handler.writeServiceError(w, err, "get member insights")
		return
	}

	handler.writeJSON(w, insights)
}

func (handler *Handler) HandleMemberSnapshot(w http.ResponseWriter, r *http.Request) {
	memberID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "error, member id invalid", http.StatusBadRequest)
		return
	}

	snapshot, err := handler.service.Snapshot(r.Context(), memberID)
	if err != nil {
		handler.writeServiceError(w, err, "get member snapshot")
		return
	}

	handler.writeJSON(w, snapshot)
}

func (handler *Handler) HandleGymAnalytics(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathID(r, "tenantId")
	if err != nil {
		http.Error(w, "error, tenant id invalid", http.StatusBadRequest)
		return
	}
	asOf, err := handler.asOf(r)
	if err != nil {
		http.Error(w, "error, as_of invalid", http.StatusBadRequest)
		return
	}

	analytics, err := handler.service.GymAnalytics(r.Context(), tenantID, asOf)
	if err != nil {
		handler.writeServiceError(w, err, "get gym analytics")
		return
	}

	handler.writeJSON(w, analytics)
}

func (handler *Handler) HandleRecompute(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathID(r, "tenantId")
	if err != nil {
		http.Error(w, "error, tenant id invalid", http.StatusBadRequest)
		return
	}
	asOf, err := handler.asOf(r)
	if err != nil {
		http.Error(w, "error, as_of invalid", http.StatusBadRequest)
		return
	}

	processed, err := handler.service.RecomputeAll(r.Context(), tenantID, asOf)
	if err != nil && processed == 0 {
		log.Errorf("recompute tenant %d: %s", tenantID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err != nil {
		log.Warnf("recompute tenant %d finished with errors: %s", tenantID, err)
	}

	handler.writeJSON(w, RecomputeResponse{
		TenantID:  tenantID,
		Processed: processed,
		Failed:    len(multierr.Errors(err)),
		AsOf:      asOf,
	})
}

func (handler *Handler) writeJSON(w http.ResponseWriter, payload any) {
	respBytes, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("marshal analytics response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respBytes, http.StatusOK)
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, members.ErrMemberNotFound):
		http.Error(w, "member not found", http.StatusNotFound)
	case errors.Is(err, snapshots.ErrSnapshotNotFound):
		http.Error(w, "snapshot not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %s", action, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
