package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filingcontrol/internal/assessment"
	"filingcontrol/internal/compliance"
	"filingcontrol/internal/engine"
	id "filingcontrol/pkg/domain"
	"filingcontrol/pkg/testutil"
)

type fixture struct {
	router   chi.Router
	userID   id.UserID
	entityID id.EntityID
	states   *compliance.InMemoryStateStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	entities := assessment.NewInMemoryEntityStore()
	states := compliance.NewInMemoryStateStore()

	userID := id.NewUserID()
	entity := &assessment.Entity{
		ID:         id.NewEntityID(),
		UserID:     userID,
		Name:       "Brightline Ventures LLC",
		EntityType: "llc",
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, entities.Save(ctx, entity))

	svc := compliance.NewService(states, entities, logger)
	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)

	return &fixture{router: r, userID: userID, entityID: entity.ID, states: states}
}

func (f *fixture) seedState(t *testing.T, obligationKey string, days int) {
	t.Helper()
	due := engine.DateOf(time.Now().UTC().AddDate(0, 0, days))
	_, err := f.states.Upsert(context.Background(), &compliance.State{
		EntityID:      f.entityID,
		ObligationKey: obligationKey,
		Form:          "5472",
		DueDate:       due,
		DaysRemaining: days,
		Status:        compliance.StatusFor(days),
		EngineVersion: engine.EngineVersion,
		ComputedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
}

type listResponse struct {
	ComplianceState []*StateResponse `json:"complianceState"`
}

func TestHandleList(t *testing.T) {
	f := newFixture(t)
	f.seedState(t, engine.KeyForm5472, 12)
	f.seedState(t, engine.KeyAnnualReport, 60)

	req := testutil.WithUserID(testutil.NewRequest(t, http.MethodGet, "/filingcontrol/compliance-state"), f.userID)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	resp := testutil.UnmarshalResponse[listResponse](t, rr)
	require.Len(t, resp.ComplianceState, 2)
	assert.Equal(t, engine.KeyForm5472, resp.ComplianceState[0].ObligationKey)
	assert.Equal(t, "due_soon", resp.ComplianceState[0].Status)
	assert.Equal(t, engine.KeyAnnualReport, resp.ComplianceState[1].ObligationKey)
}

func TestHandleList_EmptyIsNotNull(t *testing.T) {
	f := newFixture(t)

	req := testutil.WithUserID(testutil.NewRequest(t, http.MethodGet, "/filingcontrol/compliance-state"), f.userID)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Contains(t, rr.Body.String(), `"complianceState":[]`)
}

func TestHandleList_Unauthenticated(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/filingcontrol/compliance-state"))

	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
}

func TestHandleComplete(t *testing.T) {
	f := newFixture(t)
	f.seedState(t, engine.KeyForm5472, 12)

	body := map[string]string{
		"entityId":      f.entityID.String(),
		"obligationKey": engine.KeyForm5472,
	}
	req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/filingcontrol/compliance-state/complete", body), f.userID)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatus(t, rr, http.StatusNoContent)

	state, err := f.states.Get(context.Background(), f.entityID, engine.KeyForm5472)
	require.NoError(t, err)
	assert.Equal(t, compliance.StatusCompleted, state.Status)
}

func TestHandleComplete_OtherUsersEntity(t *testing.T) {
	f := newFixture(t)
	f.seedState(t, engine.KeyForm5472, 12)

	body := map[string]string{
		"entityId":      f.entityID.String(),
		"obligationKey": engine.KeyForm5472,
	}
	req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/filingcontrol/compliance-state/complete", body), id.NewUserID())
	rr := testutil.DoRequest(f.router, req)

	// Indistinguishable from a missing row.
	testutil.AssertStatusAndError(t, rr, http.StatusNotFound, "not_found")
}

func TestHandleComplete_MissingObligationKey(t *testing.T) {
	f := newFixture(t)

	body := map[string]string{"entityId": f.entityID.String()}
	req := testutil.WithUserID(testutil.NewJSONRequest(t, http.MethodPost, "/filingcontrol/compliance-state/complete", body), f.userID)
	rr := testutil.DoRequest(f.router, req)

	testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_failed")
}
