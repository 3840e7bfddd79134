package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pengaduan-service/internal/config"
	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/repository"
)

func backendAgainst(t *testing.T, handler http.HandlerFunc) *BackendSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBackendSource(config.BackendConfig{BaseURL: srv.URL, TimeoutSeconds: 2}, zap.NewNop())
}

func TestBackendListForwardsFullFilter(t *testing.T) {
	var query url.Values
	source := backendAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	})

	unitID := "unit-1"
	categoryID := "cat-7"
	assignedTo := "staff-3"
	search := "jalan rusak"
	from := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)

	_, err := source.ListTickets(context.Background(), repository.TicketFilter{
		UnitID:      &unitID,
		CategoryID:  &categoryID,
		AssignedTo:  &assignedTo,
		Types:       []domain.TicketType{domain.TicketTypeComplaint, domain.TicketTypeRequest},
		Statuses:    []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusEscalated},
		Priorities:  []domain.TicketPriority{domain.TicketPriorityHigh},
		SearchTerm:  &search,
		CreatedFrom: &from,
		CreatedTo:   &to,
		Limit:       25,
		Offset:      50,
	})
	require.NoError(t, err)

	assert.Equal(t, "unit-1", query.Get("unit_id"))
	assert.Equal(t, "cat-7", query.Get("category_id"))
	assert.Equal(t, "staff-3", query.Get("assigned_to"))
	assert.Equal(t, "complaint,request", query.Get("type"))
	assert.Equal(t, "open,escalated", query.Get("status"))
	assert.Equal(t, "high", query.Get("priority"))
	assert.Equal(t, "jalan rusak", query.Get("search"))
	assert.Equal(t, "2025-03-01T00:00:00Z", query.Get("created_from"))
	assert.Equal(t, "2025-03-31T23:59:59Z", query.Get("created_to"))
	assert.Equal(t, "25", query.Get("limit"))
	assert.Equal(t, "50", query.Get("offset"))
}

func TestBackendListOmitsUnsetFilterParams(t *testing.T) {
	var query url.Values
	source := backendAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":[]}`))
	})

	_, err := source.ListTickets(context.Background(), repository.TicketFilter{})
	require.NoError(t, err)
	assert.Empty(t, query)
}

func TestBackendListReportsErrorStatus(t *testing.T) {
	source := backendAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := source.ListTickets(context.Background(), repository.TicketFilter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}
