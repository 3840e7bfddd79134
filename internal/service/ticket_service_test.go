package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/pengaduan-service/internal/domain"
	"github.com/spec-kit/pengaduan-service/internal/events"
	"github.com/spec-kit/pengaduan-service/internal/repository"
	apperrors "github.com/spec-kit/pengaduan-service/pkg/util"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = fmt.Sprintf("tkt-%d", r.seq)
	ticket.CreatedAt = time.Now().UTC()
	ticket.UpdatedAt = ticket.CreatedAt
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	if _, ok := r.tickets[ticket.ID]; !ok {
		return apperrors.NewNotFound("ticket", nil)
	}
	clone := *ticket
	r.tickets[ticket.ID] = &clone
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, apperrors.NewNotFound("ticket", nil)
	}
	clone := *ticket
	return &clone, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			clone := *ticket
			return &clone, nil
		}
	}
	return nil, apperrors.NewNotFound("ticket", nil)
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, _ repository.TicketFilter) ([]domain.Ticket, error) {
	result := make([]domain.Ticket, 0, len(r.tickets))
	for _, ticket := range r.tickets {
		result = append(result, *ticket)
	}
	return result, nil
}

func (r *fakeTicketRepo) CountCreatedOn(_ context.Context, _ time.Time) (int64, error) {
	return int64(len(r.tickets)), nil
}

type fakeResponseRepo struct {
	responses []domain.TicketResponse
}

func (r *fakeResponseRepo) Create(_ context.Context, response *domain.TicketResponse) error {
	response.ID = fmt.Sprintf("resp-%d", len(r.responses)+1)
	response.CreatedAt = time.Now().UTC()
	r.responses = append(r.responses, *response)
	return nil
}

func (r *fakeResponseRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketResponse, error) {
	var result []domain.TicketResponse
	for _, response := range r.responses {
		if response.TicketID == ticketID {
			result = append(result, response)
		}
	}
	return result, nil
}

type fakeEscalationRepo struct {
	escalations []domain.TicketEscalation
}

func (r *fakeEscalationRepo) Create(_ context.Context, escalation *domain.TicketEscalation) error {
	escalation.ID = fmt.Sprintf("esc-%d", len(r.escalations)+1)
	escalation.EscalatedAt = time.Now().UTC()
	r.escalations = append(r.escalations, *escalation)
	return nil
}

func (r *fakeEscalationRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketEscalation, error) {
	var result []domain.TicketEscalation
	for _, escalation := range r.escalations {
		if escalation.TicketID == ticketID {
			result = append(result, escalation)
		}
	}
	return result, nil
}

type fakeStatusLogRepo struct {
	entries []domain.TicketStatusLog
}

func (r *fakeStatusLogRepo) Create(_ context.Context, entry *domain.TicketStatusLog) error {
	entry.ID = fmt.Sprintf("log-%d", len(r.entries)+1)
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeStatusLogRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.TicketStatusLog, error) {
	var result []domain.TicketStatusLog
	for _, entry := range r.entries {
		if entry.TicketID == ticketID {
			result = append(result, entry)
		}
	}
	return result, nil
}

type fakeReferenceRepo struct {
	units      map[string]*domain.Unit
	categories map[string]*domain.ServiceCategory
}

func (r *fakeReferenceRepo) GetUnitByID(_ context.Context, id string) (*domain.Unit, error) {
	unit, ok := r.units[id]
	if !ok {
		return nil, apperrors.NewNotFound("unit", nil)
	}
	return unit, nil
}

func (r *fakeReferenceRepo) ListActiveUnits(_ context.Context) ([]domain.Unit, error) {
	var result []domain.Unit
	for _, unit := range r.units {
		if unit.IsActive {
			result = append(result, *unit)
		}
	}
	return result, nil
}

func (r *fakeReferenceRepo) GetCategoryByID(_ context.Context, id string) (*domain.ServiceCategory, error) {
	category, ok := r.categories[id]
	if !ok {
		return nil, apperrors.NewNotFound("category", nil)
	}
	return category, nil
}

func (r *fakeReferenceRepo) ListActiveCategories(_ context.Context) ([]domain.ServiceCategory, error) {
	var result []domain.ServiceCategory
	for _, category := range r.categories {
		if category.IsActive {
			result = append(result, *category)
		}
	}
	return result, nil
}

type fakeStaffRepo struct {
	members map[string]*domain.StaffMember
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	member, ok := r.members[id]
	if !ok {
		return nil, apperrors.NewNotFound("staff member", nil)
	}
	return member, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, member := range r.members {
		if member.Email == email {
			return member, nil
		}
	}
	return nil, apperrors.NewNotFound("staff member", nil)
}

func (r *fakeStaffRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	member, ok := r.members[id]
	if !ok {
		return apperrors.NewNotFound("staff member", nil)
	}
	member.PasswordHash = passwordHash
	return nil
}

type fakeNumberGen struct {
	n int
}

func (g *fakeNumberGen) Next(_ context.Context, now time.Time) string {
	g.n++
	return fmt.Sprintf("ADU-%s-%04d", now.UTC().Format("20060102"), g.n)
}

type capturingDispatcher struct {
	events []events.Event
}

func (d *capturingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.events = append(d.events, event)
	return nil
}

func (d *capturingDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

type ticketFixture struct {
	svc         *TicketService
	tickets     *fakeTicketRepo
	responses   *fakeResponseRepo
	escalations *fakeEscalationRepo
	statusLogs  *fakeStatusLogRepo
	staff       *fakeStaffRepo
	dispatcher  *capturingDispatcher
	now         time.Time
}

func newTicketFixture(t *testing.T) *ticketFixture {
	t.Helper()
	f := &ticketFixture{
		tickets:     newFakeTicketRepo(),
		responses:   &fakeResponseRepo{},
		escalations: &fakeEscalationRepo{},
		statusLogs:  &fakeStatusLogRepo{},
		staff:       &fakeStaffRepo{members: map[string]*domain.StaffMember{}},
		dispatcher:  &capturingDispatcher{},
		now:         time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
	reference := &fakeReferenceRepo{
		units: map[string]*domain.Unit{
			"unit-igd":    {ID: "unit-igd", Name: "Instalasi Gawat Darurat", Code: "IGD", IsActive: true},
			"unit-closed": {ID: "unit-closed", Name: "Unit Lama", Code: "LAMA", IsActive: false},
		},
		categories: map[string]*domain.ServiceCategory{
			"cat-svc": {ID: "cat-svc", Name: "Pelayanan", Code: "SVC", IsActive: true},
		},
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:     f.tickets,
		ResponseRepo:   f.responses,
		EscalationRepo: f.escalations,
		StatusLogRepo:  f.statusLogs,
		ReferenceRepo:  reference,
		StaffRepo:      f.staff,
		Numbers:        &fakeNumberGen{},
		Dispatcher:     f.dispatcher,
		SLAWindow:      24 * time.Hour,
		Now:            func() time.Time { return f.now },
	})
	return f
}

func (f *ticketFixture) submit(t *testing.T, input SubmitInput) *domain.Ticket {
	t.Helper()
	if input.UnitID == "" {
		input.UnitID = "unit-igd"
	}
	if input.Title == "" {
		input.Title = "Antrean farmasi lama"
	}
	if input.Description == "" {
		input.Description = "Menunggu lebih dari dua jam di loket farmasi"
	}
	if input.Submitter == nil && !input.Anonymous {
		input.Submitter = &domain.SubmitterContact{Name: "Budi Santoso", Email: "budi@example.com"}
	}
	ticket, err := f.svc.Submit(context.Background(), input)
	require.NoError(t, err)
	return ticket
}

func unitHead(id string) *domain.StaffMember {
	return &domain.StaffMember{ID: id, Role: domain.StaffRoleUnitHead, Active: true}
}

func TestSubmitSetsNumberStatusAndDeadline(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})

	assert.Equal(t, "ADU-20250110-0001", ticket.TicketNumber)
	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	require.NotNil(t, ticket.SLADeadline)
	assert.Equal(t, f.now.Add(24*time.Hour), *ticket.SLADeadline)
	assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)

	require.Len(t, f.dispatcher.events, 1)
	assert.Equal(t, events.EventTicketCreated, f.dispatcher.events[0].Type)
}

func TestSubmitAnonymousDropsSubmitterContact(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{
		Type:      domain.TicketTypeComplaint,
		Anonymous: true,
		Submitter: &domain.SubmitterContact{Name: "Siti", Email: "siti@example.com", Phone: "0812"},
	})

	assert.True(t, ticket.IsAnonymous())
	assert.Nil(t, ticket.Submitter)

	stored, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Submitter, "no contact details may reach the store")
}

func TestSubmitValidation(t *testing.T) {
	f := newTicketFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, SubmitInput{UnitID: "unit-igd", Description: "x", Submitter: &domain.SubmitterContact{Name: "A"}})
	require.Error(t, err, "missing title")

	_, err = f.svc.Submit(ctx, SubmitInput{UnitID: "unit-closed", Title: "t", Description: "d", Submitter: &domain.SubmitterContact{Name: "A"}})
	require.Error(t, err, "inactive unit")

	_, err = f.svc.Submit(ctx, SubmitInput{UnitID: "unit-igd", Title: "t", Description: "d"})
	require.Error(t, err, "identity required unless anonymous")
}

func TestRespondStampsFirstResponseAndMovesToInProgress(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})

	staff := unitHead("staff-1")
	response, err := f.svc.Respond(context.Background(), staff, ticket.ID, RespondInput{Message: "Sedang kami periksa"})
	require.NoError(t, err)
	assert.Equal(t, domain.ResponseTypeComment, response.ResponseType)

	updated, err := f.tickets.GetByID(context.Background(), ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, updated.Status)
	require.NotNil(t, updated.FirstResponseAt)
	assert.Equal(t, f.now, *updated.FirstResponseAt)
	assert.Nil(t, updated.ResolvedAt)

	require.Len(t, f.statusLogs.entries, 1)
	assert.Equal(t, domain.TicketStatusOpen, f.statusLogs.entries[0].OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, f.statusLogs.entries[0].NewStatus)
}

func TestRespondMarkResolvedStampsResolvedAtOnce(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	staff := unitHead("staff-1")
	ctx := context.Background()

	_, err := f.svc.Respond(ctx, staff, ticket.ID, RespondInput{Message: "Selesai diperbaiki", MarkResolved: true, ResponseType: domain.ResponseTypeResolution})
	require.NoError(t, err)

	resolved, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)
	firstResolvedAt := *resolved.ResolvedAt

	// a later resolving response still appends but must not move the stamp
	f.now = f.now.Add(2 * time.Hour)
	_, err = f.svc.Respond(ctx, staff, ticket.ID, RespondInput{Message: "Konfirmasi tambahan", MarkResolved: true})
	require.NoError(t, err)

	after, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, after.ResolvedAt)
	assert.Equal(t, firstResolvedAt, *after.ResolvedAt)

	thread, err := f.responses.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, thread, 2)
}

func TestRespondRejectsClosedTicket(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	staff := unitHead("staff-1")
	ctx := context.Background()

	_, err := f.svc.Close(ctx, staff, ticket.ID, "Sudah ditindaklanjuti")
	require.NoError(t, err)

	_, err = f.svc.Respond(ctx, staff, ticket.ID, RespondInput{Message: "terlambat"})
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, "CONFLICT", domainErr.Code)
}

func TestEscalateCreatesSingleRecordAndFlipsStatus(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	staff := unitHead("staff-1")
	ctx := context.Background()

	high := domain.TicketPriorityHigh
	escalation, err := f.svc.Escalate(ctx, staff, ticket.ID, EscalateInput{
		ToRole:      domain.StaffRoleManager,
		Reason:      "Tidak ada respon dari unit",
		NewPriority: &high,
		CCUnits:     []string{"unit-far"},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleUnitHead, escalation.FromRole)
	assert.Equal(t, domain.StaffRoleManager, escalation.ToRole)

	updated, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusEscalated, updated.Status)
	assert.Equal(t, domain.TicketPriorityHigh, updated.Priority)
	require.NotNil(t, updated.EscalatedAt)

	records, err := f.escalations.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestEscalateUsesAssigneeRoleAsFromRole(t *testing.T) {
	f := newTicketFixture(t)
	f.staff.members["staff-mgr"] = &domain.StaffMember{ID: "staff-mgr", Role: domain.StaffRoleManager, Active: true}
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	ctx := context.Background()

	_, err := f.svc.Assign(ctx, unitHead("staff-1"), ticket.ID, "staff-mgr")
	require.NoError(t, err)

	escalation, err := f.svc.Escalate(ctx, unitHead("staff-1"), ticket.ID, EscalateInput{
		ToRole: domain.StaffRoleDirector,
		Reason: "Perlu keputusan direksi",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StaffRoleManager, escalation.FromRole)
}

func TestEscalateRejectsResolvedTicket(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	staff := unitHead("staff-1")
	ctx := context.Background()

	_, err := f.svc.Respond(ctx, staff, ticket.ID, RespondInput{Message: "Sudah selesai", MarkResolved: true})
	require.NoError(t, err)

	_, err = f.svc.Escalate(ctx, staff, ticket.ID, EscalateInput{
		ToRole: domain.StaffRoleManager,
		Reason: "Masih belum puas",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	records, err := f.escalations.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Empty(t, records)

	after, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusResolved, after.Status)
}

func TestEscalateRequiresReason(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})

	_, err := f.svc.Escalate(context.Background(), unitHead("staff-1"), ticket.ID, EscalateInput{ToRole: domain.StaffRoleManager, Reason: "  "})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestCloseAppendsPublicClosingResponse(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	ctx := context.Background()

	closed, err := f.svc.Close(ctx, unitHead("staff-1"), ticket.ID, "Keluhan sudah ditangani unit terkait")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusClosed, closed.Status)
	require.NotNil(t, closed.ResolvedAt)

	thread, err := f.responses.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, domain.ResponseTypeClosing, thread[0].ResponseType)
	assert.False(t, thread[0].IsInternal, "the closing note is visible to the submitter")
}

func TestClosePreservesExistingResolvedAt(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	staff := unitHead("staff-1")
	ctx := context.Background()

	_, err := f.svc.Respond(ctx, staff, ticket.ID, RespondInput{Message: "Selesai", MarkResolved: true})
	require.NoError(t, err)
	resolved, err := f.tickets.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	resolvedAt := *resolved.ResolvedAt

	f.now = f.now.Add(3 * time.Hour)
	closed, err := f.svc.Close(ctx, staff, ticket.ID, "Ditutup setelah konfirmasi")
	require.NoError(t, err)
	assert.Equal(t, resolvedAt, *closed.ResolvedAt)
}

func TestOverrideStatusBypassesTransitionGuards(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	admin := &domain.StaffMember{ID: "staff-adm", Role: domain.StaffRoleAdmin, Active: true}
	ctx := context.Background()

	_, err := f.svc.Close(ctx, admin, ticket.ID, "Ditutup")
	require.NoError(t, err)

	// closed back to in_progress is only possible through the override
	reopened, err := f.svc.OverrideStatus(ctx, admin, ticket.ID, domain.TicketStatusInProgress, "salah tutup")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, reopened.Status)

	last := f.statusLogs.entries[len(f.statusLogs.entries)-1]
	assert.Equal(t, domain.TicketStatusClosed, last.OldStatus)
	assert.Equal(t, domain.TicketStatusInProgress, last.NewStatus)
	assert.Equal(t, "salah tutup", last.Note)
}

func TestOverrideStatusRejectsUnknownStatus(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})

	_, err := f.svc.OverrideStatus(context.Background(), nil, ticket.ID, domain.TicketStatus("archived"), "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestAssignMovesOpenTicketToInProgress(t *testing.T) {
	f := newTicketFixture(t)
	f.staff.members["staff-2"] = &domain.StaffMember{ID: "staff-2", Role: domain.StaffRoleUnitHead, Active: true}
	f.staff.members["staff-off"] = &domain.StaffMember{ID: "staff-off", Role: domain.StaffRoleUnitHead, Active: false}
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	ctx := context.Background()

	assigned, err := f.svc.Assign(ctx, unitHead("staff-1"), ticket.ID, "staff-2")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusInProgress, assigned.Status)
	require.NotNil(t, assigned.AssignedTo)
	assert.Equal(t, "staff-2", *assigned.AssignedTo)

	_, err = f.svc.Assign(ctx, unitHead("staff-1"), ticket.ID, "staff-off")
	require.Error(t, err, "inactive staff cannot be assigned")
}

func TestTrackHidesInternalResponses(t *testing.T) {
	f := newTicketFixture(t)
	ticket := f.submit(t, SubmitInput{Type: domain.TicketTypeComplaint})
	staff := unitHead("staff-1")
	ctx := context.Background()

	_, err := f.svc.Respond(ctx, staff, ticket.ID, RespondInput{Message: "Catatan internal", IsInternal: true})
	require.NoError(t, err)
	_, err = f.svc.Respond(ctx, staff, ticket.ID, RespondInput{Message: "Kami sedang menindaklanjuti"})
	require.NoError(t, err)

	tracked, visible, err := f.svc.Track(ctx, ticket.TicketNumber)
	require.NoError(t, err)
	assert.Equal(t, ticket.ID, tracked.ID)
	require.Len(t, visible, 1)
	assert.Equal(t, "Kami sedang menindaklanjuti", visible[0].Message)
}
