// Package service implements the lead lifecycle and assignment engine:
// creation, role-scoped listing, claiming, status transitions, detail edits
// and notes. Every operation takes an explicit actor; authorization goes
// through the single domain.CanMutate predicate.
package service

import (
	"context"
	"errors"
	"strings"

	"academy_crm_backend/internal/events"
	"academy_crm_backend/internal/leads/domain"
	"academy_crm_backend/internal/leads/repository"
	"academy_crm_backend/internal/leads/transport"
	"academy_crm_backend/platform/apperr"
	"academy_crm_backend/platform/logger"
	"academy_crm_backend/platform/phone"

	"github.com/google/uuid"
)

// Store defines the data access interface needed by the engine.
// This is a consumer-driven interface; the pgx repository satisfies it.
type Store interface {
	Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error)
	Claim(ctx context.Context, id uuid.UUID, userID uuid.UUID) (repository.Lead, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (repository.Lead, error)
	Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error)
	List(ctx context.Context, params repository.ListParams) ([]repository.Lead, error)
	ListPool(ctx context.Context) ([]repository.Lead, error)
	CreateNote(ctx context.Context, params repository.CreateNoteParams) (repository.LeadNote, error)
	ListNotes(ctx context.Context, leadID uuid.UUID) ([]repository.LeadNote, error)
}

type Service struct {
	store  Store
	bus    events.Bus
	phones *phone.Normalizer
	log    *logger.Logger
}

func New(store Store, bus events.Bus, phones *phone.Normalizer, log *logger.Logger) *Service {
	return &Service{store: store, bus: bus, phones: phones, log: log}
}

// Create validates and inserts a new lead in status fresh with no assignee.
// publicIntake marks leads arriving through the unauthenticated website form;
// those default to the website source and carry no deal value.
func (s *Service) Create(ctx context.Context, req transport.CreateLeadRequest, publicIntake bool) (transport.LeadResponse, error) {
	params, err := s.buildCreateParams(req, publicIntake)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	lead, err := s.store.Create(ctx, params)
	if err != nil {
		return transport.LeadResponse{}, apperr.Store("leads.create", err)
	}

	s.log.LeadEvent("created", lead.LeadCode, "")
	s.bus.Publish(ctx, events.LeadCreated{
		BaseEvent:    events.NewBaseEvent(),
		LeadID:       lead.ID,
		LeadCode:     lead.LeadCode,
		Name:         lead.Name,
		Source:       lead.Source,
		PublicIntake: publicIntake,
	})

	return toLeadResponse(lead), nil
}

// buildCreateParams applies the CreateLead validation rules. The service
// validates even though handlers also run struct validation, because CSV
// import rows enter here directly.
func (s *Service) buildCreateParams(req transport.CreateLeadRequest, publicIntake bool) (repository.CreateLeadParams, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	phoneNumber := s.phones.E164(req.Phone)

	if name == "" {
		return repository.CreateLeadParams{}, apperr.Validation("name is required")
	}
	if email == "" || !validEmail(email) {
		return repository.CreateLeadParams{}, apperr.Validation("a valid email is required")
	}
	if phoneNumber == "" {
		return repository.CreateLeadParams{}, apperr.Validation("phone is required")
	}

	source := domain.Source(strings.TrimSpace(req.LeadSource))
	if source == "" {
		if !publicIntake {
			return repository.CreateLeadParams{}, apperr.Validation("lead source is required")
		}
		source = domain.SourceWebsite
	}
	if !source.Valid() {
		return repository.CreateLeadParams{}, apperr.Validation("invalid lead source")
	}

	var dealValue float64
	if req.DealValue != nil {
		if *req.DealValue < 0 {
			return repository.CreateLeadParams{}, apperr.Validation("deal value must not be negative")
		}
		dealValue = *req.DealValue
	}

	var experience *string
	if req.Experience != nil {
		if trimmed := strings.TrimSpace(*req.Experience); trimmed != "" {
			experience = &trimmed
		}
	}

	return repository.CreateLeadParams{
		Name:       name,
		Email:      email,
		Phone:      phoneNumber,
		Experience: experience,
		Source:     string(source),
		DealValue:  dealValue,
	}, nil
}

// validEmail checks the basic local@domain shape.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.Count(email, "@") != 1 {
		return false
	}
	return !strings.ContainsAny(email, " \t")
}

// GetByID returns a single lead, restricted to what the actor may see.
func (s *Service) GetByID(ctx context.Context, actor domain.Actor, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.loadLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if !s.visible(actor, lead) {
		return transport.LeadResponse{}, apperr.NotFound("lead not found")
	}

	return toLeadResponse(lead), nil
}

// visible reports whether the actor may see an individual lead: admins see
// everything, a sales person their own leads plus the unassigned pool.
func (s *Service) visible(actor domain.Actor, lead repository.Lead) bool {
	if actor.IsAdmin() {
		return true
	}
	if lead.AssignedTo != nil && *lead.AssignedTo == actor.ID {
		return true
	}
	return lead.Status == string(domain.StatusFresh) && lead.AssignedTo == nil
}

// List returns leads visible to the actor with conjunctive filters applied.
// Admins see all leads; a sales person sees only leads assigned to them.
// Ordering is created_at descending.
func (s *Service) List(ctx context.Context, actor domain.Actor, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	params := listParams(req)
	if !actor.IsAdmin() {
		actorID := actor.ID
		params.AssignedTo = &actorID
	}

	return s.runList(ctx, params)
}

// MyLeads returns the actor's own leads ordered by most recent activity.
func (s *Service) MyLeads(ctx context.Context, actor domain.Actor, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
	actorID := actor.ID
	params := listParams(req)
	params.AssignedTo = &actorID
	params.OrderByUpdated = true

	return s.runList(ctx, params)
}

// Pool returns the unassigned fresh-lead pool, visible to every actor
// regardless of ownership.
func (s *Service) Pool(ctx context.Context) (transport.LeadListResponse, error) {
	leads, err := s.store.ListPool(ctx)
	if err != nil {
		return transport.LeadListResponse{}, apperr.Store("leads.pool", err)
	}
	return toLeadListResponse(leads), nil
}

func listParams(req transport.ListLeadsRequest) repository.ListParams {
	params := repository.ListParams{Search: strings.TrimSpace(req.Search)}
	if req.Status != "" {
		status := req.Status
		params.Status = &status
	}
	if req.Source != "" {
		source := req.Source
		params.Source = &source
	}
	return params
}

func (s *Service) runList(ctx context.Context, params repository.ListParams) (transport.LeadListResponse, error) {
	leads, err := s.store.List(ctx, params)
	if err != nil {
		return transport.LeadListResponse{}, apperr.Store("leads.list", err)
	}
	return toLeadListResponse(leads), nil
}

// Claim takes ownership of an unassigned lead for the actor, moving it to
// in_progress. The claim is a conditional write: if another actor got there
// first, the operation fails with a conflict instead of silently reassigning.
func (s *Service) Claim(ctx context.Context, actor domain.Actor, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.store.Claim(ctx, id, actor.ID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		case errors.Is(err, repository.ErrAlreadyClaimed):
			return transport.LeadResponse{}, apperr.Conflict("lead already claimed")
		default:
			return transport.LeadResponse{}, apperr.Store("leads.claim", err)
		}
	}

	s.log.LeadEvent("claimed", lead.LeadCode, actor.ID.String())
	s.bus.Publish(ctx, events.LeadClaimed{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		LeadCode:  lead.LeadCode,
		ClaimedBy: actor.ID,
	})

	return toLeadResponse(lead), nil
}

// UpdateStatus moves a claimed lead between in_progress, closed and lost.
// Only an admin or the current assignee may change the status; transitions
// back to fresh are never permitted.
func (s *Service) UpdateStatus(ctx context.Context, actor domain.Actor, id uuid.UUID, req transport.UpdateLeadStatusRequest) (transport.LeadResponse, error) {
	newStatus := domain.Status(req.Status)
	if !newStatus.Valid() || newStatus == domain.StatusFresh {
		return transport.LeadResponse{}, apperr.Validation("status must be one of in_progress, closed, lost")
	}

	lead, err := s.loadLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if !domain.CanMutate(actor, lead.AssignedTo) {
		return transport.LeadResponse{}, apperr.Forbidden("only an admin or the assigned sales person may update this lead")
	}

	// An unassigned lead is fresh and leaves that state only through Claim,
	// which assigns it in the same write.
	if lead.AssignedTo == nil {
		return transport.LeadResponse{}, apperr.Validation("an unclaimed lead's status can only change through claiming")
	}

	oldStatus := domain.Status(lead.Status)
	if !domain.CanTransition(oldStatus, newStatus) {
		return transport.LeadResponse{}, apperr.Validation("invalid status transition from " + lead.Status)
	}

	updated, err := s.store.UpdateStatus(ctx, id, string(newStatus))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Store("leads.update_status", err)
	}

	s.log.LeadEvent("status_changed", updated.LeadCode, actor.ID.String())
	s.bus.Publish(ctx, events.LeadStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    updated.ID,
		LeadCode:  updated.LeadCode,
		OldStatus: string(oldStatus),
		NewStatus: string(newStatus),
		DealValue: updated.DealValue,
		ActorID:   actor.ID,
	})

	return toLeadResponse(updated), nil
}

// UpdateDetails applies a partial edit to a lead's contact fields, deal value
// and status. Assignment is not part of the accepted field set; ownership
// changes only through Claim.
func (s *Service) UpdateDetails(ctx context.Context, actor domain.Actor, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.loadLead(ctx, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}

	if !domain.CanMutate(actor, lead.AssignedTo) {
		return transport.LeadResponse{}, apperr.Forbidden("only an admin or the assigned sales person may update this lead")
	}

	params := repository.UpdateLeadParams{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return transport.LeadResponse{}, apperr.Validation("name must not be empty")
		}
		params.Name = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if !validEmail(email) {
			return transport.LeadResponse{}, apperr.Validation("a valid email is required")
		}
		params.Email = &email
	}
	if req.Phone != nil {
		normalized := s.phones.E164(*req.Phone)
		if normalized == "" {
			return transport.LeadResponse{}, apperr.Validation("phone must not be empty")
		}
		params.Phone = &normalized
	}
	if req.Experience != nil {
		experience := strings.TrimSpace(*req.Experience)
		params.Experience = &experience
	}
	if req.DealValue != nil {
		if *req.DealValue < 0 {
			return transport.LeadResponse{}, apperr.Validation("deal value must not be negative")
		}
		params.DealValue = req.DealValue
	}
	if req.Status != nil {
		newStatus := domain.Status(*req.Status)
		if !newStatus.Valid() || newStatus == domain.StatusFresh {
			return transport.LeadResponse{}, apperr.Validation("status must be one of in_progress, closed, lost")
		}
		if lead.AssignedTo == nil {
			return transport.LeadResponse{}, apperr.Validation("an unclaimed lead's status can only change through claiming")
		}
		status := string(newStatus)
		params.Status = &status
	}

	updated, err := s.store.Update(ctx, id, params)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return transport.LeadResponse{}, apperr.NotFound("lead not found")
		}
		return transport.LeadResponse{}, apperr.Store("leads.update", err)
	}

	return toLeadResponse(updated), nil
}

// AddNote appends a note to a lead. Notes are append-only and never
// deduplicated: adding the same text twice produces two notes.
func (s *Service) AddNote(ctx context.Context, actor domain.Actor, leadID uuid.UUID, req transport.CreateLeadNoteRequest) (transport.LeadNoteResponse, error) {
	text := strings.TrimSpace(req.Note)
	if text == "" {
		return transport.LeadNoteResponse{}, apperr.Validation("note must not be empty")
	}

	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return transport.LeadNoteResponse{}, err
	}

	if !domain.CanMutate(actor, lead.AssignedTo) {
		return transport.LeadNoteResponse{}, apperr.Forbidden("only an admin or the assigned sales person may add notes")
	}

	note, err := s.store.CreateNote(ctx, repository.CreateNoteParams{
		LeadID:   leadID,
		AuthorID: actor.ID,
		Note:     text,
	})
	if err != nil {
		return transport.LeadNoteResponse{}, apperr.Store("leads.add_note", err)
	}

	return toLeadNoteResponse(note), nil
}

// ListNotes returns all notes on a lead the actor may mutate.
func (s *Service) ListNotes(ctx context.Context, actor domain.Actor, leadID uuid.UUID) (transport.LeadNotesResponse, error) {
	lead, err := s.loadLead(ctx, leadID)
	if err != nil {
		return transport.LeadNotesResponse{}, err
	}

	if !domain.CanMutate(actor, lead.AssignedTo) {
		return transport.LeadNotesResponse{}, apperr.Forbidden("only an admin or the assigned sales person may view notes")
	}

	notes, err := s.store.ListNotes(ctx, leadID)
	if err != nil {
		return transport.LeadNotesResponse{}, apperr.Store("leads.list_notes", err)
	}

	items := make([]transport.LeadNoteResponse, len(notes))
	for i, note := range notes {
		items[i] = toLeadNoteResponse(note)
	}

	return transport.LeadNotesResponse{Items: items}, nil
}

func (s *Service) loadLead(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, apperr.NotFound("lead not found")
		}
		return repository.Lead{}, apperr.Store("leads.get", err)
	}
	return lead, nil
}

func toLeadResponse(lead repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:         lead.ID,
		LeadID:     lead.LeadCode,
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Experience: lead.Experience,
		LeadSource: lead.Source,
		Status:     lead.Status,
		DealValue:  lead.DealValue,
		AssignedTo: lead.AssignedTo,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
}

func toLeadListResponse(leads []repository.Lead) transport.LeadListResponse {
	items := make([]transport.LeadResponse, len(leads))
	for i, lead := range leads {
		items[i] = toLeadResponse(lead)
	}
	return transport.LeadListResponse{Items: items, Total: len(items)}
}

func toLeadNoteResponse(note repository.LeadNote) transport.LeadNoteResponse {
	return transport.LeadNoteResponse{
		ID:         note.ID,
		LeadID:     note.LeadID,
		AuthorID:   note.AuthorID,
		AuthorName: note.AuthorName,
		Note:       note.Note,
		CreatedAt:  note.CreatedAt,
	}
}
