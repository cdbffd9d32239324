// Package repository provides pgx-backed persistence for the leads module.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound       = errors.New("lead not found")
	ErrAlreadyClaimed = errors.New("lead already claimed")
)

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type Lead struct {
	ID         uuid.UUID
	LeadCode   string
	Name       string
	Email      string
	Phone      string
	Experience *string
	Source     string
	Status     string
	DealValue  float64
	AssignedTo *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

const leadColumns = `id, lead_id, name, email, phone, experience, lead_source, status, deal_value, assigned_to, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var lead Lead
	err := row.Scan(
		&lead.ID, &lead.LeadCode, &lead.Name, &lead.Email, &lead.Phone, &lead.Experience,
		&lead.Source, &lead.Status, &lead.DealValue, &lead.AssignedTo,
		&lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

type CreateLeadParams struct {
	Name       string
	Email      string
	Phone      string
	Experience *string
	Source     string
	DealValue  float64
}

// Create inserts a fresh, unassigned lead. The human-readable lead code is
// generated by the database (generate_lead_id()).
func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	return scanLead(r.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO leads (name, email, phone, experience, lead_source, deal_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s
	`, leadColumns),
		params.Name, params.Email, params.Phone, params.Experience, params.Source, params.DealValue,
	))
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT %s FROM leads WHERE id = $1
	`, leadColumns), id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// claimQuery is the conditional claim update. The assigned_to IS NULL guard
// makes the claim atomic: of two racing claimants only one write matches.
const claimQuery = `
	UPDATE leads
	SET assigned_to = $2, status = 'in_progress', updated_at = now()
	WHERE id = $1 AND assigned_to IS NULL
	RETURNING ` + leadColumns

// Claim atomically assigns an unassigned lead to the given user and moves it
// to in_progress. Returns ErrAlreadyClaimed if another user holds the lead,
// ErrNotFound if the lead does not exist.
func (r *Repository) Claim(ctx context.Context, id uuid.UUID, userID uuid.UUID) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, claimQuery, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		// Zero rows matched: either the lead is gone or somebody else won.
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return Lead{}, getErr
		}
		return Lead{}, ErrAlreadyClaimed
	}
	return lead, err
}

// UpdateStatus sets the lead status. Transition and authorization checks
// belong to the service layer; this only touches status and updated_at.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Lead, error) {
	lead, err := scanLead(r.pool.QueryRow(ctx, fmt.Sprintf(`
		UPDATE leads SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING %s
	`, leadColumns), id, status))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type UpdateLeadParams struct {
	Name       *string
	Email      *string
	Phone      *string
	Experience *string
	DealValue  *float64
	Status     *string
}

// Update applies a partial update. The field set deliberately excludes
// assigned_to: assignment changes only through Claim.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateLeadParams) (Lead, error) {
	setClauses := []string{}
	args := []interface{}{}
	argIdx := 1

	fields := []struct {
		enabled bool
		column  string
		value   interface{}
	}{
		{params.Name != nil, "name", derefString(params.Name)},
		{params.Email != nil, "email", derefString(params.Email)},
		{params.Phone != nil, "phone", derefString(params.Phone)},
		{params.Experience != nil, "experience", derefString(params.Experience)},
		{params.DealValue != nil, "deal_value", derefFloat(params.DealValue)},
		{params.Status != nil, "status", derefString(params.Status)},
	}

	for _, field := range fields {
		if !field.enabled {
			continue
		}
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", field.column, argIdx))
		args = append(args, field.value)
		argIdx++
	}

	if len(setClauses) == 0 {
		return r.GetByID(ctx, id)
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE leads SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), argIdx, leadColumns)

	lead, err := scanLead(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListParams struct {
	// AssignedTo scopes the listing to a single owner (sales person views).
	// Nil means no ownership restriction (admin views).
	AssignedTo *uuid.UUID
	Status     *string
	Source     *string
	Search     string
	// OrderByUpdated orders by updated_at DESC instead of created_at DESC.
	OrderByUpdated bool
}

// List returns leads visible under the given scoping and filters.
func (r *Repository) List(ctx context.Context, params ListParams) ([]Lead, error) {
	whereClauses := []string{"true"}
	args := []interface{}{}
	argIdx := 1

	if params.AssignedTo != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("assigned_to = $%d", argIdx))
		args = append(args, *params.AssignedTo)
		argIdx++
	}
	if params.Status != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *params.Status)
		argIdx++
	}
	if params.Source != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("lead_source = $%d", argIdx))
		args = append(args, *params.Source)
		argIdx++
	}
	if params.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d OR lead_id ILIKE $%d)",
			argIdx, argIdx, argIdx, argIdx,
		))
		args = append(args, "%"+params.Search+"%")
		argIdx++
	}

	orderBy := "created_at DESC"
	if params.OrderByUpdated {
		orderBy = "updated_at DESC"
	}

	query := fmt.Sprintf(`
		SELECT %s FROM leads
		WHERE %s
		ORDER BY %s
	`, leadColumns, strings.Join(whereClauses, " AND "), orderBy)

	return r.queryLeads(ctx, query, args...)
}

// poolQuery backs the "fresh leads available" view: unclaimed leads any
// active sales person may see regardless of ownership.
const poolQuery = `
	SELECT ` + leadColumns + ` FROM leads
	WHERE status = 'fresh' AND assigned_to IS NULL
	ORDER BY created_at DESC
`

// ListPool returns the unassigned fresh-lead pool.
func (r *Repository) ListPool(ctx context.Context) ([]Lead, error) {
	return r.queryLeads(ctx, poolQuery)
}

func (r *Repository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return leads, nil
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func derefFloat(value *float64) float64 {
	if value == nil {
		return 0
	}
	return *value
}
