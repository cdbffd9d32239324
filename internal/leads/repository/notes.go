package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type LeadNote struct {
	ID         uuid.UUID
	LeadID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Note       string
	CreatedAt  time.Time
}

type CreateNoteParams struct {
	LeadID   uuid.UUID
	AuthorID uuid.UUID
	Note     string
}

// CreateNote appends a note to a lead. Notes are append-only; there is no
// update or delete.
func (r *Repository) CreateNote(ctx context.Context, params CreateNoteParams) (LeadNote, error) {
	var note LeadNote
	err := r.pool.QueryRow(ctx, `
		WITH inserted AS (
			INSERT INTO lead_notes (lead_id, user_id, note)
			VALUES ($1, $2, $3)
			RETURNING id, lead_id, user_id, note, created_at
		)
		SELECT inserted.id, inserted.lead_id, inserted.user_id, u.full_name, inserted.note, inserted.created_at
		FROM inserted
		JOIN users u ON u.id = inserted.user_id
	`, params.LeadID, params.AuthorID, params.Note).Scan(
		&note.ID, &note.LeadID, &note.AuthorID, &note.AuthorName, &note.Note, &note.CreatedAt,
	)
	return note, err
}

// ListNotes returns all notes for a lead, newest first.
func (r *Repository) ListNotes(ctx context.Context, leadID uuid.UUID) ([]LeadNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT n.id, n.lead_id, n.user_id, u.full_name, n.note, n.created_at
		FROM lead_notes n
		JOIN users u ON u.id = n.user_id
		WHERE n.lead_id = $1
		ORDER BY n.created_at DESC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]LeadNote, 0)
	for rows.Next() {
		var note LeadNote
		if err := rows.Scan(&note.ID, &note.LeadID, &note.AuthorID, &note.AuthorName, &note.Note, &note.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return notes, nil
}
