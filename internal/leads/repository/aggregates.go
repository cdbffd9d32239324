package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ClosedValueByUser is the closed deal value a single user accumulated in a window.
type ClosedValueByUser struct {
	UserID uuid.UUID
	Total  float64
}

// closedValueWindow sums deal_value of closed leads whose closing write
// (the status update) landed inside [from, to).
const closedValueQuery = `
	SELECT COALESCE(SUM(deal_value), 0)
	FROM leads
	WHERE status = 'closed' AND assigned_to = $1
	  AND updated_at >= $2 AND updated_at < $3
`

// ClosedValue returns the summed deal value of leads the user closed within
// the window.
func (r *Repository) ClosedValue(ctx context.Context, userID uuid.UUID, from, to time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, closedValueQuery, userID, from, to).Scan(&total)
	return total, err
}

// ClosedValueByAssignee returns closed deal value grouped by assignee within
// the window (admin target dashboards).
func (r *Repository) ClosedValueByAssignee(ctx context.Context, from, to time.Time) ([]ClosedValueByUser, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT assigned_to, COALESCE(SUM(deal_value), 0)
		FROM leads
		WHERE status = 'closed' AND assigned_to IS NOT NULL
		  AND updated_at >= $1 AND updated_at < $2
		GROUP BY assigned_to
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]ClosedValueByUser, 0)
	for rows.Next() {
		var item ClosedValueByUser
		if err := rows.Scan(&item.UserID, &item.Total); err != nil {
			return nil, err
		}
		totals = append(totals, item)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return totals, nil
}
