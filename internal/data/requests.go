package data

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Feature request statuses.
const (
	StatusPending     = "pending"
	StatusImplemented = "implemented"
	StatusRejected    = "rejected"
)

// FeatureRequest is a user command no registered agent could handle, logged
// for future development. Command is the normalized text the classifier saw;
// Context carries the user's original wording so triage can compare the two.
type FeatureRequest struct {
	ID        int64
	Command   string
	Intent    string
	Reason    string
	Context   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RequestSummary aggregates feature request counts by status.
type RequestSummary struct {
	Total       int
	Pending     int
	Implemented int
	Rejected    int
	Recent      []FeatureRequest
}

// LogRequest records an unhandled command as a pending feature request.
// reason says why routing failed; context is the original (pre-normalization)
// input.
func (s *Store) LogRequest(ctx context.Context, command, intent, reason, context string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO feature_requests (command, intent, reason, context, status) VALUES (?, ?, ?, ?, ?)`,
		command, intent, reason, context, StatusPending)
	if err != nil {
		return 0, fmt.Errorf("insert feature request: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("feature request id: %w", err)
	}
	return id, nil
}

// ListRequests returns feature requests, newest first. An empty status
// returns all of them.
func (s *Store) ListRequests(ctx context.Context, status string) ([]FeatureRequest, error) {
	query := `SELECT id, command, intent, reason, context, status, created_at, updated_at
		FROM feature_requests`
	args := []interface{}{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feature requests: %w", err)
	}
	defer rows.Close()

	var requests []FeatureRequest
	for rows.Next() {
		var r FeatureRequest
		if err := rows.Scan(&r.ID, &r.Command, &r.Intent, &r.Reason, &r.Context, &r.Status, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan feature request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

// PendingCount returns the number of pending feature requests.
func (s *Store) PendingCount(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feature_requests WHERE status = ?`, StatusPending).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count pending requests: %w", err)
	}
	return n, nil
}

// SetRequestStatus transitions a feature request to the given status.
// Returns sql.ErrNoRows if the id does not exist.
func (s *Store) SetRequestStatus(ctx context.Context, id int64, status string) error {
	switch status {
	case StatusPending, StatusImplemented, StatusRejected:
	default:
		return fmt.Errorf("invalid status %q", status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE feature_requests SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		status, id)
	if err != nil {
		return fmt.Errorf("update feature request: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// MarkImplemented marks a feature request as shipped.
func (s *Store) MarkImplemented(ctx context.Context, id int64) error {
	return s.SetRequestStatus(ctx, id, StatusImplemented)
}

// Summary returns aggregate counts plus the five most recent requests.
func (s *Store) Summary(ctx context.Context) (*RequestSummary, error) {
	sum := &RequestSummary{}
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM feature_requests GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("summarize feature requests: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		sum.Total += count
		switch status {
		case StatusPending:
			sum.Pending = count
		case StatusImplemented:
			sum.Implemented = count
		case StatusRejected:
			sum.Rejected = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recent, err := s.ListRequests(ctx, "")
	if err != nil {
		return nil, err
	}
	if len(recent) > 5 {
		recent = recent[:5]
	}
	sum.Recent = recent
	return sum, nil
}

// userMessages rotate so repeated misses don't read like a broken record.
var userMessages = []string{
	"This feature is not implemented yet. Your request has been logged for future development.",
	"I can't do that right now, but I've saved your request. We have %d features in the pipeline!",
	"This capability isn't available yet, but your feedback helps us improve! Request logged.",
	"That's a great idea! I've logged your request for the development team to review.",
}

// UserMessage returns the reply shown when a command cannot be routed,
// rotated by the current pending count.
func (s *Store) UserMessage(ctx context.Context) string {
	pending, err := s.PendingCount(ctx)
	if err != nil {
		return userMessages[0]
	}

	msg := userMessages[pending%len(userMessages)]
	if msg == userMessages[1] {
		return fmt.Sprintf(msg, pending)
	}
	return msg
}
