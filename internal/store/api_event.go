package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// ErrNotFound is returned when a row lookup by ID matches nothing.
var ErrNotFound = errors.New("not found")

// eventRepo implements EventRepo with ent's SQL builders and the global
// sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *eventSequence
}

var apiEventColumns = []string{
	"id", "sequence", "timestamp", "request_id", "method", "path",
	"status", "latency_ms", "success", "error_message",
}

func (r *eventRepo) AppendAPIRequest(ctx context.Context, data APIRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().Insert(APIRequestEventsTable.Name).
		Columns(apiEventColumns[1:]...).
		Values(seqNum, time.Now().UTC(), data.RequestID, data.Method, data.Path,
			data.Status, data.LatencyMs, data.Success, data.ErrorMessage).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save API request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryAPIRequests(ctx context.Context, opts QueryOpts) ([]APIRequestEvent, error) {
	sel := builder().Select(apiEventColumns...).From(entsql.Table(APIRequestEventsTable.Name))
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query API request events: %w", err)
	}
	defer rows.Close()

	var events []APIRequestEvent
	for rows.Next() {
		ev, err := scanAPIEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, *ev)
	}
	return events, rows.Err()
}

func (r *eventRepo) GetAPIRequest(ctx context.Context, id int) (*APIRequestEvent, error) {
	query, args := builder().Select(apiEventColumns...).
		From(entsql.Table(APIRequestEventsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()
	ev, err := scanAPIEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("API request event %d: %w", id, ErrNotFound)
	}
	return ev, err
}

func (r *eventRepo) APIUsageByEndpoint(ctx context.Context) ([]EndpointUsage, error) {
	query, args := builder().Select(
		"method", "path",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As(entsql.Sum("success"), "successes"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(APIRequestEventsTable.Name)).
		GroupBy("method", "path").
		OrderBy(entsql.Desc("calls"), "path").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregate API request events: %w", err)
	}
	defer rows.Close()

	var usage []EndpointUsage
	for rows.Next() {
		var u EndpointUsage
		var successes int
		if err := rows.Scan(&u.Method, &u.Path, &u.Calls, &successes, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan endpoint usage: %w", err)
		}
		u.Failures = u.Calls - successes
		usage = append(usage, u)
	}
	return usage, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAPIEvent(row rowScanner) (*APIRequestEvent, error) {
	var ev APIRequestEvent
	err := row.Scan(&ev.ID, &ev.Sequence, &ev.Timestamp, &ev.RequestID, &ev.Method,
		&ev.Path, &ev.Status, &ev.LatencyMs, &ev.Success, &ev.ErrorMessage)
	if err != nil {
		return nil, fmt.Errorf("scan API request event: %w", err)
	}
	return &ev, nil
}

// applyQueryOpts adds QueryOpts filters to sel and orders newest first.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
