package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// QueryOpts configures event queries.
type QueryOpts struct {
	Limit   int    // max results (0 = unlimited)
	Purpose string // exact purpose match ("" = any)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsageStats aggregates token usage for one purpose or model.
type LLMUsageStats struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
}

// LLMEventRepo implements EventRepo on the llm_requests table and adds the
// read side used by the `llm` command.
type LLMEventRepo struct {
	s *Store
}

var _ EventRepo = (*LLMEventRepo)(nil)

var llmEventColumns = []string{
	"id", "created_at", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message",
	"request_body", "response_body",
}

func (r *LLMEventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	query, args := builder().Insert(tableLLMRequests).
		Columns(llmEventColumns[1:]...).
		Values(
			time.Now().UnixMilli(), data.Provider, data.Model, data.Purpose,
			data.InputTokens, data.OutputTokens, data.LatencyMs, data.Success,
			data.ErrorMessage, data.RequestBody, data.ResponseBody,
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

// QueryLLMEvents returns events newest first.
func (r *LLMEventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error) {
	sel := builder().Select(llmEventColumns...).
		From(builder().Table(tableLLMRequests)).
		OrderBy(entsql.Desc("id"))
	if opts.Purpose != "" {
		sel.Where(entsql.EQ("purpose", opts.Purpose))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEventRecord
	for rows.Next() {
		e, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetLLMEvent returns the event with id, or nil if there is none.
func (r *LLMEventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEventRecord, error) {
	query, args := builder().Select(llmEventColumns...).
		From(builder().Table(tableLLMRequests)).
		Where(entsql.EQ("id", id)).
		Query()

	e, err := scanLLMEvent(r.s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LLMUsageByPurpose aggregates usage per purpose.
func (r *LLMEventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsageStats, error) {
	return r.usageBy(ctx, "purpose")
}

// LLMUsageByModel aggregates usage per model.
func (r *LLMEventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsageStats, error) {
	return r.usageBy(ctx, "model")
}

func (r *LLMEventRepo) usageBy(ctx context.Context, column string) ([]LLMUsageStats, error) {
	query, args := builder().Select(
		column,
		entsql.Count("*"),
		fmt.Sprintf("COALESCE(%s, 0)", entsql.Sum("input_tokens")),
		fmt.Sprintf("COALESCE(%s, 0)", entsql.Sum("output_tokens")),
		fmt.Sprintf("CAST(COALESCE(%s, 0) AS INTEGER)", entsql.Avg("latency_ms")),
	).
		From(builder().Table(tableLLMRequests)).
		GroupBy(column).
		OrderBy(column).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsageStats
	for rows.Next() {
		var (
			st  LLMUsageStats
			key string
		)
		if err := rows.Scan(&key, &st.Calls, &st.InputTokens, &st.OutputTokens, &st.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		if column == "model" {
			st.Model = key
		} else {
			st.Purpose = key
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLLMEvent(row rowScanner) (LLMRequestEventRecord, error) {
	var (
		e       LLMRequestEventRecord
		created int64
	)
	err := row.Scan(
		&e.ID, &created, &e.Provider, &e.Model, &e.Purpose, &e.InputTokens,
		&e.OutputTokens, &e.LatencyMs, &e.Success, &e.ErrorMessage,
		&e.RequestBody, &e.ResponseBody,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return e, err
	}
	if err != nil {
		return e, fmt.Errorf("scan LLM event: %w", err)
	}
	e.Timestamp = fromMillis(created)
	return e, nil
}
