package highscore

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Tracker keeps monotonic high scores and attempt counts per subject.
// All writes go through RecordResult, which is a single read-modify-write
// on the backend, so sequential calls apply in issue order.
type Tracker struct {
	backend Backend
	log     *zap.Logger
	now     func() time.Time

	mu     sync.Mutex
	subs   map[string]map[int]chan Record
	nextID int
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) TrackerOption {
	return func(t *Tracker) { t.log = l }
}

// WithClock overrides the time source used for UpdatedAt.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// NewTracker creates a Tracker over backend.
func NewTracker(backend Backend, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		backend: backend,
		log:     zap.NewNop(),
		now:     time.Now,
		subs:    make(map[string]map[int]chan Record),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// HighScore returns the best recorded score for subject, or 0.
func (t *Tracker) HighScore(ctx context.Context, subject string) (int, error) {
	rec, err := t.Lookup(ctx, subject)
	return rec.HighScore, err
}

// Attempts returns how many results were recorded for subject, or 0.
func (t *Tracker) Attempts(ctx context.Context, subject string) (int, error) {
	rec, err := t.Lookup(ctx, subject)
	return rec.Attempts, err
}

// Lookup returns the full record for subject. Unknown subjects yield a zero
// record carrying the normalized key.
func (t *Tracker) Lookup(ctx context.Context, subject string) (Record, error) {
	key := NormalizeKey(subject)
	if key == "" {
		return Record{}, ErrInvalidSubject
	}
	rec, ok, err := t.backend.Load(ctx, key)
	if err != nil {
		return Record{Key: key}, &StorageError{Op: "load", Key: key, Err: err}
	}
	if !ok {
		return Record{Key: key}, nil
	}
	return rec, nil
}

// RecordResult counts one completed attempt at subject and raises the high
// score if score beats it. Call it exactly once per finished quiz: replaying
// the same score counts another attempt.
func (t *Tracker) RecordResult(ctx context.Context, subject string, score int) (Record, error) {
	if score < 0 {
		return Record{}, ErrNegativeScore
	}
	key := NormalizeKey(subject)
	if key == "" {
		return Record{}, ErrInvalidSubject
	}

	now := t.now().UTC()
	rec, err := t.backend.Update(ctx, key, func(cur Record) Record {
		cur.Key = key
		cur.HighScore = max(cur.HighScore, score)
		cur.Attempts++
		cur.UpdatedAt = now
		return cur
	})
	if err != nil {
		t.log.Warn("record result failed", zap.String("key", key), zap.Int("score", score), zap.Error(err))
		return Record{}, &StorageError{Op: "record", Key: key, Err: err}
	}

	t.log.Debug("result recorded",
		zap.String("key", key),
		zap.Int("score", score),
		zap.Int("high_score", rec.HighScore),
		zap.Int("attempts", rec.Attempts),
	)
	t.publish(rec)
	return rec, nil
}

// List returns every record.
func (t *Tracker) List(ctx context.Context) ([]Record, error) {
	recs, err := t.backend.List(ctx)
	if err != nil {
		return nil, &StorageError{Op: "list", Err: err}
	}
	return recs, nil
}

// Reset deletes every record and notifies subscribers with zero records.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.backend.Clear(ctx); err != nil {
		return &StorageError{Op: "reset", Err: err}
	}

	t.mu.Lock()
	keys := make([]string, 0, len(t.subs))
	for k := range t.subs {
		keys = append(keys, k)
	}
	t.mu.Unlock()

	for _, k := range keys {
		t.publish(Record{Key: k})
	}
	return nil
}

// Subscribe returns a channel that receives the committed record for
// subject after every change. Slow readers only see the latest value. The
// returned cancel func releases the subscription and closes the channel.
func (t *Tracker) Subscribe(subject string) (<-chan Record, func()) {
	key := NormalizeKey(subject)
	ch := make(chan Record, 1)

	t.mu.Lock()
	id := t.nextID
	t.nextID++
	if t.subs[key] == nil {
		t.subs[key] = make(map[int]chan Record)
	}
	t.subs[key][id] = ch
	t.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.subs[key], id)
			if len(t.subs[key]) == 0 {
				delete(t.subs, key)
			}
			close(ch)
		})
	}
	return ch, cancel
}

func (t *Tracker) publish(rec Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ch := range t.subs[rec.Key] {
		// Replace a stale pending value so the reader sees the newest one.
		select {
		case <-ch:
		default:
		}
		ch <- rec
	}
}
