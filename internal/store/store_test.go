package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/solarquiz/internal/highscore"
	"github.com/abhisek/solarquiz/internal/quiz"
)

var testDBSeq int

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// Each test gets its own shared-cache in-memory database.
	testDBSeq++
	s, err := Open(fmt.Sprintf("file:solarquiz_test_%d?mode=memory&cache=shared", testDBSeq))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases,
		// so journal_mode is covered by TestFileDatabase.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{tableHighScores, tablePreferences, tableBankQuestions, tableLLMRequests} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestFileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "solarquiz.db")
	if err := EnsureDir(path); err != nil {
		t.Fatalf("ensure dir: %v", err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if _, err := s.HighScores().Update(ctx, "mars", func(r highscore.Record) highscore.Record {
		r.HighScore = 2
		r.Attempts = 1
		return r
	}); err != nil {
		t.Fatalf("update: %v", err)
	}

	var mode string
	if err := s.DB().QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
	s.Close()

	// Reopening migrates again without error and keeps the data.
	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	rec, ok, err := s.HighScores().Load(ctx, "mars")
	if err != nil || !ok {
		t.Fatalf("load after reopen: ok=%v err=%v", ok, err)
	}
	if rec.HighScore != 2 {
		t.Errorf("high score = %d, want 2", rec.HighScore)
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("SOLARQUIZ_DB", filepath.Join(dir, "env", "custom.db"))
	p, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if p != filepath.Join(dir, "env", "custom.db") {
		t.Errorf("path = %q, want env override", p)
	}

	t.Setenv("SOLARQUIZ_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	if err != nil {
		t.Fatalf("default path: %v", err)
	}
	if want := filepath.Join(dir, "solarquiz", "solarquiz.db"); p != want {
		t.Errorf("path = %q, want %q", p, want)
	}
}

func TestHighScoreLoadMissing(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.HighScores().Load(context.Background(), "venus")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Error("expected no record for unknown key")
	}
}

func TestHighScoreThroughTracker(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr := highscore.NewTracker(s.HighScores(), highscore.WithClock(func() time.Time { return now }))
	ctx := context.Background()

	for _, score := range []int{7, 5} {
		if _, err := tr.RecordResult(ctx, "Jupiter", score); err != nil {
			t.Fatalf("record %d: %v", score, err)
		}
	}

	rec, err := tr.Lookup(ctx, " JUPITER ")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if rec.HighScore != 7 || rec.Attempts != 2 {
		t.Errorf("record = %+v, want high 7 attempts 2", rec)
	}
	if !rec.UpdatedAt.Equal(now) {
		t.Errorf("updated at = %v, want %v", rec.UpdatedAt, now)
	}
}

func TestHighScoreConcurrentUpdates(t *testing.T) {
	s := openTestStore(t)
	tr := highscore.NewTracker(s.HighScores())
	ctx := context.Background()

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(score int) {
			defer wg.Done()
			if _, err := tr.RecordResult(ctx, "Saturn", score); err != nil {
				t.Errorf("record: %v", err)
			}
		}(i % 3)
	}
	wg.Wait()

	n, err := tr.Attempts(ctx, "saturn")
	if err != nil {
		t.Fatalf("attempts: %v", err)
	}
	if n != writers {
		t.Errorf("attempts = %d, want %d", n, writers)
	}
	hs, _ := tr.HighScore(ctx, "saturn")
	if hs != 2 {
		t.Errorf("high score = %d, want 2", hs)
	}
}

func TestHighScoreListAndClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.HighScores()
	ctx := context.Background()

	for _, key := range []string{"venus", "earth", "mars"} {
		if _, err := repo.Update(ctx, key, func(r highscore.Record) highscore.Record {
			r.Attempts++
			return r
		}); err != nil {
			t.Fatalf("update %s: %v", key, err)
		}
	}

	recs, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var keys []string
	for _, r := range recs {
		keys = append(keys, r.Key)
	}
	if fmt.Sprint(keys) != "[earth mars venus]" {
		t.Errorf("keys = %v, want [earth mars venus]", keys)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	recs, _ = repo.List(ctx)
	if len(recs) != 0 {
		t.Errorf("records after clear = %d, want 0", len(recs))
	}
}

func TestPreferencesDefaults(t *testing.T) {
	s := openTestStore(t)

	p, err := s.Preferences().Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p != DefaultPreferences() {
		t.Errorf("prefs = %+v, want defaults", p)
	}
}

func TestPreferencesSaveLoadClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.Preferences()
	ctx := context.Background()

	want := Preferences{TTSRate: 1.5, TTSPitch: 0.75, Autoplay: true}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != want {
		t.Errorf("prefs = %+v, want %+v", got, want)
	}

	// Overwrite with out-of-range values; they are clamped.
	if err := repo.Save(ctx, Preferences{TTSRate: 9, TTSPitch: 0}); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ = repo.Load(ctx)
	if got.TTSRate != MaxVoiceValue || got.TTSPitch != MinVoiceValue || got.Autoplay {
		t.Errorf("prefs = %+v, want clamped with autoplay off", got)
	}

	if err := repo.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	got, _ = repo.Load(ctx)
	if got != DefaultPreferences() {
		t.Errorf("prefs after clear = %+v, want defaults", got)
	}
}

func TestBankAddAndList(t *testing.T) {
	s := openTestStore(t)
	bank := s.Bank()
	ctx := context.Background()

	qs := []quiz.Question{
		{Subject: "Mars", Prompt: "Mars has how many moons?", Options: []string{"0", "1", "2"}, CorrectOption: 2},
		{Subject: "Mars", Prompt: "Mars is called the?", Options: []string{"Red Planet", "Blue Planet"}, CorrectOption: 0},
	}
	n, err := bank.Add(ctx, "Mars", "mock", qs)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if n != 2 {
		t.Errorf("added = %d, want 2", n)
	}

	// Duplicate prompts are skipped.
	n, err = bank.Add(ctx, "mars", "mock", qs[:1])
	if err != nil {
		t.Fatalf("add duplicate: %v", err)
	}
	if n != 0 {
		t.Errorf("added duplicate = %d, want 0", n)
	}

	got, err := bank.List(ctx, "MARS")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("listed %d questions, want 2", len(got))
	}
	if got[0].Prompt != qs[0].Prompt || got[0].CorrectOption != 2 || len(got[0].Options) != 3 {
		t.Errorf("first question = %+v", got[0])
	}
	if err := quiz.Validate(got); err != nil {
		t.Errorf("banked questions do not validate: %v", err)
	}

	other, _ := bank.List(ctx, "Venus")
	if len(other) != 0 {
		t.Errorf("venus questions = %d, want 0", len(other))
	}
}

func TestBankRejectsInvalid(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.Bank().Add(ctx, "Mars", "mock", []quiz.Question{{Prompt: "?", Options: []string{"only"}}})
	var verr *quiz.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}

	_, err = s.Bank().Add(ctx, "!!!", "mock", nil)
	if !errors.Is(err, highscore.ErrInvalidSubject) {
		t.Errorf("err = %v, want ErrInvalidSubject", err)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "mock-a", Purpose: "question-gen", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "mock", Model: "mock-a", Purpose: "question-gen", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: true},
		{Provider: "mock", Model: "mock-b", Purpose: "other", Success: false, ErrorMessage: "boom", RequestBody: "[user]\nhi"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("events = %d, want 3", len(all))
	}
	if all[0].Purpose != "other" {
		t.Errorf("newest purpose = %q, want other", all[0].Purpose)
	}

	limited, _ := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "question-gen"})
	if len(limited) != 1 || limited[0].InputTokens != 30 {
		t.Errorf("limited = %+v", limited)
	}

	e, err := repo.GetLLMEvent(ctx, all[0].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e == nil || e.ErrorMessage != "boom" || e.RequestBody != "[user]\nhi" || e.Success {
		t.Errorf("event = %+v", e)
	}

	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("missing event = %+v, %v", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("purposes = %d, want 2", len(byPurpose))
	}
	qg := byPurpose[1]
	if qg.Purpose != "question-gen" || qg.Calls != 2 || qg.InputTokens != 40 || qg.OutputTokens != 60 || qg.AvgLatencyMs != 200 {
		t.Errorf("question-gen usage = %+v", qg)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "mock-a" {
		t.Errorf("model usage = %+v", byModel)
	}
}
