package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/themifi/relox/foundation/core/error"
)

func journals(t *testing.T) map[string]Journal {
	t.Helper()
	sqlite, err := Open(Config{Path: filepath.Join(t.TempDir(), "nested", "journal.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Journal{
		"sqlite": sqlite,
		"memory": NewMemoryJournal(),
	}
}

func TestJournal_RecordAndRecent(t *testing.T) {
	ctx := context.Background()
	for name, j := range journals(t) {
		t.Run(name, func(t *testing.T) {
			base := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
			sources := []string{"1 + 2", "-\"x\"", "(1"}
			statuses := []string{"ok", "runtime_error", "syntax_error"}
			for i := range sources {
				entry := &Entry{
					CreatedAt:  base.Add(time.Duration(i) * time.Second),
					Source:     sources[i],
					Status:     statuses[i],
					Output:     "out",
					DurationMS: 0.5,
				}
				if i == 0 {
					entry.RequestID = "req-1"
				}
				if err := j.Record(ctx, entry); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
				if entry.ID == "" {
					t.Error("Record() should assign an ID")
				}
			}

			got, err := j.Recent(ctx, 2)
			if err != nil {
				t.Fatalf("Recent() error = %v", err)
			}
			if len(got) != 2 {
				t.Fatalf("Recent(2) returned %d entries", len(got))
			}
			if got[0].Source != "(1" || got[1].Source != "-\"x\"" {
				t.Errorf("Recent() order = %q, %q", got[0].Source, got[1].Source)
			}

			all, _ := j.Recent(ctx, 0)
			if len(all) != 3 {
				t.Fatalf("Recent(0) returned %d entries, want 3", len(all))
			}
			oldest := all[2]
			if oldest.RequestID != "req-1" || oldest.DurationMS != 0.5 || !oldest.CreatedAt.Equal(base) {
				t.Errorf("oldest entry = %+v", oldest)
			}

			counts, err := j.CountByStatus(ctx)
			if err != nil {
				t.Fatalf("CountByStatus() error = %v", err)
			}
			for _, s := range statuses {
				if counts[s] != 1 {
					t.Errorf("counts[%s] = %d, want 1", s, counts[s])
				}
			}
		})
	}
}

func TestJournal_Prune(t *testing.T) {
	ctx := context.Background()
	for name, j := range journals(t) {
		t.Run(name, func(t *testing.T) {
			old := &Entry{CreatedAt: time.Now().Add(-48 * time.Hour), Source: "1", Status: "ok", Output: "1"}
			fresh := &Entry{Source: "2", Status: "ok", Output: "2"}
			for _, e := range []*Entry{old, fresh} {
				if err := j.Record(ctx, e); err != nil {
					t.Fatalf("Record() error = %v", err)
				}
			}

			deleted, err := j.Prune(ctx, 24*time.Hour)
			if err != nil {
				t.Fatalf("Prune() error = %v", err)
			}
			if deleted != 1 {
				t.Errorf("Prune() deleted %d, want 1", deleted)
			}

			left, _ := j.Recent(ctx, 10)
			if len(left) != 1 || left[0].Source != "2" {
				t.Errorf("remaining entries = %+v", left)
			}
			if err := j.Ping(ctx); err != nil {
				t.Errorf("Ping() error = %v", err)
			}
		})
	}
}

func TestOpen_ReopensExistingDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	first, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := first.Record(ctx, &Entry{Source: "true", Status: "ok", Output: "true"}); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	first.Close()

	second, err := Open(Config{Path: path})
	if err != nil {
		t.Fatalf("second Open() error = %v", err)
	}
	defer second.Close()

	entries, _ := second.Recent(ctx, 5)
	if len(entries) != 1 || entries[0].Output != "true" {
		t.Errorf("entries after reopen = %+v", entries)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(Config{})
	if !mdwerror.HasCode(err, mdwerror.CodeConfigError) {
		t.Errorf("Open() error = %v, want CONFIG_ERROR", err)
	}
}

func TestClosedJournalReportsDatabaseError(t *testing.T) {
	j, err := Open(Config{Path: filepath.Join(t.TempDir(), "journal.db")})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	j.Close()

	err = j.Record(context.Background(), &Entry{Source: "1", Status: "ok", Output: "1"})
	if !mdwerror.HasCode(err, mdwerror.CodeDatabaseError) {
		t.Errorf("Record() error = %v, want DATABASE_ERROR", err)
	}
}

func TestClampLimit(t *testing.T) {
	tests := []struct {
		in, want int
	}{
		{-1, DefaultRecentLimit},
		{0, DefaultRecentLimit},
		{7, 7},
		{MaxRecentLimit + 1, MaxRecentLimit},
	}
	for _, tt := range tests {
		if got := clampLimit(tt.in); got != tt.want {
			t.Errorf("clampLimit(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
