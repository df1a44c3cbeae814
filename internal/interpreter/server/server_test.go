package server

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	mdwlog "github.com/themifi/relox/foundation/core/log"
	"github.com/themifi/relox/foundation/lox"
	"github.com/themifi/relox/internal/interpreter/client"
	"github.com/themifi/relox/pkg/core/config"
	"github.com/themifi/relox/pkg/core/health"
	"github.com/themifi/relox/pkg/core/logging"
)

func quietLogger() *logging.Logger {
	return logging.Wrap(mdwlog.Discard())
}

// startServer serves cfg over an in-memory listener and returns a connected
// client
func startServer(t *testing.T, cfg *config.Config) (*Server, *client.Client) {
	t.Helper()

	srv, err := New(cfg, Options{Logger: quietLogger(), HealthInterval: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	lis := bufconn.Listen(1 << 20)
	srv.Serve(lis)

	c, err := client.New(client.Config{
		Address: "passthrough:///bufnet",
		Timeout: 5 * time.Second,
		Logger:  quietLogger(),
		DialOptions: []grpc.DialOption{
			grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
				return lis.DialContext(ctx)
			}),
		},
	})
	if err != nil {
		t.Fatalf("client.New() error = %v", err)
	}

	t.Cleanup(func() {
		c.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Stop(ctx)
	})
	return srv, c
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Server.EnableReflection = false
	cfg.Interpreter.MaxSourceBytes = 64
	cfg.Cache.Enabled = true
	cfg.Journal.Path = filepath.Join(t.TempDir(), "journal.db")
	return cfg
}

func TestServer_Evaluate(t *testing.T) {
	_, c := startServer(t, testConfig(t))
	ctx := context.Background()

	tests := []struct {
		source string
		status lox.Status
		output string
	}{
		{"1 + 2 * 3", lox.StatusOK, "7"},
		{`"a" + "b"`, lox.StatusOK, "ab"},
		{"!nil", lox.StatusOK, "true"},
		{"1 / 0", lox.StatusOK, "inf"},
		{`1 + "a"`, lox.StatusRuntimeError, "Operands must be two numbers or two strings.\n[line 1]"},
		{"", lox.StatusSyntaxError, "[line 1] Error at end: Expect expression."},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			ev, err := c.Evaluate(ctx, tt.source)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if ev.Status != tt.status || ev.Output != tt.output {
				t.Errorf("Evaluate() = %v %q, want %v %q", ev.Status, ev.Output, tt.status, tt.output)
			}
			if ev.RequestID == "" {
				t.Error("RequestID should be propagated")
			}
		})
	}
}

func TestServer_SourceLimit(t *testing.T) {
	_, c := startServer(t, testConfig(t))

	big := make([]byte, 65)
	for i := range big {
		big[i] = '1'
	}
	_, err := c.Evaluate(context.Background(), string(big))
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("Evaluate() code = %v, want InvalidArgument", status.Code(err))
	}
}

func TestServer_TokenizeAndParse(t *testing.T) {
	_, c := startServer(t, testConfig(t))
	ctx := context.Background()

	toks, err := c.Tokenize(ctx, "(1 >= 2)")
	if err != nil {
		t.Fatalf("Tokenize() error = %v", err)
	}
	want := []string{"LEFT_PAREN (", "NUMBER 1", "GREATER_EQUAL >=", "NUMBER 2", "RIGHT_PAREN )", "EOF "}
	if len(toks.Tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks.Tokens), len(want))
	}
	for i, w := range want {
		if toks.Tokens[i].Display != w {
			t.Errorf("token %d = %q, want %q", i, toks.Tokens[i].Display, w)
		}
	}

	tree, err := c.Parse(ctx, "(1 >= 2)")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if tree.Tree != "(group (>= 1 2))" || tree.Depth != 3 {
		t.Errorf("Parse() = %+v", tree)
	}

	bad, _ := c.Parse(ctx, "1 2")
	if len(bad.Diagnostics) != 1 || bad.Diagnostics[0] != "[line 1] Error at '2': Expect end of expression." {
		t.Errorf("Diagnostics = %v", bad.Diagnostics)
	}
}

func TestServer_History(t *testing.T) {
	_, c := startServer(t, testConfig(t))
	ctx := context.Background()

	for _, src := range []string{"1", "2", "3"} {
		if _, err := c.Evaluate(ctx, src); err != nil {
			t.Fatalf("Evaluate() error = %v", err)
		}
	}

	entries, err := c.History(ctx, 2)
	if err != nil {
		t.Fatalf("History() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("History() returned %d entries, want 2", len(entries))
	}
	if entries[0].Source != "3" || entries[0].Status != "ok" || entries[0].RequestID == "" {
		t.Errorf("latest entry = %+v", entries[0])
	}
}

func TestServer_HistoryDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal.Path = ""
	_, c := startServer(t, cfg)

	_, err := c.History(context.Background(), 5)
	if status.Code(err) != codes.Unavailable {
		t.Errorf("History() code = %v, want Unavailable", status.Code(err))
	}
}

func TestServer_Health(t *testing.T) {
	srv, c := startServer(t, testConfig(t))

	ok, err := c.Healthy(context.Background())
	if err != nil {
		t.Fatalf("Healthy() error = %v", err)
	}
	if !ok {
		t.Error("Healthy() = false")
	}

	report := srv.HealthRegistry().Check(context.Background())
	if len(report.Checks) != 2 || report.Checks[0].Name != "interpreter" || report.Checks[1].Name != "journal" {
		t.Errorf("checks = %+v", report.Checks)
	}
}

func TestServer_HealthDegradesWithoutJournal(t *testing.T) {
	srv, c := startServer(t, testConfig(t))
	if err := srv.journal.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	report := srv.HealthRegistry().Check(context.Background())
	if report.Status != health.StatusDegraded {
		t.Errorf("Status = %v, want degraded (%s)", report.Status, report)
	}

	ev, err := c.Evaluate(context.Background(), "1 + 2")
	if err != nil || ev.Output != "3" {
		t.Errorf("Evaluate() = %+v, %v; evaluation must survive a journal outage", ev, err)
	}
}

func TestServer_PruneJournal(t *testing.T) {
	cfg := testConfig(t)
	cfg.Journal.Retention.Duration = time.Nanosecond
	srv, c := startServer(t, cfg)

	if _, err := c.Evaluate(context.Background(), "1"); err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	time.Sleep(time.Millisecond)

	deleted, err := srv.PruneJournal(context.Background())
	if err != nil {
		t.Fatalf("PruneJournal() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("PruneJournal() deleted %d, want 1", deleted)
	}
}

func TestServer_StopIsIdempotent(t *testing.T) {
	srv, err := New(testConfig(t), Options{Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	srv.Serve(bufconn.Listen(1 << 10))

	srv.Stop(context.Background())
	srv.Stop(context.Background())
}

func TestNew_BadJournalPath(t *testing.T) {
	cfg := testConfig(t)
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg.Journal.Path = filepath.Join(blocker, "journal.db")

	if _, err := New(cfg, Options{Logger: quietLogger()}); err == nil {
		t.Error("New() should fail when the journal directory cannot be created")
	}
}
