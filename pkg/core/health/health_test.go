package health

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func okPing(ctx context.Context) error { return nil }

func failPing(msg string) func(ctx context.Context) error {
	return func(ctx context.Context) error { return errors.New(msg) }
}

// blockingCheck answers only after release is closed
type blockingCheck struct {
	name    string
	release chan struct{}
}

func (b blockingCheck) Name() string { return b.name }

func (b blockingCheck) Check(ctx context.Context) CheckResult {
	<-b.release
	return CheckResult{Status: StatusHealthy}
}

func TestPingCheck(t *testing.T) {
	tests := []struct {
		name    string
		checker Checker
		want    Status
		message string
	}{
		{"required ok", PingCheck("interpreter", okPing), StatusHealthy, "ok"},
		{"required failing", PingCheck("interpreter", failPing("smoke evaluation returned false")), StatusUnhealthy, "smoke evaluation returned false"},
		{"optional ok", OptionalCheck("journal", okPing), StatusHealthy, "ok"},
		{"optional failing", OptionalCheck("journal", failPing("database is locked")), StatusDegraded, "database is locked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.checker.Check(context.Background())
			if r.Status != tt.want {
				t.Errorf("Status = %v, want %v", r.Status, tt.want)
			}
			if r.Message != tt.message {
				t.Errorf("Message = %q, want %q", r.Message, tt.message)
			}
		})
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	tests := []struct {
		name    string
		checks  []Checker
		want    Status
		healthy bool
	}{
		{"no checks", nil, StatusHealthy, true},
		{"all ok", []Checker{PingCheck("interpreter", okPing), OptionalCheck("journal", okPing)}, StatusHealthy, true},
		{"journal down", []Checker{PingCheck("interpreter", okPing), OptionalCheck("journal", failPing("locked"))}, StatusDegraded, true},
		{"engine down", []Checker{PingCheck("interpreter", failPing("boom")), OptionalCheck("journal", failPing("locked"))}, StatusUnhealthy, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewRegistry("relox", "0.1.0", time.Second)
			for _, c := range tt.checks {
				registry.Register(c)
			}

			report := registry.Check(context.Background())
			if report.Status != tt.want {
				t.Errorf("Status = %v, want %v", report.Status, tt.want)
			}
			if report.Healthy() != tt.healthy {
				t.Errorf("Healthy() = %v, want %v", report.Healthy(), tt.healthy)
			}
			if len(report.Checks) != len(tt.checks) {
				t.Errorf("Checks = %d, want %d", len(report.Checks), len(tt.checks))
			}
		})
	}
}

func TestRegistry_RegisterReplacesByName(t *testing.T) {
	registry := NewRegistry("relox", "0.1.0", time.Second)
	registry.Register(PingCheck("journal", failPing("locked")))
	registry.Register(PingCheck("journal", okPing))

	report := registry.Check(context.Background())
	if len(report.Checks) != 1 || report.Checks[0].Status != StatusHealthy {
		t.Errorf("checks = %+v", report.Checks)
	}
}

func TestRegistry_ChecksSortedByName(t *testing.T) {
	registry := NewRegistry("relox", "0.1.0", time.Second)
	for _, name := range []string{"zeta", "alpha", "mid"} {
		registry.Register(PingCheck(name, okPing))
	}

	report := registry.Check(context.Background())
	var got []string
	for _, c := range report.Checks {
		got = append(got, c.Name)
	}
	if strings.Join(got, ",") != "alpha,mid,zeta" {
		t.Errorf("check order = %v", got)
	}
}

func TestRegistry_CheckTimeout(t *testing.T) {
	registry := NewRegistry("relox", "0.1.0", 20*time.Millisecond)
	release := make(chan struct{})
	t.Cleanup(func() { close(release) })
	registry.Register(blockingCheck{name: "stuck", release: release})
	registry.Register(PingCheck("interpreter", okPing))

	start := time.Now()
	report := registry.Check(context.Background())
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Check() took %v, timeout not applied", elapsed)
	}

	stuck := report.Checks[1]
	if stuck.Name != "stuck" || stuck.Status != StatusUnhealthy {
		t.Errorf("stuck check = %+v", stuck)
	}
	if !strings.Contains(stuck.Message, "deadline exceeded") {
		t.Errorf("Message = %q", stuck.Message)
	}
	if report.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", report.Status)
	}
}

func TestRegistry_DefaultTimeout(t *testing.T) {
	if r := NewRegistry("relox", "0.1.0", 0); r.timeout != DefaultCheckTimeout {
		t.Errorf("timeout = %v, want %v", r.timeout, DefaultCheckTimeout)
	}
}

func TestRegistry_ChecksRunConcurrently(t *testing.T) {
	registry := NewRegistry("relox", "0.1.0", time.Second)
	var calls int32
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		registry.Register(PingCheck(name, func(ctx context.Context) error {
			atomic.AddInt32(&calls, 1)
			time.Sleep(20 * time.Millisecond)
			return nil
		}))
	}

	start := time.Now()
	registry.Check(context.Background())
	if elapsed := time.Since(start); elapsed > 90*time.Millisecond {
		t.Errorf("Check() took %v, checks ran sequentially", elapsed)
	}
	if atomic.LoadInt32(&calls) != 5 {
		t.Errorf("calls = %d, want 5", calls)
	}
}

func TestReport_String(t *testing.T) {
	registry := NewRegistry("relox", "0.1.0", time.Second)
	registry.Register(PingCheck("interpreter", okPing))
	registry.Register(OptionalCheck("journal", failPing("database is locked")))

	want := "relox 0.1.0 degraded (journal: database is locked)"
	if got := registry.Check(context.Background()).String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	healthy := &Report{Service: "relox", Version: "0.1.0", Status: StatusHealthy}
	if got := healthy.String(); got != "relox 0.1.0 healthy" {
		t.Errorf("String() = %q", got)
	}
}

func TestServingStatus(t *testing.T) {
	tests := map[Status]healthpb.HealthCheckResponse_ServingStatus{
		StatusHealthy:   healthpb.HealthCheckResponse_SERVING,
		StatusDegraded:  healthpb.HealthCheckResponse_SERVING,
		StatusUnhealthy: healthpb.HealthCheckResponse_NOT_SERVING,
		StatusUnknown:   healthpb.HealthCheckResponse_UNKNOWN,
	}
	for in, want := range tests {
		if got := ServingStatus(in); got != want {
			t.Errorf("ServingStatus(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestRegistry_Publish(t *testing.T) {
	registry := NewRegistry("relox", "test", time.Second)
	var healthy atomic.Bool
	registry.Register(PingCheck("interpreter", func(ctx context.Context) error {
		if healthy.Load() {
			return nil
		}
		return errors.New("smoke evaluation failed")
	}))

	hs := grpchealth.NewServer()
	registry.Publish(context.Background(), hs, "relox.v1.Interpreter")

	resp, err := hs.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "relox.v1.Interpreter"})
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if resp.Status != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Errorf("Status = %v, want NOT_SERVING", resp.Status)
	}

	healthy.Store(true)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		registry.Monitor(ctx, hs, "relox.v1.Interpreter", 10*time.Millisecond)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, _ = hs.Check(context.Background(), &healthpb.HealthCheckRequest{})
		if resp.Status == healthpb.HealthCheckResponse_SERVING {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if resp.Status != healthpb.HealthCheckResponse_SERVING {
		t.Errorf("Status after Monitor = %v, want SERVING", resp.Status)
	}
}
