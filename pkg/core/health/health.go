package health

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCheckTimeout bounds a single check when the registry is created
// without a timeout
const DefaultCheckTimeout = 5 * time.Second

// Status represents the health status of a service
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
	StatusUnknown   Status = "unknown"
)

// rank orders statuses from best to worst
func (s Status) rank() int {
	switch s {
	case StatusHealthy:
		return 0
	case StatusDegraded:
		return 1
	case StatusUnhealthy:
		return 2
	default:
		return 3
	}
}

// CheckResult is the outcome of one check
type CheckResult struct {
	Name     string        `json:"name"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Checker probes one dependency of the service
type Checker interface {
	Name() string
	Check(ctx context.Context) CheckResult
}

// pingCheck turns an error-returning probe into a Checker
type pingCheck struct {
	name     string
	ping     func(ctx context.Context) error
	optional bool
}

// PingCheck reports unhealthy when ping fails, e.g. the smoke evaluation
func PingCheck(name string, ping func(ctx context.Context) error) Checker {
	return &pingCheck{name: name, ping: ping}
}

// OptionalCheck is a PingCheck whose failure only degrades the service.
// The journal is optional: evaluations keep working when it is down.
func OptionalCheck(name string, ping func(ctx context.Context) error) Checker {
	return &pingCheck{name: name, ping: ping, optional: true}
}

func (c *pingCheck) Name() string {
	return c.name
}

func (c *pingCheck) Check(ctx context.Context) CheckResult {
	err := c.ping(ctx)
	switch {
	case err == nil:
		return CheckResult{Name: c.name, Status: StatusHealthy, Message: "ok"}
	case c.optional:
		return CheckResult{Name: c.name, Status: StatusDegraded, Message: err.Error()}
	default:
		return CheckResult{Name: c.name, Status: StatusUnhealthy, Message: err.Error()}
	}
}

// Registry runs the checks of one service
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
	service  string
	version  string
	timeout  time.Duration
	startAt  time.Time
}

// NewRegistry creates a registry whose checks are each bounded by timeout
func NewRegistry(service, version string, timeout time.Duration) *Registry {
	if timeout <= 0 {
		timeout = DefaultCheckTimeout
	}
	return &Registry{
		checkers: make(map[string]Checker),
		service:  service,
		version:  version,
		timeout:  timeout,
		startAt:  time.Now(),
	}
}

// Register adds a checker, replacing one with the same name
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Check runs all checks concurrently. A check that has not answered when
// its timeout or ctx expires counts as unhealthy.
func (r *Registry) Check(ctx context.Context) *Report {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, c := range r.checkers {
		checkers = append(checkers, c)
	}
	r.mu.RUnlock()
	sort.Slice(checkers, func(i, j int) bool {
		return checkers[i].Name() < checkers[j].Name()
	})

	results := make([]CheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = r.run(ctx, c)
		}(i, c)
	}
	wg.Wait()

	status := StatusHealthy
	for _, res := range results {
		if res.Status.rank() > status.rank() {
			status = res.Status
		}
	}
	return &Report{
		Service:   r.service,
		Version:   r.version,
		Status:    status,
		Uptime:    time.Since(r.startAt),
		Timestamp: time.Now(),
		Checks:    results,
	}
}

func (r *Registry) run(ctx context.Context, c Checker) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	done := make(chan CheckResult, 1)
	go func() { done <- c.Check(ctx) }()

	var result CheckResult
	select {
	case result = <-done:
	case <-ctx.Done():
		result = CheckResult{Status: StatusUnhealthy, Message: fmt.Sprintf("no answer: %v", ctx.Err())}
	}
	result.Name = c.Name()
	result.Duration = time.Since(start)
	return result
}

// Report represents the overall health report
type Report struct {
	Service   string        `json:"service"`
	Version   string        `json:"version"`
	Status    Status        `json:"status"`
	Uptime    time.Duration `json:"uptime"`
	Timestamp time.Time     `json:"timestamp"`
	Checks    []CheckResult `json:"checks"`
}

// Healthy reports whether the service can take traffic. Degraded counts as
// serving.
func (r *Report) Healthy() bool {
	return r.Status == StatusHealthy || r.Status == StatusDegraded
}

// String renders the status followed by every check that is not healthy,
// e.g. "relox 0.1.0 degraded (journal: database is locked)"
func (r *Report) String() string {
	var failing []string
	for _, c := range r.Checks {
		if c.Status != StatusHealthy {
			failing = append(failing, c.Name+": "+c.Message)
		}
	}
	s := fmt.Sprintf("%s %s %s", r.Service, r.Version, r.Status)
	if len(failing) > 0 {
		s += " (" + strings.Join(failing, "; ") + ")"
	}
	return s
}
