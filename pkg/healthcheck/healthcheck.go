// Package healthcheck provides health and readiness check functionality
// Following the Health Check API pattern for cloud-native applications
package healthcheck

import (
	"context"
	"sync"
	"time"
)

// Status represents the health status
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusDegraded  Status = "degraded"
)

// Check represents one dependency check result
type Check struct {
	Name        string        `json:"name"`
	Status      Status        `json:"status"`
	Message     string        `json:"message,omitempty"`
	LastChecked time.Time     `json:"last_checked"`
	Duration    time.Duration `json:"duration_ms"`
	Critical    bool          `json:"critical"`
}

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

// CheckerFunc adapts a function to the Checker interface.
type CheckerFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (c CheckerFunc) Name() string                    { return c.CheckName }
func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

// Report is the aggregate readiness view.
type Report struct {
	Status    Status           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Service   string           `json:"service"`
	Version   string           `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

type registered struct {
	checker  Checker
	critical bool
}

// Registry runs registered checkers and caches the results briefly so a
// probe storm cannot hammer the dependencies.
type Registry struct {
	service  string
	version  string
	cacheTTL time.Duration
	timeout  time.Duration

	mu       sync.Mutex
	checkers []registered
	cached   *Report
	cachedAt time.Time
}

// NewRegistry creates a check registry.
func NewRegistry(service, version string) *Registry {
	return &Registry{
		service:  service,
		version:  version,
		cacheTTL: 5 * time.Second,
		timeout:  3 * time.Second,
	}
}

// Register adds a checker. Critical check failures mark the whole report
// unhealthy; non-critical ones only degrade it.
func (r *Registry) Register(checker Checker, critical bool) {
	r.mu.Lock()
	r.checkers = append(r.checkers, registered{checker: checker, critical: critical})
	r.cached = nil
	r.mu.Unlock()
}

// Run executes every checker concurrently and aggregates the results.
// A cached report younger than the cache TTL is returned as-is.
func (r *Registry) Run(ctx context.Context) Report {
	r.mu.Lock()
	if r.cached != nil && time.Since(r.cachedAt) < r.cacheTTL {
		report := *r.cached
		r.mu.Unlock()
		return report
	}
	checkers := make([]registered, len(r.checkers))
	copy(checkers, r.checkers)
	r.mu.Unlock()

	results := make([]Check, len(checkers))
	var wg sync.WaitGroup
	for i, reg := range checkers {
		wg.Add(1)
		go func(i int, reg registered) {
			defer wg.Done()
			results[i] = r.runOne(ctx, reg)
		}(i, reg)
	}
	wg.Wait()

	report := Report{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Service:   r.service,
		Version:   r.version,
		Checks:    make(map[string]Check, len(results)),
	}
	for _, check := range results {
		report.Checks[check.Name] = check
		if check.Status == StatusUnhealthy {
			if check.Critical {
				report.Status = StatusUnhealthy
			} else if report.Status == StatusHealthy {
				report.Status = StatusDegraded
			}
		}
	}

	r.mu.Lock()
	r.cached = &report
	r.cachedAt = report.Timestamp
	r.mu.Unlock()
	return report
}

func (r *Registry) runOne(ctx context.Context, reg registered) Check {
	checkCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	err := reg.checker.Check(checkCtx)
	check := Check{
		Name:        reg.checker.Name(),
		Status:      StatusHealthy,
		LastChecked: start,
		Duration:    time.Since(start) / time.Millisecond,
		Critical:    reg.critical,
	}
	if err != nil {
		check.Status = StatusUnhealthy
		check.Message = err.Error()
	}
	return check
}
