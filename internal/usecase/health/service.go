package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates every check failed.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type namedCheck struct {
	name    string
	checker Checker
}

// Service coordinates health checks.
type Service struct {
	checks []namedCheck
}

// New creates a Service with no checks; an empty service is always healthy.
func New() *Service {
	return &Service{}
}

// Register adds a named check. Registering a name twice replaces the earlier check.
func (s *Service) Register(name string, c Checker) *Service {
	for i := range s.checks {
		if s.checks[i].name == name {
			s.checks[i].checker = c
			return s
		}
	}
	s.checks = append(s.checks, namedCheck{name: name, checker: c})
	return s
}

// Check runs every registered check.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.checks))
	failed := 0
	for _, c := range s.checks {
		if err := c.checker.Check(ctx); err != nil {
			checks[c.name] = CheckError
			failed++
		} else {
			checks[c.name] = CheckOK
		}
	}

	status := Healthy
	switch {
	case failed == 0:
	case failed == len(s.checks):
		status = Unhealthy
	default:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
