package health

import (
	"context"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates no condition can be served.
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

// Service coordinates health checks.
type Service struct {
	models ModelChecker
	store  DBPinger
}

// New creates a Service. store can be nil when artifacts are read from files.
func New(models ModelChecker, store DBPinger) *Service {
	return &Service{models: models, store: store}
}

// CheckName returns the report key for a condition's model.
func CheckName(kind condition.Kind) string {
	return "model:" + kind.String()
}

// Check reports each condition's model and the store. The service is unhealthy
// only when no condition has a model.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	loaded := 0
	for _, k := range condition.All() {
		if s.models.IsAvailable(k) {
			checks[CheckName(k)] = CheckOK
			loaded++
		} else {
			checks[CheckName(k)] = CheckError
		}
	}

	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			checks["store"] = CheckError
		} else {
			checks["store"] = CheckOK
		}
	}

	if loaded == 0 {
		return Report{Status: Unhealthy, Checks: checks}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
