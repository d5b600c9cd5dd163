package health

import (
	"context"

	"github.com/Pawan-142/healthrisk/internal/domain/condition"
)

// ModelChecker reports per-condition classifier availability.
type ModelChecker interface {
	IsAvailable(kind condition.Kind) bool
}

// DBPinger checks artifact store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
