package driven

import (
	"context"

	"github.com/agentboard/agentboard/internal/domain/model"
)

// Notifier defines the driven port for posting run recaps to an external
// messaging channel. Implementations may be no-ops when unconfigured.
type Notifier interface {
	Notify(ctx context.Context, recap model.Recap) error
}
