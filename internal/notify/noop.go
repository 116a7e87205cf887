package notify

import (
	"context"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/pkg/logging"
)

var _ Service = noopService{}

// noopService logs that delivery was skipped and why.
type noopService struct {
	reason string
}

func (n noopService) Notify(ctx context.Context, result *dealsync.Result) error {
	logging.Ctx(ctx).Info().
		Str("reason", n.reason).
		Str("status", result.Status.String()).
		Msg("Notification skipped")
	return nil
}
