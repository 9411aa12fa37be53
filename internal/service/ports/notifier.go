package ports

import (
	"context"

	"github.com/yoursongrequest/ysr/internal/domain"
)

type PerformerNotifier interface {
	NotifyRequestReceived(ctx context.Context, performer *domain.Performer, request *domain.Request)
	NotifyTipReceived(ctx context.Context, performer *domain.Performer, request *domain.Request)
	NotifySessionEnded(ctx context.Context, performer *domain.Performer)
}
