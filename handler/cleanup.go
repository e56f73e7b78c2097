package handler

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"video-gallery/dto"
	"video-gallery/service"
)

type ConsumerDependencies struct {
	CleanupService service.CleanupService
}

func OrphanCleanupHandler(ctx context.Context, msg amqp.Delivery, deps ConsumerDependencies) error {
	var orphan dto.OrphanedAssetMessage
	if err := json.Unmarshal(msg.Body, &orphan); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to unmarshal orphaned asset message")
		return backoff.Permanent(err)
	}

	zerolog.Ctx(ctx).Info().
		Str("public_id", orphan.PublicID).
		Str("user_id", orphan.UserID).
		Str("reason", string(orphan.Reason)).
		Msg("received orphaned asset message")

	err := deps.CleanupService.Cleanup(ctx, orphan)
	if errors.Is(err, service.ErrNonRetryable) {
		return backoff.Permanent(err)
	}
	return err
}
