package main

import (
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/dentalcare-api/pkg/messaging"
)

func newListenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Log domain events published on the Redis channel",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.connectBroker(ctx); err != nil {
				return err
			}
			if a.broker == nil {
				return errors.New("listen requires redis.enabled")
			}

			messages, err := a.broker.Subscribe(ctx, a.cfg.Redis.Channel)
			if err != nil {
				return err
			}
			a.log.Info().Str("channel", a.cfg.Redis.Channel).Msg("listening for events")

			for raw := range messages {
				evt, err := messaging.DecodeEvent(raw)
				if err != nil {
					a.log.Warn().Err(err).Msg("skipping malformed event")
					continue
				}
				a.log.Info().
					Str("event_id", evt.ID.String()).
					Str("type", evt.Type).
					Time("occurred_at", evt.OccurredAt).
					RawJSON("payload", evt.Payload).
					Msg("event received")
			}
			return nil
		},
	}
}
