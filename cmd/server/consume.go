package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kvn-koech/car-rental-management-system/internal/queue"
)

// consumeCmd runs the booking event consumer
var consumeCmd = &cobra.Command{
	Use:   "consume",
	Short: "Append booking status events to the booking log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c := queue.NewConsumer(cfg.RabbitMQ.URL, cfg.Booking.LogDir, log)
		log.Info("consumer starting", "queue", queue.BookingStatusQueue, "log_dir", cfg.Booking.LogDir)
		if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		log.Info("consumer stopped")
		return nil
	},
}
