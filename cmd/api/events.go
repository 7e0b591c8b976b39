package main

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published domain events",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "tail",
		Short: "Print domain events from the broker until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Redis.URL == "" {
				return errors.New("redis.url is not configured")
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			broker, err := openBroker(ctx, cfg, l.Zerolog())
			if err != nil {
				return err
			}
			defer broker.Close()

			msgs, err := broker.Subscribe(ctx, cfg.Redis.Channel)
			if err != nil {
				return err
			}
			for msg := range msgs {
				fmt.Fprintln(cmd.OutOrStdout(), string(msg))
			}
			return nil
		},
	})
	return cmd
}
