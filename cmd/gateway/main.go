// Package main provides the dashboard gateway binary: the HTTP API in front of
// the smart city backend plus a few operator commands.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/scm/dashboard-gateway/internal/core/access"
	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
	"github.com/scm/dashboard-gateway/internal/infrastructure/stream"
	"github.com/scm/dashboard-gateway/internal/pkg/config"
	"github.com/scm/dashboard-gateway/pkg/logger"
)

const (
	Version = "0.1.0"
	appName = "dashboard-gateway"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gateway",
		Short:         "Smart city dashboard gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd(), navCmd(), pushCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.Init(logger.Options{
				Level:   cfg.LogLevel,
				Pretty:  cfg.IsDevelopment(),
				Service: appName,
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := NewApp(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("build app: %w", err)
			}
			defer app.Close()

			return app.Run(ctx)
		},
	}
}

func navCmd() *cobra.Command {
	var roleName string

	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Print the navigation menu a role sees",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := domain.ParseRole(roleName)
			if err != nil {
				return err
			}
			sess, err := domain.NewSession("cli", role, "cli")
			if err != nil {
				return err
			}
			return printNavigation(cmd.OutOrStdout(), access.DefaultTable(), sess)
		},
	}

	cmd.Flags().StringVar(&roleName, "role", "GOVERNMENT_ADMIN", "Role to render the menu for")
	return cmd
}

func printNavigation(w io.Writer, table *access.Table, sess domain.Session) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "SECTION\tVIEW\tPATH\n")
	for _, e := range table.Visible(sess) {
		section := e.Section
		if section == "" {
			section = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", section, e.ID, e.Path)
	}
	return tw.Flush()
}

func pushCmd() *cobra.Command {
	var (
		natsURL string
		subject string
	)

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Publish a push event to the gateway's NATS subject",
	}
	cmd.PersistentFlags().StringVar(&natsURL, "nats", "nats://localhost:4222", "NATS server URL")
	cmd.PersistentFlags().StringVar(&subject, "subject", stream.DefaultSubject, "Subject to publish on")

	publish := func(cmd *cobra.Command, event ports.PushEvent) error {
		log := logger.Init(logger.Options{Level: "warn", Service: appName, Output: cmd.ErrOrStderr()})
		nc, err := stream.Connect(stream.Config{URL: natsURL, Name: appName + "-push"}, log)
		if err != nil {
			return err
		}
		defer nc.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := stream.Publish(ctx, nc, subject, event); err != nil {
			return err
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(event)
	}

	var (
		user  string
		id    string
		kind  string
		title string
		body  string
	)
	notify := &cobra.Command{
		Use:   "notification",
		Short: "Deliver a notification to one user's feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := domain.ParseNotificationKind(kind)
			if err != nil {
				return err
			}
			return publish(cmd, ports.PushEvent{
				Type: ports.PushNotification,
				User: user,
				Notification: &domain.Notification{
					ID:        id,
					Kind:      k,
					Title:     title,
					Body:      body,
					CreatedAt: time.Now().UTC(),
					UserID:    user,
				},
			})
		},
	}
	notify.Flags().StringVar(&user, "user", "", "Recipient username")
	notify.Flags().StringVar(&id, "id", "", "Notification ID assigned by the backend")
	notify.Flags().StringVar(&kind, "kind", string(domain.KindInfo), "INFO, WARNING, ERROR or SUCCESS")
	notify.Flags().StringVar(&title, "title", "", "Title")
	notify.Flags().StringVar(&body, "body", "", "Message body")
	_ = notify.MarkFlagRequired("user")
	_ = notify.MarkFlagRequired("id")

	invalidate := &cobra.Command{
		Use:   "invalidate KEY...",
		Short: "Mark cached resources stale, e.g. users:list",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return publish(cmd, ports.PushEvent{Type: ports.PushInvalidate, Keys: args})
		},
	}

	cmd.AddCommand(notify, invalidate)
	return cmd
}
