package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/engYuns/rengintech/internal/domain"
	"github.com/engYuns/rengintech/internal/repos"
)

func newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write clients, reviews and bookings to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format must be json or yaml, got %q", format)
			}
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := repos.Open(ctx, cfg.Storage())
			if err != nil {
				return fmt.Errorf("open storage: %w", err)
			}
			defer store.Close()

			content, err := collect(ctx, store)
			if err != nil {
				return err
			}
			return writeContent(cmd.OutOrStdout(), format, content)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	return cmd
}

func collect(ctx context.Context, store repos.Storage) (domain.Content, error) {
	var out domain.Content
	var err error
	if out.Clients, err = store.GetAllClients(ctx); err != nil {
		return out, fmt.Errorf("export clients: %w", err)
	}
	if out.Reviews, err = store.GetAllReviews(ctx); err != nil {
		return out, fmt.Errorf("export reviews: %w", err)
	}
	if out.Bookings, err = store.GetAllBookings(ctx); err != nil {
		return out, fmt.Errorf("export bookings: %w", err)
	}
	return out, nil
}

func writeContent(w io.Writer, format string, c domain.Content) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
