package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m96-chan/rivet/internal/cache"
	"github.com/m96-chan/rivet/internal/config"
)

func newCacheCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk message cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached message page",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := clearCache(opts.cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Message cache cleared.")
			return nil
		},
	})

	return cmd
}

// clearCache empties the configured cache directory whether or not caching
// is currently enabled.
func clearCache(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config not loaded")
	}
	store := cache.New(cfg.Cache.Dir, cfg.Cache.MaxBytes)
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}
