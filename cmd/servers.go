package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/m96-chan/rivet/internal/discord"
	"github.com/m96-chan/rivet/internal/keyring"
	"github.com/m96-chan/rivet/internal/model"
)

func newServersCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "servers",
		Short: "List the servers you belong to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			token, err := keyring.GetToken()
			if err != nil {
				return err
			}
			client, err := discord.New(token)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			servers, err := client.Servers(ctx)
			if err != nil {
				return fmt.Errorf("fetching servers: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), serversTable(servers))
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
	return cmd
}

func serversTable(servers []model.Server) *uitable.Table {
	bold := color.New(color.Bold).SprintFunc()

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("ID"), bold("Name"))
	for _, s := range servers {
		tbl.AddRow(s.ID, s.Name)
	}
	return tbl
}
