package main

import (
	"fmt"
	"strings"

	"github.com/amaumene/showtrack/internal/controllers"
	"github.com/amaumene/showtrack/internal/services/images"
	"github.com/spf13/cobra"
)

func newResolveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <title>",
		Short: "Resolve a poster image for a show title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, err := controllers.NormalizeTitle(strings.Join(args, " "))
			if err != nil {
				return err
			}

			image := a.newResolver(nil).Resolve(cmd.Context(), title)
			if images.IsPlaceholder(image) {
				fmt.Fprintln(cmd.ErrOrStderr(), "No poster found, using placeholder")
			}
			fmt.Fprintln(cmd.OutOrStdout(), image)
			return nil
		},
	}
}
