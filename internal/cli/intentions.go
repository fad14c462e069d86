package cli

import (
	"fmt"

	"Niyyah-Backend/internal/domain"

	"github.com/spf13/cobra"
)

func newIntentionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "intentions",
		Short: "List the suggested intentions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, intention := range domain.DefaultIntentions {
				fmt.Fprintln(a.stdout, intention)
			}
			return nil
		},
	}
}
