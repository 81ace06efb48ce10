package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <goal|habit|task> <id|alias>",
		Short: "Delete an entry without children",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := parseKind(args[0])
			if err != nil {
				return err
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.Remove(kind, args[1]); err != nil {
				return classify(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %q\n", kind, args[1])
			return nil
		},
	}
}
