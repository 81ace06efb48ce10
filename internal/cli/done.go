package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinyj/internal/goals"
	"github.com/mesh-intelligence/tinyj/internal/prompt"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

func newDoneCmd(a *app) *cobra.Command {
	var progress float64
	var spent string
	cmd := &cobra.Command{
		Use:   "done <id|alias>",
		Short: "Record progress on an entry",
		Long: "Mark a habit done for the current period, count one rep of a task, or\n" +
			"complete a goal. --progress sets a goal or task to a percentage instead.",
		Example: "  tinyj done stretch --spent \"20 min\"\n  tinyj done novel --progress 40",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p *float64
			if cmd.Flags().Changed("progress") {
				if progress < 0 || progress > 100 {
					return userError(fmt.Errorf("%w: progress must be between 0 and 100", types.ErrInvalidCompletion))
				}
				frac := progress / 100
				p = &frac
			}
			var d time.Duration
			if spent != "" {
				tod, err := prompt.ParseTimeOfDay(spent)
				if err != nil {
					return userError(fmt.Errorf("--spent: %w", err))
				}
				d = tod.Duration()
			}
			return runDone(cmd, a, args[0], p, d)
		},
	}
	cmd.Flags().Float64Var(&progress, "progress", 0, "completion percentage (0-100)")
	cmd.Flags().StringVar(&spent, "spent", "", "time spent, e.g. 1:30 or \"20 min\"")
	return cmd
}

func runDone(cmd *cobra.Command, a *app, ref string, progress *float64, spent time.Duration) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	e, err := svc.Complete(ref, progress, spent)
	if err != nil {
		return classify(err)
	}
	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), e)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %q: %s\n", e.Kind(), e.Label(), completion(e))
	return nil
}

func newMissCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "miss <id|alias>",
		Short: "Record a missed period or mark an entry incomplete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			e, err := svc.Miss(args[0])
			if err != nil {
				return classify(err)
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), e)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %q: %s\n", e.Kind(), e.Label(), goals.StatusOf(e).State+", "+completion(e))
			return nil
		},
	}
}
