package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinyj/internal/question"
)

func newNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "new <goal|habit|task>",
		Short:     "Create a goal, habit or task by answering questions",
		Long:      "Walk through the question sequence for the given kind and store the result.\nAnswer Q to a list of choices to finish it; press enter to skip optional questions.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNew(cmd, a, args[0])
		},
	}
}

func runNew(cmd *cobra.Command, a *app, arg string) error {
	kind, err := parseKind(arg)
	if err != nil {
		return err
	}
	svc, err := a.service()
	if err != nil {
		return err
	}
	ex, err := svc.Existing()
	if err != nil {
		return sysError(fmt.Errorf("list existing entries: %w", err))
	}
	seq, err := question.Sequence(kind, ex)
	if err != nil {
		return userError(err)
	}

	console := a.console()
	answers, err := a.engine(console).Run(seq)
	if err != nil {
		return classify(err)
	}
	res, err := svc.Create(kind, answers)
	if err != nil {
		return classify(err)
	}

	if a.flags.jsonMode {
		return writeJSON(cmd.OutOrStdout(), res.Entity)
	}
	console.Blank(1)
	console.Success(fmt.Sprintf("Created %s %q (%s)", kind, res.Entity.Label(), res.Entity.Identity().NodeID))
	if len(res.Moved) > 0 {
		console.Notice("renumbered: " + strings.Join(res.Moved, ", "))
	}
	if res.Cycle != nil {
		console.Notice("warning: prerequisite cycle " + strings.Join(res.Cycle, " -> "))
	}
	return nil
}
