package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinyj/internal/goals"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

type listFlags struct {
	tree  string
	state string
}

func newListCmd(a *app) *cobra.Command {
	var lf listFlags
	cmd := &cobra.Command{
		Use:   "list [goals|habits|tasks]",
		Short: "List entries",
		Long: "List stored entries, optionally of one kind. With --tree the entries of\n" +
			"one goal tree are shown as an indented outline.",
		Example: "  tinyj list\n  tinyj list habits\n  tinyj list --tree marathon\n  tinyj list goals --state complete",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, a, lf, args)
		},
	}
	cmd.Flags().StringVar(&lf.tree, "tree", "", "show the tree containing this id or alias, or a tree id")
	cmd.Flags().StringVar(&lf.state, "state", "", "only entries in this state")
	return cmd
}

func runList(cmd *cobra.Command, a *app, lf listFlags, args []string) error {
	q := types.Query{}
	if len(args) == 1 {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		q["kind"] = kind
	}
	if lf.state != "" {
		q["state"] = lf.state
	}

	svc, err := a.service()
	if err != nil {
		return err
	}
	if lf.tree != "" {
		treeID := lf.tree
		if e, err := svc.Get(lf.tree); err == nil {
			treeID = e.Identity().TreeID
		}
		q["tree_id"] = treeID
	}

	found, err := svc.List(q)
	if err != nil {
		return classify(err)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, found)
	}
	if len(found) == 0 {
		fmt.Fprintln(out, "nothing found")
		return nil
	}

	var rows [][]string
	if lf.tree != "" {
		for _, r := range goals.Outline(found) {
			rows = append(rows, row(r.Entity, strings.Repeat("  ", r.Depth)))
		}
	} else {
		for _, e := range found {
			rows = append(rows, row(e, ""))
		}
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("ID", "KIND", "ALIAS", "STATE", "PROGRESS").
		Rows(rows...)
	fmt.Fprintln(out, t.Render())
	return nil
}

func row(e types.Entity, indent string) []string {
	return []string{
		shortID(e.Identity().NodeID),
		e.Kind(),
		indent + e.Label(),
		goals.StatusOf(e).State,
		completion(e),
	}
}
