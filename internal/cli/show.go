package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinyj/internal/goals"
	"github.com/mesh-intelligence/tinyj/pkg/types"
)

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id|alias>",
		Short: "Show one entry with its success score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, a, args[0])
		},
	}
}

// shown is the JSON form of show.
type shown struct {
	Entity types.Entity        `json:"entity"`
	Score  types.SuccessScore  `json:"score"`
	Streak *types.StreakRecord `json:"streak,omitempty"`
}

func runShow(cmd *cobra.Command, a *app, ref string) error {
	svc, err := a.service()
	if err != nil {
		return err
	}
	e, err := svc.Get(ref)
	if err != nil {
		return classify(err)
	}
	score, err := svc.Score(e)
	if err != nil {
		return classify(err)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		v := shown{Entity: e, Score: score}
		if h, ok := e.(*types.Habit); ok {
			v.Streak = &h.Streak
		}
		return writeJSON(out, v)
	}

	id := e.Identity()
	field(out, "alias", e.Label())
	field(out, "kind", e.Kind())
	field(out, "id", id.NodeID)
	field(out, "tree", id.String())
	field(out, "state", goals.StatusOf(e).State)
	field(out, "progress", completion(e))

	switch v := e.(type) {
	case *types.Habit:
		field(out, "goal", v.Goal)
		field(out, "frequency", v.Frequency)
		field(out, "streak", fmt.Sprintf("%d (longest %d, missed %d)",
			v.Streak.CurrentCompletionStreak, v.Streak.LongestCompletionStreak, v.Streak.CurrentIncompletionStreak))
		if v.Streak.TotalTimeSpent != nil {
			field(out, "time spent", v.Streak.TotalTimeSpent.String())
		}
	case *types.Task:
		showGoal(out, &v.Goal)
		if v.Reps != nil && v.RepsLeft != nil {
			field(out, "reps", fmt.Sprintf("%g of %g left", *v.RepsLeft, *v.Reps))
		}
	case *types.Goal:
		showGoal(out, v)
	}

	var deps []string
	for _, d := range e.Dependencies() {
		label := d.NodeID
		if p, err := svc.Get(d.NodeID); err == nil {
			label = p.Label()
		}
		deps = append(deps, label)
	}
	field(out, "requires", strings.Join(deps, ", "))
	field(out, "score", fmt.Sprintf("%d (completion %.0f%%, inertia %.2f, derailment %.2f)",
		score.Score, score.CompletionPercentage, score.SuccessInertia, score.DerailmentChance))
	return nil
}

func showGoal(out io.Writer, g *types.Goal) {
	field(out, "goal", g.Goal)
	field(out, "description", g.Description)
	field(out, "type", g.GoalType)
	field(out, "ranks", fmt.Sprintf("priority %d, importance %d, difficulty %d", g.Priority, g.Importance, g.Difficulty))
	field(out, "start", formatDate(g.StartDate))
	field(out, "due", formatDate(g.DueDate))
	field(out, "confidence", g.DeadlineConfidence)
	field(out, "tags", strings.Join(g.Tags, ", "))
	situations := make([]string, 0, len(g.IfThenPlans))
	for s := range g.IfThenPlans {
		situations = append(situations, s)
	}
	sort.Strings(situations)
	for _, s := range situations {
		field(out, "if-then", fmt.Sprintf("if %s then %s", s, g.IfThenPlans[s]))
	}
}

// field prints one "name: value" line, skipping empty values.
func field(out io.Writer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(out, "%-12s %s\n", name+":", value)
}

func formatDate(t *time.Time) string {
	switch {
	case t == nil:
		return ""
	case types.IsUndecided(*t):
		return "later"
	}
	return t.Format("2006-01-02 15:04")
}
