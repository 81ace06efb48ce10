package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tinyj/internal/question"
)

func newAskCmd(a *app) *cobra.Command {
	var catalogPath string
	cmd := &cobra.Command{
		Use:   "ask --catalog <file> [sequence]",
		Short: "Run a question sequence from a YAML catalog",
		Long: "Load a YAML question catalog and run one of its sequences, printing the\n" +
			"answers. Without a sequence name the available names are listed.\n" +
			"Nothing is stored.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, a, catalogPath, args)
		},
	}
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to the YAML catalog")
	_ = cmd.MarkFlagRequired("catalog")
	return cmd
}

func runAsk(cmd *cobra.Command, a *app, path string, args []string) error {
	cat, err := question.LoadCatalogFile(path)
	if err != nil {
		return userError(err)
	}
	out := cmd.OutOrStdout()
	if len(args) == 0 {
		if a.flags.jsonMode {
			return writeJSON(out, cat.Names())
		}
		fmt.Fprintln(out, strings.Join(cat.Names(), "\n"))
		return nil
	}

	seq, ok := cat[args[0]]
	if !ok {
		return userError(fmt.Errorf("%w: %q (available: %s)", question.ErrUnknownSequence, args[0], strings.Join(cat.Names(), ", ")))
	}
	console := a.console()
	answers, err := a.engine(console).Run(seq)
	if err != nil {
		return classify(err)
	}

	if a.flags.jsonMode {
		shown := make(map[string]string, len(answers))
		for name, v := range answers {
			shown[name] = question.Display(v)
		}
		return writeJSON(out, shown)
	}
	console.Blank(1)
	for _, q := range seq {
		printAnswer(console.Println, &q, answers)
	}
	return nil
}

// printAnswer prints q's answer and its followup's, in sequence order.
func printAnswer(println func(string), q *question.Question, answers question.Answers) {
	if v, ok := answers[q.Name]; ok {
		println(fmt.Sprintf("%s: %s", q.Name, question.Display(v)))
	}
	if q.Followup != nil && q.Followup.Question != nil {
		printAnswer(println, q.Followup.Question, answers)
	}
}
