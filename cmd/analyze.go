package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/analysis"
	"github.com/abhisek/smartstudy/internal/extract"
	"github.com/abhisek/smartstudy/internal/llm"
	"github.com/abhisek/smartstudy/internal/study"
	"github.com/abhisek/smartstudy/internal/ui/layout"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Analyze study text and save it as a session",
	Long: "Analyze study text with the configured LLM and print the summary, key\n" +
		"concepts and quiz. Text comes from --file (.pdf, .txt, .md), --text, the\n" +
		"arguments, or stdin. When logged in the result is saved as a session.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text, err := readInput(cmd, args)
		if err != nil {
			return err
		}

		analyzer, closeFn, err := newAnalyzer(ctx, cmd)
		if err != nil {
			return err
		}
		defer closeFn()

		fmt.Fprintln(os.Stderr, "Analyzing…")
		pkg, err := analyzer.Submit(ctx, "cli", text)
		if err != nil {
			return err
		}

		asJSON, _ := cmd.Flags().GetBool("json")
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(pkg); err != nil {
				return err
			}
		} else {
			printPackage(pkg)
		}

		if noSave, _ := cmd.Flags().GetBool("no-save"); noSave {
			return nil
		}
		sess, err := requireLogin(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, "\nNot saved:", err)
			return nil
		}

		title, _ := cmd.Flags().GetString("title")
		saved, err := sess.client.CreateSession(ctx, study.Session{
			OwnerID:   sess.user().ID,
			Title:     strings.TrimSpace(title),
			InputText: text,
			Package:   *pkg,
		})
		if err != nil {
			return fmt.Errorf("save session: %w", explain(err))
		}
		fmt.Fprintf(os.Stderr, "\nSaved session %s (%q). Run `smartstudy quiz %s` to practice.\n",
			saved.ID, saved.Title, saved.ID)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringP("file", "f", "", "Read text from a .pdf, .txt or .md file")
	analyzeCmd.Flags().String("text", "", "Text to analyze")
	analyzeCmd.Flags().String("title", "", "Session title (derived from the summary when empty)")
	analyzeCmd.Flags().Bool("no-save", false, "Do not save the result as a session")
	analyzeCmd.Flags().Bool("json", false, "Print the study package as JSON")
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		text, err := extract.FileText(path)
		if err != nil {
			return "", err
		}
		return text, nil
	}
	if text, _ := cmd.Flags().GetString("text"); text != "" {
		return text, nil
	}
	if len(args) > 0 && !(len(args) == 1 && args[0] == "-") {
		return strings.Join(args, " "), nil
	}

	if len(args) == 0 && isTerminal(os.Stdin) {
		return "", fmt.Errorf("no input: pass --file, --text, arguments, or pipe text on stdin")
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// newAnalyzer wires the configured provider, with every call recorded in
// the local event log, into an Analyzer. The returned func closes the log.
func newAnalyzer(ctx context.Context, cmd *cobra.Command) (*analysis.Analyzer, func(), error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, nil, err
	}

	provider, err := llm.NewProvider(ctx, llm.ResolveConfig(), st.EventRepo(), log)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	client, err := analysis.NewClient(provider, analysis.DefaultGenerationConfig())
	if err != nil {
		st.Close()
		return nil, nil, err
	}

	return analysis.NewAnalyzer(client, analysis.WithLogger(log)), func() { st.Close() }, nil
}

func printPackage(pkg *study.Package) {
	sep := strings.Repeat("─", 60)

	fmt.Println("SUMMARY")
	fmt.Println(sep)
	fmt.Println(layout.PlainText(pkg.Summary))
	fmt.Println()

	fmt.Println("KEY CONCEPTS")
	fmt.Println(sep)
	for _, c := range pkg.KeyConcepts {
		fmt.Printf("• %s: %s\n", layout.PlainText(c.Term), layout.PlainText(c.Definition))
		if c.Example != "" {
			fmt.Printf("    e.g. %s\n", layout.PlainText(c.Example))
		}
	}
	fmt.Println()

	fmt.Printf("QUIZ (%d questions)\n", len(pkg.Quiz))
	fmt.Println(sep)
	for i, q := range pkg.Quiz {
		fmt.Printf("%2d. %s\n", i+1, layout.PlainText(q.Question))
	}
}
