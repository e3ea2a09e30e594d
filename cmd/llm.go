package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartstudy/internal/llm"
	"github.com/abhisek/smartstudy/internal/store"
	"github.com/abhisek/smartstudy/internal/ui/layout"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the local log of LLM requests",
	Long: "Every analysis request is recorded in a local SQLite log together with\n" +
		"token usage, latency and the raw request/response bodies.",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No LLM requests recorded yet.")
			return nil
		}
		return writeEvents(cmd.OutOrStdout(), events)
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM request with its full request and response bodies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid event ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no LLM request with ID %d", id)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(e)
		}
		writeEvent(cmd.OutOrStdout(), e)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		byPurpose, err := s.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(byPurpose) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No LLM usage recorded yet.")
			return nil
		}
		byModel, err := s.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}

		w := cmd.OutOrStdout()
		if err := writePurposeUsage(w, byPurpose); err != nil {
			return err
		}
		fmt.Fprintln(w)
		return writeCost(w, estimateCost(byModel))
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show requests with this purpose (e.g. analysis)")
	llmViewCmd.Flags().Bool("json", false, "Print the event as JSON")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func writeEvents(w io.Writer, events []store.LLMRequestEvent) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTIME\tPURPOSE\tPROVIDER\tMODEL\tIN\tOUT\tMS\tOK")
	for _, e := range events {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04:05"),
			truncate(e.Purpose, 12),
			e.Provider,
			truncate(e.Model, 28),
			e.InputTokens, e.OutputTokens, e.LatencyMs,
			ok,
		)
	}
	return tw.Flush()
}

func writeEvent(w io.Writer, e *store.LLMRequestEvent) {
	fmt.Fprintf(w, "Request %d (%s)\n", e.ID, e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "  %s / %s, purpose %q\n", e.Provider, e.Model, e.Purpose)
	fmt.Fprintf(w, "  %d tokens in, %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
	if e.Success {
		fmt.Fprintln(w, "  succeeded")
	} else {
		fmt.Fprintf(w, "  failed: %s\n", e.ErrorMessage)
	}

	for _, part := range []struct{ name, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintf(w, "\n── %s %s\n", part.name, strings.Repeat("─", 56-len(part.name)))
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

func writePurposeUsage(w io.Writer, usage []store.PurposeUsage) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "PURPOSE\tCALLS\tINPUT\tOUTPUT\tAVG MS")
	var total store.PurposeUsage
	for _, u := range usage {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\n", u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		total.Calls += u.Calls
		total.InputTokens += u.InputTokens
		total.OutputTokens += u.OutputTokens
	}
	fmt.Fprintf(tw, "total\t%d\t%d\t%d\t\n", total.Calls, total.InputTokens, total.OutputTokens)
	return tw.Flush()
}

type modelCost struct {
	store.ModelUsage
	USD   float64
	Known bool
}

type costReport struct {
	Models  []modelCost
	Total   float64
	Unknown []string
}

// estimateCost prices each model's usage. Models without a price are
// listed in Unknown and excluded from Total.
func estimateCost(usage []store.ModelUsage) costReport {
	var r costReport
	for _, u := range usage {
		mc := modelCost{ModelUsage: u}
		if price := llm.LookupCost(u.Model); price != nil {
			mc.USD = price.Cost(u.InputTokens, u.OutputTokens)
			mc.Known = true
			r.Total += mc.USD
		} else {
			r.Unknown = append(r.Unknown, u.Model)
		}
		r.Models = append(r.Models, mc)
	}
	return r
}

func writeCost(w io.Writer, r costReport) error {
	if len(r.Models) == 0 {
		return nil
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "MODEL\tCALLS\tINPUT\tOUTPUT\tCOST")
	for _, m := range r.Models {
		cost := "?"
		if m.Known {
			cost = formatCost(m.USD)
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n", truncate(m.Model, 32), m.Calls, m.InputTokens, m.OutputTokens, cost)
	}
	label := "total"
	if len(r.Unknown) > 0 {
		label = "total (partial)"
	}
	fmt.Fprintf(tw, "%s\t\t\t\t%s\n", label, formatCost(r.Total))
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(r.Unknown) > 0 {
		fmt.Fprintf(w, "\nNo pricing for: %s\n", strings.Join(r.Unknown, ", "))
	}
	return nil
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
// Terminal control sequences are dropped first.
func truncate(s string, n int) string {
	s = layout.PlainText(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

// openStore opens the local LLM event log named by --db or the defaults.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
