package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/careerpilot/internal/llm"
	"github.com/abhisek/careerpilot/internal/store"
	"github.com/abhisek/careerpilot/internal/ui/components"
	"github.com/abhisek/careerpilot/internal/ui/layout"
	"github.com/abhisek/careerpilot/internal/ui/theme"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM request/response events",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}

		out := stdout(cmd)
		if len(events) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No LLM events found."))
			return nil
		}

		rows := make([][]string, 0, len(events))
		for _, e := range events {
			ok := "✓"
			if !e.Success {
				ok = "✗"
			}
			rows = append(rows, []string{
				strconv.Itoa(e.ID),
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Purpose,
				truncate(e.Model, 28),
				strconv.Itoa(e.InputTokens),
				strconv.Itoa(e.OutputTokens),
				strconv.FormatInt(e.LatencyMs, 10),
				ok,
			})
		}
		fmt.Fprintln(out, components.Table([]string{"ID", "Timestamp", "Purpose", "Model", "In", "Out", "Ms", "OK"}, rows))
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "View full request/response for an LLM event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}

		fields := []layout.Field{
			{Label: "ID", Value: strconv.Itoa(e.ID)},
			{Label: "Time", Value: e.Timestamp.Local().Format("2006-01-02 15:04:05")},
			{Label: "Provider", Value: e.Provider},
			{Label: "Model", Value: e.Model},
			{Label: "Purpose", Value: e.Purpose},
			{Label: "Tokens", Value: fmt.Sprintf("%d in / %d out", e.InputTokens, e.OutputTokens)},
			{Label: "Latency", Value: fmt.Sprintf("%dms", e.LatencyMs)},
			{Label: "Success", Value: strconv.FormatBool(e.Success)},
		}
		if e.ErrorMessage != "" {
			fields = append(fields, layout.Field{Label: "Error", Value: e.ErrorMessage})
		}

		fmt.Fprintln(stdout(cmd), layout.Stack(
			layout.RenderFields(fields),
			layout.RenderSection("REQUEST", captured(e.RequestBody)),
			layout.RenderSection("RESPONSE", captured(e.ResponseBody)),
		))
		return nil
	},
}

func captured(body string) string {
	if body == "" {
		return theme.Hint.Render("(not captured)")
	}
	return body
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregated LLM token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		out := stdout(cmd)
		stats, err := a.store.EventRepo().LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if len(stats) == 0 {
			fmt.Fprintln(out, theme.Hint.Render("No LLM usage recorded yet."))
			return nil
		}

		var totalCalls, totalIn, totalOut int
		rows := make([][]string, 0, len(stats)+1)
		for _, st := range stats {
			rows = append(rows, []string{
				st.Purpose, strconv.Itoa(st.Calls), strconv.Itoa(st.InputTokens),
				strconv.Itoa(st.OutputTokens), strconv.Itoa(st.InputTokens + st.OutputTokens),
				strconv.Itoa(st.AvgLatencyMs),
			})
			totalCalls += st.Calls
			totalIn += st.InputTokens
			totalOut += st.OutputTokens
		}
		rows = append(rows, []string{"TOTAL", strconv.Itoa(totalCalls), strconv.Itoa(totalIn),
			strconv.Itoa(totalOut), strconv.Itoa(totalIn + totalOut), ""})
		blocks := []string{layout.RenderSection("Usage by Purpose",
			components.Table([]string{"Purpose", "Calls", "Input", "Output", "Total", "Avg Ms"}, rows))}

		modelUsage, err := a.store.EventRepo().LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(modelUsage) > 0 {
			var totalCost float64
			var unknownModels []string
			rows := make([][]string, 0, len(modelUsage)+1)
			for _, mu := range modelUsage {
				price := "?"
				if cost := llm.LookupCost(mu.Model); cost != nil {
					c := cost.Cost(mu.InputTokens, mu.OutputTokens)
					totalCost += c
					price = formatCost(c)
				} else {
					unknownModels = append(unknownModels, mu.Model)
				}
				rows = append(rows, []string{truncate(mu.Model, 32), strconv.Itoa(mu.Calls),
					strconv.Itoa(mu.InputTokens), strconv.Itoa(mu.OutputTokens), price})
			}
			label := "TOTAL"
			if len(unknownModels) > 0 {
				label = "TOTAL (partial)"
			}
			rows = append(rows, []string{label, "", "", "", formatCost(totalCost)})
			blocks = append(blocks, layout.RenderSection("Estimated Cost (USD)",
				components.Table([]string{"Model", "Calls", "Input", "Output", "Cost"}, rows)))

			if len(unknownModels) > 0 {
				blocks = append(blocks, theme.Hint.Render("Pricing unavailable for: "+strings.Join(unknownModels, ", ")))
			}
		}

		fmt.Fprintln(out, layout.Stack(blocks...))
		return nil
	},
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. interview-evaluation, roadmap-plan, resume-analysis)")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}
