package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/analytics"
	"github.com/abhisek/smartmcq/internal/api"
	"github.com/abhisek/smartmcq/internal/model"
	"github.com/abhisek/smartmcq/internal/render"
)

var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "Browse a course's test bank",
}

var testsListCmd = &cobra.Command{
	Use:   "list <course-id>",
	Short: "List the tests of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		ctx := cmd.Context()
		if _, err := b.signedIn(ctx); err != nil {
			return err
		}

		tests, err := b.client.Tests(ctx, args[0])
		if err != nil {
			return errors.New(api.Message(err, api.KindLoad))
		}
		if len(tests) == 0 {
			fmt.Println("No tests in this course yet.")
			return nil
		}

		table := newTable("ID", "Title", "Questions", "Updated")
		for _, t := range tests {
			updated := "-"
			if !t.UpdatedAt.IsZero() {
				updated = t.UpdatedAt.Local().Format("2006-01-02 15:04")
			}
			table.Row(t.ID, render.Truncate(t.Title, 36), strconv.Itoa(t.QuestionCount), updated)
		}
		writeTable(cmd.OutOrStdout(), table)
		return nil
	},
}

var testsShowCmd = &cobra.Command{
	Use:   "show <course-id> <test-id>",
	Short: "Print a test with its questions as configured",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		ctx := cmd.Context()
		if _, err := b.signedIn(ctx); err != nil {
			return err
		}

		t, err := b.client.Test(ctx, args[0], args[1])
		if err != nil {
			return errors.New(api.Message(err, api.KindLoad))
		}

		cfg := t.Configuration
		if key, _ := cmd.Flags().GetBool("key"); key {
			cfg.IncludeAnswerKey = true
		}
		printTest(os.Stdout, *t, cfg)
		return nil
	},
}

var testsAnalyticsCmd = &cobra.Command{
	Use:   "analytics <course-id> <test-id>",
	Short: "Print psychometric analytics for a test",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBackend(cmd)
		if err != nil {
			return err
		}
		defer b.Close()

		ctx := cmd.Context()
		if _, err := b.signedIn(ctx); err != nil {
			return err
		}

		t, err := b.client.Test(ctx, args[0], args[1])
		if err != nil {
			return errors.New(api.Message(err, api.KindLoad))
		}

		fmt.Println(t.Title)
		fmt.Println()
		printReport(os.Stdout, analytics.Compute(t.MemberQuestions()))
		return nil
	},
}

// printTest writes t as plain text, numbering questions and labelling
// answers under cfg.
func printTest(w io.Writer, t model.Test, cfg model.Configuration) {
	fmt.Fprintln(w, t.Title)
	if t.Description != "" {
		fmt.Fprintln(w, render.StripTags(t.Description))
	}
	fmt.Fprintln(w, strings.Repeat("─", 60))

	for i, q := range t.MemberQuestions() {
		fmt.Fprintf(w, "\n%d. %s\n", i+1, render.StripTags(q.Text))
		for _, line := range render.AnswerLines(q, cfg) {
			mark := ""
			if line.Key {
				mark = "  ✓"
			}
			fmt.Fprintf(w, "   %s %s%s\n", line.Label, line.Text, mark)
		}
	}
}

// printReport writes the analytics report as plain-text tables.
func printReport(w io.Writer, r analytics.Report) {
	sep := strings.Repeat("─", 48)

	fmt.Fprintf(w, "Questions:            %d\n", r.QuestionCount)
	fmt.Fprintf(w, "Mean difficulty:      %s\n", r.MeanDifficulty)
	fmt.Fprintf(w, "Mean discrimination:  %s\n", r.MeanDiscrimination)
	fmt.Fprintf(w, "Mean p-value:         %s\n", r.MeanPValue)

	printBins := func(title string, bins []analytics.Bin) {
		fmt.Fprintln(w)
		fmt.Fprintln(w, title)
		fmt.Fprintln(w, sep)
		for _, bin := range bins {
			fmt.Fprintf(w, "%-20s  %5d\n", bin.Label, bin.Count)
		}
	}
	printBins(fmt.Sprintf("Difficulty (%d with data)", r.WithDifficulty), r.Difficulty)
	printBins(fmt.Sprintf("Discrimination (%d with data)", r.WithDiscrimination), r.Discrimination)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Item Quality")
	fmt.Fprintln(w, sep)
	fmt.Fprintf(w, "%-20s  %5d\n", "Optimal", r.Insights.Optimal)
	fmt.Fprintf(w, "%-20s  %5d\n", "Poor discrimination", r.Insights.Poor)
	fmt.Fprintf(w, "%-20s  %5d\n", "Too hard", r.Insights.TooHard)
	fmt.Fprintf(w, "%-20s  %5d\n", "Too easy", r.Insights.TooEasy)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Bloom × Difficulty")
	fmt.Fprintln(w, sep)
	tiers := model.AllDifficulties()
	fmt.Fprintf(w, "%-12s", "")
	for _, d := range tiers {
		fmt.Fprintf(w, "  %6s", d.Label())
	}
	fmt.Fprintf(w, "  %6s\n", "Total")
	for _, row := range r.CrossTab.Rows {
		fmt.Fprintf(w, "%-12s", row.Level.Label())
		for _, d := range tiers {
			fmt.Fprintf(w, "  %6d", row.Counts[d])
		}
		fmt.Fprintf(w, "  %6d\n", row.Total)
	}
	fmt.Fprintf(w, "%-12s", "Total")
	for _, d := range tiers {
		fmt.Fprintf(w, "  %6d", r.CrossTab.ColumnTotal[d])
	}
	fmt.Fprintf(w, "  %6d\n", r.CrossTab.Total)

	if len(r.SuccessRates) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Success Rate")
		fmt.Fprintln(w, sep)
		for _, s := range r.SuccessRates {
			fmt.Fprintf(w, "%-6s  %5.1f%%\n", s.Label, s.Percent)
		}
	}
}

func init() {
	testsShowCmd.Flags().BoolP("key", "k", false, "Mark correct answers regardless of the test's answer-key setting")

	testsCmd.AddCommand(testsListCmd)
	testsCmd.AddCommand(testsShowCmd)
	testsCmd.AddCommand(testsAnalyticsCmd)
}
