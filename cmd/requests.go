package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/smartmcq/internal/store"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect recorded backend API requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent API requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		failed, _ := cmd.Flags().GetBool("failed")
		since, _ := cmd.Flags().GetDuration("since")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		opts := store.QueryOpts{Limit: limit, From: sinceFlag(since)}
		if failed {
			opts.Limit = 0
		}
		events, err := s.EventRepo().QueryAPIRequests(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("query API requests: %w", err)
		}
		if failed {
			events = failedOnly(events, limit)
		}
		printAPIEvents(cmd.OutOrStdout(), events)
		return nil
	},
}

var requestsViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one recorded API request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q", args[0])
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetAPIRequest(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get API request: %w", err)
		}
		if e == nil {
			return fmt.Errorf("no API request with ID %d", id)
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:        %d\n", e.ID)
		fmt.Fprintf(w, "Time:      %s\n", stamp(e.Timestamp))
		fmt.Fprintf(w, "Request:   %s\n", e.RequestID)
		fmt.Fprintf(w, "Call:      %s %s\n", e.Method, e.Path)
		fmt.Fprintf(w, "Status:    %s\n", statusText(e.Status))
		fmt.Fprintf(w, "Latency:   %dms\n", e.LatencyMs)
		if e.ErrorMessage != "" {
			fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
		}
		return nil
	},
}

var requestsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show API calls, failures and latency per endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		usage, err := s.EventRepo().APIUsageByEndpoint(cmd.Context())
		if err != nil {
			return fmt.Errorf("usage by endpoint: %w", err)
		}
		printEndpointUsage(cmd.OutOrStdout(), usage)
		return nil
	},
}

func failedOnly(events []store.APIRequestEvent, limit int) []store.APIRequestEvent {
	var out []store.APIRequestEvent
	for _, e := range events {
		if e.Success {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// statusText is "-" for requests that never got a response.
func statusText(status int) string {
	if status == 0 {
		return "-"
	}
	return strconv.Itoa(status)
}

func printAPIEvents(w io.Writer, events []store.APIRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No API requests recorded.")
		return
	}
	t := newTable("ID", "Time", "Method", "Path", "Status", "Ms", "OK")
	for _, e := range events {
		t.Row(strconv.Itoa(e.ID), stamp(e.Timestamp), e.Method, truncate(e.Path, 44),
			statusText(e.Status), strconv.FormatInt(e.LatencyMs, 10), okMark(e.Success))
	}
	writeTable(w, t)
}

func printEndpointUsage(w io.Writer, usage []store.EndpointUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(w, "No API requests recorded.")
		return
	}
	t := newTable("Method", "Path", "Calls", "Failed", "Avg Ms")
	var calls, failures int
	for _, u := range usage {
		t.Row(u.Method, truncate(u.Path, 44), strconv.Itoa(u.Calls), strconv.Itoa(u.Failures),
			fmt.Sprintf("%.0f", u.AvgLatencyMs))
		calls += u.Calls
		failures += u.Failures
	}
	t.Row("TOTAL", "", strconv.Itoa(calls), strconv.Itoa(failures), "")
	writeTable(w, t)
}

func init() {
	requestsListCmd.Flags().IntP("limit", "n", 20, "Number of requests to show")
	requestsListCmd.Flags().Bool("failed", false, "Only show failed requests")
	requestsListCmd.Flags().Duration("since", 0, "Only show requests newer than this, e.g. 1h")

	requestsCmd.AddCommand(requestsListCmd, requestsViewCmd, requestsStatsCmd)
}
