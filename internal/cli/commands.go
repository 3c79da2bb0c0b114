package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jonwraymond/filememo/cache"
	"github.com/jonwraymond/filememo/health"
)

// errUnhealthy is returned by check when the cache is unusable.
var errUnhealthy = errors.New("cache is unhealthy")

func init() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dirCmd)

	lsCmd.Flags().Bool("json", false, "Emit entries as JSON")

	purgeCmd.Flags().Duration("older-than", 0, "Only remove entries last written before this long ago (0 = all)")
	purgeCmd.Flags().Bool("dry-run", false, "Report what would be removed without removing it")

	checkCmd.Flags().Bool("json", false, "Emit the report as JSON")
	checkCmd.Flags().Duration("timeout", 10*time.Second, "Upper bound for all checks")
}

// lsCmd lists cache entries
var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cache entries with size and age",
	Args:  cobra.NoArgs,
	RunE:  handleList,
}

// purgeCmd removes cache entries
var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Remove cache entries, optionally only those older than a given age",
	Args:  cobra.NoArgs,
	RunE:  handlePurge,
}

// checkCmd runs the health checks
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the cache directory is usable",
	Args:  cobra.NoArgs,
	RunE:  handleCheck,
}

// dirCmd prints the resolved directory
var dirCmd = &cobra.Command{
	Use:   "dir",
	Short: "Print the resolved cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := openCache()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), c.Dir())
		return nil
	},
}

type entryJSON struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

func handleList(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	c, err := openCache()
	if err != nil {
		return err
	}
	entries, err := c.List(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		list := make([]entryJSON, 0, len(entries))
		for _, e := range entries {
			list = append(list, entryJSON{Name: e.Name, Size: e.Size, ModTime: e.ModTime})
		}
		return writeJSON(out, list)
	}

	if len(entries) == 0 {
		fmt.Fprintf(out, "No entries in %s\n", c.Dir())
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tWRITTEN")
	var total int64
	for _, e := range entries {
		total += e.Size
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, humanize.Bytes(uint64(e.Size)), humanize.Time(e.ModTime))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n%s in %s\n", countEntries(len(entries), total), c.Dir())
	return nil
}

func handlePurge(cmd *cobra.Command, _ []string) error {
	olderThan, _ := cmd.Flags().GetDuration("older-than")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	c, err := openCache()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if dryRun {
		entries, err := c.List(cmd.Context())
		if err != nil {
			return err
		}
		var (
			n     int
			total int64
		)
		for _, e := range entries {
			if olderThan > 0 && time.Since(e.ModTime) <= olderThan {
				continue
			}
			n++
			total += e.Size
			fmt.Fprintf(out, "would remove %s\n", e.Name)
		}
		fmt.Fprintf(out, "%s would be removed\n", countEntries(n, total))
		return nil
	}

	removed, err := c.Purge(cmd.Context(), olderThan)
	fmt.Fprintf(out, "Removed %d %s from %s\n", removed, plural(removed, "entry", "entries"), c.Dir())
	return err
}

func handleCheck(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	c, err := openCache()
	if err != nil {
		return err
	}

	agg := health.NewAggregator(health.AggregatorConfig{Timeout: timeout})
	if err := agg.Register(c); err != nil {
		return err
	}
	if err := agg.Register(health.NewCheckerFunc("config", checkConfig)); err != nil {
		return err
	}

	report, err := agg.Run(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON {
		if err := writeJSON(out, report); err != nil {
			return err
		}
	} else {
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CHECK\tSTATUS\tMESSAGE")
		for _, r := range report.Checks {
			msg := r.Message
			if r.Error != nil {
				msg += ": " + r.Error.Error()
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Status, msg)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "\noverall: %s\n", report.Status)
	}

	if report.Status == health.StatusUnhealthy {
		return errUnhealthy
	}
	return nil
}

// checkConfig reports how the environment configures memoization.
func checkConfig(context.Context) health.Result {
	dir, err := cache.Dir()
	if err != nil {
		return health.Unhealthy("cache directory cannot be resolved", err)
	}
	details := map[string]any{"dir": dir, "enabled": cache.Enabled()}
	if !cache.Enabled() {
		return health.Degraded(fmt.Sprintf("caching disabled by %s", cache.EnvEnabled)).WithDetails(details)
	}
	return health.Healthy("caching enabled").WithDetails(details)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func countEntries(n int, size int64) string {
	return fmt.Sprintf("%d %s, %s", n, plural(n, "entry", "entries"), humanize.Bytes(uint64(size)))
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
