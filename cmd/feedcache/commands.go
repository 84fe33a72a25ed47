package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/feedcache/pkg/health"
	"github.com/dmitrymomot/feedcache/pkg/invalidation"
)

type rootOptions struct {
	redisURL string
	prefix   string
	metrics  bool
}

type runFunc func(cmd *cobra.Command, args []string, rt *runtime) error

type cli struct {
	connect connector
	opts    rootOptions
}

func newRootCmd(connect connector) *cobra.Command {
	c := &cli{connect: connect}

	root := &cobra.Command{
		Use:           "feedcache",
		Short:         "Inspect and invalidate the feed read-through cache",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.redisURL, "redis-url", "", "store URL, overrides REDIS_URL")
	flags.StringVar(&c.opts.prefix, "prefix", "", "key prefix, overrides REDIS_KEY_PREFIX")
	flags.BoolVar(&c.opts.metrics, "metrics", false, "print cache metrics after the command")

	root.AddCommand(
		c.pingCmd(),
		c.keysCmd(),
		c.getCmd(),
		c.invalidateCmd(),
		c.patternsCmd(),
		c.applyCmd(),
	)

	return root
}

// run connects, runs fn and closes the store. Metrics are printed after a
// successful run when requested.
func (c *cli) run(fn runFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		rt, err := c.connect(cmd.Context(), c.opts)
		if err != nil {
			return err
		}
		defer func() { err = errors.Join(err, rt.Close()) }()

		if err := fn(cmd, args, rt); err != nil {
			return err
		}
		if c.opts.metrics {
			return writeMetrics(cmd.OutOrStdout(), rt.registry)
		}
		return nil
	}
}

func (c *cli) pingCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Check that the store is reachable and accepts writes",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			report := health.Run(cmd.Context(), rt.checks,
				health.WithTimeout(timeout),
				health.WithLogger(rt.log),
			)

			out := cmd.OutOrStdout()
			for _, name := range report.Names() {
				check := report.Checks[name]
				fmt.Fprintf(out, "%s\t%s\t%s\n", name, check.Status, check.Latency.Round(time.Microsecond))
			}
			return report.Err()
		}),
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "deadline shared by all checks")

	return cmd
}

func (c *cli) keysCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "keys <pattern>",
		Short: "List cached keys matching a glob pattern",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, rt *runtime) error {
			out := cmd.OutOrStdout()
			n := 0
			for key, err := range rt.store.Scan(cmd.Context(), args[0]) {
				if err != nil {
					return err
				}
				fmt.Fprintln(out, key)
				n++
				if limit > 0 && n >= limit {
					break
				}
			}
			return nil
		}),
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many keys (0 lists all)")

	return cmd
}

func (c *cli) getCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the raw cached value of a key",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, rt *runtime) error {
			value, ok, err := rt.store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("key %q not found", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(value))
			return nil
		}),
	}
}

func (c *cli) invalidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invalidate <pattern>...",
		Short: "Delete every key matching the given glob patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string, rt *runtime) error {
			out := cmd.OutOrStdout()
			for _, pattern := range args {
				n, err := rt.cache.Invalidate(cmd.Context(), pattern)
				fmt.Fprintf(out, "%s\t%d\n", pattern, n)
				if err != nil {
					return fmt.Errorf("invalidate %q: %w", pattern, err)
				}
			}
			return nil
		}),
	}
}

func (c *cli) patternsCmd() *cobra.Command {
	var m invalidation.Mutation

	cmd := &cobra.Command{
		Use:       "patterns <kind>",
		Short:     "Print the patterns a mutation invalidates, without touching the store",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			m.Kind = invalidation.Kind(args[0])
			patterns, err := invalidation.Patterns(m)
			if err != nil {
				return err
			}
			for _, p := range patterns {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	mutationFlags(cmd, &m)

	return cmd
}

func (c *cli) applyCmd() *cobra.Command {
	var (
		m           invalidation.Mutation
		concurrency int
	)

	cmd := &cobra.Command{
		Use:       "apply <kind>",
		Short:     "Invalidate everything a committed mutation makes stale",
		Args:      cobra.ExactArgs(1),
		ValidArgs: kindNames(),
		PreRunE: func(_ *cobra.Command, args []string) error {
			m.Kind = invalidation.Kind(args[0])
			_, err := invalidation.Patterns(m)
			return err
		},
		RunE: c.run(func(cmd *cobra.Command, _ []string, rt *runtime) error {
			inv := invalidation.New(rt.cache,
				invalidation.WithLogger(rt.log),
				invalidation.WithConcurrency(concurrency),
			)
			res := inv.Apply(cmd.Context(), m)

			out := cmd.OutOrStdout()
			for _, p := range res.Patterns {
				fmt.Fprintln(out, p)
			}
			fmt.Fprintf(out, "removed %d keys\n", res.Removed)

			if !res.OK() {
				errs := make([]error, 0, len(res.Failed))
				for _, f := range res.Failed {
					errs = append(errs, fmt.Errorf("%s: %w", f.Pattern, f.Err))
				}
				return fmt.Errorf("%d of %d patterns failed: %w", len(res.Failed), len(res.Patterns), errors.Join(errs...))
			}
			return nil
		}),
	}
	mutationFlags(cmd, &m)
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "patterns invalidated in parallel")

	return cmd
}

func mutationFlags(cmd *cobra.Command, m *invalidation.Mutation) {
	f := cmd.Flags()
	f.StringVar(&m.UserID, "user-id", "", "acting or affected user id")
	f.StringVar(&m.Username, "username", "", "acting or affected username")
	f.StringVar(&m.PostID, "post-id", "", "affected post id")
	f.StringVar(&m.PostAuthorUsername, "post-author", "", "username of the post's author")
	f.StringVar(&m.PreviousUsername, "previous-username", "", "old username on rename")
	cmd.Long = cmd.Short + "\n\nKinds: " + strings.Join(kindNames(), ", ")
}

func kindNames() []string {
	kinds := invalidation.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
