// Command badssl runs the badssl.com suites against the live internet and prints one line per
// fixture.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aristanetworks/glog"
	"github.com/spf13/cobra"

	"github.com/tlsharness/badssl"
)

type options struct {
	suites      []string
	categories  []string
	only        string
	timeout     time.Duration
	caFile      string
	concurrency int
	verbose     bool
}

var errFailures = errors.New("some fixtures failed")

func main() {
	var o options

	rootCmd := &cobra.Command{
		Use:   "badssl",
		Short: "Check TLS validation against the badssl.com endpoints",
		Long: `badssl connects to every badssl.com fixture and checks that the connection is
accepted or rejected as its category expects. It performs real network requests.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// glog reads its flags from the standard flag set.
			return flag.CommandLine.Parse(nil)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			defer glog.Flush()
			return run(cmd.Context(), cmd, o)
		},
	}

	rootCmd.Flags().StringSliceVar(&o.suites, "suite", badssl.SuiteNames(), "Suites to run")
	rootCmd.Flags().StringSliceVar(&o.categories, "category", nil, "Only run fixtures of these categories")
	rootCmd.Flags().StringVar(&o.only, "only", "", "Only run fixtures whose target or description contains this")
	rootCmd.Flags().DurationVar(&o.timeout, "timeout", 0, "Per-attempt timeout (0 for none)")
	rootCmd.Flags().StringVar(&o.caFile, "ca-file", "", "PEM bundle to verify against instead of the system roots")
	rootCmd.Flags().IntVar(&o.concurrency, "concurrency", 0, "Bound on in-flight attempts of concurrent suites (0 for none)")
	rootCmd.Flags().BoolVar(&o.verbose, "verbose", false, "Log every attempt")
	rootCmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errFailures) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cobra.Command, o options) error {
	level := badssl.LogLevelInfo
	if o.verbose {
		level = badssl.LogLevelDebug
	}
	opts := []badssl.Option{
		badssl.WithTimeout(o.timeout),
		badssl.WithConcurrency(o.concurrency),
		badssl.WithLogger(badssl.NewGlogLogger("badssl: ", level)),
	}
	if o.caFile != "" {
		pool, err := badssl.LoadCaFile(o.caFile)
		if err != nil {
			return err
		}
		opts = append(opts, badssl.WithRootCAs(pool))
	}
	var cats []badssl.Category
	for _, name := range o.categories {
		c, err := badssl.ParseCategory(name)
		if err != nil {
			return err
		}
		cats = append(cats, c)
	}

	failed := false
	for _, name := range o.suites {
		suite, err := badssl.NewSuite(name, opts...)
		if err != nil {
			return err
		}
		suite.Fixtures = suite.Fixtures.Filter(cats...)
		if o.only != "" {
			suite.Fixtures = suite.Fixtures.Match(o.only)
		}
		results := suite.Run(ctx)
		fmt.Fprintf(cmd.OutOrStdout(), "== %s\n", name)
		if err := badssl.WriteReport(cmd.OutOrStdout(), name, results); err != nil {
			return err
		}
		if !badssl.Summarize(name, results).OK() {
			failed = true
		}
	}
	if failed {
		return errFailures
	}
	return nil
}
