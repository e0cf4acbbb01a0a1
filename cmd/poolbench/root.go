package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
	jsonOut bool
)

var rootCmd = &cobra.Command{
	Use:   "poolbench",
	Short: "Exercise fixed-size object pools under synthetic workloads",
	Long: `poolbench drives a mempool.Pool through allocation churn and reports
block usage, free-list depth and throughput. It is meant for sizing block
sizes and comparing block sources on a given machine.`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log block acquisition and release")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// logger is handed to every pool the command creates.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

func initLogger(w io.Writer) {
	if !verbose {
		return
	}
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// printJSON outputs data as JSON
func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
