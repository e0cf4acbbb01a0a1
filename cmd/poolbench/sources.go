package main

import (
	"fmt"

	"github.com/pavanmanishd/mempool"
	"github.com/spf13/cobra"
)

var sourceNames = []string{"heap", "malloc", "mmap"}

// newSource builds the named block source, optionally capped at limit
// bytes. The returned close func releases anything the source still holds.
func newSource(name string, limit int) (mempool.BlockSource, func() error, error) {
	var (
		src     mempool.BlockSource
		closeFn = func() error { return nil }
	)
	switch name {
	case "heap":
		src = mempool.HeapSource{}
	case "malloc":
		ms := mempool.NewMallocSource()
		src, closeFn = ms, ms.Close
	case "mmap":
		src = mempool.MmapSource{}
	default:
		return nil, nil, fmt.Errorf("unknown source %q (want one of %v)", name, sourceNames)
	}
	if limit > 0 {
		src = mempool.NewLimitSource(src, limit)
	}
	return src, closeFn, nil
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available block sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		names := make([]string, 0, len(sourceNames))
		for _, name := range sourceNames {
			src, closeFn, err := newSource(name, 0)
			if err != nil {
				return err
			}
			names = append(names, src.Name())
			if err := closeFn(); err != nil {
				return err
			}
		}
		if jsonOut {
			return printJSON(out, names)
		}
		for i, name := range names {
			fmt.Fprintf(out, "%-8s %s\n", sourceNames[i], name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sourcesCmd)
}
