package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/eapache/queue"
	"github.com/pavanmanishd/mempool"
	"github.com/spf13/cobra"
)

// record is the element type churned through the pool.
type record struct {
	ID      uint64
	Check   uint64
	Payload [48]byte
}

func (r *record) fill(id uint64) {
	r.ID = id
	r.Check = id * 0x9e3779b97f4a7c15
	for i := range r.Payload {
		r.Payload[i] = byte(id) + byte(i)
	}
}

func (r *record) verify() error {
	if r.Check != r.ID*0x9e3779b97f4a7c15 {
		return fmt.Errorf("record %d: checksum mismatch", r.ID)
	}
	for i, b := range r.Payload {
		if b != byte(r.ID)+byte(i) {
			return fmt.Errorf("record %d: payload corrupted at byte %d", r.ID, i)
		}
	}
	return nil
}

// liveSet holds the records currently allocated, in the order they will be
// freed.
type liveSet interface {
	push(r *record)
	pop() *record
	len() int
}

// lifoSet frees the most recently allocated record first.
type lifoSet []*record

func (s *lifoSet) push(r *record) { *s = append(*s, r) }

func (s *lifoSet) pop() *record {
	old := *s
	r := old[len(old)-1]
	*s = old[:len(old)-1]
	return r
}

func (s *lifoSet) len() int { return len(*s) }

// fifoSet frees the oldest record first.
type fifoSet struct {
	q *queue.Queue
}

func (s fifoSet) push(r *record) { s.q.Add(r) }
func (s fifoSet) pop() *record   { return s.q.Remove().(*record) }
func (s fifoSet) len() int       { return s.q.Length() }

func newLiveSet(order string) (liveSet, error) {
	switch order {
	case "lifo":
		return &lifoSet{}, nil
	case "fifo":
		return fifoSet{q: queue.New()}, nil
	}
	return nil, fmt.Errorf("unknown order %q (want lifo or fifo)", order)
}

type churnConfig struct {
	Source    string
	BlockSize int
	Ops       int
	MaxLive   int
	Order     string
	Seed      uint64
	Limit     int
}

type churnResult struct {
	Metrics    mempool.PoolMetrics
	Allocs     int
	Frees      int
	PeakLive   int
	PeakBlocks int
	Elapsed    time.Duration
}

// runChurn allocates and frees records at random until cfg.Ops operations
// have run, then frees everything still live. Every record is verified
// before it is freed.
func runChurn(cfg churnConfig) (res churnResult, err error) {
	if cfg.MaxLive <= 0 {
		return res, errors.New("max-live must be positive")
	}
	src, closeSrc, err := newSource(cfg.Source, cfg.Limit)
	if err != nil {
		return res, err
	}
	defer func() {
		if cerr := closeSrc(); cerr != nil {
			logger.Warn("closing block source failed", "source", cfg.Source, "err", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()

	p, err := mempool.NewPool[record](cfg.BlockSize,
		mempool.WithSource(src), mempool.WithLogger(logger))
	if err != nil {
		return res, err
	}
	defer p.Release()

	live, err := newLiveSet(cfg.Order)
	if err != nil {
		return res, err
	}

	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x5bd1e995))
	free := func() error {
		r := live.pop()
		if err := r.verify(); err != nil {
			return err
		}
		p.Delete(r)
		res.Frees++
		return nil
	}

	start := time.Now()
	var next uint64
	for i := 0; i < cfg.Ops; i++ {
		if live.len() < cfg.MaxLive && (live.len() == 0 || rng.IntN(100) < 55) {
			id := next
			r, err := p.NewFunc(func(r *record) { r.fill(id) })
			if err != nil {
				return res, fmt.Errorf("op %d: %w", i, err)
			}
			live.push(r)
			next++
			res.Allocs++
			res.PeakLive = max(res.PeakLive, live.len())
			res.PeakBlocks = max(res.PeakBlocks, p.NumBlocks())
			continue
		}
		if err := free(); err != nil {
			return res, fmt.Errorf("op %d: %w", i, err)
		}
	}
	for live.len() > 0 {
		if err := free(); err != nil {
			return res, err
		}
	}
	res.Elapsed = time.Since(start)
	res.Metrics = p.Metrics()
	return res, nil
}

func printChurn(w io.Writer, cfg churnConfig, res churnResult) {
	ops := res.Allocs + res.Frees
	rate := 0.0
	if res.Elapsed > 0 {
		rate = float64(ops) / res.Elapsed.Seconds()
	}
	fmt.Fprintf(w, "order:        %s\n", cfg.Order)
	fmt.Fprintf(w, "allocs/frees: %s / %s\n", humanize.Comma(int64(res.Allocs)), humanize.Comma(int64(res.Frees)))
	fmt.Fprintf(w, "peak live:    %s\n", humanize.Comma(int64(res.PeakLive)))
	fmt.Fprintf(w, "peak blocks:  %d (%s)\n", res.PeakBlocks,
		humanize.IBytes(uint64(res.PeakBlocks*res.Metrics.BlockSize)))
	fmt.Fprintf(w, "elapsed:      %s (%s ops/s)\n", res.Elapsed, humanize.Comma(int64(rate)))
	fmt.Fprintf(w, "pool:         %s\n", res.Metrics)
}

func newChurnCmd() *cobra.Command {
	var cfg churnConfig
	cmd := &cobra.Command{
		Use:   "churn",
		Short: "Allocate and free records at random",
		Long: `The churn command mixes allocations and frees against a single pool
and verifies every record before it is freed. Records are freed either
newest first (lifo) or oldest first (fifo).

Example:
  poolbench churn --ops 1000000 --max-live 10000
  poolbench churn --source mmap --block-size 65536 --order fifo
  poolbench churn --source malloc --limit 1048576`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runChurn(cfg)
			if errors.Is(err, mempool.ErrOutOfMemory) {
				return fmt.Errorf("%w (raise --limit or lower --max-live)", err)
			}
			if err != nil {
				return err
			}
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), res)
			}
			printChurn(cmd.OutOrStdout(), cfg, res)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Source, "source", "heap", "Block source: heap, malloc or mmap")
	f.IntVar(&cfg.BlockSize, "block-size", mempool.DefaultBlockSize, "Block size in bytes")
	f.IntVar(&cfg.Ops, "ops", 100000, "Number of alloc/free operations")
	f.IntVar(&cfg.MaxLive, "max-live", 1000, "Maximum records alive at once")
	f.StringVar(&cfg.Order, "order", "lifo", "Free order: lifo or fifo")
	f.Uint64Var(&cfg.Seed, "seed", 1, "Random seed")
	f.IntVar(&cfg.Limit, "limit", 0, "Cap on block bytes (0 for none)")
	return cmd
}

func init() {
	rootCmd.AddCommand(newChurnCmd())
}
