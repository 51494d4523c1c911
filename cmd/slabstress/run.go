package main

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/slabkit/cmd/slabstress/logger"
	"github.com/joshuapare/slabkit/internal/vmem"
	"github.com/joshuapare/slabkit/slab"
)

// errCorrupted is returned when a block no longer holds what was written.
var errCorrupted = errors.New("allocation corrupted")

var runOpts = runOptions{
	Workers: 4,
	Ops:     100000,
	MaxSize: 640,
	Remote:  0.5,
	Seed:    1,
}

func init() {
	cmd := newRunCmd()
	cmd.Flags().IntVarP(&runOpts.Workers, "workers", "w", runOpts.Workers, "Number of allocating goroutines")
	cmd.Flags().IntVarP(&runOpts.Ops, "ops", "n", runOpts.Ops, "Allocations per worker")
	cmd.Flags().IntVar(&runOpts.MaxSize, "max-size", runOpts.MaxSize, "Largest request size in bytes")
	cmd.Flags().
		Float64Var(&runOpts.Remote, "remote", runOpts.Remote, "Fraction of blocks freed by another goroutine")
	cmd.Flags().Uint64Var(&runOpts.Seed, "seed", runOpts.Seed, "Random seed")
	cmd.Flags().BoolVar(&runOpts.Local, "local", false, "Use Local caches instead of processor caches")
	rootCmd.AddCommand(cmd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run a concurrent allocation workload",
		Long: `The run command starts --workers goroutines that each perform --ops
allocations of random sizes up to --max-size. Every block is filled with a
per-block byte and checked before it is freed. A --remote fraction of the
blocks is handed to a different goroutine and freed there.

Example:
  slabstress run
  slabstress run --workers 16 --ops 1000000 --remote 0.9
  slabstress run --local --max-size 512 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := runStress(runOpts)
			if report != nil {
				if perr := printReport(report); perr != nil {
					return perr
				}
			}
			return err
		},
	}
}

type runOptions struct {
	Workers int
	Ops     int
	MaxSize int
	Remote  float64
	Seed    uint64
	Local   bool
}

func (o runOptions) validate() error {
	switch {
	case o.Workers < 1:
		return fmt.Errorf("--workers must be at least 1, got %d", o.Workers)
	case o.Ops < 0:
		return fmt.Errorf("--ops must not be negative, got %d", o.Ops)
	case o.MaxSize < 1:
		return fmt.Errorf("--max-size must be at least 1, got %d", o.MaxSize)
	case o.Remote < 0 || o.Remote > 1:
		return fmt.Errorf("--remote must be within [0, 1], got %g", o.Remote)
	}
	return nil
}

// Report summarises one run.
type Report struct {
	Workers       int           `json:"workers"`
	Mode          string        `json:"mode"`
	Allocs        int64         `json:"allocs"`
	LocalFrees    int64         `json:"local_frees"`
	RemoteFrees   int64         `json:"remote_frees"`
	Large         int64         `json:"large"`
	Failed        int64         `json:"failed"`
	Corrupted     int64         `json:"corrupted"`
	PagesMapped   int64         `json:"pages_mapped"`
	PagesUnmapped int64         `json:"pages_unmapped"`
	Duration      time.Duration `json:"duration_ns"`
	OpsPerSec     float64       `json:"ops_per_sec"`
}

// pageCounter counts page mappings on their way to the system mapper.
type pageCounter struct {
	vmem.System
	maps, unmaps atomic.Int64
}

func (p *pageCounter) Map(size int) ([]byte, error) {
	region, err := p.System.Map(size)
	if err == nil {
		p.maps.Add(1)
	}
	return region, err
}

func (p *pageCounter) Unmap(region []byte) error {
	p.unmaps.Add(1)
	return p.System.Unmap(region)
}

// heap is the part of Allocator and Local a worker drives.
type heap interface {
	Alloc(l slab.Layout) unsafe.Pointer
	Free(ptr unsafe.Pointer, l slab.Layout)
}

type block struct {
	ptr  unsafe.Pointer
	size int
	tag  byte
}

const keepLive = 64

func runStress(opts runOptions) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	pages := &pageCounter{}
	a := slab.New(slab.WithMapper(pages), slab.WithLogger(logger.L))
	report := &Report{Workers: opts.Workers, Mode: "processor"}
	if opts.Local {
		report.Mode = "local"
	}

	// heapFor returns what one goroutine allocates and frees through.
	heapFor := func() (heap, func()) {
		if opts.Local {
			l := a.NewLocal()
			return l, l.Close
		}
		return a, func() {}
	}

	var corrupted, remoteFrees, localFrees, allocs, large, failed atomic.Int64
	check := func(b block) {
		for _, c := range slab.Bytes(b.ptr, b.size) {
			if c != b.tag {
				corrupted.Add(1)
				logger.Error("block corrupted", "ptr", fmt.Sprintf("%p", b.ptr), "size", b.size)
				return
			}
		}
	}

	inboxes := make([]chan block, opts.Workers)
	for i := range inboxes {
		inboxes[i] = make(chan block, 256)
	}

	logger.Info("stress run starting",
		"workers", opts.Workers, "ops", opts.Ops, "max_size", opts.MaxSize,
		"remote", opts.Remote, "mode", report.Mode)
	start := time.Now()

	var freers sync.WaitGroup
	for _, in := range inboxes {
		freers.Add(1)
		go func() {
			defer freers.Done()
			h, done := heapFor()
			defer done()
			for b := range in {
				check(b)
				h.Free(b.ptr, slab.Layout{Size: b.size})
				remoteFrees.Add(1)
			}
		}()
	}

	var workers sync.WaitGroup
	for w := range opts.Workers {
		workers.Add(1)
		go func() {
			defer workers.Done()
			h, done := heapFor()
			defer done()

			rng := rand.New(rand.NewPCG(opts.Seed, uint64(w)))
			var live []block
			for i := range opts.Ops {
				b := block{size: 1 + rng.IntN(opts.MaxSize), tag: byte(w*31 + i)}
				b.ptr = h.Alloc(slab.Layout{Size: b.size})
				if b.ptr == nil {
					// Only the fallback reports failure this way.
					failed.Add(1)
					logger.Warn("large allocation failed", "size", b.size)
					continue
				}
				allocs.Add(1)
				if b.size > slab.MaxSmallSize {
					large.Add(1)
				}
				fill(b)

				if opts.Workers > 1 && rng.Float64() < opts.Remote {
					inboxes[(w+1+rng.IntN(opts.Workers-1))%opts.Workers] <- b
					continue
				}
				live = append(live, b)
				if len(live) > keepLive {
					old := live[0]
					live = live[1:]
					check(old)
					h.Free(old.ptr, slab.Layout{Size: old.size})
					localFrees.Add(1)
				}
			}
			for _, b := range live {
				check(b)
				h.Free(b.ptr, slab.Layout{Size: b.size})
				localFrees.Add(1)
			}
		}()
	}

	workers.Wait()
	for _, in := range inboxes {
		close(in)
	}
	freers.Wait()

	report.Duration = time.Since(start)
	report.Allocs = allocs.Load()
	report.LocalFrees = localFrees.Load()
	report.RemoteFrees = remoteFrees.Load()
	report.Large = large.Load()
	report.Corrupted = corrupted.Load()
	report.Failed = failed.Load()
	report.PagesMapped = pages.maps.Load()
	report.PagesUnmapped = pages.unmaps.Load()
	if secs := report.Duration.Seconds(); secs > 0 {
		report.OpsPerSec = float64(report.Allocs+report.LocalFrees+report.RemoteFrees) / secs
	}

	logger.Info("stress run finished",
		"allocs", report.Allocs, "corrupted", report.Corrupted, "duration", report.Duration)
	if report.Corrupted > 0 {
		return report, fmt.Errorf("%w: %d blocks", errCorrupted, report.Corrupted)
	}
	return report, nil
}

func fill(b block) {
	buf := slab.Bytes(b.ptr, b.size)
	for i := range buf {
		buf[i] = b.tag
	}
}

func printReport(r *Report) error {
	if jsonOut {
		return printJSON(r)
	}

	p := message.NewPrinter(language.English)
	printInfo("Mode:        %s, %d workers\n", r.Mode, r.Workers)
	printInfo("Allocations: %s (%s large)\n", p.Sprintf("%d", r.Allocs), p.Sprintf("%d", r.Large))
	printInfo("Frees:       %s local, %s remote\n",
		p.Sprintf("%d", r.LocalFrees), p.Sprintf("%d", r.RemoteFrees))
	printInfo("Duration:    %s\n", r.Duration.Round(time.Millisecond))
	printInfo("Throughput:  %s ops/s\n", p.Sprintf("%.0f", r.OpsPerSec))
	printVerbose("Pages:       %s mapped, %s unmapped\n",
		p.Sprintf("%d", r.PagesMapped), p.Sprintf("%d", r.PagesUnmapped))
	if r.Failed > 0 {
		printInfo("Failed:      %s\n", p.Sprintf("%d", r.Failed))
	}
	if r.Corrupted > 0 {
		printInfo("Corrupted:   %s\n", p.Sprintf("%d", r.Corrupted))
	}
	return nil
}
