// bench-restore measures wall time and heap memory of restoring a synthetic
// experiment tree end to end.
//
// Usage:
//
//	go run ./scripts/bench-restore --trials 200 --iters 500 \
//	  --checkpoint-every 25 --profile-dir docs/profiles/restore
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"

	"github.com/trialscope/trialscope/pkg/experiment"
	"github.com/trialscope/trialscope/pkg/storage"
	"github.com/trialscope/trialscope/pkg/trial"
)

func main() {
	root := flag.String("root", "", "Directory for the synthetic experiment (empty = temp dir)")
	trials := flag.Int("trials", 100, "Number of trials to generate")
	iters := flag.Int("iters", 200, "Metrics rows per trial")
	checkpointEvery := flag.Int("checkpoint-every", 20, "Persist a checkpoint every N iterations")
	checkpointBytes := flag.Int("checkpoint-bytes", 4096, "Payload size per checkpoint")
	rounds := flag.Int("rounds", 3, "Restore passes to time")
	profileDir := flag.String("profile-dir", "", "Directory to write heap profiles (empty = skip profiles)")
	keep := flag.Bool("keep", false, "Keep the generated tree instead of deleting it")
	cpuProfile := flag.Bool("cpu-profile", false, "Write CPU profile to profile-dir/cpu.prof")

	flag.Parse()

	if *rounds < 1 {
		log.Fatal("--rounds must be at least 1")
	}

	if *cpuProfile && *profileDir == "" {
		log.Fatal("--cpu-profile requires --profile-dir")
	}

	if *profileDir != "" {
		if err := os.MkdirAll(*profileDir, 0o755); err != nil {
			log.Fatalf("mkdir profile-dir: %v", err)
		}
	}

	if *cpuProfile {
		cpuPath := filepath.Join(*profileDir, "cpu.prof")

		cpuFile, cpuErr := os.Create(cpuPath)
		if cpuErr != nil {
			log.Fatalf("create cpu profile: %v", cpuErr)
		}
		defer cpuFile.Close()

		if startErr := pprof.StartCPUProfile(cpuFile); startErr != nil {
			log.Fatalf("start cpu profile: %v", startErr)
		}

		defer pprof.StopCPUProfile()

		log.Printf("CPU profiling enabled -> %s", cpuPath)
	}

	expRoot := *root
	if expRoot == "" {
		tmp, err := os.MkdirTemp("", "bench-restore-")
		if err != nil {
			log.Fatalf("mkdir temp root: %v", err)
		}

		expRoot = tmp
	}

	if !*keep {
		defer os.RemoveAll(expRoot)
	}

	log.Printf("generating %d trials x %d rows under %s", *trials, *iters, expRoot)

	genStart := time.Now()

	if err := generate(expRoot, *trials, *iters, *checkpointEvery, *checkpointBytes); err != nil {
		log.Fatalf("generate tree: %v", err)
	}

	log.Printf("generated in %s", time.Since(genStart).Round(time.Millisecond))

	// Heap measurement helpers, shared by all phases.
	type heapSnapshot struct {
		label     string
		heapInUse uint64
		heapSys   uint64
		heapIdle  uint64
	}

	var snapshots []heapSnapshot

	takeSnapshot := func(label string) {
		runtime.GC()
		runtime.GC()

		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		snapshots = append(snapshots, heapSnapshot{
			label:     label,
			heapInUse: m.HeapInuse,
			heapSys:   m.HeapSys,
			heapIdle:  m.HeapIdle,
		})
		log.Printf("  [heap] %-30s inuse=%6.1f MB  sys=%6.1f MB  idle=%6.1f MB",
			label, float64(m.HeapInuse)/1e6, float64(m.HeapSys)/1e6, float64(m.HeapIdle)/1e6)
	}

	writeHeapProfile := func(name string) {
		if *profileDir == "" {
			return
		}

		runtime.GC()
		runtime.GC()

		path := filepath.Join(*profileDir, name)

		f, ferr := os.Create(path)
		if ferr != nil {
			log.Printf("warning: create heap profile %s: %v", path, ferr)

			return
		}
		defer f.Close()

		if perr := pprof.WriteHeapProfile(f); perr != nil {
			log.Printf("warning: write heap profile %s: %v", path, perr)
		}
	}

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	fsys, resolved, err := storage.Resolve(expRoot)
	if err != nil {
		log.Fatalf("resolve root: %v", err)
	}

	takeSnapshot("before_restore")
	writeHeapProfile("heap_before_restore.prof")

	// Restore the whole experiment repeatedly and keep per-round timings.
	durations := make([]time.Duration, 0, *rounds)

	var entries []experiment.Entry

	for round := 1; round <= *rounds; round++ {
		start := time.Now()

		entries, err = experiment.Load(ctx, fsys, resolved, logger)
		if err != nil {
			log.Fatalf("load experiment: %v", err)
		}

		elapsed := time.Since(start)
		durations = append(durations, elapsed)

		restored, rows, checkpoints := tally(entries)
		log.Printf("round %d/%d: restored %d/%d trials (%d rows, %d checkpoints) in %s (%.1f trials/s)",
			round, *rounds, restored, len(entries), rows, checkpoints,
			elapsed.Round(time.Millisecond), float64(restored)/elapsed.Seconds())

		if round == 1 {
			takeSnapshot("after_first_restore")
			writeHeapProfile("heap_after_first_restore.prof")
		}
	}

	takeSnapshot("after_all_rounds")
	writeHeapProfile("heap_after_all_rounds.prof")

	// Keep the last result set alive until after the final snapshot so the
	// measurement reflects a held, not collected, experiment.
	runtime.KeepAlive(entries)

	fmt.Println()
	fmt.Println("=== Restore Timing ===")
	fmt.Printf("%-10s %12s\n", "Round", "Elapsed")
	fmt.Println("-----------+------------")

	var total time.Duration

	minRound := durations[0]

	for i, d := range durations {
		total += d

		if d < minRound {
			minRound = d
		}

		fmt.Printf("%-10d %12s\n", i+1, d.Round(time.Millisecond))
	}

	fmt.Printf("%-10s %12s\n", "mean", (total / time.Duration(len(durations))).Round(time.Millisecond))
	fmt.Printf("%-10s %12s\n", "best", minRound.Round(time.Millisecond))

	fmt.Println()
	fmt.Println("=== Heap Memory Timeline ===")
	fmt.Printf("%-35s %10s %10s %10s\n", "Phase", "InUse(MB)", "Sys(MB)", "Idle(MB)")
	fmt.Println("-----------------------------------+----------+----------+----------")

	for _, s := range snapshots {
		fmt.Printf("%-35s %10.1f %10.1f %10.1f\n",
			s.label, float64(s.heapInUse)/1e6, float64(s.heapSys)/1e6, float64(s.heapIdle)/1e6)
	}
}

// tally sums restored trials, history rows, and checkpoints across entries.
func tally(entries []experiment.Entry) (restored, rows, checkpoints int) {
	for _, e := range entries {
		if e.Err != nil || e.Result == nil {
			continue
		}

		restored++
		rows += len(e.Result.History)
		checkpoints += len(e.Result.Checkpoints)
	}

	return restored, rows, checkpoints
}

// generate lays out a synthetic experiment: trials numbered trial_0000..,
// each with a newline-delimited metrics log and periodic checkpoint dirs
// whose rows carry the correlation key.
func generate(root string, trials, iters, checkpointEvery, checkpointBytes int) error {
	payload := bytes.Repeat([]byte{0xAB}, checkpointBytes)

	for t := range trials {
		dir := filepath.Join(root, fmt.Sprintf("trial_%04d", t))
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}

		var buf bytes.Buffer

		persisted := 0

		for i := 1; i <= iters; i++ {
			row := map[string]any{
				"training_iteration": i,
				"loss":               1.0 / float64(i),
				"acc":                1.0 - 1.0/float64(i+1),
				"config":             map[string]any{"lr": 0.001, "trial_id": t},
			}

			if checkpointEvery > 0 && i%checkpointEvery == 0 {
				name := fmt.Sprintf("%s%06d", trial.CheckpointPrefix, persisted)
				row[trial.CorrelationKey] = name

				cpDir := filepath.Join(dir, name)
				if err := os.MkdirAll(cpDir, 0o755); err != nil {
					return err
				}

				if err := os.WriteFile(filepath.Join(cpDir, "weights.bin"), payload, 0o644); err != nil {
					return err
				}

				persisted++
			}

			line, err := json.Marshal(row)
			if err != nil {
				return err
			}

			buf.Write(line)
			buf.WriteByte('\n')
		}

		if err := os.WriteFile(filepath.Join(dir, trial.MetricsLogName), buf.Bytes(), 0o644); err != nil {
			return err
		}
	}

	return nil
}
