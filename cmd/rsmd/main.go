// Command rsmd loads a run configuration and reaction templates, then
// alternates candidate enumeration with MD relaxation for a configured
// number of cycles, writing a checkpoint whenever SIGUSR1 arrives; the run
// continues after each such checkpoint.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rmera/rsmd/checkpoint"
	"github.com/rmera/rsmd/control"
	"github.com/rmera/rsmd/engine"
	"github.com/rmera/rsmd/rng"
	"github.com/rmera/rsmd/stats"
	"github.com/rmera/rsmd/topology"
)

func main() {
	var (
		configFile = flag.String("config", "", "path to run configuration JSON file (required)")
		plotFile   = flag.String("plot", "", "optional path to write a candidate/acceptance history plot")
		resume     = flag.String("resume", "", "optional checkpoint to resume from")
	)
	flag.Parse()

	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "error: --config is required")
		flag.Usage()
		os.Exit(1)
	}

	if err := run(*configFile, *plotFile, *resume); err != nil {
		log.Fatalf("rsmd: %v", err)
	}
}

func run(configFile, plotFile, resumeFile string) error {
	cfg, err := control.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	templates, err := cfg.BuildTemplates()
	if err != nil {
		return fmt.Errorf("loading reaction templates: %w", err)
	}

	startCycle := 0
	base := topology.New(cfg.Box())
	base.CellNumbers = cfg.Cells
	if resumeFile != "" {
		restored, cycle, err := checkpoint.Read(resumeFile)
		if err != nil {
			return fmt.Errorf("resuming from %q: %w", resumeFile, err)
		}
		base = restored
		startCycle = cycle + 1
		log.Printf("resumed from %q at cycle %d", resumeFile, startCycle)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	source := rng.New(cfg.Seed)
	controller := control.NewController(base, templates, cfg.BuildAcceptance(), source, engine.Null{}, engine.Null{}, logger)

	logger.Printf("starting run: %s", cfg.String())

	recorder := &stats.Recorder{}
	currentCycle := startCycle
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGUSR1)
	go func() {
		for range shutdown {
			if cfg.CheckpointOut == "" {
				logger.Printf("SIGUSR1 received, but no checkpoint path configured, ignoring")
				continue
			}
			logger.Printf("SIGUSR1 received, checkpointing at cycle %d", currentCycle)
			if err := checkpoint.Write(cfg.CheckpointOut, controller.New, currentCycle); err != nil {
				logger.Printf("checkpoint failed: %v", err)
			}
		}
	}()

	var attemptedBefore, acceptedBefore map[string]int
	for cycle := startCycle; cycle < cfg.Cycles; cycle++ {
		currentCycle = cycle
		attemptedBefore = cloneCounts(controller.AttemptedPerTemplate)
		acceptedBefore = cloneCounts(controller.AcceptedPerTemplate)

		if err := controller.Step(cycle); err != nil {
			return fmt.Errorf("cycle %d: %w", cycle, err)
		}

		recorder.Add(stats.CycleRecord{
			Cycle:      cycle,
			Candidates: controller.NCandidates,
			Accepted:   deltaCounts(controller.AcceptedPerTemplate, acceptedBefore),
			Attempted:  deltaCounts(controller.AttemptedPerTemplate, attemptedBefore),
		})
	}

	logger.Printf("run finished: %s", controller.Summary())
	for _, tpl := range templates {
		logger.Printf("  %s: acceptance rate %.4f", tpl.Name, recorder.AcceptanceRate(tpl.Name))
	}

	if cfg.CheckpointOut != "" {
		if err := checkpoint.Write(cfg.CheckpointOut, controller.New, cfg.Cycles-1); err != nil {
			return fmt.Errorf("writing final checkpoint: %w", err)
		}
	}

	if plotFile != "" {
		if err := stats.PlotHistory(recorder.Records(), plotFile); err != nil {
			return fmt.Errorf("writing history plot: %w", err)
		}
	}

	return nil
}

func cloneCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func deltaCounts(current, before map[string]int) map[string]int {
	out := make(map[string]int, len(current))
	for k, v := range current {
		out[k] = v - before[k]
	}
	return out
}
