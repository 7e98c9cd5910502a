package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"leafmerge/command"
	"leafmerge/config"
	"leafmerge/console"
	"leafmerge/models"
	"leafmerge/orchestrator"
	"leafmerge/preflight"
	"leafmerge/prompt"
)

// Exit codes
const (
	exitOK          = 0
	exitFailure     = 1   // configuration, preflight or a failed leaf
	exitDeclined    = 2   // the operator answered no
	exitInterrupted = 130 // standard exit code for SIGINT
)

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: Load configuration (CLI flags > config file > defaults)
	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "❌ Configuration error: %v\n", err)
		return exitFailure
	}

	out := console.NewPrinter(cfg.Verbose)

	// Step 2: Save the effective configuration and stop
	if cfg.SaveConfigPath != "" {
		if err := config.SaveConfigFile(cfg, cfg.SaveConfigPath); err != nil {
			out.Errorf("%v", err)
			return exitFailure
		}
		out.Successf("Configuration saved to %s", cfg.SaveConfigPath)
		return exitOK
	}

	// Step 3: Make sure the tools are there before touching anything
	if err := preflight.Check(*cfg); err != nil {
		out.Errorf("Preflight check failed: %v", err)
		return exitFailure
	}

	orch := orchestrator.New(*cfg, orchestrator.Deps{
		Runner:   command.NewExecRunner(cfg.Verbose),
		Logger:   out,
		Progress: out.Progress,
	})

	// Step 4: Handle dry-run mode
	if cfg.DryRun {
		return dryRun(out, cfg, orch)
	}

	// Step 5: Ask before doing anything destructive
	if err := confirm(out, cfg); err != nil {
		if errors.Is(err, prompt.ErrRejected) || errors.Is(err, prompt.ErrNoAnswer) {
			out.Infof("Exiting")
			return exitDeclined
		}
		out.Errorf("%v", err)
		return exitFailure
	}

	// Step 6: Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		if _, ok := <-sigChan; ok {
			fmt.Println("\n\n⚠️  Interrupt received, stopping after cleanup...")
			cancel()
		}
	}()

	// Step 7: Run the pipeline
	out.Phase("🎬 Processing " + cfg.Root)
	stats, runErr := orch.Run(ctx, cfg.Root, orchestrator.PolicyFor(cfg.StrictMode))

	printSummary(stats)

	if cfg.ReportFile != "" {
		if err := stats.WriteYAML(cfg.ReportFile); err != nil {
			out.Errorf("%v", err)
		} else {
			out.Infof("📝 Report written to %s", cfg.ReportFile)
		}
	}

	switch {
	case runErr != nil && ctx.Err() != nil:
		out.Warnf("Cancelled by user")
		return exitInterrupted
	case runErr != nil:
		out.Errorf("%v", runErr)
		return exitFailure
	case stats.Failed > 0:
		return exitFailure
	}

	fmt.Println("\n✅ FINISHED")
	return exitOK
}

// confirm asks the original tool's questions, in its order: delete,
// compress, then the folder.
func confirm(out *console.Printer, cfg *config.Config) error {
	var questions []string
	if cfg.DeleteOriginals {
		questions = append(questions, "Are you sure you want to delete the leftover files?")
	}
	if cfg.Compress {
		questions = append(questions, "Are you sure you want to compress all concatenated files?")
	}
	questions = append(questions, fmt.Sprintf("Do you want to proceed in folder -- %s?", filepath.Base(cfg.Root)))

	if cfg.SkipConfirm {
		out.Infof("Confirmed via -y flag")
		return nil
	}

	p := prompt.NewTerminalPrompter()
	for _, q := range questions {
		if err := p.Confirm(q); err != nil {
			return err
		}
	}
	return nil
}

// dryRun lists every leaf, its files and the commands that would run.
func dryRun(out *console.Printer, cfg *config.Config, orch *orchestrator.Orchestrator) int {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                      DRY RUN MODE")
	fmt.Println("═══════════════════════════════════════════════════════════")
	cfg.PrintConfig()

	plan, err := orch.Plan(cfg.Root)
	if err != nil {
		out.Errorf("%v", err)
		return exitFailure
	}

	out.Phase(fmt.Sprintf("📂 %d leaf directories", len(plan)))
	pending := 0
	for _, p := range plan {
		out.Infof("%s", p.Leaf.Path)
		if len(p.Commands) == 0 {
			out.Infof("    (nothing to do)")
			continue
		}
		pending++
		for _, f := range p.Leaf.Files {
			out.Infof("    %s", f.Name())
		}
		for _, c := range p.Commands {
			out.Infof("    $ %s", c)
		}
	}

	if cfg.DeleteOriginals {
		out.Infof("\nOriginals would be deleted.")
	} else {
		out.Infof("\nOriginals would be moved to %s", orch.ArchiveRoot())
	}
	fmt.Printf("\n✓ %d of %d leaves would be processed. Nothing was changed.\n", pending, len(plan))
	return exitOK
}

func printSummary(stats *orchestrator.RunStats) {
	if stats == nil {
		return
	}

	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("                        SUMMARY")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Leaves:      %d\n", stats.Leaves)
	fmt.Printf("  Done:        %d\n", stats.Done)
	fmt.Printf("  Skipped:     %d\n", stats.Skipped)
	fmt.Printf("  Failed:      %d\n", stats.Failed)
	if n := stats.Pending(); n > 0 {
		fmt.Printf("  Not run:     %d\n", n)
	}
	fmt.Printf("  Total time:  %s\n", stats.Elapsed.Round(time.Second))
	fmt.Println("═══════════════════════════════════════════════════════════")

	for _, r := range stats.Results {
		if r.Status == models.LeafFailed {
			fmt.Printf("  ✗ %s (failed at %s)\n", r.Leaf, r.Stage)
		}
	}
}
