package cmd

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/regwindow/scheduler/internal/dotwriter"
	"github.com/regwindow/scheduler/internal/ledger"
	"github.com/regwindow/scheduler/internal/orchestrator"
	"github.com/regwindow/scheduler/internal/parser"
	"github.com/regwindow/scheduler/pkg/schederr"
	"github.com/regwindow/scheduler/pkg/telemetry"
)

var (
	outputPath string
	ledgerPath string
)

// runCmd parses an input file, reorders it to satisfy the distance bound,
// and writes the result as DOT.
var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Schedule a DAG described by a register-window input file",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write DOT output to this file instead of stdout")
	runCmd.Flags().StringVar(&ledgerPath, "ledger", "", "Record this run to a sqlite ledger at this path")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	start := time.Now()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	c := GetConfig()

	telemetryOverride := &telemetry.Config{
		Enabled:     c.Telemetry.Enabled,
		ServiceName: c.Telemetry.ServiceName,
		Endpoint:    c.Telemetry.Endpoint,
		Protocol:    c.Telemetry.Protocol,
	}
	schedAttrs := map[string]string{
		"scheduler.d_max":     strconv.Itoa(c.Scheduler.DMax),
		"scheduler.max_size":  strconv.Itoa(c.Scheduler.MaxSize),
		"scheduler.max_iters": strconv.Itoa(c.Scheduler.MaxIters),
	}
	shutdown, err := telemetry.Init(ctx, telemetryOverride, schedAttrs)
	if err != nil {
		GetLogger().Warn("telemetry init failed: %v", err)
	}
	defer func() {
		_ = shutdown(ctx)
	}()

	f, err := os.Open(inputPath)
	if err != nil {
		return exitWith(schederr.Wrap(schederr.CodeInputError, "failed to open input file", err))
	}
	defer f.Close()

	p := parser.NewParser(&parser.ParserOptions{MaxSize: c.Scheduler.MaxSize})
	g, err := p.Parse(ctx, f)
	if err != nil {
		return exitWith(err)
	}

	orch := orchestrator.New(orchestrator.Options{
		DMax:     c.Scheduler.DMax,
		MaxIters: c.Scheduler.MaxIters,
	}, GetLogger())

	result, err := orch.Run(ctx, g)
	if err != nil && result == nil {
		return exitWith(err)
	}

	writer := dotwriter.New()
	if outputPath != "" {
		if werr := writer.WriteToFile(result.Graph, outputPath); werr != nil {
			return exitWith(schederr.Wrap(schederr.CodeUnknown, "failed to write DOT output", werr))
		}
	} else {
		if werr := writer.Write(result.Graph, os.Stdout); werr != nil {
			return exitWith(schederr.Wrap(schederr.CodeUnknown, "failed to write DOT output", werr))
		}
	}

	if ledgerPath != "" || c.Ledger.Enabled {
		path := ledgerPath
		if path == "" {
			path = c.Ledger.Path
		}
		if lerr := recordLedger(ctx, path, inputPath, result, start); lerr != nil {
			GetLogger().Warn("failed to record ledger entry: %v", lerr)
		}
	}

	if err != nil {
		return exitWith(err)
	}
	return nil
}

func recordLedger(ctx context.Context, path, inputPath string, result *orchestrator.Result, start time.Time) error {
	l, err := ledger.Open(path)
	if err != nil {
		return err
	}
	defer l.Close()

	run := &ledger.Run{
		InputPath:      inputPath,
		NodeCount:      result.Graph.Len(),
		CopiesInserted: result.CopiesInserted,
		IterationsUsed: result.IterationsUsed,
		Strict:         result.Strict,
		DurationMs:     time.Since(start).Milliseconds(),
	}
	return l.RecordRun(ctx, run)
}

// exitWith prints the error and terminates the process with the exit code
// documented for the error's kind, without returning to cobra's own error
// printing (which would duplicate the message).
func exitWith(err error) error {
	fmt.Fprintf(os.Stderr, "Error: %s\n", schederr.GetErrorMessage(err))
	os.Exit(schederr.ExitCode(err))
	return nil
}
