package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"revmeter/internal/storage"
	revapi "revmeter/pkg/revmeter"
)

const artifactsDir = "runs"

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "reset":
		return runReset(ctx, args[1:])
	case "run":
		return runRun(ctx, args[1:])
	case "runs":
		return runRuns(ctx, args[1:])
	case "estimates":
		return runEstimates(ctx, args[1:])
	case "spectrum":
		return runSpectrum(ctx, args[1:])
	case "layouts":
		return runLayouts(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "revmeter.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := revapi.New(revapi.Options{StoreKind: *storeKind, DBPath: *dbPath, ArtifactsDir: artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}
	fmt.Println("store initialized")
	return nil
}

func runReset(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "revmeter.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := revapi.New(revapi.Options{StoreKind: *storeKind, DBPath: *dbPath, ArtifactsDir: artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Reset(ctx); err != nil {
		return err
	}
	fmt.Printf("reset store=%s\n", *storeKind)
	return nil
}

func runRun(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "JSON run configuration file")
	input := fs.String("input", "", "raw event recording path")
	layout := fs.String("layout", "dvs", "record layout of the recording")
	runID := fs.String("run-id", "", "run identifier (generated when empty)")
	batchSize := fs.Int("batch-size", 0, "events per engine call (default 65536)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "revmeter.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var req revapi.RunRequest
	if *configPath != "" {
		loaded, err := loadRunRequestFromConfig(*configPath)
		if err != nil {
			return err
		}
		req = loaded
	}
	if *input != "" {
		req.InputPath = *input
	}
	if *layout != "" && req.Layout == "" {
		req.Layout = *layout
	}
	if *runID != "" {
		req.RunID = *runID
	}
	if *batchSize > 0 {
		req.BatchSize = *batchSize
	}
	if req.InputPath == "" {
		return errors.New("run requires -input or a config with input_path")
	}

	client, err := revapi.New(revapi.Options{StoreKind: *storeKind, DBPath: *dbPath, ArtifactsDir: artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	summary, err := client.Run(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("run %s: %d events, %d ticks\n", summary.RunID, summary.EventCount, summary.TickCount)
	fmt.Printf("final estimate: %.3f rpm\n", summary.FinalRPM)
	fmt.Printf("artifacts: %s\n", summary.ArtifactsDir)
	return nil
}

func runRuns(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("runs", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max runs to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "revmeter.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := revapi.New(revapi.Options{StoreKind: *storeKind, DBPath: *dbPath, ArtifactsDir: artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	runs, err := client.Runs(ctx, revapi.RunsRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tCREATED\tLAYOUT\tEVENTS\tTICKS")
	for _, item := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", item.RunID, item.CreatedAtUTC, item.Layout, item.EventCount, item.TickCount)
	}
	return w.Flush()
}

func runEstimates(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("estimates", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	limit := fs.Int("limit", 0, "max estimates to print (0 = all)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "revmeter.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("estimates requires -run-id")
	}

	client, err := revapi.New(revapi.Options{StoreKind: *storeKind, DBPath: *dbPath, ArtifactsDir: artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	estimates, err := client.Estimates(ctx, revapi.EstimatesRequest{RunID: *runID, Limit: *limit})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tT(us)\tRPM")
	for _, e := range estimates {
		fmt.Fprintf(w, "%d\t%d\t%.3f\n", e.Tick, e.TimeT, e.RPM)
	}
	return w.Flush()
}

func runSpectrum(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("spectrum", flag.ContinueOnError)
	runID := fs.String("run-id", "", "run identifier")
	top := fs.Int("top", 10, "print the N largest bins")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "revmeter.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *runID == "" {
		return errors.New("spectrum requires -run-id")
	}
	if *top <= 0 {
		return errors.New("top must be > 0")
	}

	client, err := revapi.New(revapi.Options{StoreKind: *storeKind, DBPath: *dbPath, ArtifactsDir: artifactsDir})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	bins, err := client.Spectrum(ctx, revapi.SpectrumRequest{RunID: *runID})
	if err != nil {
		return err
	}

	type binValue struct {
		bin   int
		value float32
	}
	// Lower half only; the abs-real spectrum of a real signal is mirrored.
	ranked := make([]binValue, 0, len(bins)/2)
	for i := 1; i <= len(bins)/2; i++ {
		ranked = append(ranked, binValue{bin: i, value: bins[i]})
	}
	for i := 0; i < *top && i < len(ranked); i++ {
		best := i
		for j := i + 1; j < len(ranked); j++ {
			if ranked[j].value > ranked[best].value {
				best = j
			}
		}
		ranked[i], ranked[best] = ranked[best], ranked[i]
		hz := float64(ranked[i].bin)
		fmt.Printf("bin %4d  %8.1f Hz  %10.3f\n", ranked[i].bin, hz, ranked[i].value)
	}
	return nil
}

func runLayouts(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("layouts", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := revapi.New(revapi.Options{})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LAYOUT\tRECORD SIZE\tFIELDS")
	for _, l := range client.Layouts() {
		fmt.Fprintf(w, "%s\t%d\t%v\n", l.Name, l.RecordSize, l.Fields)
	}
	return w.Flush()
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: revmeterctl <init|reset|run|runs|estimates|spectrum|layouts> [flags]", msg)
}
