// ffnet-train: single-process trainer for the online feedforward network
//
// Usage:
//
//	ffnet-train --model=xor --epochs=200 --lr=0.5
//	ffnet-train --model=csv --data=examples.csv --arch="4 8 3"
//	ffnet-train --model=crashlog --data=crashes.csv --snapshot=net.json
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ffnet/agent"
	"ffnet/m"
	"ffnet/utils"

	"gonum.org/v1/gonum/floats"
)

var (
	configPath   = flag.String("config", "", "YAML config file")
	modelType    = flag.String("model", "", "Model type: xor, csv, crashlog")
	dataPath     = flag.String("data", "", "Examples (csv) or crash log (crashlog)")
	arch         = flag.String("arch", "", `Layer widths, e.g. "3 4 2"`)
	epochs       = flag.Int("epochs", 0, "Number of training epochs")
	learningRate = flag.Float64("lr", 0, "Learning rate")
	seed         = flag.Int64("seed", 0, "Random seed (0 seeds from the clock)")
	verbose      = flag.Bool("verbose", true, "Verbose output")
	snapshotPath = flag.String("snapshot", "", "Output network snapshot (JSON)")
)

var xorInputs = [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
var xorTargets = [][]float64{{1, 0}, {0, 1}, {0, 1}, {1, 0}}

func main() {
	flag.Parse()
	utils.Verbose = *verbose

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Training interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}

func loadConfig() (*utils.Config, error) {
	cfg := utils.BaseConfig(*modelType)
	if *configPath != "" {
		loaded, err := utils.LoadConfig(*configPath, *modelType)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	overrides := utils.Overrides{
		LearningRate: *learningRate,
		Epochs:       *epochs,
		Seed:         *seed,
		Model:        *modelType,
		DataPath:     *dataPath,
	}
	if *arch != "" {
		widths, err := utils.ParseArchitecture(*arch)
		if err != nil {
			return nil, fmt.Errorf("--arch: %w", err)
		}
		overrides.Architecture = widths
	}
	cfg.ApplyOverrides(overrides)

	if err := utils.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *utils.Config) error {
	fmt.Println("╔══════════════════════════════════════════════════════════════╗")
	fmt.Println("║                    ffnet Trainer                             ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Printf("\nConfiguration:\n")
	fmt.Printf("  Model:         %s\n", cfg.Model)
	fmt.Printf("  Architecture:  %v\n", cfg.Architecture)
	fmt.Printf("  Epochs:        %d\n", cfg.Epochs)
	fmt.Printf("  Learning Rate: %.4f\n", cfg.LearningRate)
	fmt.Printf("  Seed:          %d\n", cfg.Seed)
	if cfg.DataPath != "" {
		fmt.Printf("  Data:          %s\n", cfg.DataPath)
	}
	fmt.Println()

	stats := &utils.TimingStats{}
	totalStart := time.Now()

	start := time.Now()
	net, err := m.NewNetwork(cfg.Options())
	if err != nil {
		return err
	}
	stats.ModelInitTime = time.Since(start)
	fmt.Printf("Network: %v\n", net.Topology())

	var steps int
	switch cfg.Model {
	case "xor":
		steps, err = trainXOR(ctx, net, stats)
	case "csv":
		steps, err = trainCSV(ctx, net, cfg.DataPath, stats)
	case "crashlog":
		steps, err = trainCrashLog(ctx, net, cfg, stats)
	default:
		err = fmt.Errorf("unknown model: %s", cfg.Model)
	}
	if err != nil {
		return err
	}

	stats.TotalTime = time.Since(totalStart)
	utils.PrintTimingStats(stats, steps)

	if *snapshotPath != "" {
		if err := utils.SaveSnapshot(*snapshotPath, net.Snapshot()); err != nil {
			return err
		}
		fmt.Printf("\nSnapshot saved to %s\n", *snapshotPath)
	}
	return nil
}

func trainXOR(ctx context.Context, net *m.Network, stats *utils.TimingStats) (int, error) {
	steps, err := fit(net, stats, func(opts m.FitOptions) error {
		return net.Fit(ctx, xorInputs, xorTargets, opts)
	})
	if err != nil {
		return steps, err
	}
	return steps, printPredictions(net, xorInputs, xorTargets, stats)
}

func trainCSV(ctx context.Context, net *m.Network, path string, stats *utils.TimingStats) (int, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	opts := net.Options()
	lines, err := m.ReadLines(f, opts.InputCount, opts.OutputCount)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	inputs, targets := lines.Split()
	stats.DataLoadingTime = time.Since(start)
	fmt.Printf("Loaded %d examples\n", len(inputs))

	steps, err := fit(net, stats, func(fo m.FitOptions) error {
		return net.Fit(ctx, inputs, targets, fo)
	})
	if err != nil {
		return steps, err
	}
	return steps, printPredictions(net, inputs, targets, stats)
}

func trainCrashLog(ctx context.Context, net *m.Network, cfg *utils.Config, stats *utils.TimingStats) (int, error) {
	start := time.Now()
	f, err := os.Open(cfg.DataPath)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	events, err := agent.ReadEvents(f)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", cfg.DataPath, err)
	}

	data := &agent.Dataset{}
	a, err := agent.New(net, data, cfg.CanvasWidth)
	if err != nil {
		return 0, err
	}
	added := a.Replay(events)
	stats.DataLoadingTime = time.Since(start)
	fmt.Printf("Replayed %d ticks, %d crashes\n", len(events), added)

	if data.Len() == 0 {
		fmt.Println("No crashes recorded, nothing to learn")
		return 0, nil
	}

	steps, err := fit(net, stats, func(opts m.FitOptions) error {
		return a.Learn(ctx, opts)
	})
	if err != nil {
		return steps, err
	}
	return steps, printPredictions(net, data.Inputs, data.Targets, stats)
}

// fit runs train with per-epoch progress and accumulates the training time.
func fit(net *m.Network, stats *utils.TimingStats, train func(m.FitOptions) error) (int, error) {
	total := net.Options().Epochs
	logEvery := max(1, total/10)

	fmt.Println("\nStarting training...")
	steps, epochSteps := 0, 0
	epochStart := time.Now()
	start := epochStart
	err := train(m.FitOptions{
		OnExample: func([]float64) error {
			steps++
			epochSteps++
			return nil
		},
		OnEpoch: func(epoch int, sumSquaredError float64) {
			if epoch == 1 || epoch%logEvery == 0 || epoch == total {
				elapsed := time.Since(epochStart)
				utils.Logf("Epoch %d/%d | SSE: %.6f | Time: %.2fs | %.1fµs/example\n",
					epoch, total, sumSquaredError, elapsed.Seconds(),
					utils.DurationUS(elapsed)/float64(max(1, epochSteps)))
			}
			epochStart = time.Now()
			epochSteps = 0
		},
	})
	stats.TrainingTime += time.Since(start)
	return steps, err
}

func printPredictions(net *m.Network, inputs, targets [][]float64, stats *utils.TimingStats) error {
	start := time.Now()
	defer func() { stats.PredictTime += time.Since(start) }()

	fmt.Println("\nPredictions:")
	correct := 0
	for k, input := range inputs {
		out, err := net.Predict(input)
		if err != nil {
			return fmt.Errorf("example %d: %w", k, err)
		}
		ok := floats.MaxIdx(out) == floats.MaxIdx(targets[k])
		if ok {
			correct++
		}
		utils.Logf("  %v -> %.4f (target %v)\n", input, out, targets[k])
	}
	fmt.Printf("Correct: %d/%d\n", correct, len(inputs))
	return nil
}
