package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"sgmstereo/pkg/config"
	"sgmstereo/pkg/cost"
	"sgmstereo/pkg/stereo"
)

func main() {
	// Parse command line arguments
	leftPath := flag.String("left", "", "Left image of the rectified stereo pair")
	rightPath := flag.String("right", "", "Right image of the rectified stereo pair")
	outputName := flag.String("output", "disparity.png", "Output disparity map filename")
	configPath := flag.String("config", "sgmstereo.yaml", "YAML configuration file (defaults are used if missing)")
	writeConfig := flag.Bool("write-config", false, "Write the default configuration to -config and exit")
	minDisp := flag.Int("min-disp", 0, "Smallest candidate disparity")
	maxDisp := flag.Int("max-disp", 19, "Largest candidate disparity (inclusive)")
	directions := flag.Int("directions", 8, "Number of aggregation directions: 1, 2, 4, 8 or 16")
	p1 := flag.Float64("p1", 8, "Penalty for a disparity change of one")
	p2 := flag.Float64("p2", 32, "Penalty for larger disparity changes")
	costName := flag.String("cost", cost.Default, fmt.Sprintf("Matching cost function %v", cost.Names()))
	numCores := flag.Int("cores", runtime.NumCPU(), "Number of directions aggregated in parallel")
	sequential := flag.Bool("sequential", false, "Aggregate directions one at a time")
	scale := flag.Float64("scale", 1.0, "Resize both inputs by this factor before matching")
	saveIntermediary := flag.Bool("save-intermediary", false, "Save cost slices and per-direction disparity maps")
	intermediaryDir := flag.String("intermediary-dir", "intermediary_results", "Directory to save intermediary results")
	verbose := flag.Bool("verbose", false, "Log pipeline progress to stderr")
	flag.Parse()

	if *writeConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write configuration: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *leftPath == "" || *rightPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Flags given explicitly on the command line override the file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "min-disp":
			cfg.Matching.MinDisparity = *minDisp
		case "max-disp":
			cfg.Matching.MaxDisparity = *maxDisp
		case "directions":
			cfg.Matching.Directions = *directions
		case "p1":
			cfg.Matching.P1 = *p1
		case "p2":
			cfg.Matching.P2 = *p2
		case "cost":
			cfg.Matching.CostFunction = *costName
		case "cores":
			cfg.Processing.NumCores = *numCores
		case "sequential":
			cfg.Processing.Sequential = *sequential
		case "scale":
			cfg.Processing.Scale = *scale
		case "save-intermediary":
			cfg.Output.SaveIntermediaryResults = *saveIntermediary
		case "intermediary-dir":
			cfg.Output.IntermediaryDir = *intermediaryDir
		case "verbose":
			cfg.Output.Verbose = *verbose
		}
	})

	if cfg.Output.Verbose {
		stereo.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	params, err := stereo.ParamsFromConfig(cfg)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	params.LeftPath = *leftPath
	params.RightPath = *rightPath
	params.OutputFile = *outputName
	switch strings.ToLower(filepath.Ext(params.OutputFile)) {
	case ".jpg", ".jpeg":
		params.Format = "jpeg"
	case ".png":
		params.Format = "png"
	}

	fmt.Println("================================")
	fmt.Println("SEMI-GLOBAL MATCHING DISPARITY ESTIMATION")
	fmt.Println("================================")

	matcher := stereo.NewMatcher(params)

	startTime := time.Now()
	if err := matcher.Process(); err != nil {
		log.Fatalf("Matching failed: %v", err)
	}
	processingTime := time.Since(startTime)

	metrics := matcher.GetMetrics()
	dm := matcher.DisparityMap()
	fmt.Printf("\nMatching completed successfully in %.2f seconds!\n", processingTime.Seconds())
	fmt.Printf("Disparity map (%dx%d) saved to: %s\n\n", dm.Width, dm.Height, params.OutputFile)

	fmt.Printf("Disparity Statistics:\n")
	fmt.Printf("=====================\n")
	fmt.Printf("Disparity range: %s (%d candidates)\n", params.Range, params.Range.NumDisp())
	fmt.Printf("Mean disparity: %.3f (std dev %.3f)\n", metrics.MeanDisparity, metrics.StdDevDisparity)
	fmt.Printf("Mean matching cost: %.3f\n", metrics.MeanMatchingCost)
	fmt.Printf("Mean aggregated cost: %.3f\n", metrics.MeanAggregatedCost)
	fmt.Printf("Disparity entropy: %.3f nats\n", metrics.Entropy)
	fmt.Printf("Neighbor agreement: %.2f%%\n", metrics.NeighborAgreement*100)

	fmt.Println("\nProcessing performance:")
	mode := "concurrent"
	if params.Sequential {
		mode = "sequential"
	}
	fmt.Printf("- %d directions aggregated (%s, up to %d cores)\n", params.Directions, mode, params.NumCores)
	fmt.Printf("- Cost volume: %.3f seconds\n", metrics.CostVolumeTime.Seconds())
	fmt.Printf("- Aggregation: %.3f seconds\n", metrics.AggregationTime.Seconds())
	fmt.Printf("- Reduction: %.3f seconds\n", metrics.ReductionTime.Seconds())

	if params.SaveIntermediaryResults {
		fmt.Println("\nIntermediary results saved to:")
		fmt.Printf("%s\n", params.IntermediaryDir)
		fmt.Println("The following stages were saved:")
		fmt.Println("- 01_cost_volume: Matching cost per disparity")
		fmt.Println("- 02_directions: Winner-take-all map of each single direction")
		fmt.Println("- 03_disparity: Final disparity map")
	}
}
