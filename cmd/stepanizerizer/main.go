// Command stepanizerizer prepares a tomographic dataset for
// stereological analysis with STEPanizer. It selects a random subset
// of the reconstructed slices, draws a scale bar matching the scan's
// voxel size and writes the selection as sequentially numbered JPEG
// files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/habi/STEPanizerizer/internal/logging"
	"github.com/habi/STEPanizerizer/internal/models"
	"github.com/habi/STEPanizerizer/pkg/config"
	"github.com/habi/STEPanizerizer/pkg/export"
	"github.com/habi/STEPanizerizer/pkg/sampling"
	"github.com/habi/STEPanizerizer/pkg/scanlog"
	"github.com/habi/STEPanizerizer/pkg/stack"
)

func main() {
	// Parse command line arguments
	folder := flag.String("folder", "", "Sample folder with the reconstructed slices (a 'rec' subfolder is used when present)")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	numFiles := flag.Int("n", 15, "Number of slices to select for STEPanizer")
	pixelSize := flag.Float64("p", 0, "Pixel/voxel size of the scan in um; read from the scan log when 0")
	barLength := flag.Float64("b", 1000, "Scale bar length in um; 0 disables the bar")
	resize := flag.Int("r", 0, "Resize the slices so the longest side has this many px; 0 keeps the original size")
	seed := flag.Int64("seed", 0, "Random seed for a reproducible selection; 0 draws one from the clock")
	systematic := flag.Bool("systematic", false, "Use systematic uniform random sampling (equal spacing, random start)")
	disector := flag.Float64("d", 0, "Disector thickness in um")
	prefix := flag.String("prefix", "", "Output filename prefix; derived from the stack when empty")
	outDir := flag.String("out", "", "Output directory; derived from the parameters when empty")
	quality := flag.Int("quality", 90, "JPEG quality for the output files")
	verbose := flag.Bool("v", false, "Be chatty/informative")
	flag.Parse()

	// Validate inputs
	if *folder == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *disector > 0 {
		fatal(fmt.Errorf("disector functionality is not implemented yet"))
	}

	// Load config defaults, then overlay the flags the user set
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "n":
			cfg.Sampling.NumFiles = *numFiles
		case "seed":
			cfg.Sampling.Seed = *seed
		case "systematic":
			cfg.Sampling.Systematic = *systematic
		case "b":
			cfg.ScaleBar.LengthUm = *barLength
		case "r":
			cfg.Output.Resize = *resize
		case "quality":
			cfg.Output.JpegQuality = *quality
		case "prefix":
			cfg.Output.Prefix = *prefix
		case "v":
			cfg.Output.Verbose = *verbose
		}
	})
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}

	// Bruker datasets keep the reconstructions in a 'rec' subfolder
	sliceDir := *folder
	if info, err := os.Stat(filepath.Join(*folder, "rec")); err == nil && info.IsDir() {
		sliceDir = filepath.Join(*folder, "rec")
	}

	// Get the (isotropic) pixel size of the scan, from the scan log
	// unless overridden on the command line
	voxel := *pixelSize
	if voxel == 0 {
		logPath, err := scanlog.FindLog(sliceDir)
		if err != nil {
			fatal(fmt.Errorf("cannot determine the pixel size, use -p: %v", err))
		}
		voxel, err = scanlog.PixelSize(logPath)
		if err != nil {
			fatal(fmt.Errorf("cannot determine the pixel size, use -p: %v", err))
		}
	}

	// Output directory named with the most important parameters
	out := *outDir
	if out == "" {
		out = filepath.Join(*folder, fmt.Sprintf("STEPanizer_n%d_pixelsize%.0fum_scalebar%.0fum",
			cfg.Sampling.NumFiles, voxel, cfg.ScaleBar.LengthUm))
	}

	log, err := logging.New(filepath.Join(out, "STEPanizerizer.log"), cfg.Output.Verbose)
	if err != nil {
		fatal(err)
	}
	defer log.Close()

	log.Info("STEPanizerizer has been run with this command line: %s", strings.Join(os.Args, " "))
	log.Info("The scan was done with a voxel size of %.2f um", voxel)

	slices, err := stack.List(sliceDir)
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("We found %d reconstructions in %s", len(slices), sliceDir)

	var sample models.Sample
	if cfg.Sampling.Systematic {
		sample, err = sampling.Systematic(len(slices), cfg.Sampling.NumFiles, cfg.Sampling.Seed)
	} else {
		sample, err = sampling.Uniform(len(slices), cfg.Sampling.NumFiles, cfg.Sampling.Seed)
	}
	if err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	mean, stddev := sampling.Spacing(sample)
	log.Info("Selected %d of %d slices, mean spacing %.1f slices (stddev %.1f)",
		len(sample), len(slices), mean, stddev)
	log.Debug("Sampled ordinals: %v", []int(sample))

	outputPrefix := cfg.Output.Prefix
	if outputPrefix == "" {
		outputPrefix = stack.CommonPrefix(slices)
	}

	exporter := export.NewExporter(slices, sample, export.Options{
		OutputDir:   out,
		VoxelSize:   models.VoxelSize(voxel),
		BarLengthUm: cfg.ScaleBar.LengthUm,
		BarMarginPx: cfg.ScaleBar.MarginPx,
		BarLabel:    cfg.ScaleBar.Label,
		JPEGQuality: cfg.Output.JpegQuality,
		ResizeTo:    cfg.Output.Resize,
		Prefix:      outputPrefix,
		Log:         log,
	})

	records, err := exporter.Run(context.Background())
	if err != nil {
		log.Error("Conversion failed: %v", err)
		os.Exit(1)
	}

	if len(records) > 0 && records[0].BarLengthPx > 0 {
		log.Info("The scale bar of %g um is %d px long", cfg.ScaleBar.LengthUm, records[0].BarLengthPx)
	}
	log.Info("Wrote %d files to %s", len(records), out)
}

// fatal reports errors that occur before the logger exists
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "stepanizerizer: %v\n", err)
	os.Exit(1)
}
