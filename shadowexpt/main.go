// Command shadowexpt samples a propagation loss model over a range of
// distances and writes the received power histograms as a gnuplot script
// and a matlab file.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/wiless/shadowing/experiment"
	"github.com/wiless/shadowing/pathloss"
	"github.com/wiless/shadowing/random"
)

func main() {
	cfg, err := ReadAppConfig(os.Args[1:])
	if err == pflag.ErrHelp {
		return
	}
	if err != nil {
		log.Fatalf("shadowexpt: %v", err)
	}
	if err := run(cfg, os.Stdout); err != nil {
		log.Fatalf("shadowexpt: %v", err)
	}
}

func run(cfg AppConfig, w io.Writer) error {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	random.SetSeed(cfg.Seed)
	random.SetRun(cfg.Run)

	model, err := pathloss.New(cfg.Model, cfg.Attributes())
	if err != nil {
		return err
	}
	used, err := pathloss.AssignStreams(cfg.Stream, model)
	if err != nil {
		return err
	}
	log.Debugf("%s: seed=%d run=%d streams [%d,%d)", cfg.Model, cfg.Seed, cfg.Run, cfg.Stream, cfg.Stream+used)

	sets, err := experiment.Sweep(model, cfg.Experiment())
	if err != nil {
		return err
	}

	if err := ensureDir(cfg.OutDir); err != nil {
		return err
	}
	plt, err := os.Create(filepath.Join(cfg.OutDir, "output.plt"))
	if err != nil {
		return errors.Wrap(err, "gnuplot")
	}
	defer plt.Close()
	if err := experiment.WriteGnuplot(plt, cfg.Plot, cfg.Model, sets); err != nil {
		return errors.Wrap(err, "gnuplot")
	}
	experiment.ExportMatlab(filepath.Join(cfg.OutDir, "rxpower"), sets)

	printSummary(w, cfg, sets)
	return nil
}

func ensureDir(dir string) error {
	finfo, err := os.Stat(dir)
	if os.IsNotExist(err) {
		log.Infof("Creating OUTPUT directory : %s", dir)
		return os.MkdirAll(dir, os.ModeDir|os.ModePerm)
	}
	if err != nil {
		return err
	}
	if !finfo.IsDir() {
		return errors.Errorf("output %s is not a directory", dir)
	}
	return nil
}

func printSummary(w io.Writer, cfg AppConfig, sets []experiment.Dataset) {
	head := color.New(color.FgCyan, color.Bold)
	value := color.New(color.FgGreen)

	head.Fprintf(w, "%s  seed=%d run=%d samples=%d\n", cfg.Model, cfg.Seed, cfg.Run, cfg.Samples)
	for _, ds := range sets {
		fmt.Fprintf(w, "  d=%6gm  ", ds.Distance)
		value.Fprintf(w, "mean=%8.3f dBm  var=%6.3f  [%.2f, %.2f]\n", ds.Mean, ds.Variance, ds.MinRxDbm, ds.MaxRxDbm)
	}
	fmt.Fprintf(w, "output: %s\n", filepath.Join(cfg.OutDir, "output.plt"))
}
