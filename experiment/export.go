package experiment

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/wiless/vlib"
)

func formatDistance(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// WriteGnuplot writes a self-contained gnuplot script with one
// linespoints curve per dataset. output is the PDF the script renders to.
func WriteGnuplot(w io.Writer, output, title string, sets []Dataset) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "set terminal pdf\n")
	fmt.Fprintf(bw, "set output %q\n", output)
	fmt.Fprintf(bw, "set title %q\n", title)
	fmt.Fprintf(bw, "set xlabel 'rxPower (dBm)'\n")
	fmt.Fprintf(bw, "set ylabel 'Probability'\n")
	fmt.Fprintf(bw, "set key outside\n")
	if len(sets) == 0 {
		return bw.Flush()
	}

	fmt.Fprintf(bw, "plot ")
	for i, ds := range sets {
		if i > 0 {
			fmt.Fprintf(bw, ", ")
		}
		fmt.Fprintf(bw, "\"-\"  title %q with linespoints", ds.Title)
	}
	fmt.Fprintf(bw, "\n")
	for _, ds := range sets {
		for _, p := range ds.Points {
			fmt.Fprintf(bw, "%g %g\n", p.RxPowerDbm, p.Probability)
		}
		fmt.Fprintf(bw, "e\n")
	}
	return bw.Flush()
}

// ExportMatlab writes rx<i>, prob<i>, mean and variance vectors to fname.m.
func ExportMatlab(fname string, sets []Dataset) {
	matlab := vlib.NewMatlab(fname)
	matlab.Silent = true
	matlab.Json = false

	var distance, mean, variance vlib.VectorF
	for i, ds := range sets {
		var rx, prob vlib.VectorF
		for _, p := range ds.Points {
			rx.AppendAtEnd(p.RxPowerDbm)
			prob.AppendAtEnd(p.Probability)
		}
		matlab.Export("rx"+strconv.Itoa(i), rx)
		matlab.Export("prob"+strconv.Itoa(i), prob)
		distance.AppendAtEnd(ds.Distance)
		mean.AppendAtEnd(ds.Mean)
		variance.AppendAtEnd(ds.Variance)
	}
	matlab.Export("distance", distance)
	matlab.Export("meanRx", mean)
	matlab.Export("varRx", variance)
	matlab.Close()
}
