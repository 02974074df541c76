// Package experiment samples a propagation model at fixed separations and
// turns the received powers into probability-density datasets.
package experiment

import (
	"math"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/shadowing/pathloss"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrInvalidConfig = errors.New("invalid experiment config")

type Config struct {
	TxPowerDbm    float64
	Samples       int
	Precision     float64 // histogram bin width in dB
	DistanceStart float64
	DistanceStop  float64
	DistanceStep  float64
}

// DefaultConfig matches the reference experiment: 15 dBm, 1000 samples per
// distance, 1 dB bins, 200 m to 400 m in 50 m steps.
func DefaultConfig() Config {
	return Config{
		TxPowerDbm:    15,
		Samples:       1000,
		Precision:     1.0,
		DistanceStart: 200,
		DistanceStop:  400,
		DistanceStep:  50,
	}
}

func (c Config) Validate() error {
	switch {
	case c.Samples <= 0:
		return errors.Wrapf(ErrInvalidConfig, "Samples=%d: must be > 0", c.Samples)
	case !(c.Precision > 0):
		return errors.Wrapf(ErrInvalidConfig, "Precision=%v: must be > 0", c.Precision)
	case !(c.DistanceStart >= 0):
		return errors.Wrapf(ErrInvalidConfig, "DistanceStart=%v: must be >= 0", c.DistanceStart)
	case !(c.DistanceStop >= c.DistanceStart):
		return errors.Wrapf(ErrInvalidConfig, "DistanceStop=%v: must be >= DistanceStart", c.DistanceStop)
	case !(c.DistanceStep > 0):
		return errors.Wrapf(ErrInvalidConfig, "DistanceStep=%v: must be > 0", c.DistanceStep)
	}
	return nil
}

// Distances lists DistanceStart, DistanceStart+Step, ... up to DistanceStop.
func (c Config) Distances() vlib.VectorF {
	var result vlib.VectorF
	n := int(math.Floor((c.DistanceStop-c.DistanceStart)/c.DistanceStep + 1e-9))
	for i := 0; i <= n; i++ {
		result.AppendAtEnd(c.DistanceStart + float64(i)*c.DistanceStep)
	}
	return result
}

// Point is one histogram bin.
type Point struct {
	RxPowerDbm  float64
	Probability float64
}

type Dataset struct {
	Title    string
	Distance float64
	Samples  int
	Points   []Point // ascending RxPowerDbm
	Mean     float64
	Variance float64
	MinRxDbm float64
	MaxRxDbm float64
}

// Dround rounds number to a multiple of precision, halves away from zero.
// Dround(0.69420, 0.1) == 0.7
func Dround(number, precision float64) float64 {
	number /= precision
	if number >= 0 {
		number = math.Floor(number + 0.5)
	} else {
		number = math.Ceil(number - 0.5)
	}
	return number * precision
}

// Probabilistic evaluates model cfg.Samples times with the transmitter at the
// origin and the receiver at (distance,0,0).
func Probabilistic(model pathloss.Model, distance float64, cfg Config) Dataset {
	result := Dataset{Distance: distance, Samples: cfg.Samples}
	if cfg.Samples <= 0 {
		return result
	}
	a := vlib.Location3D{}
	b := vlib.Location3D{X: distance}

	raw := make([]float64, cfg.Samples)
	counts := make(map[float64]int)
	for samp := range raw {
		rxPowerDbm := model.CalcRxPower(cfg.TxPowerDbm, a, b)
		raw[samp] = rxPowerDbm
		counts[Dround(rxPowerDbm, cfg.Precision)]++
	}

	for rx, cnt := range counts {
		result.Points = append(result.Points, Point{rx, float64(cnt) / float64(cfg.Samples)})
	}
	sort.Slice(result.Points, func(i, j int) bool { return result.Points[i].RxPowerDbm < result.Points[j].RxPowerDbm })

	if cfg.Samples > 1 {
		result.Mean, result.Variance = stat.MeanVariance(raw, nil)
	} else {
		result.Mean = raw[0]
	}
	result.MinRxDbm, result.MaxRxDbm = floats.Min(raw), floats.Max(raw)
	return result
}

// Sweep runs Probabilistic for every configured distance using one model, so
// consecutive distances continue the same random stream.
func Sweep(model pathloss.Model, cfg Config) ([]Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	distances := cfg.Distances()
	result := make([]Dataset, 0, len(distances))
	for _, d := range distances {
		ds := Probabilistic(model, d, cfg)
		ds.Title = "Distance : " + formatDistance(d)
		log.Debugf("Sweep: d=%vm mean=%.3f var=%.3f bins=%d", d, ds.Mean, ds.Variance, len(ds.Points))
		result = append(result, ds)
	}
	return result, nil
}
