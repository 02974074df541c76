// Package pathloss implements propagation-loss models that turn a transmit
// power and two endpoint positions into a received power.
package pathloss

import (
	"math"

	"github.com/pkg/errors"
	"github.com/wiless/shadowing/random"
	"github.com/wiless/vlib"
)

// Model is the propagation-loss capability shared by every variant.
// CalcRxPower returns the received power in dBm for a transmitter at a and a
// receiver at b. Stochastic models advance their random stream on each call.
type Model interface {
	CalcRxPower(txPowerDbm float64, a, b vlib.Location3D) float64
}

// StreamAssigner is implemented by models that consume random numbers.
// AssignStreams fixes the streams used starting at index first and returns
// how many indices were consumed.
type StreamAssigner interface {
	AssignStreams(first int64) int64
}

// Copier is implemented by models that can be duplicated.
type Copier interface {
	Copy() Model
}

type PathLossType int

var PathLossTypes = [...]string{
	"FreeSpace",
	"LogDistance",
	"LogNormalShadowing",
	"OkumuraHata",
}

func (p PathLossType) String() string {
	if int(p) < 0 || int(p) >= len(PathLossTypes) {
		return "Unknown-PathLossType"
	}
	return PathLossTypes[p]
}

const (
	FreeSpace PathLossType = iota
	LogDistance
	LogNormalShadowing
	OkumuraHata
)

// Speed of light used by the frequency dependent models.
const C = 3.0e8

// AssignStreams hands out consecutive stream indices to all models that use
// randomness, in argument order, and returns the total consumed. Passing the
// same models in the same order always yields the same assignment. first
// must be >= 0; negative values would land in the automatic stream range.
func AssignStreams(first int64, models ...Model) (int64, error) {
	if first < 0 {
		return 0, errors.Wrapf(random.ErrStreamIndex, "first stream %d must be >= 0", first)
	}
	var used int64
	for _, m := range models {
		if sa, ok := m.(StreamAssigner); ok {
			used += sa.AssignStreams(first + used)
		}
	}
	return used, nil
}

// Distance3D is the Euclidean distance between two endpoints in meters.
func Distance3D(src, dest vlib.Location3D) float64 {
	return src.DistanceFrom(dest)
}

// logDistanceLossDb is L0 + 10 n log10(d/d0). Callers guard d <= 0.
func logDistanceLossDb(distance, exponent, refDistance, refLoss float64) float64 {
	return refLoss + 10*exponent*math.Log10(distance/refDistance)
}
