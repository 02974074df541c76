package pathloss

import (
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/wiless/shadowing/random"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	DefaultPathLossExponent  = 2.5
	DefaultReferenceDistance = 1.0
	// DefaultReferenceLossDb is the free-space loss at 1 m for 5.15 GHz.
	DefaultReferenceLossDb = 46.6777
	DefaultNoiseVariance   = 0.0
)

// LogNormalShadowingModel adds a Gaussian shadowing sample (dB) to the
// log-distance path loss:
//
//	rx = tx - (L0 + 10 n log10(d/d0)) + X,  X ~ N(mean, variance)
//
// The zero value is usable and starts from the package defaults. A model owns
// its random stream and must not be evaluated from several goroutines at once.
type LogNormalShadowingModel struct {
	exponent    float64
	refDistance float64
	refLoss     float64
	noise       NoiseSpec

	stream *random.Stream
	normal distuv.Normal

	isInitialized bool
}

func NewLogNormalShadowingModel() *LogNormalShadowingModel {
	result := new(LogNormalShadowingModel)
	result.SetDefault()
	return result
}

// SetDefault restores default parameters and attaches a fresh automatic stream.
func (m *LogNormalShadowingModel) SetDefault() {
	m.exponent = DefaultPathLossExponent
	m.refDistance = DefaultReferenceDistance
	m.refLoss = DefaultReferenceLossDb
	m.noise = NoiseSpec{Variance: DefaultNoiseVariance}
	m.stream = random.NewAutoStream()
	m.isInitialized = true
	m.updateNormal()
}

func (m *LogNormalShadowingModel) init() {
	if !m.isInitialized {
		m.SetDefault()
	}
}

func (m *LogNormalShadowingModel) updateNormal() {
	m.normal = distuv.Normal{Mu: m.noise.Mean, Sigma: m.noise.Sigma(), Src: m.stream}
}

func (m *LogNormalShadowingModel) SetPathLossExponent(n float64) error {
	m.init()
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return invalidParam("PathLossExponent", n, "finite and > 0")
	}
	m.exponent = n
	return nil
}

func (m *LogNormalShadowingModel) PathLossExponent() float64 {
	m.init()
	return m.exponent
}

// SetReference sets the loss refLoss (dB) measured at refDistance (m).
// refLoss may be negative.
func (m *LogNormalShadowingModel) SetReference(refDistance, refLoss float64) error {
	m.init()
	if math.IsNaN(refDistance) || math.IsInf(refDistance, 0) || refDistance <= 0 {
		return invalidParam("ReferenceDistance", refDistance, "finite and > 0")
	}
	if math.IsNaN(refLoss) || math.IsInf(refLoss, 0) {
		return invalidParam("ReferenceLoss", refLoss, "finite")
	}
	m.refDistance, m.refLoss = refDistance, refLoss
	return nil
}

func (m *LogNormalShadowingModel) Reference() (refDistance, refLoss float64) {
	m.init()
	return m.refDistance, m.refLoss
}

// SetNoiseVariance changes only the variance of the shadowing term.
func (m *LogNormalShadowingModel) SetNoiseVariance(variance float64) error {
	m.init()
	spec := m.noise
	spec.Variance = variance
	return m.SetNoiseDistribution(spec)
}

func (m *LogNormalShadowingModel) SetNoiseDistribution(spec NoiseSpec) error {
	m.init()
	if err := spec.Validate(); err != nil {
		return err
	}
	m.noise = spec
	m.updateNormal()
	return nil
}

func (m *LogNormalShadowingModel) NoiseDistribution() NoiseSpec {
	m.init()
	return m.noise
}

// AssignRandomStream re-seeds the generator to (seed, index). Path-loss and
// reference parameters are untouched. Indices in the automatic range are
// rejected and leave the current stream in place.
func (m *LogNormalShadowingModel) AssignRandomStream(seed, index uint64) error {
	m.init()
	if index >= random.AutoStreamBase {
		return errors.Wrapf(random.ErrStreamIndex, "index %d must be < %d", index, random.AutoStreamBase)
	}
	m.stream.Reseed(seed, index)
	log.Debugf("LogNormalShadowingModel: assigned %v", m.stream)
	return nil
}

// AssignStreams uses index first under the global seed and consumes one index.
// A negative first assigns nothing and consumes nothing.
func (m *LogNormalShadowingModel) AssignStreams(first int64) int64 {
	if first < 0 {
		log.Warnf("LogNormalShadowingModel: stream index %d must be >= 0", first)
		return 0
	}
	if err := m.AssignRandomStream(random.Seed(), uint64(first)); err != nil {
		log.Warnf("LogNormalShadowingModel: %v", err)
		return 0
	}
	return 1
}

func (m *LogNormalShadowingModel) Stream() *random.Stream {
	m.init()
	return m.stream
}

// MeanRxPower is the received power without the shadowing sample.
func (m *LogNormalShadowingModel) MeanRxPower(txPowerDbm float64, a, b vlib.Location3D) float64 {
	m.init()
	distance := Distance3D(a, b)
	if distance <= 0 {
		return txPowerDbm - m.refLoss
	}
	return txPowerDbm - logDistanceLossDb(distance, m.exponent, m.refDistance, m.refLoss)
}

// CalcRxPower returns the received power in dBm. At zero distance it returns
// tx - L0 and draws nothing. Distances below d0 follow the same formula and
// give a gain relative to the reference loss. NaN or infinite inputs are not
// checked and propagate into the result.
func (m *LogNormalShadowingModel) CalcRxPower(txPowerDbm float64, a, b vlib.Location3D) float64 {
	m.init()
	distance := Distance3D(a, b)
	if distance <= 0 {
		return txPowerDbm - m.refLoss
	}
	attenuation := logDistanceLossDb(distance, m.exponent, m.refDistance, m.refLoss)
	return txPowerDbm - attenuation + m.shadow()
}

func (m *LogNormalShadowingModel) shadow() float64 {
	v := m.normal.Rand()
	if m.noise.bounded() {
		for math.Abs(v-m.noise.Mean) > m.noise.Bound {
			v = m.normal.Rand()
		}
	}
	return v
}

// Copy returns a model with the same parameters and its own automatic
// stream, so the two never share noise samples.
func (m *LogNormalShadowingModel) Copy() Model {
	m.init()
	result := *m
	result.stream = random.NewAutoStream()
	result.updateNormal()
	return &result
}

// CopySharedStream duplicates the model but keeps drawing from the same
// stream, so the two models interleave one sequence of samples.
func (m *LogNormalShadowingModel) CopySharedStream() *LogNormalShadowingModel {
	m.init()
	result := *m
	return &result
}

func (m *LogNormalShadowingModel) Type() PathLossType {
	return LogNormalShadowing
}
