package pathloss

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/shadowing/random"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/stat"
)

var origin = vlib.Location3D{}

func at(x float64) vlib.Location3D {
	return vlib.Location3D{X: x}
}

func newShadowing(t *testing.T, exponent, variance float64) *LogNormalShadowingModel {
	m := NewLogNormalShadowingModel()
	require.NoError(t, m.SetPathLossExponent(exponent))
	require.NoError(t, m.SetNoiseVariance(variance))
	return m
}

func samples(m Model, tx, distance float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = m.CalcRxPower(tx, origin, at(distance))
	}
	return out
}

func TestConcreteScenario(t *testing.T) {
	m := newShadowing(t, 2.5, 0)
	require.NoError(t, m.SetReference(1.0, 46.6777))

	rx := m.CalcRxPower(15, origin, at(100))
	assert.InDelta(t, -81.6777, rx, 1e-9)
}

func TestZeroVarianceMatchesClosedForm(t *testing.T) {
	m := newShadowing(t, 3.2, 0)
	require.NoError(t, m.SetReference(2, 40))

	for _, d := range []float64{0.5, 1, 2, 10, 123.4, 5000} {
		want := 20 - 40 - 10*3.2*math.Log10(d/2)
		assert.InDelta(t, want, m.CalcRxPower(20, origin, at(d)), 1e-9, "d=%v", d)
		// repeated calls stay deterministic
		assert.InDelta(t, want, m.CalcRxPower(20, origin, at(d)), 1e-9, "d=%v", d)
	}
}

func TestSubReferenceDistanceIsGain(t *testing.T) {
	m := newShadowing(t, 2, 0)
	require.NoError(t, m.SetReference(10, 50))

	rx := m.CalcRxPower(0, origin, at(1))
	// 10*2*log10(1/10) = -20 dB of path loss below the reference
	assert.InDelta(t, -30, rx, 1e-9)
}

func TestZeroDistanceGuard(t *testing.T) {
	m := newShadowing(t, 3, 4)
	before := m.Stream().Draws()

	rx := m.CalcRxPower(15, at(7), at(7))
	assert.Equal(t, 15-DefaultReferenceLossDb, rx)
	assert.False(t, math.IsNaN(rx))
	assert.Equal(t, before, m.Stream().Draws())
}

func TestDeterminismGivenSeed(t *testing.T) {
	a := newShadowing(t, 3, 2)
	b := newShadowing(t, 3, 2)
	a.AssignRandomStream(3, 5)
	b.AssignRandomStream(3, 5)

	assert.Equal(t, samples(a, 15, 250, 200), samples(b, 15, 250, 200))
}

func TestAssignStreamKeepsParameters(t *testing.T) {
	m := newShadowing(t, 3.5, 2)
	require.NoError(t, m.SetReference(2, 41))
	m.AssignRandomStream(9, 1)

	assert.Equal(t, 3.5, m.PathLossExponent())
	d0, l0 := m.Reference()
	assert.Equal(t, 2.0, d0)
	assert.Equal(t, 41.0, l0)
	assert.Equal(t, 2.0, m.NoiseDistribution().Variance)
}

func TestAssignStreamRejectsAutomaticRange(t *testing.T) {
	random.ResetAutoStreams()
	a := newShadowing(t, 3, 2)
	b := newShadowing(t, 3, 2)
	auto := a.Stream().Index()

	err := b.AssignRandomStream(3, auto)
	assert.True(t, errors.Is(err, random.ErrStreamIndex))
	assert.EqualValues(t, 0, b.AssignStreams(-1<<63))
	assert.EqualValues(t, 0, b.AssignStreams(-1))

	assert.NotEqual(t, a.Stream().Index(), b.Stream().Index())
	assert.NotEqual(t, samples(a, 15, 100, 5), samples(b, 15, 100, 5))
}

func TestSamplesAreNotIdempotent(t *testing.T) {
	m := newShadowing(t, 3, 4)
	assert.NotEqual(t, m.CalcRxPower(15, origin, at(100)), m.CalcRxPower(15, origin, at(100)))
}

func TestStatisticalShape(t *testing.T) {
	const variance = 4.0
	m := newShadowing(t, 3, variance)
	m.AssignRandomStream(3, 0)

	mean := m.MeanRxPower(15, origin, at(300))
	residual := samples(m, 15, 300, 5000)
	for i := range residual {
		residual[i] -= mean
	}
	mu, v := stat.MeanVariance(residual, nil)
	assert.InDelta(t, 0, mu, 0.15)
	assert.InEpsilon(t, variance, v, 0.15)
}

func TestMonotonicMeanAttenuation(t *testing.T) {
	m := newShadowing(t, 2.8, 6)
	m.AssignRandomStream(3, 1)

	prev := math.Inf(1)
	for _, d := range []float64{50, 100, 200, 400} {
		mu := stat.Mean(samples(m, 15, d, 2000), nil)
		assert.Less(t, mu, prev, "d=%v", d)
		prev = mu
	}
}

func TestIndependentStreams(t *testing.T) {
	a := newShadowing(t, 3, 2)
	b := newShadowing(t, 3, 2)
	a.AssignRandomStream(3, 0)
	b.AssignRandomStream(3, 1)

	x := samples(a, 15, 200, 5000)
	y := samples(b, 15, 200, 5000)
	assert.NotEqual(t, x[:10], y[:10])
	assert.Less(t, math.Abs(stat.Correlation(x, y, nil)), 0.1)
}

func TestCopyHasIndependentStream(t *testing.T) {
	m := newShadowing(t, 3, 2)
	m.AssignRandomStream(3, 0)
	cp := m.Copy().(*LogNormalShadowingModel)

	assert.Equal(t, m.PathLossExponent(), cp.PathLossExponent())
	assert.Equal(t, m.NoiseDistribution(), cp.NoiseDistribution())
	assert.NotSame(t, m.Stream(), cp.Stream())

	x := samples(m, 15, 200, 5000)
	y := samples(cp, 15, 200, 5000)
	assert.Less(t, math.Abs(stat.Correlation(x, y, nil)), 0.1)
}

func TestCopySharedStream(t *testing.T) {
	m := newShadowing(t, 3, 2)
	m.AssignRandomStream(3, 0)
	shared := m.CopySharedStream()
	assert.Same(t, m.Stream(), shared.Stream())

	ref := newShadowing(t, 3, 2)
	ref.AssignRandomStream(3, 0)
	want := samples(ref, 15, 200, 4)

	got := []float64{
		m.CalcRxPower(15, origin, at(200)),
		shared.CalcRxPower(15, origin, at(200)),
		m.CalcRxPower(15, origin, at(200)),
		shared.CalcRxPower(15, origin, at(200)),
	}
	assert.Equal(t, want, got)
}

func TestSetterValidation(t *testing.T) {
	m := NewLogNormalShadowingModel()

	cases := []struct {
		name string
		err  error
	}{
		{"zero exponent", m.SetPathLossExponent(0)},
		{"negative exponent", m.SetPathLossExponent(-2)},
		{"nan exponent", m.SetPathLossExponent(math.NaN())},
		{"infinite exponent", m.SetPathLossExponent(math.Inf(1))},
		{"infinite reference distance", m.SetReference(math.Inf(1), 40)},
		{"zero reference distance", m.SetReference(0, 40)},
		{"negative reference distance", m.SetReference(-1, 40)},
		{"negative variance", m.SetNoiseVariance(-0.1)},
		{"negative bound", m.SetNoiseDistribution(NoiseSpec{Variance: 1, Bound: -1})},
	}
	for _, c := range cases {
		require.Error(t, c.err, c.name)
		assert.True(t, errors.Is(c.err, ErrInvalidParameter), c.name)
	}

	// rejected values never reach the model
	assert.Equal(t, DefaultPathLossExponent, m.PathLossExponent())
	d0, _ := m.Reference()
	assert.Equal(t, DefaultReferenceDistance, d0)
	assert.Equal(t, DefaultNoiseVariance, m.NoiseDistribution().Variance)

	assert.NoError(t, m.SetReference(1, -10))
	assert.Contains(t, m.SetPathLossExponent(-2).Error(), "PathLossExponent")
}

func TestZeroValueUsesDefaults(t *testing.T) {
	var m LogNormalShadowingModel
	rx := m.CalcRxPower(15, origin, at(100))
	assert.InDelta(t, -81.6777, rx, 1e-9)
	assert.Equal(t, DefaultPathLossExponent, m.PathLossExponent())
}

func TestBoundedNoise(t *testing.T) {
	m := NewLogNormalShadowingModel()
	require.NoError(t, m.SetNoiseDistribution(NoiseSpec{Variance: 9, Bound: 2}))
	m.AssignRandomStream(1, 2)

	mean := m.MeanRxPower(15, origin, at(100))
	for _, v := range samples(m, 15, 100, 2000) {
		assert.LessOrEqual(t, math.Abs(v-mean), 2.0)
	}
}

func TestNonFiniteInputsPropagate(t *testing.T) {
	m := newShadowing(t, 3, 0)
	assert.True(t, math.IsNaN(m.CalcRxPower(math.NaN(), origin, at(10))))
}
