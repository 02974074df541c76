package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// LogDistanceModel is the deterministic law L0 + 10 n log10(d/d0).
type LogDistanceModel struct {
	Exponent          float64
	ReferenceDistance float64
	ReferenceLoss     float64
}

func NewLogDistanceModel() *LogDistanceModel {
	return &LogDistanceModel{
		Exponent:          DefaultPathLossExponent,
		ReferenceDistance: DefaultReferenceDistance,
		ReferenceLoss:     DefaultReferenceLossDb,
	}
}

func (m *LogDistanceModel) SetPathLossExponent(n float64) error {
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return invalidParam("PathLossExponent", n, "finite and > 0")
	}
	m.Exponent = n
	return nil
}

func (m *LogDistanceModel) SetReference(refDistance, refLoss float64) error {
	if math.IsNaN(refDistance) || math.IsInf(refDistance, 0) || refDistance <= 0 {
		return invalidParam("ReferenceDistance", refDistance, "finite and > 0")
	}
	if math.IsNaN(refLoss) || math.IsInf(refLoss, 0) {
		return invalidParam("ReferenceLoss", refLoss, "finite")
	}
	m.ReferenceDistance, m.ReferenceLoss = refDistance, refLoss
	return nil
}

// LossInDb returns the attenuation for distance meters, L0 when distance <= 0.
func (m *LogDistanceModel) LossInDb(distance float64) float64 {
	if distance <= 0 {
		return m.ReferenceLoss
	}
	return logDistanceLossDb(distance, m.Exponent, m.ReferenceDistance, m.ReferenceLoss)
}

func (m *LogDistanceModel) CalcRxPower(txPowerDbm float64, a, b vlib.Location3D) float64 {
	return txPowerDbm - m.LossInDb(Distance3D(a, b))
}

func (m *LogDistanceModel) Copy() Model {
	result := *m
	return &result
}

func (m *LogDistanceModel) Type() PathLossType {
	return LogDistance
}
