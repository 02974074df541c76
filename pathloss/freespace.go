package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// FreeSpaceModel is the Friis law L = 20 log10(4 pi d / lambda) + 10 log10(SystemLoss).
// Below 3 lambda the far-field assumption breaks and MinLossDb is used instead.
type FreeSpaceModel struct {
	FreqHz     float64
	SystemLoss float64
	MinLossDb  float64
}

const DefaultFreeSpaceFreqHz = 5.15e9

func NewFreeSpaceModel(freqHz float64) (*FreeSpaceModel, error) {
	result := &FreeSpaceModel{SystemLoss: 1}
	if err := result.SetFrequency(freqHz); err != nil {
		return nil, err
	}
	return result, nil
}

func (m *FreeSpaceModel) SetFrequency(freqHz float64) error {
	if math.IsNaN(freqHz) || freqHz <= 0 {
		return invalidParam("Frequency", freqHz, "> 0")
	}
	m.FreqHz = freqHz
	return nil
}

func (m *FreeSpaceModel) SetSystemLoss(l float64) error {
	if math.IsNaN(l) || l <= 0 {
		return invalidParam("SystemLoss", l, "> 0")
	}
	m.SystemLoss = l
	return nil
}

func (m *FreeSpaceModel) SetMinLoss(db float64) error {
	if math.IsNaN(db) || db < 0 {
		return invalidParam("MinLoss", db, ">= 0")
	}
	m.MinLossDb = db
	return nil
}

func (m *FreeSpaceModel) Lambda() float64 {
	return C / m.FreqHz
}

// LossInDb returns the attenuation at distance meters.
func (m *FreeSpaceModel) LossInDb(distance float64) float64 {
	lambda := m.Lambda()
	if distance < 3*lambda {
		return m.MinLossDb
	}
	loss := 20*math.Log10(4*math.Pi*distance/lambda) + 10*math.Log10(m.systemLoss())
	return math.Max(loss, m.MinLossDb)
}

// ReferenceLossDb is the loss at distance without the near-field clamp. It
// calibrates the log-distance models.
func (m *FreeSpaceModel) ReferenceLossDb(distance float64) float64 {
	return 20*math.Log10(4*math.Pi*distance/m.Lambda()) + 10*math.Log10(m.systemLoss())
}

func (m *FreeSpaceModel) systemLoss() float64 {
	if m.SystemLoss == 0 {
		return 1
	}
	return m.SystemLoss
}

func (m *FreeSpaceModel) CalcRxPower(txPowerDbm float64, a, b vlib.Location3D) float64 {
	return txPowerDbm - m.LossInDb(Distance3D(a, b))
}

func (m *FreeSpaceModel) Copy() Model {
	result := *m
	return &result
}

func (m *FreeSpaceModel) Type() PathLossType {
	return FreeSpace
}
