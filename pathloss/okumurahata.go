/* Code contribution by istdev
 */
package pathloss

import (
	"math"

	"github.com/wiless/vlib"
)

// Supported carrier range of the Okumura-Hata / COST-231 formulas.
const (
	OkumuraHataMinMHz = 150.0
	OkumuraHataMaxMHz = 2000.0
)

const (
	DefaultBaseHeight   = 30.0
	DefaultMobileHeight = 1.5
)

// OkumuraHataModel takes the transmitter antenna height from a.Z and the
// receiver height from b.Z. An endpoint with Z <= 0 uses BaseHeight or
// MobileHeight instead.
type OkumuraHataModel struct {
	FreqMHz      float64
	BaseHeight   float64
	MobileHeight float64
}

func NewOkumuraHataModel(freqMHz float64) (*OkumuraHataModel, error) {
	result := &OkumuraHataModel{BaseHeight: DefaultBaseHeight, MobileHeight: DefaultMobileHeight}
	if err := result.SetFrequency(freqMHz); err != nil {
		return nil, err
	}
	return result, nil
}

// SetHeights sets the antenna heights in meters used for endpoints on the ground.
func (w *OkumuraHataModel) SetHeights(base, mobile float64) error {
	if math.IsNaN(base) || math.IsInf(base, 0) || base <= 0 {
		return invalidParam("BaseHeight", base, "finite and > 0")
	}
	if math.IsNaN(mobile) || math.IsInf(mobile, 0) || mobile <= 0 {
		return invalidParam("MobileHeight", mobile, "finite and > 0")
	}
	w.BaseHeight, w.MobileHeight = base, mobile
	return nil
}

func (w *OkumuraHataModel) heights(src, dest vlib.Location3D) (hb, hm float64) {
	hb, hm = src.Z, dest.Z
	if !(hb > 0) {
		hb = w.BaseHeight
	}
	if !(hm > 0) {
		hm = w.MobileHeight
	}
	return hb, hm
}

func (w *OkumuraHataModel) SetFrequency(freqMHz float64) error {
	if math.IsNaN(freqMHz) || freqMHz < OkumuraHataMinMHz || freqMHz >= OkumuraHataMaxMHz {
		return invalidParam("Frequency", freqMHz, "in [150,2000) MHz")
	}
	w.FreqMHz = freqMHz
	return nil
}

// LossInDb3D returns the loss between src (base station) and dest (mobile).
func (w *OkumuraHataModel) LossInDb3D(src, dest vlib.Location3D) float64 {
	FreqMHz := w.FreqMHz
	distance := Distance3D(src, dest) / 1.0e3 // km

	if distance <= 0.05 {
		return 20*math.Log10(distance) + 20*math.Log10(FreqMHz) + 32.45
	}
	baseZ, mobileZ := w.heights(src, dest)
	hb := math.Log10(baseZ)
	if FreqMHz < 1500 {
		var Ch float64
		if FreqMHz <= 200.0 {
			Ch = 8.29*math.Pow(math.Log10(1.54*mobileZ), 2) - 1.1
		} else {
			Ch = 3.2*math.Pow(math.Log10(11.75*mobileZ), 2) - 4.97
		}
		return 69.55 + 26.16*math.Log10(FreqMHz) - 13.82*hb - Ch + (44.9-6.55*hb)*math.Log10(distance)
	}
	// COST-231 extension, metropolitan correction of 3 dB
	a := (1.1*math.Log10(FreqMHz)-0.7)*mobileZ - (1.56*math.Log10(FreqMHz) - 0.8)
	return 46.3 + 33.9*math.Log10(FreqMHz) - 13.82*hb - a + (44.9-6.55*hb)*math.Log10(distance) + 3
}

func (w *OkumuraHataModel) CalcRxPower(txPowerDbm float64, a, b vlib.Location3D) float64 {
	if Distance3D(a, b) <= 0 {
		return txPowerDbm
	}
	return txPowerDbm - w.LossInDb3D(a, b)
}

func (w *OkumuraHataModel) Copy() Model {
	result := *w
	return &result
}

func (w *OkumuraHataModel) Type() PathLossType {
	return OkumuraHata
}
