package pathloss

import (
	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"
)

// Chain applies its models in order, each one taking the previous
// received power as its transmit power.
type Chain struct {
	models []Model
}

func NewChain(models ...Model) *Chain {
	return &Chain{models: append([]Model(nil), models...)}
}

func (c *Chain) Add(m Model) *Chain {
	c.models = append(c.models, m)
	return c
}

func (c *Chain) Models() []Model {
	return c.models
}

func (c *Chain) CalcRxPower(txPowerDbm float64, a, b vlib.Location3D) float64 {
	power := txPowerDbm
	for _, m := range c.models {
		power = m.CalcRxPower(power, a, b)
	}
	return power
}

func (c *Chain) AssignStreams(first int64) int64 {
	used, err := AssignStreams(first, c.models...)
	if err != nil {
		log.Warnf("Chain: %v", err)
	}
	return used
}

// Copy copies every model that supports it; the rest are shared.
func (c *Chain) Copy() Model {
	result := &Chain{models: make([]Model, len(c.models))}
	for i, m := range c.models {
		if cp, ok := m.(Copier); ok {
			result.models[i] = cp.Copy()
		} else {
			result.models[i] = m
		}
	}
	return result
}
