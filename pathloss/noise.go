package pathloss

import (
	"fmt"
	"math"
	"strings"

	ms "github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// NoiseSpec describes the Gaussian shadowing term in dB.
// Bound > 0 truncates samples to Mean±Bound by redrawing; 0 means unbounded.
type NoiseSpec struct {
	Mean     float64 `mapstructure:"Mean" json:"Mean"`
	Variance float64 `mapstructure:"Variance" json:"Variance"`
	Bound    float64 `mapstructure:"Bound" json:"Bound"`
}

var noiseTypeNames = []string{
	"Normal",
	"NormalRandomVariable",
	"ns3::NormalRandomVariable",
}

// Validate checks the variance and bound constraints.
func (n NoiseSpec) Validate() error {
	if math.IsNaN(n.Variance) || n.Variance < 0 {
		return invalidParam("NoiseVariance", n.Variance, ">= 0")
	}
	if math.IsNaN(n.Mean) || math.IsInf(n.Mean, 0) {
		return invalidParam("NoiseMean", n.Mean, "finite")
	}
	if math.IsNaN(n.Bound) || n.Bound < 0 {
		return invalidParam("NoiseBound", n.Bound, ">= 0")
	}
	return nil
}

func (n NoiseSpec) Sigma() float64 {
	return math.Sqrt(n.Variance)
}

func (n NoiseSpec) bounded() bool {
	return n.Bound > 0 && !math.IsInf(n.Bound, 1)
}

func (n NoiseSpec) String() string {
	if n.bounded() {
		return fmt.Sprintf("Normal[Mean=%g|Variance=%g|Bound=%g]", n.Mean, n.Variance, n.Bound)
	}
	return fmt.Sprintf("Normal[Mean=%g|Variance=%g]", n.Mean, n.Variance)
}

// ParseNoiseSpec reads the attribute form Normal[Mean=0|Variance=2|Bound=10].
// The ns3::NormalRandomVariable type name is accepted as well, and missing
// keys keep their zero value.
func ParseNoiseSpec(str string) (NoiseSpec, error) {
	var spec NoiseSpec
	str = strings.TrimSpace(str)
	name, body := str, ""
	if i := strings.IndexByte(str, '['); i >= 0 {
		if !strings.HasSuffix(str, "]") {
			return spec, errors.Wrapf(ErrInvalidParameter, "noise %q: missing closing ']'", str)
		}
		name, body = str[:i], str[i+1:len(str)-1]
	}
	known := false
	for _, n := range noiseTypeNames {
		if name == n {
			known = true
			break
		}
	}
	if !known {
		return spec, errors.Wrapf(ErrInvalidParameter, "noise %q: unsupported distribution %q", str, name)
	}

	attrs := make(map[string]interface{})
	if body != "" {
		for _, kv := range strings.Split(body, "|") {
			parts := strings.SplitN(kv, "=", 2)
			if len(parts) != 2 {
				return spec, errors.Wrapf(ErrInvalidParameter, "noise %q: malformed attribute %q", str, kv)
			}
			attrs[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	if err := decodeAttributes(attrs, &spec); err != nil {
		return NoiseSpec{}, errors.Wrapf(ErrInvalidParameter, "noise %q: %v", str, err)
	}
	if err := spec.Validate(); err != nil {
		return NoiseSpec{}, err
	}
	return spec, nil
}

// decodeAttributes uses weak typing so string values from the command line
// or a config file map onto numeric fields.
func decodeAttributes(attrs map[string]interface{}, out interface{}) error {
	dec, err := ms.NewDecoder(&ms.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(attrs)
}
