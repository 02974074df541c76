package pathloss

import (
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// Factory builds a model from a complete attribute set (defaults merged with
// the caller's overrides).
type Factory func(attrs map[string]interface{}) (Model, error)

type typeInfo struct {
	defaults map[string]interface{}
	factory  Factory
}

var registry = struct {
	sync.RWMutex
	types map[string]typeInfo
}{types: make(map[string]typeInfo)}

// Register makes a model constructible by name. Registering a name twice
// replaces the earlier entry.
func Register(name string, defaults map[string]interface{}, factory Factory) {
	registry.Lock()
	defer registry.Unlock()
	registry.types[name] = typeInfo{defaults: copyAttrs(defaults), factory: factory}
}

// TypeNames lists the registered model names in sorted order.
func TypeNames() []string {
	registry.RLock()
	defer registry.RUnlock()
	result := make([]string, 0, len(registry.types))
	for name := range registry.types {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

// Defaults returns a copy of the default attribute values of a model.
func Defaults(name string) (map[string]interface{}, error) {
	registry.RLock()
	defer registry.RUnlock()
	info, ok := registry.types[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "%q", name)
	}
	return copyAttrs(info.defaults), nil
}

// New constructs the named model. Attribute names match case-insensitively;
// names the model does not know are rejected.
func New(name string, attrs map[string]interface{}) (Model, error) {
	registry.RLock()
	info, ok := registry.types[name]
	registry.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrUnknownModel, "%q", name)
	}

	merged := copyAttrs(info.defaults)
	for key, value := range attrs {
		target := key
		for dkey := range merged {
			if strings.EqualFold(dkey, key) {
				target = dkey
				break
			}
		}
		merged[target] = value
	}
	m, err := info.factory(merged)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", name)
	}
	return m, nil
}

func copyAttrs(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func decodeOrInvalid(attrs map[string]interface{}, out interface{}) error {
	if err := decodeAttributes(attrs, out); err != nil {
		return errors.Wrapf(ErrInvalidParameter, "%v", err)
	}
	return nil
}

// LogNormalShadowingAttributes are the registry attributes of
// LogNormalShadowingModel. A non-empty Noise (NoiseSpec form) takes
// precedence over NoiseVariance.
type LogNormalShadowingAttributes struct {
	Exponent          float64 `mapstructure:"Exponent"`
	ReferenceDistance float64 `mapstructure:"ReferenceDistance"`
	ReferenceLoss     float64 `mapstructure:"ReferenceLoss"`
	NoiseVariance     float64 `mapstructure:"NoiseVariance"`
	Noise             string  `mapstructure:"Noise"`
}

type LogDistanceAttributes struct {
	Exponent          float64 `mapstructure:"Exponent"`
	ReferenceDistance float64 `mapstructure:"ReferenceDistance"`
	ReferenceLoss     float64 `mapstructure:"ReferenceLoss"`
}

type FreeSpaceAttributes struct {
	Frequency  float64 `mapstructure:"Frequency"`
	SystemLoss float64 `mapstructure:"SystemLoss"`
	MinLoss    float64 `mapstructure:"MinLoss"`
}

type OkumuraHataAttributes struct {
	FrequencyMHz float64 `mapstructure:"FrequencyMHz"`
	BaseHeight   float64 `mapstructure:"BaseHeight"`
	MobileHeight float64 `mapstructure:"MobileHeight"`
}

func newLogNormalShadowingFromAttrs(attrs map[string]interface{}) (Model, error) {
	var a LogNormalShadowingAttributes
	if err := decodeOrInvalid(attrs, &a); err != nil {
		return nil, err
	}
	m := NewLogNormalShadowingModel()
	if err := m.SetPathLossExponent(a.Exponent); err != nil {
		return nil, err
	}
	if err := m.SetReference(a.ReferenceDistance, a.ReferenceLoss); err != nil {
		return nil, err
	}
	spec := NoiseSpec{Variance: a.NoiseVariance}
	if a.Noise != "" {
		var err error
		if spec, err = ParseNoiseSpec(a.Noise); err != nil {
			return nil, err
		}
	}
	if err := m.SetNoiseDistribution(spec); err != nil {
		return nil, err
	}
	return m, nil
}

func newLogDistanceFromAttrs(attrs map[string]interface{}) (Model, error) {
	var a LogDistanceAttributes
	if err := decodeOrInvalid(attrs, &a); err != nil {
		return nil, err
	}
	m := NewLogDistanceModel()
	if err := m.SetPathLossExponent(a.Exponent); err != nil {
		return nil, err
	}
	if err := m.SetReference(a.ReferenceDistance, a.ReferenceLoss); err != nil {
		return nil, err
	}
	return m, nil
}

func newFreeSpaceFromAttrs(attrs map[string]interface{}) (Model, error) {
	var a FreeSpaceAttributes
	if err := decodeOrInvalid(attrs, &a); err != nil {
		return nil, err
	}
	m, err := NewFreeSpaceModel(a.Frequency)
	if err != nil {
		return nil, err
	}
	if err := m.SetSystemLoss(a.SystemLoss); err != nil {
		return nil, err
	}
	if err := m.SetMinLoss(a.MinLoss); err != nil {
		return nil, err
	}
	return m, nil
}

func newOkumuraHataFromAttrs(attrs map[string]interface{}) (Model, error) {
	var a OkumuraHataAttributes
	if err := decodeOrInvalid(attrs, &a); err != nil {
		return nil, err
	}
	m, err := NewOkumuraHataModel(a.FrequencyMHz)
	if err != nil {
		return nil, err
	}
	if err := m.SetHeights(a.BaseHeight, a.MobileHeight); err != nil {
		return nil, err
	}
	return m, nil
}

func init() {
	Register("LogNormalShadowingModel", map[string]interface{}{
		"Exponent":          DefaultPathLossExponent,
		"ReferenceDistance": DefaultReferenceDistance,
		"ReferenceLoss":     DefaultReferenceLossDb,
		"NoiseVariance":     DefaultNoiseVariance,
		"Noise":             "",
	}, newLogNormalShadowingFromAttrs)

	Register("LogDistanceModel", map[string]interface{}{
		"Exponent":          DefaultPathLossExponent,
		"ReferenceDistance": DefaultReferenceDistance,
		"ReferenceLoss":     DefaultReferenceLossDb,
	}, newLogDistanceFromAttrs)

	Register("FreeSpaceModel", map[string]interface{}{
		"Frequency":  DefaultFreeSpaceFreqHz,
		"SystemLoss": 1.0,
		"MinLoss":    0.0,
	}, newFreeSpaceFromAttrs)

	Register("OkumuraHataModel", map[string]interface{}{
		"FrequencyMHz": 900.0,
		"BaseHeight":   DefaultBaseHeight,
		"MobileHeight": DefaultMobileHeight,
	}, newOkumuraHataFromAttrs)
}
