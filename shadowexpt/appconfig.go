package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/wiless/shadowing/experiment"
	"github.com/wiless/shadowing/pathloss"
)

// AppConfig holds the parameters of one experiment run. Keys match the
// command line flags and the config file.
type AppConfig struct {
	Model       string  `mapstructure:"model"`
	LossExp     float64 `mapstructure:"lossExp"`
	NoiseVar    float64 `mapstructure:"noiseVar"`
	Noise       string  `mapstructure:"noise"`
	RefDistance float64 `mapstructure:"refDistance"`
	RefLoss     float64 `mapstructure:"refLoss"`
	Seed        uint64  `mapstructure:"seed"`
	Run         uint64  `mapstructure:"run"`
	Stream      int64   `mapstructure:"stream"`
	Samples     int     `mapstructure:"samples"`
	TxPower     float64 `mapstructure:"txPower"`
	DMin        float64 `mapstructure:"dmin"`
	DMax        float64 `mapstructure:"dmax"`
	DStep       float64 `mapstructure:"dstep"`
	OutDir      string  `mapstructure:"outdir"`
	Plot        string  `mapstructure:"plot"`
	Verbose     bool    `mapstructure:"verbose"`
}

func newFlagSet() *pflag.FlagSet {
	def := experiment.DefaultConfig()
	fs := pflag.NewFlagSet("shadowexpt", pflag.ContinueOnError)
	fs.String("config", "", "config file (json, yaml, toml) overriding the defaults")
	fs.String("model", "LogNormalShadowingModel", "registered propagation loss model")
	fs.Float64("lossExp", 3, "The loss exponent")
	fs.Float64("noiseVar", 2, "Variance of the Gaussian shadowing term in dB^2")
	fs.String("noise", "", "shadowing distribution, e.g. Normal[Mean=0|Variance=2|Bound=10]")
	fs.Float64("refDistance", pathloss.DefaultReferenceDistance, "reference distance in m")
	fs.Float64("refLoss", pathloss.DefaultReferenceLossDb, "loss at the reference distance in dB")
	fs.Uint64("seed", 3, "global random seed")
	fs.Uint64("run", 1, "run number for independent replications")
	fs.Int64("stream", 0, "first random stream index assigned to the model (>= 0)")
	fs.Int("samples", def.Samples, "samples per distance")
	fs.Float64("txPower", def.TxPowerDbm, "transmit power in dBm")
	fs.Float64("dmin", def.DistanceStart, "first distance in m")
	fs.Float64("dmax", def.DistanceStop, "last distance in m")
	fs.Float64("dstep", def.DistanceStep, "distance step in m")
	fs.String("outdir", ".", "Directory where all the output files are generated..")
	fs.String("plot", "shadowing.pdf", "pdf rendered by the gnuplot script")
	fs.BoolP("verbose", "v", false, "Print logs verbose mode")
	return fs
}

// ReadAppConfig parses args, then layers an optional config file between
// the flag defaults and the flags set explicitly.
func ReadAppConfig(args []string) (AppConfig, error) {
	var cfg AppConfig
	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	v := viper.New()
	if err := v.BindPFlags(fs); err != nil {
		return cfg, err
	}
	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return cfg, errors.Wrapf(err, "config %s", file)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, errors.Wrap(err, "decode config")
	}
	return cfg, nil
}

func (c AppConfig) Experiment() experiment.Config {
	result := experiment.DefaultConfig()
	result.TxPowerDbm = c.TxPower
	result.Samples = c.Samples
	result.DistanceStart = c.DMin
	result.DistanceStop = c.DMax
	result.DistanceStep = c.DStep
	return result
}

// Attributes maps the config onto the registry attributes of the model.
// Only LogNormalShadowingModel and LogDistanceModel take the log-distance
// parameters; other models run with their defaults.
func (c AppConfig) Attributes() map[string]interface{} {
	switch c.Model {
	case "LogNormalShadowingModel":
		return map[string]interface{}{
			"Exponent":          c.LossExp,
			"ReferenceDistance": c.RefDistance,
			"ReferenceLoss":     c.RefLoss,
			"NoiseVariance":     c.NoiseVar,
			"Noise":             c.Noise,
		}
	case "LogDistanceModel":
		return map[string]interface{}{
			"Exponent":          c.LossExp,
			"ReferenceDistance": c.RefDistance,
			"ReferenceLoss":     c.RefLoss,
		}
	default:
		return nil
	}
}
