// Package options holds the command line configuration of goshaderpreset.
//
// Values come, in increasing priority, from built-in defaults, an optional
// config file, GOSHADERPRESET_* environment variables and command flags.
package options

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "GOSHADERPRESET"

type ShaderOptions struct {
	Preset     string  `mapstructure:"preset"`
	Input      string  `mapstructure:"input"`
	Output     string  `mapstructure:"output"`
	Width      int     `mapstructure:"width"`
	Height     int     `mapstructure:"height"`
	FPS        int     `mapstructure:"fps"`
	Duration   float64 `mapstructure:"duration"`
	Speed      float64 `mapstructure:"speed"`
	Frames     int     `mapstructure:"frames"`
	Codec      string  `mapstructure:"codec"`
	BitRate    string  `mapstructure:"bitrate"`
	FFMPEGPath string  `mapstructure:"ffmpeg_path"`
	HWAccel    bool    `mapstructure:"hwaccel"`
	Mode       string  `mapstructure:"mode"`
	Watch      bool    `mapstructure:"watch"`
	Loop       bool    `mapstructure:"loop"`
	GLES       bool    `mapstructure:"gles"`
	LogLevel   string  `mapstructure:"log_level"`
	LogFormat  string  `mapstructure:"log_format"`
}

// SetDefaults registers the built-in defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("width", 1280)
	v.SetDefault("height", 720)
	v.SetDefault("fps", 30)
	v.SetDefault("duration", 0.0)
	v.SetDefault("speed", 1.0)
	v.SetDefault("codec", "h264")
	v.SetDefault("bitrate", "25M")
	v.SetDefault("ffmpeg_path", "")
	v.SetDefault("hwaccel", false)
	v.SetDefault("mode", "file")
	v.SetDefault("watch", false)
	v.SetDefault("gles", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// Load reads configFile when set, applies the environment and decodes v.
// Flags must already be bound to v.
func Load(v *viper.Viper, configFile string) (*ShaderOptions, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var opts ShaderOptions
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("failed to decode options: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate rejects values no command can work with.
func (o *ShaderOptions) Validate() error {
	var errs []error
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid output size %dx%d", o.Width, o.Height))
	}
	if o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", o.FPS))
	}
	if o.Speed < 0 {
		errs = append(errs, fmt.Errorf("speed must not be negative, got %g", o.Speed))
	}
	if o.Duration < 0 {
		errs = append(errs, fmt.Errorf("duration must not be negative, got %g", o.Duration))
	}
	switch o.Codec {
	case "h264", "hevc":
	default:
		errs = append(errs, fmt.Errorf("unsupported codec %q", o.Codec))
	}
	switch o.Mode {
	case "file", "stream":
	default:
		errs = append(errs, fmt.Errorf("unsupported mode %q", o.Mode))
	}
	return errors.Join(errs...)
}
