package main

import (
	"strings"
	"time"

	"github.com/richinsley/goshaderpreset/logging"
	"github.com/richinsley/goshaderpreset/options"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	v       = viper.New()
	opts    *options.ShaderOptions
	logger  = zerolog.Nop()

	rootCmd = &cobra.Command{
		Use:   "goshaderpreset",
		Short: "Run multi-pass shader presets over images and video",
		Long: `goshaderpreset loads libretro-style .glslp shader presets (or YAML, JSON and
TOML preset files) and runs their passes over a still image or a video.

Use 'inspect' to list what a preset contains, 'render' to write a processed
image, 'play' to watch the result live and 'record' to encode it with ffmpeg.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := bindFlags(v, cmd.Flags()); err != nil {
				return err
			}
			var err error
			opts, err = options.Load(v, cfgFile)
			if err != nil {
				return err
			}
			cfg := logging.DefaultConfig()
			cfg.Level = logging.ParseLevel(opts.LogLevel)
			cfg.Format = opts.LogFormat
			cfg.TimeFormat = time.TimeOnly
			logger = logging.New(cfg)
			return nil
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	pf.String("log-level", "info", "log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("ffmpeg-path", "", "path to the ffmpeg executable")
	pf.Bool("gles", false, "render offscreen with an EGL OpenGL ES context")

	rootCmd.AddCommand(inspectCmd, renderCmd, playCmd, recordCmd)
}

// bindFlags exposes every flag to viper under its option key; dashes in
// flag names become underscores.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	var err error
	flags.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Name == "config" || f.Name == "help" {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return err
}

// addFrameFlags registers the output geometry flags shared by the
// rendering commands.
func addFrameFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("input", "i", "", "input image or video (color bars when empty)")
	f.Int("width", 1280, "output width")
	f.Int("height", 720, "output height")
	f.Float64("speed", 1, "frame counter increment per rendered frame")
}
