package main

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"time"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/goshaderpreset/glfwcontext"
	"github.com/richinsley/goshaderpreset/player"
	"github.com/richinsley/goshaderpreset/watch"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play [preset]",
	Short: "Show a preset applied to an image or video in a window",
	Long: `Show a preset applied to an image or video in a window.

Keys: R reloads the preset, P toggles it, +/- change the speed, Esc quits.
Dropping a preset file on the window switches to it. With --watch the preset
reloads whenever one of its files changes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	addFrameFlags(playCmd)
	playCmd.Flags().Bool("watch", false, "reload the preset when its files change")
	playCmd.Flags().Bool("loop", true, "restart video input at its end")
}

func runPlay(cmd *cobra.Command, args []string) error {
	fs := afero.NewOsFs()
	src, err := openSource(fs, opts, logger)
	if err != nil {
		return err
	}

	if err := glfwcontext.InitGraphics(logger); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %w", err)
	}
	defer glfwcontext.TerminateGraphics(logger)

	win, err := glfwcontext.New(opts.Width, opts.Height, "goshaderpreset", true)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Shutdown()

	p, err := player.New(win, fs, logger)
	if err != nil {
		return err
	}
	defer p.Shutdown()

	sp := p.Preset()
	speed := opts.Speed
	sp.SetSpeed(speed)

	presetPath := ""
	if len(args) == 1 {
		presetPath = args[0]
	}
	enabled := true

	var watcher *watch.Watcher
	if opts.Watch {
		watcher, err = watch.New(logger, watch.DefaultDebounce)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}
	updateWatch := func() {
		if watcher == nil || sp.ShaderPreset() == "" {
			return
		}
		if err := watcher.SetFiles(watch.PresetFiles(sp.ShaderPreset(), sp.Passes())); err != nil {
			logger.Warn().Err(err).Msg("cannot watch preset files")
		}
	}
	apply := func() {
		path := ""
		if enabled {
			path = presetPath
		}
		sp.SetShaderPreset(path)
		title := "goshaderpreset"
		if path != "" {
			title = fmt.Sprintf("goshaderpreset - %s", filepath.Base(path))
		}
		win.SetTitle(title)
		updateWatch()
	}

	win.RegisterKeyCallback(glfw.KeyR, func() {
		logger.Info().Str("preset", presetPath).Msg("reloading preset")
		sp.Reload()
		updateWatch()
	})
	win.RegisterKeyCallback(glfw.KeyP, func() {
		enabled = !enabled
		apply()
	})
	changeSpeed := func(factor float64) func() {
		return func() {
			speed *= factor
			sp.SetSpeed(speed)
			logger.Info().Float64("speed", speed).Msg("speed changed")
		}
	}
	win.RegisterKeyCallback(glfw.KeyEqual, changeSpeed(2))
	win.RegisterKeyCallback(glfw.KeyKPAdd, changeSpeed(2))
	win.RegisterKeyCallback(glfw.KeyMinus, changeSpeed(0.5))
	win.RegisterKeyCallback(glfw.KeyKPSubtract, changeSpeed(0.5))
	win.OnDrop(func(paths []string) {
		if !p.Factory().CanLoadPreset(paths[0]) {
			logger.Warn().Str("path", paths[0]).Msg("dropped file is not a preset")
			return
		}
		presetPath = paths[0]
		enabled = true
		apply()
	})

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		if err := src.Run(ctx); err != nil {
			logger.Error().Err(err).Msg("input failed")
		}
	}()
	if watcher != nil {
		go watcher.Run(ctx)
	}

	// video frames are paced at their own rate, stills are shown once
	interval := time.Duration(0)
	if src.fps > 0 {
		interval = time.Duration(float64(time.Second) / src.fps)
	}
	var lastShown time.Time
	var current *image.RGBA

	apply()
	for !win.ShouldClose() {
		if watcher != nil {
			select {
			case <-watcher.Reloads():
				logger.Info().Str("preset", presetPath).Msg("preset files changed, reloading")
				sp.Reload()
				updateWatch()
			default:
			}
		}

		if current == nil || (interval > 0 && time.Since(lastShown) >= interval) {
			select {
			case img, ok := <-src.frames:
				if ok {
					current = img
					lastShown = time.Now()
					if err := p.SetFrame(img); err != nil {
						return err
					}
				}
			default:
			}
		}

		w, h := win.GetFramebufferSize()
		p.Present(w, h)
		win.EndFrame()
	}
	return nil
}
