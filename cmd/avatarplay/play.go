package main

import (
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"avatar-retarget/internal/batch"
	"avatar-retarget/internal/camera"
	"avatar-retarget/internal/config"
	"avatar-retarget/internal/motion"
	"avatar-retarget/internal/postprocess"
	"avatar-retarget/internal/timeline"
	"avatar-retarget/internal/viewer"
)

func newPlayCommand(ctx *commandContext) *cobra.Command {
	var gloss string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a motion timeline on the rig and render the framed frames",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			return runPlay(cmd, cfg, logger, gloss)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&ctx.flags.Motion, "motion", "m", "", "Motion document: URL, server path or local file")
	f.StringVar(&gloss, "gloss", "", "Play built-in sample clips for this gloss sentence instead of --motion")
	f.StringVar(&ctx.flags.MotionBaseURL, "base-url", "", "Motion server base URL for server paths")
	f.StringVarP(&ctx.flags.OutputDir, "output", "o", "", "Output directory")
	f.StringVar(&ctx.flags.Format, "format", "", "Output format: webp, webp-anim or tga")
	f.Float64Var(&ctx.flags.Duration, "duration", 0, "Seconds of playback to simulate")
	f.IntVar(&ctx.flags.Width, "width", 0, "Frame width")
	f.IntVar(&ctx.flags.Height, "height", 0, "Frame height")
	f.IntVar(&ctx.flags.Workers, "workers", 0, "Render workers (default: NumCPU)")
	return cmd
}

func runPlay(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, gloss string) error {
	sk, err := loadRig(cfg)
	if err != nil {
		return err
	}

	cam := camera.Default()
	cam.FOV = cfg.FOV
	session := viewer.New(sk, viewer.Options{Prefixes: cfg.Prefixes, Camera: &cam, Logger: logger})

	// Motion: either generated up front or fetched off the tick loop.
	var source func() *timeline.Timeline
	motionRef := cfg.Motion
	switch {
	case gloss != "":
		tl := timeline.DefaultSampler().Sentence(gloss)
		source = func() *timeline.Timeline { return tl }
		motionRef = "gloss:" + gloss
	case cfg.Motion != "":
		loader := motion.NewLoader(motion.NewRouter(cfg.MotionBaseURL, motion.WithTimeout(cfg.Timeout())), logger)
		defer loader.Close()
		loader.Select(cmd.Context(), cfg.Motion)
		loader.Wait()
		if snap := loader.Current(); snap.Status != motion.StatusReady {
			return fmt.Errorf("play: %s: %w", snap.Ref, snap.Err)
		}
		source = loader.Timeline
	default:
		logger.Warn("no motion selected; rendering the rest pose")
	}

	var backdrop image.Image
	if cfg.Backdrop != "" {
		if backdrop, err = postprocess.LoadBackdrop(cfg.Backdrop); err != nil {
			return err
		}
	}

	logger.Info("simulating",
		"session", session.ID, "rig", sk.Name, "bones", sk.Len(),
		"ticks", cfg.Ticks(), "render_fps", cfg.RenderFPS, "capture_every", cfg.CaptureEvery)

	frames := batch.Capture(session, batch.CaptureOptions{
		Ticks:     cfg.Ticks(),
		RenderFPS: cfg.RenderFPS,
		Every:     cfg.CaptureEvery,
		Viewport:  camera.Viewport{Width: cfg.Width, Height: cfg.Height},
		Timeline:  source,
	})

	start := time.Now()
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		Workers:     cfg.Workers,
		Format:      cfg.Format,
		FrameTime:   time.Duration(float64(cfg.CaptureEvery) / cfg.RenderFPS * float64(time.Second)),
		Backdrop:    backdrop,
		Logger:      logger,
	}
	results := batch.Run(batchCfg, frames)

	failed := 0
	for _, r := range results {
		if !r.Success {
			failed++
			logger.Error("frame failed", "index", r.Index, "error", r.Error)
		}
	}
	logger.Info("rendered",
		"frames", len(results)-failed, "total", len(results),
		"elapsed", time.Since(start).Round(time.Millisecond), "output", cfg.OutputDir)

	// Write manifest
	manifest := batch.NewManifest(uuid.New(), batchCfg, frames, results)
	manifest.Motion = motionRef
	manifest.Rig = sk.Name
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("play: %w", err)
	}
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		logger.Warn("manifest write failed", "error", err)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		return fmt.Errorf("play: %d of %d frames failed", failed, len(results))
	}
	return nil
}
