package batch

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/ftrvxmtrx/tga"

	"avatar-retarget/internal/logging"
	"avatar-retarget/internal/postprocess"
	"avatar-retarget/internal/raster"
)

// Output formats.
const (
	FormatWebP     = "webp"      // one lossless WebP per frame
	FormatTGA      = "tga"       // one TGA per frame
	FormatAnimated = "webp-anim" // a single animated WebP
)

// AnimationFile is the output name used by FormatAnimated.
const AnimationFile = "animation.webp"

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Width       int
	Height      int
	Supersample int
	Workers     int
	Format      string
	FrameTime   time.Duration // display time per frame in animated output

	Backdrop   image.Image // optional; stretched behind each frame
	Background color.NRGBA // used when Backdrop is nil
	Logger     *slog.Logger
}

// Result holds the outcome of processing one frame.
type Result struct {
	Index   int
	File    string
	Success bool
	Error   string
}

// Run renders and encodes all frames using a worker pool.
func Run(cfg Config, frames []Frame) []Result {
	cfg = withDefaults(cfg)
	total := len(frames)
	results := make([]Result, total)
	images := make([]image.Image, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					cfg.Logger.Info("render progress", "done", p, "total", total, "frames_per_sec", float64(p)/elapsed)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range frameChan {
				img := renderFrame(cfg, frames[idx])
				if cfg.Format == FormatAnimated {
					images[idx] = img
					results[idx] = Result{Index: frames[idx].Index, File: AnimationFile, Success: true}
				} else {
					results[idx] = writeFrame(cfg, frames[idx].Index, img)
				}
				processed.Add(1)
			}
		}()
	}

	// Send work
	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	if cfg.Format == FormatAnimated && total > 0 {
		if err := writeAnimation(cfg, images); err != nil {
			for i := range results {
				results[i].Success = false
				results[i].Error = err.Error()
			}
		}
	}
	return results
}

func withDefaults(cfg Config) Config {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Supersample <= 0 {
		cfg.Supersample = 1
	}
	if cfg.Format == "" {
		cfg.Format = FormatWebP
	}
	if cfg.FrameTime <= 0 {
		cfg.FrameTime = time.Second / 30
	}
	if cfg.Background == (color.NRGBA{}) {
		cfg.Background = postprocess.BackdropColor
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Discard()
	}
	return cfg
}

func renderFrame(cfg Config, f Frame) *image.NRGBA {
	img := raster.RenderPose(f.Pose, f.Camera, cfg.Width, cfg.Height, cfg.Supersample)

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}
	return postprocess.Composite(img, cfg.Backdrop, cfg.Background)
}

// FrameFile is the output name of a still frame.
func FrameFile(index int, format string) string {
	return fmt.Sprintf("frame_%05d.%s", index, format)
}

func writeFrame(cfg Config, index int, img image.Image) Result {
	name := FrameFile(index, cfg.Format)
	res := Result{Index: index, File: name}

	outPath := filepath.Join(cfg.OutputDir, name)
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		res.Error = err.Error()
		return res
	}

	f, err := os.Create(outPath)
	if err != nil {
		res.Error = err.Error()
		return res
	}
	defer f.Close()

	switch cfg.Format {
	case FormatTGA:
		err = tga.Encode(f, img)
	case FormatWebP:
		err = nativewebp.Encode(f, img, nil)
	default:
		err = fmt.Errorf("unknown format %q", cfg.Format)
	}
	if err != nil {
		res.Error = fmt.Sprintf("%s encode: %v", cfg.Format, err)
		return res
	}

	res.Success = true
	return res
}

func writeAnimation(cfg Config, images []image.Image) error {
	ms := uint(cfg.FrameTime / time.Millisecond)
	ani := &nativewebp.Animation{
		Images:    images,
		Durations: make([]uint, len(images)),
		Disposals: make([]uint, len(images)),
	}
	for i := range images {
		ani.Durations[i] = ms
	}
	bg := cfg.Background
	// ARGB, little endian on disk as BGRA
	ani.BackgroundColor = uint32(bg.A)<<24 | uint32(bg.R)<<16 | uint32(bg.G)<<8 | uint32(bg.B)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("batch: animation: %w", err)
	}
	f, err := os.Create(filepath.Join(cfg.OutputDir, AnimationFile))
	if err != nil {
		return fmt.Errorf("batch: animation: %w", err)
	}
	defer f.Close()

	if err := nativewebp.EncodeAll(f, ani, nil); err != nil {
		return fmt.Errorf("batch: animation encode: %w", err)
	}
	return nil
}
