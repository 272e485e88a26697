package export

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"sync"

	"github.com/san-kum/sortviz/internal/engine"
)

var ErrNoFrames = errors.New("export: no frames captured")

// GIFRecorder is an engine.Observer that rasterizes frames into an animated GIF.
// Sampling and the frame cap are set through options; the most recent frame is
// always kept as the closing image.
type GIFRecorder struct {
	mu        sync.Mutex
	barWidth  int
	height    int
	every     int
	maxFrames int
	delay     int
	seen      int
	frames    []*image.Paletted
	last      engine.Frame
	lastKept  bool
	palette   color.Palette
}

type GIFOption func(*GIFRecorder)

// WithEvery keeps one frame out of n.
func WithEvery(n int) GIFOption {
	return func(g *GIFRecorder) {
		if n > 0 {
			g.every = n
		}
	}
}

func WithMaxFrames(n int) GIFOption {
	return func(g *GIFRecorder) {
		if n > 0 {
			g.maxFrames = n
		}
	}
}

// WithDelay sets the per-frame delay in hundredths of a second.
func WithDelay(cs int) GIFOption {
	return func(g *GIFRecorder) {
		if cs >= 0 {
			g.delay = cs
		}
	}
}

func WithBarSize(width, height int) GIFOption {
	return func(g *GIFRecorder) {
		if width > 0 {
			g.barWidth = width
		}
		if height > 0 {
			g.height = height
		}
	}
}

func NewGIFRecorder(opts ...GIFOption) *GIFRecorder {
	g := &GIFRecorder{
		barWidth:  4,
		height:    200,
		every:     1,
		maxFrames: 1000,
		delay:     4,
	}
	g.palette = color.Palette{parseHex(background)}
	for _, h := range ColorHex {
		g.palette = append(g.palette, parseHex(h))
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *GIFRecorder) OnFrame(f engine.Frame) {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.seen
	g.seen++
	if n%g.every != 0 || len(g.frames) >= g.maxFrames {
		g.last = engine.Frame{
			Values: append(g.last.Values[:0], f.Values...),
			Colors: append(g.last.Colors[:0], f.Colors...),
		}
		g.lastKept = false
		return
	}
	g.frames = append(g.frames, g.rasterize(f))
	g.lastKept = true
}

func (g *GIFRecorder) rasterize(f engine.Frame) *image.Paletted {
	w := len(f.Values) * g.barWidth
	if w == 0 {
		w = 1
	}
	img := image.NewPaletted(image.Rect(0, 0, w, g.height), g.palette)

	maxV := 1
	for _, v := range f.Values {
		maxV = max(maxV, v)
	}
	for i, v := range f.Values {
		idx := uint8(1 + engine.Default)
		if i < len(f.Colors) && int(f.Colors[i]) < len(ColorHex) {
			idx = uint8(1 + f.Colors[i])
		}
		barH := v * (g.height - 1) / maxV
		x0 := i * g.barWidth
		for y := g.height - barH; y < g.height; y++ {
			for x := x0; x < x0+g.barWidth-1; x++ {
				img.SetColorIndex(x, y, idx)
			}
		}
	}
	return img
}

func (g *GIFRecorder) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.frames)
}

// Encode writes the animation. The last observed frame is appended when
// sampling skipped it, so the animation ends on the final state.
func (g *GIFRecorder) Encode(w io.Writer) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.frames) == 0 {
		return ErrNoFrames
	}
	images := g.frames
	if !g.lastKept {
		images = append(images[:len(images):len(images)], g.rasterize(g.last))
	}

	anim := gif.GIF{LoopCount: 0}
	for i, frame := range images {
		delay := g.delay
		if i == len(images)-1 {
			delay = 100
		}
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func (g *GIFRecorder) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := g.Encode(f); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
