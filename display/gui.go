package display

import (
	"image"
	"image/draw"
	"log"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/nf/icx/intcode"
)

// GUI runs an arcade program in a window. The program is resumed once
// per tick, with the joystick position as input: the arrow keys, or
// the ball position when Autopilot is set.
type GUI struct {
	Autopilot bool
	Tick      time.Duration
	Logf      func(format string, args ...any)

	m   *intcode.Machine
	scr *Screen
	joy int64

	size  image.Point
	buf   screen.Buffer
	tex   screen.Texture
	ops   int // updated to match scr.ops after copying into buf
	dirty bool
}

// NewGUI returns a GUI that runs m and draws its output on scr.
func NewGUI(m *intcode.Machine, scr *Screen) *GUI {
	return &GUI{
		Tick: time.Second / 60,
		Logf: log.Printf,
		m:    m,
		scr:  scr,
		ops:  -1,
	}
}

// Step resumes the program, feeding it the joystick position if it is
// waiting for input, and draws its output. It reports whether the
// program has halted.
func (g *GUI) Step() (halted bool, err error) {
	switch g.m.State() {
	case intcode.Halted:
		return true, nil
	case intcode.Suspended:
		if g.Autopilot {
			g.m.Push(g.scr.Joystick())
		} else {
			g.m.Push(g.joy)
		}
	}
	s, err := g.m.Run()
	if uerr := g.scr.Update(g.m.TakeOutput()); err == nil {
		err = uerr
	}
	if err != nil {
		return true, err
	}
	return s == intcode.Halted, nil
}

// Key updates the joystick from a key event. It reports whether the
// key asks for the window to close.
func (g *GUI) Key(e key.Event) (quit bool) {
	switch e.Code {
	case key.CodeEscape:
		return e.Direction == key.DirPress
	case key.CodeLeftArrow, key.CodeRightArrow:
		switch e.Direction {
		case key.DirPress:
			g.joy = -1
			if e.Code == key.CodeRightArrow {
				g.joy = 1
			}
		case key.DirRelease:
			g.joy = 0
		}
	}
	return false
}

// Run opens a window and runs the program until the window is closed.
// The last frame stays on screen after the program halts.
func (g *GUI) Run() error {
	var runErr error
	driver.Main(func(s screen.Screen) {
		w, err := s.NewWindow(&screen.NewWindowOptions{Title: "icx"})
		if err != nil {
			runErr = err
			return
		}
		defer w.Release()

		type update struct{}
		done := make(chan bool)
		defer close(done)
		go func() {
			t := time.NewTicker(g.Tick)
			defer t.Stop()
			for {
				select {
				case <-t.C:
					w.Send(update{})
				case <-done:
					return
				}
			}
		}()

		defer g.release()

		var (
			sz     size.Event
			halted bool
		)
		for {
			switch e := w.NextEvent().(type) {
			case size.Event:
				sz = e
				if sz.WidthPx+sz.HeightPx == 0 {
					return
				}
				g.dirty = true

			case lifecycle.Event:
				if e.To == lifecycle.StageDead {
					return
				}

			case key.Event:
				if g.Key(e) {
					return
				}

			case paint.Event:
				g.dirty = true

			case update:
				if !halted {
					halted, err = g.Step()
					if err != nil {
						runErr = err
						return
					}
					if halted {
						g.Logf("halted: score %d", g.scr.Score)
					}
				}
				if err := g.update(s); err != nil {
					runErr = err
					return
				}
				if g.dirty && g.tex != nil {
					g.tex.Upload(image.Point{}, g.buf, g.buf.Bounds())
					w.Scale(sz.Bounds(), g.tex, g.tex.Bounds(), draw.Src, nil)
					w.Publish()
					g.dirty = false
				}

			case error:
				g.Logf("gui: %v", e)
			}
		}
	})
	return runErr
}

// update copies the screen into the window buffer if it has changed.
func (g *GUI) update(s screen.Screen) (err error) {
	if g.scr.ops == g.ops {
		return nil
	}
	bs := g.scr.Bounds().Size()
	if bs.X == 0 || bs.Y == 0 {
		return nil
	}
	if g.tex == nil || g.size != bs {
		g.release()
		g.size = bs
		g.buf, err = s.NewBuffer(bs)
		if err != nil {
			return
		}
		g.tex, err = s.NewTexture(bs)
		if err != nil {
			return
		}
	}
	g.ops = g.scr.ops
	copy(g.buf.RGBA().Pix, g.scr.Image(1).Pix)
	g.dirty = true
	return nil
}

func (g *GUI) release() {
	if g.tex != nil {
		g.tex.Release()
		g.tex = nil
	}
	if g.buf != nil {
		g.buf.Release()
		g.buf = nil
	}
}
