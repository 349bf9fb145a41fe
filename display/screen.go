// Package display draws the tile screens produced by Intcode arcade
// programs, as text, as images, and in a window.
package display

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
)

// Tile is the content of one screen cell.
type Tile int64

const (
	Empty Tile = iota
	Wall
	Block
	Paddle
	Ball
)

var tileRunes = [...]byte{' ', '#', '%', '=', 'o'}

func (t Tile) String() string {
	if t < 0 || int(t) >= len(tileRunes) {
		return fmt.Sprintf("Tile(%d)", int64(t))
	}
	return string(tileRunes[t])
}

// ErrTile is returned by Update for tile ids it does not recognise.
var ErrTile = errors.New("unknown tile")

// Theme holds the color of each tile.
var Theme = [...]color.RGBA{
	Empty:  {0x10, 0x10, 0x18, 0xff},
	Wall:   {0x80, 0x80, 0x90, 0xff},
	Block:  {0xe0, 0x70, 0x30, 0xff},
	Paddle: {0x40, 0xc0, 0xf0, 0xff},
	Ball:   {0xf0, 0xf0, 0xf0, 0xff},
}

// Screen is a grid of tiles drawn by a program that writes triples of
// x, y, and tile id. A triple with x -1 and y 0 sets Score instead.
type Screen struct {
	Score int64

	tiles   map[image.Point]Tile
	bounds  image.Rectangle
	ball    *image.Point
	paddle  *image.Point
	partial []int64
	ops     int // total count of draw operations
}

// NewScreen returns an empty Screen.
func NewScreen() *Screen {
	return &Screen{tiles: make(map[image.Point]Tile)}
}

// Update draws the triples in values. Values that do not complete a
// triple are kept until the next call.
func (s *Screen) Update(values []int64) error {
	buf := append(s.partial, values...)
	for ; len(buf) >= 3; buf = buf[3:] {
		x, y, v := buf[0], buf[1], buf[2]
		if x == -1 && y == 0 {
			s.Score = v
			s.ops++
			continue
		}
		t := Tile(v)
		if t < Empty || t > Ball {
			s.partial = nil
			return fmt.Errorf("%w %d at %d,%d", ErrTile, v, x, y)
		}
		p := image.Pt(int(x), int(y))
		s.tiles[p] = t
		s.bounds = s.bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))
		switch t {
		case Ball:
			s.ball = &p
		case Paddle:
			s.paddle = &p
		}
		s.ops++
	}
	s.partial = buf
	return nil
}

// Tile returns the tile at p.
func (s *Screen) Tile(p image.Point) Tile { return s.tiles[p] }

// Bounds returns the smallest rectangle containing every drawn tile.
func (s *Screen) Bounds() image.Rectangle { return s.bounds }

// Count returns the number of cells holding t.
func (s *Screen) Count(t Tile) int {
	n := 0
	for _, v := range s.tiles {
		if v == t {
			n++
		}
	}
	return n
}

// Joystick returns the input that moves the paddle toward the ball:
// -1 for left, 1 for right, 0 to stay.
func (s *Screen) Joystick() int64 {
	if s.ball == nil || s.paddle == nil {
		return 0
	}
	switch {
	case s.ball.X < s.paddle.X:
		return -1
	case s.ball.X > s.paddle.X:
		return 1
	}
	return 0
}

func (s *Screen) String() string {
	var b strings.Builder
	for y := s.bounds.Min.Y; y < s.bounds.Max.Y; y++ {
		for x := s.bounds.Min.X; x < s.bounds.Max.X; x++ {
			b.WriteString(s.tiles[image.Pt(x, y)].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Image renders the screen with each tile as a scale by scale square.
func (s *Screen) Image(scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	size := s.bounds.Size()
	src := newImage(size, Theme[Empty])
	for p, t := range s.tiles {
		src.SetRGBA(p.X-s.bounds.Min.X, p.Y-s.bounds.Min.Y, Theme[t])
	}
	if scale == 1 {
		return src
	}
	dst := image.NewRGBA(image.Rectangle{Max: size.Mul(scale)})
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func newImage(size image.Point, c color.RGBA) *image.RGBA {
	m := image.NewRGBA(image.Rectangle{Max: size})
	for b := m.Pix; len(b) >= 4; b = b[4:] {
		b[0] = c.R
		b[1] = c.G
		b[2] = c.B
		b[3] = c.A
	}
	return m
}
