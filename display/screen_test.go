package display

import (
	"errors"
	"image"
	"testing"

	"golang.org/x/mobile/event/key"

	"github.com/nf/icx/intcode"
)

func TestScreenUpdate(t *testing.T) {
	s := NewScreen()
	err := s.Update([]int64{
		0, 0, 1, 1, 0, 1, 2, 0, 1,
		0, 1, 1, 1, 1, 2, 2, 1, 1,
		0, 2, 1, 1, 2, 3, 2, 2, 1,
		-1, 0, 12345,
		2, 1,
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.Score != 12345 {
		t.Errorf("Score = %d, want 12345", s.Score)
	}
	if w := image.Rect(0, 0, 3, 3); s.Bounds() != w {
		t.Errorf("Bounds() = %v, want %v", s.Bounds(), w)
	}
	want := "" +
		"###\n" +
		"#%#\n" +
		"#=#\n"
	if g := s.String(); g != want {
		t.Errorf("String() =\n%s\nwant\n%s", g, want)
	}
	if g := s.Count(Wall); g != 7 {
		t.Errorf("Count(Wall) = %d, want 7", g)
	}

	// The trailing 2, 1 is completed by the next update.
	if err := s.Update([]int64{4}); err != nil {
		t.Fatal(err)
	}
	if g := s.Tile(image.Pt(2, 1)); g != Ball {
		t.Errorf("Tile(2, 1) = %v, want ball", g)
	}
	if g := s.Count(Wall); g != 6 {
		t.Errorf("Count(Wall) = %d, want 6", g)
	}
}

func TestScreenBadTile(t *testing.T) {
	s := NewScreen()
	if err := s.Update([]int64{1, 1, 9}); !errors.Is(err, ErrTile) {
		t.Errorf("Update error = %v, want ErrTile", err)
	}
}

func TestJoystick(t *testing.T) {
	for _, c := range []struct {
		out  []int64
		want int64
	}{
		{nil, 0},
		{[]int64{3, 5, 4}, 0},
		{[]int64{3, 5, 4, 6, 9, 3}, -1},
		{[]int64{7, 5, 4, 6, 9, 3}, 1},
		{[]int64{6, 5, 4, 6, 9, 3}, 0},
	} {
		s := NewScreen()
		if err := s.Update(c.out); err != nil {
			t.Fatal(err)
		}
		if g := s.Joystick(); g != c.want {
			t.Errorf("%v: Joystick() = %d, want %d", c.out, g, c.want)
		}
	}
}

func TestScreenImage(t *testing.T) {
	s := NewScreen()
	if err := s.Update([]int64{-2, 4, 2, -1, 5, 4}); err != nil {
		t.Fatal(err)
	}
	m := s.Image(3)
	if g, w := m.Bounds(), image.Rect(0, 0, 6, 6); g != w {
		t.Fatalf("Image(3).Bounds() = %v, want %v", g, w)
	}
	for _, c := range []struct {
		x, y int
		tile Tile
	}{
		{0, 0, Block},
		{2, 2, Block},
		{3, 0, Empty},
		{5, 2, Empty},
		{0, 3, Empty},
		{3, 3, Ball},
		{5, 5, Ball},
	} {
		if g, w := m.RGBAAt(c.x, c.y), Theme[c.tile]; g != w {
			t.Errorf("pixel %d,%d = %v, want %v (%v)", c.x, c.y, g, w, c.tile)
		}
	}
	if g := s.Image(0).Bounds(); g != image.Rect(0, 0, 2, 2) {
		t.Errorf("Image(0).Bounds() = %v", g)
	}
}

// arcade draws a paddle at (0, 3) and a ball at (1, 2), then reads the
// joystick and writes it as the score.
const arcade = "104,0,104,3,104,3,104,1,104,2,104,4,3,50,104,-1,104,0,4,50,99"

func TestGUIStep(t *testing.T) {
	for _, c := range []struct {
		autopilot bool
		keys      []key.Event
		score     int64
	}{
		{autopilot: true, score: 1},
		{score: 0},
		{keys: []key.Event{{Code: key.CodeLeftArrow, Direction: key.DirPress}}, score: -1},
		{keys: []key.Event{
			{Code: key.CodeLeftArrow, Direction: key.DirPress},
			{Code: key.CodeLeftArrow, Direction: key.DirRelease},
			{Code: key.CodeRightArrow, Direction: key.DirPress},
		}, score: 1},
	} {
		m, err := intcode.Parse(arcade)
		if err != nil {
			t.Fatal(err)
		}
		s := NewScreen()
		g := NewGUI(m, s)
		g.Autopilot = c.autopilot
		for _, e := range c.keys {
			if g.Key(e) {
				t.Errorf("key %v closed the window", e)
			}
		}
		halted, err := g.Step()
		if err != nil || halted {
			t.Fatalf("first Step = %v, %v", halted, err)
		}
		if s.Tile(image.Pt(1, 2)) != Ball || s.Tile(image.Pt(0, 3)) != Paddle {
			t.Errorf("screen not drawn:\n%s", s)
		}
		halted, err = g.Step()
		if err != nil || !halted {
			t.Fatalf("second Step = %v, %v", halted, err)
		}
		if s.Score != c.score {
			t.Errorf("autopilot %v keys %v: score %d, want %d", c.autopilot, c.keys, s.Score, c.score)
		}
		if halted, err := g.Step(); !halted || err != nil {
			t.Errorf("Step after halt = %v, %v", halted, err)
		}
	}
	g := NewGUI(nil, nil)
	if !g.Key(key.Event{Code: key.CodeEscape, Direction: key.DirPress}) {
		t.Error("escape did not close the window")
	}
}
