package ui

import (
	"errors"
	"strings"
	"testing"
)

func TestScrollerConverges(t *testing.T) {
	s := NewScroller(60)
	if s.Update() {
		t.Error("idle scroller moved")
	}
	s.ScrollTo(40)
	frames := 0
	for s.Update() {
		frames++
		if s.Offset() > 40.5 {
			t.Fatalf("overshoot to %v", s.Offset())
		}
		if frames > 1000 {
			t.Fatal("scroller did not settle")
		}
	}
	if s.Offset() != 40 || !s.Settled() {
		t.Errorf("offset = %v, settled %v", s.Offset(), s.Settled())
	}
	if frames < 5 {
		t.Errorf("scroll took %d frames, want a visible animation", frames)
	}
}

func TestScrollerJump(t *testing.T) {
	s := NewScroller(30)
	s.ScrollTo(10)
	s.Update()
	s.Jump(3)
	if s.Offset() != 3 || s.Target() != 3 || !s.Settled() {
		t.Errorf("after Jump offset=%v target=%v", s.Offset(), s.Target())
	}
}

func TestAccordionAtMostOneOpen(t *testing.T) {
	a := NewAccordion(DefaultPanels()...)
	if a.Open() != -1 {
		t.Fatal("new accordion has an open panel")
	}
	steps := []struct {
		toggle int
		want   int
	}{
		{0, 0},
		{2, 2},
		{2, -1},
		{1, 1},
		{7, 1},  // out of range
		{-1, 1}, // out of range
		{1, -1},
	}
	for _, st := range steps {
		a.Toggle(st.toggle)
		if a.Open() != st.want {
			t.Fatalf("Toggle(%d): open = %d, want %d", st.toggle, a.Open(), st.want)
		}
		n := 0
		for i := range a.Panels {
			if a.IsOpen(i) {
				n++
			}
		}
		if n > 1 {
			t.Fatalf("%d panels open", n)
		}
	}
}

func TestAccordionRender(t *testing.T) {
	a := NewAccordion(Panel{Title: "A", Lines: []string{"a1", "a2"}}, Panel{Title: "B", Lines: []string{"b1"}})
	if got := a.Render(); len(got) != 2 {
		t.Errorf("closed render = %q", got)
	}
	a.Toggle(0)
	got := strings.Join(a.Render(), "|")
	if got != "▾ A|    a1|    a2|▸ B" {
		t.Errorf("render = %q", got)
	}
	a.SetLines(1, "x")
	a.Toggle(1)
	if got := a.Render(); got[len(got)-1] != "    x" {
		t.Errorf("SetLines not shown: %q", got)
	}
}

func typeString(c *ColorInput, s string) {
	for i := range len(s) {
		c.HandleKey(s[i])
	}
}

func TestColorInput(t *testing.T) {
	var applied []string
	c := NewColorInput(func(hex string) error {
		if len(hex) < 4 {
			return errors.New("too short")
		}
		applied = append(applied, hex)
		return nil
	})
	if c.HandleKey('a') {
		t.Error("closed field consumed a key")
	}

	c.Begin("#")
	typeString(c, "12zz")
	c.HandleKey(KeyEnter)
	if !c.Active() || c.Err() == nil || len(applied) != 0 {
		t.Fatalf("invalid text should keep the field open: active=%v err=%v", c.Active(), c.Err())
	}
	typeString(c, "3456789")
	if c.Text() != "#1234567" {
		t.Errorf("text = %q", c.Text())
	}
	c.HandleKey(KeyBackspace)
	c.HandleKey(KeyEnter)
	if c.Active() || c.Err() != nil || len(applied) != 1 || applied[0] != "#123456" {
		t.Errorf("apply: active=%v err=%v applied=%v", c.Active(), c.Err(), applied)
	}

	c.Begin("#ffffff")
	c.HandleKey(KeyEscape)
	if c.Active() || len(applied) != 1 {
		t.Error("Escape should cancel without applying")
	}
}
