package mapview

import (
	"testing"

	"github.com/tanema/gween/ease"
)

func TestAnimateToImmediate(t *testing.T) {
	v := newView(0.1, 50)
	v.animateTo(4, Vec2{10, 20}, 0, nil)
	if v.animating() {
		t.Error("zero duration left a tween running")
	}
	if v.Scale() != 4 || v.Offset() != (Vec2{10, 20}) {
		t.Errorf("view = %v, %v; want 4, (10,20)", v.Scale(), v.Offset())
	}
}

func TestAnimateToSteps(t *testing.T) {
	v := newView(0.1, 50)
	v.animateTo(3, Vec2{100, -50}, 1, ease.Linear)

	if !v.stepTween(0.5) {
		t.Fatal("stepTween reported no change")
	}
	if !approxEqual(v.Scale(), 2, 1e-5) {
		t.Errorf("Scale halfway = %v, want 2", v.Scale())
	}
	if !vecApprox(v.Offset(), Vec2{50, -25}, 1e-4) {
		t.Errorf("Offset halfway = %v, want (50,-25)", v.Offset())
	}

	v.stepTween(0.6)
	if v.animating() {
		t.Error("tween still running after its duration")
	}
	if v.Scale() != 3 || v.Offset() != (Vec2{100, -50}) {
		t.Errorf("final view = %v, %v; want exact target", v.Scale(), v.Offset())
	}
	if v.stepTween(0.1) {
		t.Error("stepTween changed the view without a tween")
	}
}

func TestAnimateToClampsTarget(t *testing.T) {
	v := newView(0.1, 50)
	v.animateTo(500, Vec2{}, 0.2, nil)
	v.stepTween(1)
	if v.Scale() != 50 {
		t.Errorf("Scale = %v, want clamped 50", v.Scale())
	}
}

func TestZoomFitAnimated(t *testing.T) {
	m := newTestMap(t, 800, 600)
	m.ZoomFitAnimated(0.3, ease.OutCubic)
	if !m.Centered() {
		t.Error("Centered = false after ZoomFitAnimated")
	}
	if m.Scale() != 1 {
		t.Errorf("Scale changed before the first Tick: %v", m.Scale())
	}
	for i := 0; i < 30 && m.view.animating(); i++ {
		m.Tick(0.016)
	}
	if m.view.animating() {
		t.Fatal("tween did not finish")
	}
	if !approxEqual(m.Scale(), 800.0/4096, epsilon) {
		t.Errorf("Scale = %v, want %v", m.Scale(), 800.0/4096)
	}
}

func TestUserInputCancelsAnimation(t *testing.T) {
	tests := []struct {
		name  string
		input func(m *Map)
	}{
		{"press", func(m *Map) { m.PointerDown(10, 10) }},
		{"wheel", func(m *Map) { m.Wheel(10, 10, 1) }},
		{"zoom button", func(m *Map) { m.ZoomIn() }},
		{"set view", func(m *Map) { m.SetView(2, Vec2{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestMap(t, 800, 600)
			m.ZoomFitAnimated(1, nil)
			m.Tick(0.1)
			tt.input(m)
			if m.view.animating() {
				t.Error("tween survived user input")
			}
		})
	}
}
