package stageplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NormalizePosition(t *testing.T) {
	rect := CanvasRect{Left: 100, Top: 50, Width: 800, Height: 400}

	tests := []struct {
		name               string
		pointerX, pointerY float64
		wantX, wantY       float64
	}{
		{"top-left corner", 100, 50, 0, 0},
		{"center", 500, 250, 50, 50},
		{"bottom-right corner", 900, 450, 100, 100},
		{"quarter in", 300, 150, 25, 25},
		{"outside left is not clamped", 60, 50, -5, 0},
		{"outside bottom is not clamped", 100, 490, 0, 110},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := NormalizePosition(tt.pointerX, tt.pointerY, rect)
			assert.InDelta(t, tt.wantX, x, 1e-9)
			assert.InDelta(t, tt.wantY, y, 1e-9)
		})
	}
}

func Test_NormalizePosition_inBoundsStaysInRange(t *testing.T) {
	rect := CanvasRect{Left: 12.5, Top: 30, Width: 640, Height: 360}
	for px := rect.Left; px <= rect.Left+rect.Width; px += 64 {
		for py := rect.Top; py <= rect.Top+rect.Height; py += 36 {
			x, y := NormalizePosition(px, py, rect)
			if x < 0 || x > 100 || y < 0 || y > 100 {
				t.Fatalf("pointer (%v, %v) mapped out of range: (%v, %v)", px, py, x, y)
			}
		}
	}
}

func Test_NextRotation(t *testing.T) {
	tests := []struct {
		name    string
		current int
		dir     RotateDirection
		want    int
	}{
		{"step right", 0, RotateRight, 15},
		{"step left wraps below zero", 0, RotateLeft, 345},
		{"step right wraps at 360", 345, RotateRight, 0},
		{"step left", 90, RotateLeft, 75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NextRotation(tt.current, tt.dir); got != tt.want {
				t.Errorf("NextRotation(%d, %s) = %d; want %d", tt.current, tt.dir, got, tt.want)
			}
		})
	}
}

func Test_NextRotation_fullTurnReturnsToStart(t *testing.T) {
	start := 30
	rot := start
	for i := 0; i < 24; i++ {
		rot = NextRotation(rot, RotateLeft)
	}
	if rot != start {
		t.Errorf("24 left steps = %d; want %d", rot, start)
	}

	rot = start
	for i := 0; i < 24; i++ {
		rot = NextRotation(rot, RotateRight)
	}
	if rot != start {
		t.Errorf("24 right steps = %d; want %d", rot, start)
	}
}
