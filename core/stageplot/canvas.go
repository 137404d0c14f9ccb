package stageplot

// RotationStep is the discrete rotation increment, in degrees.
const RotationStep = 15

// RotateDirection is the direction of a discrete rotation.
type RotateDirection string

const (
	RotateLeft  RotateDirection = "left"
	RotateRight RotateDirection = "right"
)

// CanvasRect is the absolute bounding box of the canvas on the client,
// in the same units as the pointer coordinates it is compared against.
type CanvasRect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NormalizePosition converts absolute pointer coordinates to canvas-relative
// percentages. Pointers within the rect map to [0,100]; values outside the
// rect are passed through un-clamped (an off-canvas drop is cosmetic only).
func NormalizePosition(pointerX, pointerY float64, rect CanvasRect) (x, y float64) {
	x = (pointerX - rect.Left) / rect.Width * 100
	y = (pointerY - rect.Top) / rect.Height * 100
	return x, y
}

// NextRotation steps a rotation by RotationStep in the given direction,
// wrapping into [0,360).
func NextRotation(current int, dir RotateDirection) int {
	if dir == RotateLeft {
		current -= RotationStep
	} else {
		current += RotationStep
	}
	current %= 360
	if current < 0 {
		current += 360
	}
	return current
}
