package game

import (
	cp "github.com/jakecoffman/cp/v2"
)

// InputFrame is the raw per-frame input contract: two analog sticks, two
// triggers, two grab axes, the roll button and the control-swap button.
// Sticks are normalized to [-1,1] per axis, Y up; triggers and grabs to [0,1].
type InputFrame struct {
	LeftStick    cp.Vector
	RightStick   cp.Vector
	LeftTrigger  float64
	RightTrigger float64
	LeftGrab     float64
	RightGrab    float64
	RollButton   bool
	SwapControls bool

	Delta        float64 // ms
	DeltaSeconds float64
}

// ControlFrame is the swap-resolved view every ability consumes. All ability
// logic is written in terms of head/tail channels; the physical left/right
// mapping is resolved exactly once per frame, here.
type ControlFrame struct {
	HeadStick   cp.Vector
	TailStick   cp.Vector
	HeadTrigger float64
	TailTrigger float64
	HeadGrab    float64
	TailGrab    float64
	RollHeld    bool

	Dt float64 // seconds
}

// Resolve maps raw input to head/tail channels. Default mapping: left stick,
// left trigger and left grab drive the head; SwapControls flips it.
func (in *InputFrame) Resolve() ControlFrame {
	cf := ControlFrame{
		HeadStick:   in.LeftStick,
		TailStick:   in.RightStick,
		HeadTrigger: in.LeftTrigger,
		TailTrigger: in.RightTrigger,
		HeadGrab:    in.LeftGrab,
		TailGrab:    in.RightGrab,
		RollHeld:    in.RollButton,
		Dt:          in.DeltaSeconds,
	}
	if in.SwapControls {
		cf.HeadStick, cf.TailStick = cf.TailStick, cf.HeadStick
		cf.HeadTrigger, cf.TailTrigger = cf.TailTrigger, cf.HeadTrigger
		cf.HeadGrab, cf.TailGrab = cf.TailGrab, cf.HeadGrab
	}
	return cf
}
