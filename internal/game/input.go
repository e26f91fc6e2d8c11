package game

import (
	"math"

	"github.com/go-gl/glfw/v3.3/glfw"
	cp "github.com/jakecoffman/cp/v2"
)

// Raw hardware dead zone for pad drift. The movement ability applies its own
// configured dead zone on top.
const padDrift = 0.08

// Input polls a gamepad (preferred) or the keyboard into InputFrames. The
// swap toggle is edge-triggered here so the engine sees it as a level.
type Input struct {
	prevKeys    map[glfw.Key]bool
	prevButtons map[glfw.GamepadButton]bool
	swap        bool
}

func NewInput() *Input {
	return &Input{
		prevKeys:    make(map[glfw.Key]bool),
		prevButtons: make(map[glfw.GamepadButton]bool),
	}
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

func (in *Input) buttonJustPressed(state *glfw.GamepadState, btn glfw.GamepadButton) bool {
	down := state.Buttons[btn] == glfw.Press
	jp := down && !in.prevButtons[btn]
	in.prevButtons[btn] = down
	return jp
}

// Frame reads the devices into one InputFrame. Pad input wins when a pad is
// connected; the keyboard always contributes so both can be used together.
func (in *Input) Frame(window *glfw.Window, dt float64) InputFrame {
	frame := InputFrame{
		Delta:        dt * 1000,
		DeltaSeconds: dt,
	}

	if glfw.Joystick1.Present() && glfw.Joystick1.IsGamepad() {
		if state := glfw.Joystick1.GetGamepadState(); state != nil {
			frame.LeftStick = padStick(state.Axes[glfw.AxisLeftX], state.Axes[glfw.AxisLeftY])
			frame.RightStick = padStick(state.Axes[glfw.AxisRightX], state.Axes[glfw.AxisRightY])
			frame.LeftTrigger = padTrigger(state.Axes[glfw.AxisLeftTrigger])
			frame.RightTrigger = padTrigger(state.Axes[glfw.AxisRightTrigger])
			if state.Buttons[glfw.ButtonLeftBumper] == glfw.Press {
				frame.LeftGrab = 1
			}
			if state.Buttons[glfw.ButtonRightBumper] == glfw.Press {
				frame.RightGrab = 1
			}
			frame.RollButton = state.Buttons[glfw.ButtonA] == glfw.Press
			if in.buttonJustPressed(state, glfw.ButtonY) {
				in.swap = !in.swap
			}
		}
	}

	in.keyboard(window, &frame)
	frame.SwapControls = in.swap
	return frame
}

// keyboard ORs key state into the frame: WASD drives the head stick, arrows
// the tail, shifts are the triggers, G/H the grabs, space is roll.
func (in *Input) keyboard(window *glfw.Window, frame *InputFrame) {
	frame.LeftStick = frame.LeftStick.Add(keyStick(window,
		glfw.KeyA, glfw.KeyD, glfw.KeyS, glfw.KeyW)).Clamp(1)
	frame.RightStick = frame.RightStick.Add(keyStick(window,
		glfw.KeyLeft, glfw.KeyRight, glfw.KeyDown, glfw.KeyUp)).Clamp(1)

	if window.GetKey(glfw.KeyLeftShift) == glfw.Press {
		frame.LeftTrigger = 1
	}
	if window.GetKey(glfw.KeyRightShift) == glfw.Press {
		frame.RightTrigger = 1
	}
	if window.GetKey(glfw.KeyG) == glfw.Press {
		frame.LeftGrab = 1
	}
	if window.GetKey(glfw.KeyH) == glfw.Press {
		frame.RightGrab = 1
	}
	if window.GetKey(glfw.KeySpace) == glfw.Press {
		frame.RollButton = true
	}
	if in.JustPressed(window, glfw.KeyTab) {
		in.swap = !in.swap
	}
}

func keyStick(window *glfw.Window, left, right, down, up glfw.Key) cp.Vector {
	var v cp.Vector
	if window.GetKey(left) == glfw.Press {
		v.X -= 1
	}
	if window.GetKey(right) == glfw.Press {
		v.X += 1
	}
	if window.GetKey(down) == glfw.Press {
		v.Y -= 1
	}
	if window.GetKey(up) == glfw.Press {
		v.Y += 1
	}
	if v.X != 0 && v.Y != 0 {
		v = v.Mult(1 / math.Sqrt2)
	}
	return v
}

// padStick converts raw pad axes to the Y-up stick contract with drift
// filtering.
func padStick(x, y float32) cp.Vector {
	v := cp.Vector{X: float64(x), Y: -float64(y)}
	if v.Length() < padDrift {
		return cp.Vector{}
	}
	return v.Clamp(1)
}

// padTrigger maps the [-1,1] hardware axis to the [0,1] contract.
func padTrigger(raw float32) float64 {
	return clampF((float64(raw)+1)*0.5, 0, 1)
}
