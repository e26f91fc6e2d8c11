package game

import (
	"fmt"
	"math"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

func RunDesktop() {
	runtime.LockOSThread()

	window, err := initWindow()
	if err != nil {
		panic(err)
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		panic(fmt.Errorf("gl init: %w", err))
	}

	if err := InitAudio(); err != nil {
		fmt.Fprintf(os.Stderr, "audio init failed (continuing without sound): %v\n", err)
	}

	// Seed from environment or clock.
	seed := uint64(time.Now().UnixNano())
	if s := os.Getenv("WURM_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			seed = v
		}
	}

	cfg := DefaultCreatureConfig()
	if os.Getenv("WURM_JUMP") == JumpStyleLattice {
		cfg.JumpStyle = JumpStyleLattice
	}

	// GL state.
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(
		float32(Palette.Background.R)/255.0,
		float32(Palette.Background.G)/255.0,
		float32(Palette.Background.B)/255.0,
		1.0,
	)

	world := NewWorld(seed, cfg)

	rend, err := NewRenderer()
	if err != nil {
		panic(fmt.Errorf("renderer: %w", err))
	}
	defer rend.Destroy()

	start := world.Creature.Centroid()
	cam := Camera{X: start.X, Y: start.Y, Zoom: DefaultZoom}
	input := NewInput()

	wireFeedback(world, &cam)

	// Reusable render buffers.
	var wormBuf, anchorBuf, grabBuf []float32
	var glowBuf, normBuf []float32

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > MaxFrameDelta {
			dt = MaxFrameDelta
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}
		if input.JustPressed(window, glfw.KeyBackspace) {
			world.Reset(cfg)
			wireFeedback(world, &cam)
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		// Zoom on E/Q.
		zoomRate := 1.4
		if window.GetKey(glfw.KeyE) == glfw.Press {
			cam.Zoom *= math.Exp(zoomRate * dt)
		}
		if window.GetKey(glfw.KeyQ) == glfw.Press {
			cam.Zoom *= math.Exp(-zoomRate * dt)
		}

		frame := input.Frame(window, dt)
		world.Step(&frame)

		center := world.Creature.Centroid()
		cam.Follow(center.X, center.Y, dt)
		cam.UpdateShake(dt, seed^uint64(now*1000))
		cam.Clamp(fbW, fbH)

		renderCam := cam
		renderCam.X, renderCam.Y = cam.EffectivePos()

		rend.BeginFrame(fbW, fbH)

		rend.DrawSprites(world.Terrain.RenderData(), renderCam, fbW, fbH)

		wormBuf = world.Creature.WormRenderData(wormBuf[:0])
		rend.DrawSprites(wormBuf, renderCam, fbW, fbH)

		grabBuf = world.Creature.GrabGlowData(grabBuf[:0])
		rend.DrawGlowSprites(grabBuf, renderCam, fbW, fbH)

		anchorBuf = world.Creature.AnchorDots(anchorBuf[:0])
		rend.DrawSprites(anchorBuf, renderCam, fbW, fbH)

		glowBuf, normBuf = world.Particles.ParticleRenderData(glowBuf, normBuf)
		rend.DrawSprites(normBuf, renderCam, fbW, fbH)
		rend.DrawGlowSprites(glowBuf, renderCam, fbW, fbH)

		window.SwapBuffers()
	}
}

// wireFeedback maps creature events to sound and screen shake. Called again
// after every reset; the bus lives on the creature.
func wireFeedback(world *World, cam *Camera) {
	bus := world.Creature.Bus()
	bus.Subscribe(EventHardLanding, func(e Event) {
		PlaySound(SoundThud)
		cam.AddShake(2.2, 0.25)
	})
	bus.Subscribe(EventGrabAttach, func(e Event) {
		PlaySound(SoundGrab)
	})
	bus.Subscribe(EventGrabRelease, func(e Event) {
		PlaySound(SoundRelease)
	})
	bus.Subscribe(EventModeEnter, func(e Event) {
		switch e.Mode {
		case ModeRolling:
			PlaySound(SoundRollStart)
		case ModeJumping:
			PlaySound(SoundJump)
		}
	})
}
