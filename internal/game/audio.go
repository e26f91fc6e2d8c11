package game

import (
	"io"
	"math"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)
)

var sfxVolume = 0.8

// SoundKind identifies different sound effects.
type SoundKind int

const (
	SoundThud SoundKind = iota
	SoundGrab
	SoundRelease
	SoundRollStart
	SoundJump
)

// AudioSystem manages procedural sound effects.
type AudioSystem struct {
	ctx   *oto.Context
	ready chan struct{}
}

var globalAudio *AudioSystem

// InitAudio initializes the audio system.
func InitAudio() error {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return err
	}
	globalAudio = &AudioSystem{ctx: ctx, ready: ready}
	return nil
}

// PlaySound plays a procedurally generated sound effect.
func PlaySound(kind SoundKind) {
	PlaySoundWithGain(kind, 1.0)
}

func PlaySoundWithGain(kind SoundKind, gain float64) {
	if globalAudio == nil || gain <= 0 {
		return
	}
	select {
	case <-globalAudio.ready:
	default:
		return
	}
	samples := generateSound(kind)
	if len(samples) == 0 {
		return
	}
	go func() {
		reader := &soundReader{data: samples}
		player := globalAudio.ctx.NewPlayer(reader)
		player.SetVolume(sfxVolume * clampF(gain, 0, 1))
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		player.Close()
	}()
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

func generateSound(kind SoundKind) []byte {
	switch kind {
	case SoundThud:
		return genThud()
	case SoundGrab:
		return genClick(900, 0.04)
	case SoundRelease:
		return genClick(500, 0.05)
	case SoundRollStart:
		return genSweep(120, 320, 0.25)
	case SoundJump:
		return genSweep(340, 140, 0.18)
	}
	return nil
}

// genThud is low-passed noise with a fast exponential decay.
func genThud() []byte {
	dur := 0.22
	n := int(dur * SampleRate)
	buf := make([]byte, n*8)
	rng := NewRand(0x7D0D)
	lp := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		noise := rng.RangeF(-1, 1)
		lp += (noise - lp) * 0.08
		env := math.Exp(-t * 28)
		putStereoF32(buf, i, lp*env*1.6)
	}
	return buf
}

// genClick is a short sine ping at the given frequency.
func genClick(freq, dur float64) []byte {
	n := int(dur * SampleRate)
	buf := make([]byte, n*8)
	for i := 0; i < n; i++ {
		t := float64(i) / SampleRate
		env := math.Exp(-t * 60)
		putStereoF32(buf, i, math.Sin(2*math.Pi*freq*t)*env*0.5)
	}
	return buf
}

// genSweep glides a sine from f0 to f1 over dur seconds.
func genSweep(f0, f1, dur float64) []byte {
	n := int(dur * SampleRate)
	buf := make([]byte, n*8)
	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := f0 + (f1-f0)*t
		phase += 2 * math.Pi * freq / SampleRate
		env := math.Sin(math.Pi * t) // fade in and out
		putStereoF32(buf, i, math.Sin(phase)*env*0.4)
	}
	return buf
}
