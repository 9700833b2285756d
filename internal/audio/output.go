package audio

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// outputSampleRate is the fixed rate the speaker is initialized with.
// Sources at other rates are resampled on the fly.
const outputSampleRate = beep.SampleRate(44100)

// resampleQuality trades CPU for resampling accuracy (beep's 1..64 scale).
const resampleQuality = 4

var (
	speakerInit    sync.Once
	speakerInitErr error
)

// Output drives the system speaker through beep. It implements the shared
// playback element: one loaded source at a time, readiness and end-of-source
// signals, seek and shared volume.
//
// All listener callbacks fire outside Output's internal lock and outside the
// speaker lock, so listeners are free to call back into Output.
//
// Example:
//
//	out, err := audio.NewOutput()
//	if err != nil {
//	    return err
//	}
//	remove := out.OnReady(func() { out.Play() })
//	defer remove()
//	out.Load("/meetings/standup/01 Full session.mp3")
type Output struct {
	mu sync.Mutex

	source   string
	streamer beep.StreamSeekCloser
	format   beep.Format
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	vol     float64
	muted   bool
	drained bool

	hub listenerHub
}

// NewOutput creates an Output and initializes the speaker.
//
// The speaker is a process-wide resource; initialization happens once even
// when multiple Outputs are created.
func NewOutput() (*Output, error) {
	speakerInit.Do(func() {
		speakerInitErr = speaker.Init(outputSampleRate, outputSampleRate.N(100*time.Millisecond))
	})
	if speakerInitErr != nil {
		return nil, fmt.Errorf("initialize speaker: %w", speakerInitErr)
	}
	return &Output{vol: 1}, nil
}

// decode opens and decodes an audio file based on its extension.
func decode(path string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %s", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}

// Load replaces the current source with the file at sourceURI.
//
// On success the ready and metadata listeners fire before Load returns.
// On failure the error listeners fire and the output stays cleared.
func (o *Output) Load(sourceURI string) error {
	o.Clear()

	streamer, format, err := decode(sourceURI)
	if err != nil {
		o.hub.fireError(err)
		return err
	}

	o.mu.Lock()
	o.source = sourceURI
	o.streamer = streamer
	o.format = format
	o.drained = false

	var resampled beep.Streamer = streamer
	if format.SampleRate != outputSampleRate {
		resampled = beep.Resample(resampleQuality, format.SampleRate, outputSampleRate, streamer)
	}

	ended := beep.Callback(func() {
		// Runs on the speaker goroutine; hand off so listeners can call
		// back into Output without deadlocking.
		go o.sourceEnded(sourceURI)
	})

	o.ctrl = &beep.Ctrl{Streamer: beep.Seq(resampled, ended), Paused: true}
	o.volume = &effects.Volume{Streamer: o.ctrl, Base: 2}
	o.applyVolumeLocked()
	duration := format.SampleRate.D(streamer.Len())
	volume := o.volume
	o.mu.Unlock()

	speaker.Play(volume)

	o.hub.fireMetadata(duration)
	o.hub.fireReady()
	return nil
}

// Play starts or resumes playback of the loaded source.
func (o *Output) Play() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctrl == nil {
		return fmt.Errorf("no source loaded")
	}
	if o.drained {
		// Replay from the start after a natural end.
		speaker.Lock()
		if err := o.streamer.Seek(0); err != nil {
			speaker.Unlock()
			return fmt.Errorf("rewind: %w", err)
		}
		speaker.Unlock()
		o.drained = false
	}
	speaker.Lock()
	o.ctrl.Paused = false
	speaker.Unlock()
	return nil
}

// Pause halts playback, keeping the loaded source and position.
func (o *Output) Pause() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctrl == nil {
		return
	}
	speaker.Lock()
	o.ctrl.Paused = true
	speaker.Unlock()
}

// Clear pauses and unloads the current source.
func (o *Output) Clear() {
	o.mu.Lock()
	if o.ctrl == nil {
		o.mu.Unlock()
		return
	}
	streamer := o.streamer
	o.source = ""
	o.streamer = nil
	o.ctrl = nil
	o.volume = nil
	o.drained = false
	o.mu.Unlock()

	speaker.Clear()
	_ = streamer.Close()
}

// Source returns the URI of the currently loaded source, or "".
func (o *Output) Source() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.source
}

// Playing reports whether the output is actively producing audio.
func (o *Output) Playing() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.ctrl == nil || o.drained {
		return false
	}
	speaker.Lock()
	paused := o.ctrl.Paused
	speaker.Unlock()
	return !paused
}

// Position returns the playback position within the loaded source.
func (o *Output) Position() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.streamer == nil {
		return 0
	}
	speaker.Lock()
	pos := o.streamer.Position()
	speaker.Unlock()
	return o.format.SampleRate.D(pos)
}

// SetPosition seeks the loaded source. Out-of-range positions are clamped.
// Position listeners fire with the clamped position.
func (o *Output) SetPosition(pos time.Duration) {
	o.mu.Lock()
	if o.streamer == nil {
		o.mu.Unlock()
		return
	}
	sample := o.format.SampleRate.N(pos)
	speaker.Lock()
	if sample < 0 {
		sample = 0
	}
	if max := o.streamer.Len(); sample > max {
		sample = max
	}
	err := o.streamer.Seek(sample)
	speaker.Unlock()
	applied := o.format.SampleRate.D(sample)
	o.mu.Unlock()

	if err != nil {
		o.hub.fireError(fmt.Errorf("seek: %w", err))
		return
	}
	o.hub.firePosition(applied)
}

// Duration returns the total length of the loaded source, or 0.
func (o *Output) Duration() time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.streamer == nil {
		return 0
	}
	return o.format.SampleRate.D(o.streamer.Len())
}

// SetVolume sets the linear volume in [0, 1]. Values outside the range are
// clamped. The setting survives source changes.
func (o *Output) SetVolume(v float64) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vol = math.Min(1, math.Max(0, v))
	o.applyVolumeLocked()
}

// Volume returns the linear volume in [0, 1].
func (o *Output) Volume() float64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.vol
}

// SetMuted silences the output without losing the volume setting.
func (o *Output) SetMuted(muted bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.muted = muted
	o.applyVolumeLocked()
}

// Muted reports whether the output is muted.
func (o *Output) Muted() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.muted
}

// applyVolumeLocked pushes the volume and mute state into the effects chain.
// Callers hold o.mu.
func (o *Output) applyVolumeLocked() {
	if o.volume == nil {
		return
	}
	gain, silent := volumeGain(o.vol, o.muted)
	speaker.Lock()
	o.volume.Volume = gain
	o.volume.Silent = silent
	speaker.Unlock()
}

// volumeGain maps a linear volume in [0, 1] onto beep's exponential volume
// scale (base 2). Zero volume and mute map to full silence.
func volumeGain(v float64, muted bool) (gain float64, silent bool) {
	if muted || v <= 0 {
		return 0, true
	}
	if v >= 1 {
		return 0, false
	}
	return math.Log2(v), false
}

// sourceEnded handles natural end of a source. The drained flag keeps the
// source loaded so a later Play restarts from position zero.
func (o *Output) sourceEnded(sourceURI string) {
	o.mu.Lock()
	if o.source != sourceURI {
		o.mu.Unlock()
		return
	}
	o.drained = true
	o.mu.Unlock()

	o.hub.fireEnded()
}

// OnReady registers fn to fire when a source finishes loading.
func (o *Output) OnReady(fn func()) (remove func()) {
	return o.hub.addReady(fn)
}

// OnEnded registers fn to fire when the source plays to its natural end.
func (o *Output) OnEnded(fn func()) (remove func()) {
	return o.hub.addEnded(fn)
}

// OnPosition registers fn to fire on seeks.
func (o *Output) OnPosition(fn func(pos time.Duration)) (remove func()) {
	return o.hub.addPosition(fn)
}

// OnMetadata registers fn to fire once a source's duration is known.
func (o *Output) OnMetadata(fn func(duration time.Duration)) (remove func()) {
	return o.hub.addMetadata(fn)
}

// OnError registers fn to fire on load, decode or seek failures.
func (o *Output) OnError(fn func(err error)) (remove func()) {
	return o.hub.addError(fn)
}
