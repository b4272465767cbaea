package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/cwbudde/algo-tuner/tuner/clock"
)

func TestTraceSweepsEveryString(t *testing.T) {
	res, err := buildTrace(traceOptions{
		Duration: 1.0,
		Window:   32,
		Clock:    clock.Code1kHz,
		Hold:     2,
		Seed:     1,
	})

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(6, res.Onsets)
	assert.InDelta(12.0, res.Seconds, 1e-9)
	assert.Equal(smf.MetricTicks(96), res.SMF.TimeFormat)
	assert.Len(res.SMF.Tracks, 1)

	var onKeys, offKeys []uint8
	var velocities []uint8
	var abs uint32
	var lastOffAbs uint32
	for _, ev := range res.SMF.Tracks[0] {
		abs += ev.Delta
		var channel, key, velocity uint8
		switch {
		case ev.Message.GetNoteOn(&channel, &key, &velocity):
			onKeys = append(onKeys, key)
			velocities = append(velocities, velocity)
		case ev.Message.GetNoteOff(&channel, &key, &velocity):
			offKeys = append(offKeys, key)
			lastOffAbs = abs
		}
	}

	// One onset per string, lowest first: E2 A2 D3 G3 B3 E4.
	assert.Equal([]uint8{40, 45, 50, 55, 59, 64}, onKeys)
	assert.Equal([]uint8{40, 45, 50, 55, 59, 64}, offKeys)
	for _, v := range velocities {
		assert.Equal(uint8(112), v) // every clean window classifies exact
	}

	// 12s of sweep at 120 BPM and 96 ticks per quarter end at tick 2304.
	assert.Equal(uint32(2304), lastOffAbs)
}

func TestTraceValidation(t *testing.T) {
	assert := assert.New(t)

	_, err := buildTrace(traceOptions{Duration: 1.0, Window: 32, Clock: clock.Code1kHz, Hold: 0, Seed: 1})
	assert.ErrorContains(err, "hold must be > 0")

	_, err = buildTrace(traceOptions{Duration: 1.0, Window: 32, Clock: clock.Code(9), Hold: 2, Seed: 1})
	assert.ErrorContains(err, "clock code not in table")

	_, err = buildTrace(traceOptions{Duration: 0, Window: 32, Clock: clock.Code1kHz, Hold: 2, Seed: 1})
	assert.Error(err)
}
