package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotesTable(t *testing.T) {
	var buf bytes.Buffer
	assert := assert.New(t)
	assert.NoError(runNotes(&buf, 1.0, 32))

	out := buf.String()
	assert.Contains(out, "tuning E2 A2 D3 G3 B3 E4")
	assert.Regexp(`(?m)^E4\s+E\s+329\.63\s+64\s+330\s+346$`, out)
	assert.Regexp(`(?m)^B3\s+B\s+246\.94\s+59\s+247\s+263$`, out)
	assert.Regexp(`(?m)^A2\s+A\s+110\.00\s+45\s+110\s+126$`, out)
	assert.Regexp(`(?m)^E2\s+E\s+82\.41\s+40\s+82\s+98$`, out)
}

func TestNotesTableScalesWithDuration(t *testing.T) {
	var buf bytes.Buffer
	assert := assert.New(t)
	assert.NoError(runNotes(&buf, 0.5, 32))
	assert.Regexp(`(?m)^E4\s+E\s+329\.63\s+64\s+165\s+173$`, buf.String())
}

func TestNotesRejectsBadConfig(t *testing.T) {
	var buf bytes.Buffer
	assert := assert.New(t)
	assert.Error(runNotes(&buf, 0, 32))
	assert.Error(runNotes(&buf, 1.0, 0))
}
