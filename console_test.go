package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol/model"
	"github.com/sheikhrachel/go-gol/utils"
)

func TestReadKeys(t *testing.T) {
	keys := make(chan keyCommand, 16)
	readKeys(strings.NewReader("\x1b[A\x1b[Bx\x1b[C\x1bO\x1b[D\x1b[Zq\x03\x1b["), keys)

	var got []keyCommand
	for k := range keys {
		got = append(got, k)
	}
	assert.Equal(t, []keyCommand{keyUp, keyDown, keyRight, keyLeft, keyExit, keyExit}, got)
}

func TestApplyKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []keyCommand
		want    model.Viewport
		running bool
	}{
		{"none", nil, model.Viewport{Width: 4, Height: 3}, true},
		{"pan", []keyCommand{keyUp, keyUp, keyRight, keyLeft, keyRight}, model.Viewport{Top: -2, Left: 1, Width: 4, Height: 3}, true},
		{"exit", []keyCommand{keyDown, keyExit, keyDown}, model.Viewport{Top: 1, Width: 4, Height: 3}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keys := make(chan keyCommand, len(tt.keys))
			for _, k := range tt.keys {
				keys <- k
			}
			view := model.Viewport{Width: 4, Height: 3}
			assert.Equal(t, tt.running, applyKeys(keys, &view))
			assert.Equal(t, tt.want, view)
		})
	}

	view := model.Viewport{Width: 1, Height: 1}
	assert.True(t, applyKeys(nil, &view))

	closed := make(chan keyCommand)
	close(closed)
	assert.True(t, applyKeys(closed, &view))
	assert.Equal(t, model.Viewport{Width: 1, Height: 1}, view)
}

func TestFitTerminal(t *testing.T) {
	w, h := fitTerminal(80, 24)
	assert.Equal(t, 40, w)
	assert.Equal(t, 23, h)

	w, h = fitTerminal(1, 1)
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestRun_ConsolePans(t *testing.T) {
	quietLogs(t)
	config := utils.DefaultConfig()
	config.Width, config.Height = 1, 1
	config.Fill = string(model.FillAll)
	config.Console = true
	config.Generations = 1

	keys := make(chan keyCommand, 2)
	keys <- keyLeft
	keys <- keyUp

	var out bytes.Buffer
	screen := display{out: &out, view: model.Viewport{Width: 2, Height: 2}, keys: keys}
	_, err := run(config, screen, nil)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "    \r\n  ██\r\n")
}

func TestRun_ConsoleExitKey(t *testing.T) {
	quietLogs(t)
	config := utils.DefaultConfig()
	config.Width, config.Height = 3, 3
	config.Fill = string(model.FillAll)
	config.Console = true
	config.Generations = 0

	keys := make(chan keyCommand, 1)
	keys <- keyExit

	var out bytes.Buffer
	final, err := run(config, display{out: &out, keys: keys}, nil)
	require.NoError(t, err)
	assert.Equal(t, 9, final.Population())
	assert.NotContains(t, out.String(), "██")
}
