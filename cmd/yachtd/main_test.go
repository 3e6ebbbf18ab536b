package main

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/app"
	"github.com/WallyDD-pixel/bbyatchv2-master-sub002/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, config.LogConfig{Level: slog.LevelWarn, JSON: true}).Info("dropped")
	assert.Empty(t, buf.String())

	newLogger(&buf, config.LogConfig{Level: slog.LevelWarn, JSON: true}).Warn("kept", "slot", 3)
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.EqualValues(t, 3, line["slot"])

	buf.Reset()
	newLogger(&buf, config.LogConfig{Level: slog.LevelInfo}).Info("plain")
	assert.Contains(t, buf.String(), "msg=plain")
}

func TestMigrateDirection(t *testing.T) {
	tests := []struct {
		args []string
		want app.MigrateDirection
		ok   bool
	}{
		{args: nil, want: app.MigrateUp, ok: true},
		{args: []string{"up"}, want: app.MigrateUp, ok: true},
		{args: []string{"down"}, want: app.MigrateDown, ok: true},
		{args: []string{"down", "3"}, want: app.MigrateDown, ok: false},
		{args: []string{"sideways"}, ok: false},
	}

	for _, tt := range tests {
		got, ok := migrateDirection(tt.args)
		assert.Equal(t, tt.ok, ok, tt.args)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.args)
		}
	}
}
