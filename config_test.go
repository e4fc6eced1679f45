package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sipm "github.com/next-exp/simsipm_go/pkg"
)

func TestLoadConfiguration(t *testing.T) {
	t.Parallel()

	t.Run("missing file returns defaults and error", func(t *testing.T) {
		t.Parallel()
		config, err := LoadConfiguration("does-not-exist.json")
		require.Error(t, err)
		assert.Equal(t, 1000, config.Events)
		assert.Equal(t, 1, config.NumWorkers)
		assert.Equal(t, sipm.DefaultProperties(), config.Sensor)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "config.json")
		content := `{
			"events": 50,
			"num_workers": 4,
			"threshold": 1.5,
			"sensor": {
				"n_side_cells": 10,
				"sampling": 1,
				"signal_length": 200,
				"rising_time": 1,
				"falling_time_fast": 50,
				"dcr": 0,
				"xt": 0,
				"ap": 0
			}
		}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		config, err := LoadConfiguration(path)
		require.NoError(t, err)
		assert.Equal(t, 50, config.Events)
		assert.Equal(t, 4, config.NumWorkers)
		assert.Equal(t, 1.5, config.Threshold)
		assert.Equal(t, int32(10), config.Sensor.NSideCells)
		assert.Equal(t, 200.0, config.Sensor.SignalLength)
		assert.False(t, config.Sensor.HasDcr())
		// Untouched keys keep their defaults
		assert.Equal(t, "sipmsim.h5", config.FileOut)
	})
}
