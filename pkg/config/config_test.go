package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	ref := Default()
	require.NoError(t, ref.Validate())

	assert.Equal(t, 72.40, ref.LaborRates["Env Technician"])
	assert.Equal(t, 15.0, ref.SamplingDefaults["asbestos"])
	assert.Len(t, ref.Components["asbestos"], 6)
	require.Len(t, ref.Laboratories, 1)
	assert.Equal(t, "Lab1", ref.Laboratories[0].Name)
	assert.Len(t, ref.Laboratories[0].TurnTimes, 17)
}

func TestLoadOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.yaml")
	content := `
labor_rates:
  Env Technician: 80.00
sampling_defaults:
  asbestos: 12
laboratories:
  - name: Northern Labs
    turn_times:
      - label: 24 hr
        hours: 24
    categories:
      - name: PLM
        tests:
          - name: EPA Qualitative
            rates:
              24 hr: 41.50
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	ref, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 80.00, ref.LaborRates["Env Technician"])
	assert.Equal(t, 12.0, ref.SamplingDefaults["asbestos"])
	require.Len(t, ref.Laboratories, 1)
	assert.Equal(t, 41.50, ref.Laboratories[0].Categories[0].Tests[0].Rates["24 hr"])
}

func TestLoadRejectsBadData(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	_, err := Load(write("negative.yaml", "labor_rates:\n  Env Technician: -1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative")

	_, err = Load(write("unknown-turn.yaml", `
laboratories:
  - name: Northern Labs
    turn_times:
      - label: 24 hr
        hours: 24
    categories:
      - name: PLM
        tests:
          - name: EPA Qualitative
            rates:
              96 hr: 41.50
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown turn time")

	_, err = Load(write("garbage.yaml", "{{not yaml"))
	require.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	_, err = Load("../../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "path traversal")
}
