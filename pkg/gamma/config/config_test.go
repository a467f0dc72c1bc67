package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromReaderYAML(t *testing.T) {
	body := `
dd_threshold: 3
dta_threshold: 3
normalization: 0
global_norm_dose: 1.4
dose_cutoff: 0.1
method: 1
max_search_distance: 10
step_size: 0.3
workers: 4
`
	p, err := LoadFromReader(strings.NewReader(body), "yaml")
	require.NoError(t, err)
	require.Equal(t, float32(3), p.DDThreshold)
	require.Equal(t, float32(10), p.MaxSearchDistance)
	require.Equal(t, 4, p.Workers)
}

func TestLoadFromReaderJSON(t *testing.T) {
	body := `{"dd_threshold":3,"dta_threshold":3,"normalization":0,"global_norm_dose":1.4,"dose_cutoff":0,"method":0,"max_search_distance":0,"step_size":0,"workers":0}`
	p, err := LoadFromReader(strings.NewReader(body), "json")
	require.NoError(t, err)
	require.Equal(t, float32(1.4), p.GlobalNormDose)
}

func TestLoadFromReaderRejectsInvalidParameters(t *testing.T) {
	body := `{"dd_threshold":0,"dta_threshold":3,"global_norm_dose":1.4}`
	_, err := LoadFromReader(strings.NewReader(body), "json")
	require.Error(t, err)
}

func TestLoadFromReaderUnsupportedFormat(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader("{}"), "csv")
	require.Error(t, err)
}

func TestDetectFormat(t *testing.T) {
	require.Equal(t, "json", detectFormat("params.json"))
	require.Equal(t, "yaml", detectFormat("params.yaml"))
	require.Equal(t, "yaml", detectFormat("params.yml"))
	require.Equal(t, "yaml", detectFormat("params"))
}
