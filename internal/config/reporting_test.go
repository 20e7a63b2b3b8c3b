package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReporting(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reporting.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadReporting(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		path := writeReporting(t, `
sla:
  threshold_minutes: 240
  goal_minutes: 192
  group_thresholds:
    Tech Spot IDC: 480
regions:
  - name: East Region
    locations: [Hoboken, Charlotte]
    keywords: [east]
  - name: IDC
    keywords: [bengaluru, hyderabad]
default_region: Other
exclude_locations: [Test Lab]
top_issues: 5
`)

		rules, err := LoadReporting(path)
		require.NoError(t, err)

		assert.Equal(t, 240.0, rules.SLA.ThresholdMinutes)
		assert.Equal(t, 480.0, rules.SLA.GroupThresholds["Tech Spot IDC"])
		assert.Equal(t, 5, rules.TopIssues)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		rules, err := LoadReporting(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)

		assert.Equal(t, 240.0, rules.SLA.ThresholdMinutes)
		assert.Equal(t, "Other", rules.DefaultRegion)
		assert.Equal(t, "Other", rules.RegionFor("Anywhere"))
	})

	t.Run("goal above threshold rejected", func(t *testing.T) {
		path := writeReporting(t, `
sla:
  threshold_minutes: 100
  goal_minutes: 200
`)
		_, err := LoadReporting(path)
		assert.Error(t, err)
	})

	t.Run("malformed yaml rejected", func(t *testing.T) {
		path := writeReporting(t, "sla: [not a map")
		_, err := LoadReporting(path)
		assert.Error(t, err)
	})
}

func TestReportingRegionFor(t *testing.T) {
	rules := &Reporting{
		DefaultRegion: "Other",
		Regions: []RegionRule{
			{Name: "East Region", Locations: []string{"Hoboken"}, Keywords: []string{"east"}},
			{Name: "IDC", Keywords: []string{"bengaluru"}},
		},
	}

	assert.Equal(t, "East Region", rules.RegionFor("Hoboken"))
	assert.Equal(t, "East Region", rules.RegionFor("hoboken")) // case-insensitive
	assert.Equal(t, "East Region", rules.RegionFor("East Campus B"))
	assert.Equal(t, "IDC", rules.RegionFor("Bengaluru EGL"))
	assert.Equal(t, "Other", rules.RegionFor("Sunnyvale"))
}

func TestReportingExcluded(t *testing.T) {
	rules := &Reporting{ExcludeLocations: []string{"Test Lab"}}

	assert.True(t, rules.Excluded("Test Lab"))
	assert.True(t, rules.Excluded("test lab"))
	assert.False(t, rules.Excluded("Hoboken"))
}
