package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Reporting holds the reporting rules that change more often than code: how
// raw export locations map onto regions, which locations to drop, and the SLA
// targets. Loaded from a YAML file next to the binary.
type Reporting struct {
	SLA              SLARules     `yaml:"sla"`
	Regions          []RegionRule `yaml:"regions"`
	DefaultRegion    string       `yaml:"default_region"`
	ExcludeLocations []string     `yaml:"exclude_locations"`
	TopIssues        int          `yaml:"top_issues"`
}

// SLARules are the resolution-time targets in business minutes.
type SLARules struct {
	ThresholdMinutes float64            `yaml:"threshold_minutes"`
	GoalMinutes      float64            `yaml:"goal_minutes"`
	GroupThresholds  map[string]float64 `yaml:"group_thresholds"`
}

// RegionRule maps export locations onto a reporting region, either by exact
// location name or by substring keyword.
type RegionRule struct {
	Name      string   `yaml:"name"`
	Locations []string `yaml:"locations"`
	Keywords  []string `yaml:"keywords"`
}

// DefaultReporting returns the built-in rules used when no reporting file is
// present.
func DefaultReporting() *Reporting {
	return &Reporting{
		SLA: SLARules{
			ThresholdMinutes: 240,
			GoalMinutes:      192,
		},
		DefaultRegion: "Other",
		TopIssues:     8,
	}
}

// LoadReporting reads the reporting rules from path. A missing file is not an
// error: the defaults apply and every location falls into the default region.
func LoadReporting(path string) (*Reporting, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultReporting(), nil
		}
		return nil, fmt.Errorf("read reporting config: %w", err)
	}

	rules := DefaultReporting()
	if err := yaml.Unmarshal(data, rules); err != nil {
		return nil, fmt.Errorf("parse reporting config: %w", err)
	}

	if rules.SLA.GoalMinutes > rules.SLA.ThresholdMinutes {
		return nil, fmt.Errorf("reporting config: goal_minutes (%v) exceeds threshold_minutes (%v)",
			rules.SLA.GoalMinutes, rules.SLA.ThresholdMinutes)
	}
	if rules.TopIssues <= 0 {
		rules.TopIssues = DefaultReporting().TopIssues
	}

	return rules, nil
}

// RegionFor maps a raw export location onto its reporting region. Exact
// matches win over keyword matches; unmatched locations fall into the default
// region.
func (r *Reporting) RegionFor(location string) string {
	for _, rule := range r.Regions {
		for _, loc := range rule.Locations {
			if strings.EqualFold(loc, location) {
				return rule.Name
			}
		}
	}

	lower := strings.ToLower(location)
	for _, rule := range r.Regions {
		for _, kw := range rule.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				return rule.Name
			}
		}
	}

	return r.DefaultRegion
}

// Excluded reports whether a location is dropped from reporting entirely.
func (r *Reporting) Excluded(location string) bool {
	for _, loc := range r.ExcludeLocations {
		if strings.EqualFold(loc, location) {
			return true
		}
	}
	return false
}
