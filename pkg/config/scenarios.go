package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"fairvalue/pkg/models"
)

// scenarioFile is the YAML schema for analyst scenario sets.
type scenarioFile struct {
	Scenarios []struct {
		Name           string   `yaml:"name"`
		GrowthOverride *float64 `yaml:"growth_override"`
		Probability    *float64 `yaml:"probability"`
	} `yaml:"scenarios"`
}

// LoadScenarios parses a YAML scenario file into extension config.
func LoadScenarios(path string) (*models.ScenarioConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes scenario YAML. At least one case is required.
func ParseScenarios(data []byte) (*models.ScenarioConfig, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse scenario yaml: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file defines no scenarios")
	}

	cfg := &models.ScenarioConfig{Cases: make([]models.ScenarioCase, 0, len(file.Scenarios))}
	for i, s := range file.Scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d has no name", i)
		}
		cfg.Cases = append(cfg.Cases, models.ScenarioCase{
			Name:           s.Name,
			GrowthOverride: s.GrowthOverride,
			Probability:    s.Probability,
		})
	}
	return cfg, nil
}

// peerFile is the YAML schema for comparable sets.
type peerFile struct {
	Peers []struct {
		Ticker      string  `yaml:"ticker"`
		PE          float64 `yaml:"pe"`
		EVToEBITDA  float64 `yaml:"ev_to_ebitda"`
		EVToRevenue float64 `yaml:"ev_to_revenue"`
	} `yaml:"peers"`
}

// LoadPeers parses a YAML comparable-set file into extension config.
func LoadPeers(path string) (*models.PeersConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read peer file: %w", err)
	}
	return ParsePeers(data)
}

// ParsePeers decodes peer YAML. At least one comparable is required.
func ParsePeers(data []byte) (*models.PeersConfig, error) {
	var file peerFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse peer yaml: %w", err)
	}
	if len(file.Peers) == 0 {
		return nil, fmt.Errorf("peer file defines no comparables")
	}

	cfg := &models.PeersConfig{Peers: make([]models.PeerComparable, 0, len(file.Peers))}
	for i, p := range file.Peers {
		if p.Ticker == "" {
			return nil, fmt.Errorf("peer %d has no ticker", i)
		}
		cfg.Peers = append(cfg.Peers, models.PeerComparable{
			Ticker:      p.Ticker,
			PE:          p.PE,
			EVToEBITDA:  p.EVToEBITDA,
			EVToRevenue: p.EVToRevenue,
		})
	}
	return cfg, nil
}
