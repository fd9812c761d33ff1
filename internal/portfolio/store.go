package portfolio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"PortSentinel/internal/model"
)

// DefaultPath is where Load looks when no path is configured.
const DefaultPath = "data/portfolio.json"

const (
	defaultAssetType = "stock"
	defaultSector    = "unknown"
)

// Load reads a portfolio from a JSON file. Holdings missing an asset
// type or sector get defaults, and tickers are normalized to upper case.
func Load(path string) (*model.Portfolio, error) {
	if path == "" {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read portfolio %s: %w", path, err)
	}

	var p model.Portfolio
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse portfolio %s: %w", path, err)
	}

	if p.Name == "" {
		p.Name = "My Portfolio"
	}
	for i := range p.Holdings {
		h := &p.Holdings[i]
		if h.AssetType == "" {
			h.AssetType = defaultAssetType
		}
		if h.Sector == "" {
			h.Sector = defaultSector
		}
		h.Normalize()
	}
	return &p, nil
}

// Save writes the portfolio as indented JSON, creating parent
// directories as needed.
func Save(p *model.Portfolio, path string) error {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create portfolio dir: %w", err)
	}

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode portfolio: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write portfolio %s: %w", path, err)
	}
	return nil
}
