package config

import (
    "fmt"
    "os"

    "gopkg.in/yaml.v3"

    "github.com/iliyamo/seatmap-studio/internal/editor"
    "github.com/iliyamo/seatmap-studio/internal/layout"
)

// EditorConfig holds the defaults applied to every editing session and to
// layouts created from scratch.
//
// Example file:
//
//	editor:
//	  row_spacing: 40
//	  seat_spacing: 40
//	  seats_per_row: 12
//	  history_depth: 100
//	layout:
//	  grid_size: 20
//	  snap_to_grid: true
type EditorConfig struct {
    Editor editor.Options `yaml:"editor"`
    Layout LayoutDefaults `yaml:"layout"`
}

// LayoutDefaults override the settings of newly created layouts.  Nil
// fields keep the built-in value.
type LayoutDefaults struct {
    GridSize     float64 `yaml:"grid_size"`
    SnapToGrid   *bool   `yaml:"snap_to_grid"`
    ShowGrid     *bool   `yaml:"show_grid"`
    ShowEntrance *bool   `yaml:"show_entrance"`
}

// DefaultEditorConfig returns the built-in editor defaults.
func DefaultEditorConfig() EditorConfig {
    return EditorConfig{Editor: editor.DefaultOptions()}
}

// LoadEditorConfig reads path.  An empty path returns the defaults.
func LoadEditorConfig(path string) (EditorConfig, error) {
    cfg := DefaultEditorConfig()
    if path == "" {
        return cfg, nil
    }
    data, err := os.ReadFile(path)
    if err != nil {
        return cfg, fmt.Errorf("read editor config: %w", err)
    }
    if err := yaml.Unmarshal(data, &cfg); err != nil {
        return DefaultEditorConfig(), fmt.Errorf("parse editor config %s: %w", path, err)
    }
    if cfg.Layout.GridSize < 0 {
        return DefaultEditorConfig(), fmt.Errorf("parse editor config %s: grid_size must be positive", path)
    }
    return cfg, nil
}

// NewLayout returns an empty layout carrying the configured settings.
func (c EditorConfig) NewLayout(name string) *layout.Layout {
    l := layout.New(name)
    c.Layout.apply(&l.Settings)
    return l
}

func (d LayoutDefaults) apply(s *layout.Settings) {
    if d.GridSize > 0 {
        s.GridSize = d.GridSize
    }
    if d.SnapToGrid != nil {
        s.SnapToGrid = *d.SnapToGrid
    }
    if d.ShowGrid != nil {
        s.ShowGrid = *d.ShowGrid
    }
    if d.ShowEntrance != nil {
        s.ShowEntrance = *d.ShowEntrance
    }
}
