package analyzer

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Report describes the edge map of one image and its regions
type Report struct {
	Version    string   `yaml:"version"`
	Input      string   `yaml:"input"`
	Width      int      `yaml:"width"`
	Height     int      `yaml:"height"`
	Sigma      float64  `yaml:"sigma"`
	Low        int      `yaml:"low"`
	High       int      `yaml:"high"`
	EdgePixels int      `yaml:"edge_pixels"`
	Regions    []Region `yaml:"regions"`
}

// Region is the serialized form of a Block
type Region struct {
	ID         int       `yaml:"id"`
	Type       string    `yaml:"type"`
	Confidence float64   `yaml:"confidence"`
	EdgePixels int       `yaml:"edge_pixels"`
	Rect       Rectangle `yaml:"rect"`
}

// Rectangle represents a bounding box
type Rectangle struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// NewRegions numbers blocks from 1 in their current order
func NewRegions(blocks []Block) []Region {
	regions := make([]Region, 0, len(blocks))
	for i, b := range blocks {
		regions = append(regions, Region{
			ID:         i + 1,
			Type:       b.Type,
			Confidence: b.Confidence,
			EdgePixels: b.EdgePixels,
			Rect:       Rectangle{X: b.Rect.Min.X, Y: b.Rect.Min.Y, W: b.Rect.Dx(), H: b.Rect.Dy()},
		})
	}
	return regions
}

// WriteReport writes a report to a YAML file
func WriteReport(report *Report, path string) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ReadReport reads a report from a YAML file
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var report Report
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
