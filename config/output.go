package config

import (
	"fmt"
	"path/filepath"

	"github.com/kilianp07/svitlo/core/factory"
)

// OutputConfig sets where the document and artifacts are written.
type OutputConfig struct {
	Dir       string   `json:"dir"`
	File      string   `json:"file"`
	ImagesDir string   `json:"images_dir"`
	Formats   []string `json:"formats" validate:"dive,oneof=png pdf html"`
	Exports   []string `json:"exports" validate:"dive,oneof=xlsx csv"`
}

func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
	if c.File == "" {
		c.File = "Vinnytsiaoblenerho.json"
	}
	if c.ImagesDir == "" {
		c.ImagesDir = "images"
	}
	if len(c.Formats) == 0 {
		c.Formats = []string{"png"}
	}
}

// DocumentPath is the full path of the published document.
func (c OutputConfig) DocumentPath() string { return filepath.Join(c.Dir, c.File) }

// HashDir holds the persisted fingerprints of the file cache backend.
func (c OutputConfig) HashDir() string { return filepath.Join(c.ImagesDir, "hash") }

func (c OutputConfig) Validate() error {
	if filepath.Ext(c.File) != ".json" {
		return fmt.Errorf("output.file must be a .json file")
	}
	return nil
}

// TransformConfig tunes the interval to grid mapping.
type TransformConfig struct {
	BoundaryRule string `json:"boundary_rule" validate:"oneof=symmetric legacy"`
}

func (c *TransformConfig) SetDefaults() {
	if c.BoundaryRule == "" {
		c.BoundaryRule = "symmetric"
	}
}

// CacheConfig selects the fingerprint store backend: file, sqlite or redis.
type CacheConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Module returns the registry entry for the configured backend.
func (c CacheConfig) Module() factory.ModuleConfig {
	return factory.ModuleConfig{Type: c.Type, Conf: c.Conf}
}

// SetDefaults selects the file backend rooted at hashDir.
func (c *CacheConfig) SetDefaults(hashDir string) {
	if c.Type == "" {
		c.Type = "file"
	}
	if c.Conf == nil {
		c.Conf = map[string]any{}
	}
	if c.Type == "file" {
		if _, ok := c.Conf["dir"]; !ok {
			c.Conf["dir"] = hashDir
		}
	}
}

func (c CacheConfig) Validate() error {
	switch c.Type {
	case "file", "sqlite", "redis", "memory":
		return nil
	default:
		return fmt.Errorf("unknown cache backend %s", c.Type)
	}
}
