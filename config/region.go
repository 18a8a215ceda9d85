package config

import (
	"fmt"
	"time"
)

// RegionConfig describes the published region and its fixed civil offset.
type RegionConfig struct {
	ID             string `json:"id" validate:"required"`
	Name           string `json:"name"`
	Affiliation    string `json:"affiliation"`
	UTCOffsetHours int    `json:"utc_offset_hours" validate:"min=-12,max=14"`
	SchemaVersion  string `json:"schema_version" validate:"required"`
}

func (c *RegionConfig) SetDefaults() {
	if c.ID == "" {
		c.ID = "vinnytsia"
	}
	if c.Name == "" {
		c.Name = "Вінницяобленерго"
	}
	if c.Affiliation == "" {
		c.Affiliation = "Вінницька область"
	}
	if c.UTCOffsetHours == 0 {
		c.UTCOffsetHours = 2
	}
	if c.SchemaVersion == "" {
		c.SchemaVersion = "1.0.0"
	}
}

// Location returns the static zone used for every day computation. Daylight
// saving is not applied.
func (c RegionConfig) Location() *time.Location {
	return time.FixedZone(fmt.Sprintf("UTC%+d", c.UTCOffsetHours), c.UTCOffsetHours*3600)
}
