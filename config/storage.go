package config

import "fmt"

// StorageConfig enables uploading the document and artifacts to an S3
// compatible bucket.
type StorageConfig struct {
	Enabled   bool   `json:"enabled"`
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	UseSSL    bool   `json:"use_ssl"`
	Prefix    string `json:"prefix"`
}

func (c StorageConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" || c.Bucket == "" {
		return fmt.Errorf("storage: endpoint and bucket are required")
	}
	return nil
}
