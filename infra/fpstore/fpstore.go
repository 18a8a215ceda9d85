// Package fpstore holds the fingerprint store backends used by the
// change-detection gate.
//
// Backends are registered by name:
//
//	file    one .hash file per artifact (default)
//	sqlite  a fingerprints table
//	redis   string keys under a prefix
//	memory  process memory, for tests and dry runs
package fpstore

import (
	"io"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kilianp07/svitlo/core/factory"
	"github.com/kilianp07/svitlo/core/fingerprint"
)

var registry = factory.NewRegistry[fingerprint.Store]()

type fileConf struct {
	Dir string `json:"dir"`
}

type sqliteConf struct {
	Path string `json:"path"`
}

type redisConf struct {
	Addr     string        `json:"addr"`
	Password string        `json:"password"`
	DB       int           `json:"db"`
	Prefix   string        `json:"prefix"`
	Timeout  time.Duration `json:"timeout"`
}

func init() {
	registry.MustRegister("file", func(conf map[string]any) (fingerprint.Store, error) {
		c := fileConf{Dir: "images/hash"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewFileStore(c.Dir), nil
	})
	registry.MustRegister("sqlite", func(conf map[string]any) (fingerprint.Store, error) {
		c := sqliteConf{Path: "data/fingerprints.db"}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
	registry.MustRegister("redis", func(conf map[string]any) (fingerprint.Store, error) {
		c := redisConf{Addr: "localhost:6379", Prefix: "svitlo:fp:", Timeout: 2 * time.Second}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		client := redis.NewClient(&redis.Options{
			Addr:         c.Addr,
			Password:     c.Password,
			DB:           c.DB,
			DialTimeout:  c.Timeout,
			ReadTimeout:  c.Timeout,
			WriteTimeout: c.Timeout,
		})
		return NewRedisStore(client, c.Prefix), nil
	})
	registry.MustRegister("memory", func(map[string]any) (fingerprint.Store, error) {
		return fingerprint.NewMemoryStore(), nil
	})
}

// New creates the store described by cfg.
func New(cfg factory.ModuleConfig) (fingerprint.Store, error) {
	return registry.Create(cfg)
}

// Backends lists the registered backend names.
func Backends() []string { return registry.Names() }

// Close releases s when the backend holds a connection.
func Close(s fingerprint.Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
