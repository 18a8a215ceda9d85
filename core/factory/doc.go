// Package factory provides a small generic registry used to pick backends from
// configuration. A backend is named by a type string and configured by a map
// of raw settings that its factory decodes into a typed struct.
//
// Example usage:
//
//	reg := factory.NewRegistry[fingerprint.Store]()
//	reg.MustRegister("file", func(conf map[string]any) (fingerprint.Store, error) {
//	    var c struct{ Dir string `json:"dir"` }
//	    if err := factory.Decode(conf, &c); err != nil {
//	        return nil, err
//	    }
//	    return fpstore.NewFileStore(c.Dir)
//	})
//	st, err := reg.Create(factory.ModuleConfig{Type: "file", Conf: map[string]any{"dir": "hash"}})
package factory
