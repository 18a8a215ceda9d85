// Package infra holds the adapters behind the core interfaces: fingerprint
// stores, the MQTT notifier, object storage, metrics sinks and run logs.
// Nothing under core imports these packages.
package infra
