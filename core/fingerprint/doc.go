// Package fingerprint decides whether a rendered artifact is stale.
//
// A Fingerprint is the sha256 of the canonical JSON of exactly the data an
// artifact shows. The Gate compares it with the value persisted in a Store
// and reports Skip only when both match and the artifact file still exists.
// Store failures never block a run, they count as a miss.
package fingerprint
