// Package localstore persists the five clinic collections in a single
// key-value namespace, mirroring the browser-local-storage layout the
// product started with: every read returns a whole collection, every write
// replaces one.
package localstore

import "context"

// Storage keys within the namespace.
const (
	KeyDoctor       = "med_doctor"
	KeyUsers        = "med_users"
	KeyConfig       = "med_config"
	KeyPatients     = "med_patients"
	KeyAppointments = "med_appointments"
)

// Namespace is a raw key-value byte store. Load returns ok=false when the key
// has never been written; corrupt payloads surface at the decoding layer
// above, never as Namespace errors.
type Namespace interface {
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)
	Store(ctx context.Context, key string, data []byte) error
}
