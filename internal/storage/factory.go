package storage

import "fmt"

// Backend names accepted by NewStore. The sqlite backend is only present in
// builds with the sqlite tag; DefaultStoreKind reports the per-build default.
const (
	KindMemory = "memory"
	KindSQLite = "sqlite"
)

// NewStore builds the backend named by kind. An empty kind selects this
// build's default.
func NewStore(kind, sqlitePath string) (Store, error) {
	if kind == "" {
		kind = DefaultStoreKind()
	}
	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindSQLite:
		return newSQLiteStore(sqlitePath)
	default:
		return nil, fmt.Errorf("unsupported store backend: %q", kind)
	}
}

// CloseIfSupported closes backends holding external resources; the memory
// backend has none and is a no-op.
func CloseIfSupported(store Store) error {
	if closer, ok := store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
