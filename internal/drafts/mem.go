package drafts

import "context"

// MemStore is an in-memory Store. It backs tests and the degraded mode the
// client falls back to when the SQLite cache cannot be opened.
type MemStore struct {
	records map[string]map[int64]string
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{records: make(map[string]map[int64]string)}
}

func (s *MemStore) Load(_ context.Context, key Key) (map[int64]string, error) {
	rec, ok := s.records[key.String()]
	if !ok {
		return map[int64]string{}, nil
	}
	out := make(map[int64]string, len(rec))
	for id, text := range rec {
		out[id] = text
	}
	return out, nil
}

func (s *MemStore) Save(_ context.Context, key Key, m map[int64]string) error {
	cp := make(map[int64]string, len(m))
	for id, text := range m {
		cp[id] = text
	}
	s.records[key.String()] = cp
	return nil
}

func (s *MemStore) Delete(_ context.Context, key Key) error {
	delete(s.records, key.String())
	return nil
}

// Has reports whether a record exists for key.
func (s *MemStore) Has(key Key) bool {
	_, ok := s.records[key.String()]
	return ok
}
