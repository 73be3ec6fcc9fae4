package dict

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
)

// ErrBlankWord is returned when a lookup is attempted with no word.
var ErrBlankWord = errors.New("word is blank")

// ErrNoLookup is returned when a save is attempted before any successful
// lookup produced an entry to save.
var ErrNoLookup = errors.New("nothing looked up yet")

// API is the slice of the backend client the dictionary flow needs. The
// lookup returns the raw schema-validated entry JSON; saving sends that
// exact payload back, so the server stores what the learner saw.
type API interface {
	LookupWord(ctx context.Context, initData, word string) (json.RawMessage, error)
	SaveWord(ctx context.Context, initData, word string, entry json.RawMessage) error
}

// Service runs lookups and saves against the backend, keeping the last
// successful lookup so it can be saved later. Not safe for concurrent use;
// call from the UI event loop.
type Service struct {
	api      API
	initData string

	lastWord string
	lastRaw  json.RawMessage
}

func NewService(a API, initData string) *Service {
	return &Service{api: a, initData: initData}
}

// Lookup fetches the entry for word. Blank input fails locally without a
// network call. A successful lookup replaces the retained entry; a failed
// one leaves the previous entry available for saving.
func (s *Service) Lookup(ctx context.Context, word string) (Entry, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Entry{}, ErrBlankWord
	}

	raw, err := s.api.LookupWord(ctx, s.initData, word)
	if err != nil {
		return Entry{}, err
	}
	entry, err := entryFromRaw(raw)
	if err != nil {
		return Entry{}, err
	}

	s.lastWord = word
	s.lastRaw = raw
	return entry, nil
}

// Save persists the most recently looked-up entry to the learner's
// vocabulary. A failed save retains the entry, so the learner can retry.
func (s *Service) Save(ctx context.Context) error {
	if s.lastRaw == nil {
		return ErrNoLookup
	}
	return s.api.SaveWord(ctx, s.initData, s.lastWord, s.lastRaw)
}

// Pending returns the word of the retained entry, or "" when there is
// nothing to save.
func (s *Service) Pending() string { return s.lastWord }
