// Package dict implements the word-lookup flow: fetch a structured
// dictionary entry for a Russian word and optionally save it to the
// learner's personal vocabulary.
package dict

import (
	"encoding/json"
	"strings"
)

// Entry is a validated dictionary entry for one word.
type Entry struct {
	WordRU        string   `json:"word_ru"`
	TranslationDE string   `json:"translation_de"`
	PartOfSpeech  string   `json:"part_of_speech"`
	Article       string   `json:"article,omitempty"`
	Forms         string   `json:"forms,omitempty"`
	Prefixes      []string `json:"prefixes,omitempty"`
	UsageExamples []string `json:"usage_examples,omitempty"`
}

func entryFromRaw(raw json.RawMessage) (Entry, error) {
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return Entry{}, err
	}
	e.WordRU = strings.TrimSpace(e.WordRU)
	return e, nil
}
