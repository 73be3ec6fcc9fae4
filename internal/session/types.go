package session

import "github.com/ykarpov/tolmach/internal/api"

// User is the learner identity resolved by the bootstrap exchange.
type User struct {
	ID        int64
	FirstName string
	Username  string
}

// Session is the server-issued practice session. It is immutable for the
// controller's lifetime; a new bootstrap replaces it wholesale.
type Session struct {
	ID   string
	User User
}

// Sentence is one practice sentence of the current batch.
//
// ID is the opaque stable identifier drafts are keyed by. Ordinal is the
// display/grading number; ordinals may be non-contiguous and are preserved
// verbatim in submissions.
type Sentence struct {
	ID      int64
	Ordinal int64
	Text    string
}

// sentenceFromItem converts a wire item into a Sentence. When the backend
// omits the ordinal, the stable id doubles as the ordinal so numbering
// stays collision-free (never the positional index).
func sentenceFromItem(it api.SentenceItem) Sentence {
	ordinal := it.UniqueID
	if ordinal <= 0 {
		ordinal = it.IDForMistakeTable
	}
	return Sentence{
		ID:      it.IDForMistakeTable,
		Ordinal: ordinal,
		Text:    it.Sentence,
	}
}
