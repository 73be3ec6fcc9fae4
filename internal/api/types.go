package api

// User identifies the learner as resolved by the backend from initData.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// BootstrapResult is the identity exchange result: the current practice
// session and the resolved user.
type BootstrapResult struct {
	SessionID string `json:"session_id"`
	User      User   `json:"user"`
}

// SentenceItem is one pending practice sentence as served by the backend.
// UniqueID is the display/grading ordinal; it may be absent on older
// backends, in which case the stable id doubles as the ordinal.
type SentenceItem struct {
	IDForMistakeTable int64  `json:"id_for_mistake_table"`
	UniqueID          int64  `json:"unique_id,omitempty"`
	Sentence          string `json:"sentence"`
}

// TranslationPair is one (sentence id, draft translation) pair.
type TranslationPair struct {
	IDForMistakeTable int64  `json:"id_for_mistake_table"`
	Translation       string `json:"translation"`
}

// SubmitRequest carries a full grading-round submission: the structured
// pairs plus the two ordinal-numbered text blocks.
type SubmitRequest struct {
	InitData        string            `json:"initData"`
	SessionID       string            `json:"session_id"`
	Translations    []TranslationPair `json:"translations"`
	OriginalText    string            `json:"original_text"`
	UserTranslation string            `json:"user_translation"`
}

// GradeItem is one per-sentence grading result. Either the score fields or
// Error is populated; a per-item Error does not invalidate sibling items.
type GradeItem struct {
	SentenceNumber     int64  `json:"sentence_number"`
	Score              int    `json:"score,omitempty"`
	OriginalText       string `json:"original_text,omitempty"`
	UserTranslation    string `json:"user_translation,omitempty"`
	CorrectTranslation string `json:"correct_translation,omitempty"`
	Error              string `json:"error,omitempty"`
}

// Failed reports whether this item carries a per-sentence grading error.
func (g GradeItem) Failed() bool { return g.Error != "" }

// HistoryItem is one past grading round from the backend history feed.
type HistoryItem struct {
	ID              int64  `json:"id"`
	OriginalText    string `json:"original_text"`
	UserTranslation string `json:"user_translation"`
	Result          string `json:"result"`
}

type bootstrapRequest struct {
	InitData string `json:"initData"`
}

type limitedRequest struct {
	InitData string `json:"initData"`
	Limit    int    `json:"limit"`
}

type sentencesResponse struct {
	Items []SentenceItem `json:"items"`
}

type submitResponse struct {
	Results []GradeItem `json:"results"`
}

type groupRequest struct {
	InitData     string            `json:"initData"`
	Translations []TranslationPair `json:"translations"`
}

type finishResponse struct {
	Message string `json:"message"`
}

type historyResponse struct {
	Items []HistoryItem `json:"items"`
}

type lookupRequest struct {
	InitData string `json:"initData"`
	Word     string `json:"word"`
}

type saveRequest struct {
	InitData     string `json:"initData"`
	WordRU       string `json:"word_ru"`
	ResponseJSON string `json:"response_json"`
}

type tokenResponse struct {
	Token string `json:"token"`
}
