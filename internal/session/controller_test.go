package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykarpov/tolmach/internal/api"
	"github.com/ykarpov/tolmach/internal/drafts"
)

var errBoom = errors.New("boom")

// failingStore wraps a MemStore and fails selected operations.
type failingStore struct {
	*drafts.MemStore
	failLoad   bool
	failSave   bool
	failDelete bool
}

func (s *failingStore) Load(ctx context.Context, key drafts.Key) (map[int64]string, error) {
	if s.failLoad {
		return nil, &drafts.StoreError{Op: "load", Key: key, Err: errBoom}
	}
	return s.MemStore.Load(ctx, key)
}

func (s *failingStore) Save(ctx context.Context, key drafts.Key, m map[int64]string) error {
	if s.failSave {
		return &drafts.StoreError{Op: "save", Key: key, Err: errBoom}
	}
	return s.MemStore.Save(ctx, key, m)
}

func (s *failingStore) Delete(ctx context.Context, key drafts.Key) error {
	if s.failDelete {
		return &drafts.StoreError{Op: "delete", Key: key, Err: errBoom}
	}
	return s.MemStore.Delete(ctx, key)
}

func bootstrapResult() api.BootstrapResult {
	return api.BootstrapResult{
		SessionID: "sess-1",
		User:      api.User{ID: 42, FirstName: "Yuri", Username: "yuri"},
	}
}

func items(ids ...int64) []api.SentenceItem {
	out := make([]api.SentenceItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, api.SentenceItem{
			IDForMistakeTable: id,
			UniqueID:          id,
			Sentence:          "предложение",
		})
	}
	return out
}

// readyController bootstraps and loads a batch so the controller sits in
// PhaseReady.
func readyController(t *testing.T, store drafts.Store, batch []api.SentenceItem) *Controller {
	t.Helper()
	c := NewController(nil, store, nil, "init-data", 7)

	bt, err := c.BeginBootstrap()
	require.NoError(t, err)
	lt, ok := c.ApplyBootstrap(bt, bootstrapResult(), nil)
	require.True(t, ok)
	require.True(t, c.ApplyBatch(context.Background(), lt, batch, nil))
	require.Equal(t, PhaseReady, c.Phase())
	return c
}

func draftKey() drafts.Key {
	return drafts.Key{UserID: 42, SessionID: "sess-1"}
}

func TestBootstrapFlow(t *testing.T) {
	c := NewController(nil, drafts.NewMemStore(), nil, "init-data", 7)
	assert.Equal(t, PhaseIdle, c.Phase())

	bt, err := c.BeginBootstrap()
	require.NoError(t, err)
	assert.Equal(t, PhaseBootstrapping, c.Phase())

	lt, ok := c.ApplyBootstrap(bt, bootstrapResult(), nil)
	require.True(t, ok)
	assert.Equal(t, PhaseLoading, c.Phase())
	require.NotNil(t, c.Session())
	assert.Equal(t, "sess-1", c.Session().ID)
	assert.Equal(t, int64(42), c.Session().User.ID)

	require.True(t, c.ApplyBatch(context.Background(), lt, items(1, 2), nil))
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Len(t, c.Batch(), 2)
}

func TestBootstrapFailure(t *testing.T) {
	c := NewController(nil, drafts.NewMemStore(), nil, "init-data", 7)
	bt, err := c.BeginBootstrap()
	require.NoError(t, err)

	_, ok := c.ApplyBootstrap(bt, api.BootstrapResult{}, errBoom)
	assert.False(t, ok)
	assert.Equal(t, PhaseError, c.Phase())
	assert.Nil(t, c.Session())
}

func TestStaleBootstrapDiscarded(t *testing.T) {
	c := NewController(nil, drafts.NewMemStore(), nil, "init-data", 7)
	bt1, err := c.BeginBootstrap()
	require.NoError(t, err)

	// A failure puts us in PhaseError; a re-bootstrap rotates the epoch.
	_, ok := c.ApplyBootstrap(bt1, api.BootstrapResult{}, errBoom)
	require.False(t, ok)
	bt2, err := c.BeginBootstrap()
	require.NoError(t, err)

	// The first ticket must now be dead, even with a success payload.
	_, ok = c.ApplyBootstrap(bt1, bootstrapResult(), nil)
	assert.False(t, ok)
	assert.Equal(t, PhaseBootstrapping, c.Phase())

	_, ok = c.ApplyBootstrap(bt2, bootstrapResult(), nil)
	assert.True(t, ok)
}

func TestReconcileDraftsWithPersistedRecord(t *testing.T) {
	store := drafts.NewMemStore()
	// Sentence 3 left the batch since this record was written; sentence 9
	// is new.
	require.NoError(t, store.Save(context.Background(), draftKey(), map[int64]string{
		3: "alt",
		5: "Ich gehe",
	}))

	c := readyController(t, store, items(5, 9))

	assert.Equal(t, map[int64]string{5: "Ich gehe", 9: ""}, c.Drafts())
}

func TestReloadIsIdempotentWithoutEdits(t *testing.T) {
	store := drafts.NewMemStore()
	require.NoError(t, store.Save(context.Background(), draftKey(), map[int64]string{5: "Ich gehe"}))

	c := readyController(t, store, items(5, 9))
	before := c.Drafts()

	lt, err := c.BeginReload()
	require.NoError(t, err)
	require.True(t, c.ApplyBatch(context.Background(), lt, items(5, 9), nil))

	assert.Equal(t, before, c.Drafts())
}

func TestApplyBatchDropsDuplicateIDs(t *testing.T) {
	batch := append(items(5), items(5, 9)...)
	c := readyController(t, drafts.NewMemStore(), batch)

	assert.Len(t, c.Batch(), 2)
	assert.Equal(t, map[int64]string{5: "", 9: ""}, c.Drafts())
}

func TestStaleBatchLoadDiscarded(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), items(1))

	lt1, err := c.BeginReload()
	require.NoError(t, err)
	// Simulate the user hammering reload: the controller only honors the
	// newest load.
	require.True(t, c.ApplyBatch(context.Background(), lt1, items(1), nil))
	lt2, err := c.BeginReload()
	require.NoError(t, err)

	assert.False(t, c.ApplyBatch(context.Background(), lt1, items(7, 8), nil))
	assert.Equal(t, PhaseLoading, c.Phase())

	require.True(t, c.ApplyBatch(context.Background(), lt2, items(2), nil))
	require.Len(t, c.Batch(), 1)
	assert.Equal(t, int64(2), c.Batch()[0].ID)
}

func TestSetDraftPersistsWholeMap(t *testing.T) {
	store := drafts.NewMemStore()
	c := readyController(t, store, items(5, 9))

	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))

	persisted, err := store.Load(context.Background(), draftKey())
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{5: "Ich gehe", 9: ""}, persisted)
}

func TestSetDraftUnknownSentence(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), items(5))

	err := c.SetDraft(context.Background(), 99, "?")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSetDraftSurvivesPersistFailure(t *testing.T) {
	store := &failingStore{MemStore: drafts.NewMemStore(), failSave: true}
	c := readyController(t, store, items(5))

	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))
	assert.Equal(t, "Ich gehe", c.Draft(5))
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestLoadSurvivesCacheReadFailure(t *testing.T) {
	store := &failingStore{MemStore: drafts.NewMemStore(), failLoad: true}
	c := readyController(t, store, items(5))

	assert.Equal(t, map[int64]string{5: ""}, c.Drafts())
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestSubmitBlankGuard(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), items(5))
	require.NoError(t, c.SetDraft(context.Background(), 5, "   \n\t"))

	_, _, err := c.BeginSubmit()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, PhaseReady, c.Phase())
}

func TestSubmitEmptyBatchGuard(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), nil)

	_, _, err := c.BeginSubmit()
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSubmitBuildsOrdinalBlocks(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), []api.SentenceItem{
		{IDForMistakeTable: 105, UniqueID: 5, Sentence: "Я иду"},
		{IDForMistakeTable: 109, UniqueID: 9, Sentence: "Ты есть"},
	})
	require.NoError(t, c.SetDraft(context.Background(), 105, "Ich gehe"))

	_, req, err := c.BeginSubmit()
	require.NoError(t, err)

	assert.Equal(t, "5. Я иду\n9. Ты есть", req.OriginalText)
	assert.Equal(t, "5. Ich gehe\n9. ", req.UserTranslation)
	assert.Equal(t, "sess-1", req.SessionID)
	assert.Equal(t, []api.TranslationPair{
		{IDForMistakeTable: 105, Translation: "Ich gehe"},
		{IDForMistakeTable: 109, Translation: ""},
	}, req.Translations)
	assert.Equal(t, PhaseSubmitting, c.Phase())
}

func TestSubmitSuccessClearsDraftsAndRecord(t *testing.T) {
	store := drafts.NewMemStore()
	c := readyController(t, store, items(5, 9))
	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))
	require.True(t, store.Has(draftKey()))

	st, _, err := c.BeginSubmit()
	require.NoError(t, err)

	results := []api.GradeItem{{SentenceNumber: 5, Score: 90}}
	require.True(t, c.ApplySubmit(context.Background(), st, results, nil))

	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, results, c.Results())
	assert.Equal(t, map[int64]string{5: "", 9: ""}, c.Drafts())
	assert.False(t, store.Has(draftKey()))
}

func TestSubmitFailureKeepsDrafts(t *testing.T) {
	store := drafts.NewMemStore()
	c := readyController(t, store, items(5))
	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))

	st, _, err := c.BeginSubmit()
	require.NoError(t, err)
	require.False(t, c.ApplySubmit(context.Background(), st, nil, errBoom))

	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, "Ich gehe", c.Draft(5))
	assert.True(t, store.Has(draftKey()))
	assert.Empty(t, c.Results())
}

func TestResultsReplacedWholesale(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), items(5, 9))
	require.NoError(t, c.SetDraft(context.Background(), 5, "a"))

	st, _, err := c.BeginSubmit()
	require.NoError(t, err)
	first := []api.GradeItem{{SentenceNumber: 5, Score: 40}, {SentenceNumber: 9, Error: "timeout"}}
	require.True(t, c.ApplySubmit(context.Background(), st, first, nil))

	require.NoError(t, c.SetDraft(context.Background(), 9, "b"))
	st2, _, err := c.BeginSubmit()
	require.NoError(t, err)
	second := []api.GradeItem{{SentenceNumber: 9, Score: 100}}
	require.True(t, c.ApplySubmit(context.Background(), st2, second, nil))

	assert.Equal(t, second, c.Results())
}

func TestResultsClearedOnReload(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), items(5))
	require.NoError(t, c.SetDraft(context.Background(), 5, "a"))

	st, _, err := c.BeginSubmit()
	require.NoError(t, err)
	require.True(t, c.ApplySubmit(context.Background(), st, []api.GradeItem{{SentenceNumber: 5, Score: 80}}, nil))
	require.NotEmpty(t, c.Results())

	lt, err := c.BeginReload()
	require.NoError(t, err)
	require.True(t, c.ApplyBatch(context.Background(), lt, items(6), nil))
	assert.Empty(t, c.Results())
}

func TestGroupPayloadLeavesStateAlone(t *testing.T) {
	store := drafts.NewMemStore()
	c := readyController(t, store, items(5))
	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))

	pairs, err := c.GroupPayload()
	require.NoError(t, err)
	assert.Equal(t, []api.TranslationPair{{IDForMistakeTable: 5, Translation: "Ich gehe"}}, pairs)

	// No phase change, no draft reset, record still cached.
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, "Ich gehe", c.Draft(5))
	assert.True(t, store.Has(draftKey()))
}

func TestGroupPayloadBlankGuard(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), items(5))

	_, err := c.GroupPayload()
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestFinishSuccess(t *testing.T) {
	store := drafts.NewMemStore()
	c := readyController(t, store, items(5))
	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))

	ft, err := c.BeginFinish()
	require.NoError(t, err)
	assert.Equal(t, PhaseFinishing, c.Phase())

	lt, ok := c.ApplyFinish(context.Background(), ft, nil)
	require.True(t, ok)
	assert.Equal(t, PhaseLoading, c.Phase())
	assert.False(t, store.Has(draftKey()))
	assert.Empty(t, c.Drafts())

	// The follow-up load may legitimately be empty.
	require.True(t, c.ApplyBatch(context.Background(), lt, nil, nil))
	assert.Equal(t, PhaseReady, c.Phase())
	assert.Empty(t, c.Batch())
	assert.Empty(t, c.Drafts())
}

func TestFinishFailureKeepsState(t *testing.T) {
	store := drafts.NewMemStore()
	c := readyController(t, store, items(5))
	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))

	ft, err := c.BeginFinish()
	require.NoError(t, err)
	_, ok := c.ApplyFinish(context.Background(), ft, errBoom)
	assert.False(t, ok)

	assert.Equal(t, PhaseReady, c.Phase())
	assert.Equal(t, "Ich gehe", c.Draft(5))
	assert.True(t, store.Has(draftKey()))
}

func TestFinishSurvivesCacheDeleteFailure(t *testing.T) {
	store := &failingStore{MemStore: drafts.NewMemStore(), failDelete: true}
	c := readyController(t, store, items(5))

	ft, err := c.BeginFinish()
	require.NoError(t, err)
	_, ok := c.ApplyFinish(context.Background(), ft, nil)
	assert.True(t, ok)
	assert.Equal(t, PhaseLoading, c.Phase())
}

func TestOperationsRejectedOutsideReady(t *testing.T) {
	c := NewController(nil, drafts.NewMemStore(), nil, "init-data", 7)

	var perr *WrongPhaseError
	_, _, err := c.BeginSubmit()
	assert.ErrorAs(t, err, &perr)

	err = c.SetDraft(context.Background(), 1, "x")
	assert.ErrorAs(t, err, &perr)

	_, err = c.BeginFinish()
	assert.ErrorAs(t, err, &perr)

	_, err = c.BeginReload()
	assert.ErrorAs(t, err, &perr)
}

func TestRebootstrapReplacesSessionWholesale(t *testing.T) {
	store := drafts.NewMemStore()
	c := readyController(t, store, items(5))
	require.NoError(t, c.SetDraft(context.Background(), 5, "Ich gehe"))

	bt, err := c.BeginBootstrap()
	require.NoError(t, err)
	lt, ok := c.ApplyBootstrap(bt, api.BootstrapResult{
		SessionID: "sess-2",
		User:      api.User{ID: 42, FirstName: "Yuri"},
	}, nil)
	require.True(t, ok)

	require.True(t, c.ApplyBatch(context.Background(), lt, items(5), nil))

	// New session: fresh record key, so the old draft does not leak in.
	assert.Equal(t, "sess-2", c.Session().ID)
	assert.Equal(t, map[int64]string{5: ""}, c.Drafts())
	// The old session's record is untouched.
	assert.True(t, store.Has(draftKey()))
}

func TestOrdinalFallsBackToStableID(t *testing.T) {
	c := readyController(t, drafts.NewMemStore(), []api.SentenceItem{
		{IDForMistakeTable: 17, Sentence: "Я иду"},
	})
	require.Len(t, c.Batch(), 1)
	assert.Equal(t, int64(17), c.Batch()[0].Ordinal)
}
