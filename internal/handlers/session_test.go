package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kelime/internal/game"
	"kelime/internal/wordbank"
)

func testRouter(t *testing.T) chi.Router {
	t.Helper()
	bank, err := wordbank.New([]wordbank.Puzzle{
		{Word: "KEDI", Hint: "Evcil hayvan", Category: "Hayvanlar"},
	})
	require.NoError(t, err)
	store := game.NewStore(bank, game.StoreOptions{})
	r := chi.NewRouter()
	NewSessionHandler(store, game.DifficultyMedium).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) game.Snapshot {
	t.Helper()
	var snap game.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	return snap
}

func createSession(t *testing.T, r chi.Router) game.Snapshot {
	t.Helper()
	rec := doJSON(t, r, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeSnapshot(t, rec)
}

func TestCreateSession(t *testing.T) {
	r := testRouter(t)
	snap := createSession(t, r)
	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, game.StatusReady, snap.Status)
	assert.Equal(t, game.DifficultyMedium, snap.Difficulty)
	assert.NotEqual(t, "KEDI", snap.Scrambled)
	assert.Equal(t, 4, snap.WordLength)
}

func TestCreateSession_BadDifficulty(t *testing.T) {
	r := testRouter(t)
	rec := doJSON(t, r, http.MethodPost, "/sessions", map[string]string{"difficulty": "nightmare"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetState(t *testing.T) {
	r := testRouter(t)
	snap := createSession(t, r)

	rec := doJSON(t, r, http.MethodGet, "/session/"+snap.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeSnapshot(t, rec)
	assert.Equal(t, snap.ID, got.ID)

	rec = doJSON(t, r, http.MethodGet, "/session/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSubmitGuess(t *testing.T) {
	r := testRouter(t)
	snap := createSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/guess", map[string]string{"guess": "kdei"})
	require.Equal(t, http.StatusOK, rec.Code)
	var wrong struct {
		Correct  bool          `json:"correct"`
		Snapshot game.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&wrong))
	assert.False(t, wrong.Correct)
	assert.Equal(t, game.FeedbackError, wrong.Snapshot.Feedback)
	assert.Equal(t, "kdei", wrong.Snapshot.Input, "input preserved for correction")
	assert.Equal(t, 0, wrong.Snapshot.Score)

	rec = doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/guess", map[string]string{"guess": " kedi "})
	require.Equal(t, http.StatusOK, rec.Code)
	var right struct {
		Correct  bool          `json:"correct"`
		Snapshot game.Snapshot `json:"snapshot"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&right))
	assert.True(t, right.Correct)
	assert.Equal(t, game.FeedbackSuccess, right.Snapshot.Feedback)
	assert.Equal(t, 20, right.Snapshot.Score)
}

func TestToggleHint(t *testing.T) {
	r := testRouter(t)
	snap := createSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/hint", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeSnapshot(t, rec).HintVisible)

	rec = doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/hint", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decodeSnapshot(t, rec).HintVisible)
}

func TestSetDifficulty(t *testing.T) {
	r := testRouter(t)
	snap := createSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/difficulty", map[string]string{"difficulty": "hard"})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeSnapshot(t, rec)
	assert.Equal(t, game.DifficultyHard, got.Difficulty)
	assert.Equal(t, snap.Generation, got.Generation, "difficulty change must not reload the puzzle")

	rec = doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/difficulty", map[string]string{"difficulty": "extreme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewPuzzle(t *testing.T) {
	r := testRouter(t)
	snap := createSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/new", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeSnapshot(t, rec)
	assert.Equal(t, snap.Generation+1, got.Generation)
	assert.Empty(t, got.Input)
	assert.Equal(t, game.FeedbackNone, got.Feedback)
}

func TestSetInput(t *testing.T) {
	r := testRouter(t)
	snap := createSession(t, r)

	rec := doJSON(t, r, http.MethodPost, "/session/"+snap.ID+"/input", map[string]string{"input": "ked"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ked", decodeSnapshot(t, rec).Input)
}

func TestHealthAndLanguages(t *testing.T) {
	r := testRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/languages", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var res map[string][]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	assert.Contains(t, res["languages"], "tr")
	assert.Contains(t, res["languages"], "en")
}
