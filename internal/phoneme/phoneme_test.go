package phoneme

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shDoc = `{
  "phoneme": "sh",
  "level": 3,
  "graphemes": [{"spelling": "sh", "position": "initial", "examples": ["ship", "shop"]}, {"spelling": "ti"}],
  "articulation": {"description": "Lips pushed forward.", "voiced": false},
  "wordLists": [{"title": "Start", "words": ["ship", "shed"]}],
  "stories": [{"title": "The Shed", "body": "Shay ran to the shed."}]
}`

type memCache struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemCache() *memCache { return &memCache{docs: map[string][]byte{}} }

func (m *memCache) GetPhoneme(_ context.Context, p string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.docs[p]
	if !ok {
		return nil, errors.New("miss")
	}
	return raw, nil
}

func (m *memCache) PutPhoneme(_ context.Context, p string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[p] = raw
	return nil
}

func TestDecode_Valid(t *testing.T) {
	doc, err := Decode(strings.NewReader(shDoc))
	require.NoError(t, err)
	assert.Equal(t, "sh", doc.Phoneme)
	assert.Equal(t, 3, doc.Level)
	assert.Len(t, doc.Graphemes, 2)
	assert.Nil(t, doc.Teaching)
}

func TestDecode_Rejects(t *testing.T) {
	cases := map[string]string{
		"missing phoneme": `{"level": 1}`,
		"level too high":  `{"phoneme": "a", "level": 9}`,
		"empty word list": `{"phoneme": "a", "wordLists": [{"title": "x", "words": []}]}`,
		"bad position":    `{"phoneme": "a", "graphemes": [{"spelling": "a", "position": "middle"}]}`,
		"untitled story":  `{"phoneme": "a", "stories": [{"body": "text"}]}`,
		"not json":        `<html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(body))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "sh", Normalize(" /SH/ "))
	assert.Equal(t, "", Normalize("//"))
}

func TestSections_PlaceholdersForMissingContent(t *testing.T) {
	doc, err := Decode(strings.NewReader(shDoc))
	require.NoError(t, err)

	sections := Sections(doc)
	titles := make([]string, len(sections))
	for i, s := range sections {
		titles[i] = s.Title
	}
	assert.Equal(t, []string{"Graphemes", "Articulation", "Teaching", "Word Lists", "Practice Texts", "Stories"}, titles)

	assert.Equal(t, "sh (initial): ship, shop", sections[0].Lines[0])
	assert.Equal(t, "ti", sections[0].Lines[1])
	assert.Contains(t, sections[1].Lines, "Unvoiced: no buzz in your throat.")
	assert.True(t, sections[2].Pending)
	assert.Equal(t, []string{Placeholder}, sections[2].Lines)
	assert.True(t, sections[4].Pending)
	assert.False(t, sections[5].Pending)
	assert.Equal(t, "The Shed. Shay ran to the shed.", sections[5].ReadAloud())

	for _, s := range Sections(nil) {
		assert.True(t, s.Pending, s.Title)
	}
}

func TestClient_FetchCachesDocument(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.EscapedPath()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(shDoc))
	}))
	defer srv.Close()

	cache := newMemCache()
	c := New(srv.URL+"/", time.Second, cache, zerolog.Nop())
	res, err := c.Fetch(context.Background(), "/Sh/")
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, "sh", res.Document.Phoneme)
	assert.Equal(t, "/phonemes/sh", path)
	assert.Contains(t, cache.docs, "sh")
}

func TestClient_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	cache := newMemCache()
	cache.docs["zz"] = []byte(`{"phoneme": "zz"}`)
	c := New(srv.URL, time.Second, cache, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "zz")
	assert.ErrorIs(t, err, ErrNotFound, "a definite 404 does not fall back to the cache")
}

func TestClient_FallsBackToCacheWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cache := newMemCache()
	cache.docs["sh"] = []byte(shDoc)
	c := New(srv.URL, time.Second, cache, zerolog.Nop())

	res, err := c.Fetch(context.Background(), "sh")
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, "sh", res.Document.Phoneme)

	_, err = c.Fetch(context.Background(), "ch")
	assert.ErrorContains(t, err, "status 502")
}

func TestClient_InvalidDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"level": 2}`))
	}))
	defer srv.Close()

	cache := newMemCache()
	c := New(srv.URL, time.Second, cache, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "a")
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Empty(t, cache.docs)
}

func TestClient_EmptyQuery(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second, nil, zerolog.Nop())
	_, err := c.Fetch(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}
