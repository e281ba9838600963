package run

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/resumerank/internal/db"
	domkw "github.com/kailas-cloud/resumerank/internal/domain/keyword"
	domrank "github.com/kailas-cloud/resumerank/internal/domain/ranking"
)

// mockStore keeps values in a map and records the last TTL.
type mockStore struct {
	data    map[string][]byte
	lastTTL time.Duration
	getErr  error
	setErr  error
	delErr  error
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func (m *mockStore) Del(_ context.Context, key string) error {
	if m.delErr != nil {
		return m.delErr
	}
	delete(m.data, key)
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{data: map[string][]byte{}}
	return New(ms, time.Hour), ms
}

func testList(t *testing.T) domrank.RankedList {
	t.Helper()
	keywords := domkw.NewSet("python", "sql", "docker")
	a := domrank.NewResult(domrank.ResultParams{
		DocumentID: "a.pdf",
		Similarity: 0.5,
		Matched:    domkw.NewSet("python", "docker"),
		Missing:    domkw.NewSet("sql"),
		Preview:    "python docker",
	}, 0.5)
	b := domrank.NewResult(domrank.ResultParams{
		DocumentID:     "b.docx",
		Matched:        domkw.NewSet(),
		Missing:        keywords,
		Degraded:       true,
		DegradedReason: "embedding provider error",
	}, 0.5)
	return domrank.NewRankedList(domrank.ListParams{
		RunID:     "run-1",
		Weight:    0.5,
		Keywords:  keywords,
		CreatedAt: 1700000000000,
	}, []domrank.Result{b, a})
}
