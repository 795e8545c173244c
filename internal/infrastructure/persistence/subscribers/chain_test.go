package subscribers

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStore is a scriptable in-memory backend for chain tests.
type stubStore struct {
	name    string
	subs    []newsletter.Subscriber
	failAll bool
	adds    int
}

func (s *stubStore) Name() string { return s.name }

func (s *stubStore) GetAll(ctx context.Context) ([]newsletter.Subscriber, error) {
	if s.failAll {
		return nil, fmt.Errorf("%s backend unavailable", s.name)
	}
	return s.subs, nil
}

func (s *stubStore) Add(ctx context.Context, email string) (bool, error) {
	if s.failAll {
		return false, fmt.Errorf("%s backend unavailable", s.name)
	}
	s.adds++
	s.subs = append(s.subs, newsletter.Subscriber{Email: email})
	return true, nil
}

func (s *stubStore) Remove(ctx context.Context, email string) (bool, error) {
	if s.failAll {
		return false, fmt.Errorf("%s backend unavailable", s.name)
	}
	for i, sub := range s.subs {
		if sub.Email == email {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func TestChainStore_GetAllFallsThroughOnFailure(t *testing.T) {
	primary := &stubStore{name: "turso", failAll: true}
	fallback := &stubStore{name: "file", subs: []newsletter.Subscriber{{Email: "kept@example.com"}}}

	chain := NewChainStore([]newsletter.SubscriberStore{primary, fallback}, newTestLogger(t))

	subs, err := chain.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "kept@example.com", subs[0].Email)
}

func TestChainStore_GetAllReturnsLastErrorWhenAllFail(t *testing.T) {
	chain := NewChainStore([]newsletter.SubscriberStore{
		&stubStore{name: "turso", failAll: true},
		&stubStore{name: "file", failAll: true},
	}, newTestLogger(t))

	_, err := chain.GetAll(context.Background())
	assert.ErrorContains(t, err, "file backend unavailable")
}

func TestChainStore_EmptyChainErrors(t *testing.T) {
	chain := NewChainStore(nil, newTestLogger(t))

	_, err := chain.GetAll(context.Background())
	assert.Error(t, err)

	_, err = chain.Add(context.Background(), "nobody@example.com")
	assert.Error(t, err)
}

func TestChainStore_WritesGoToPrimaryOnly(t *testing.T) {
	primary := &stubStore{name: "redis"}
	fallback := &stubStore{name: "file"}
	chain := NewChainStore([]newsletter.SubscriberStore{primary, fallback}, newTestLogger(t))

	added, err := chain.Add(context.Background(), "write@example.com")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 1, primary.adds)
	assert.Equal(t, 0, fallback.adds)
}

func TestChainStore_NameAndBackends(t *testing.T) {
	chain := NewChainStore([]newsletter.SubscriberStore{
		&stubStore{name: "mongo"},
		&stubStore{name: "file"},
	}, newTestLogger(t))

	assert.Equal(t, "mongo", chain.Name())
	assert.Equal(t, []string{"mongo", "file"}, chain.Backends())
}
