package service

import (
	"sync"
	"testing"

	"edgemesh/gateway/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func instances(ids ...string) []domain.Instance {
	out := make([]domain.Instance, 0, len(ids))
	for i, id := range ids {
		out = append(out, domain.Instance{ID: id, Host: "10.0.0.1", Port: 9000 + i})
	}
	return out
}

func TestRoundRobin_Order(t *testing.T) {
	b := NewRoundRobin()
	list := instances("a", "b", "c")

	var firsts []string
	for i := 0; i < 6; i++ {
		order := b.Order("svc", list)
		require.Len(t, order, 3)
		firsts = append(firsts, order[0].ID)
		if i == 1 {
			assert.Equal(t, []string{"b", "c", "a"}, []string{order[0].ID, order[1].ID, order[2].ID})
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, firsts)
	assert.Equal(t, "a", list[0].ID)
}

func TestRoundRobin_PerServiceCounters(t *testing.T) {
	b := NewRoundRobin()
	list := instances("a", "b")
	assert.Equal(t, "a", b.Order("one", list)[0].ID)
	assert.Equal(t, "a", b.Order("two", list)[0].ID)
	assert.Equal(t, "b", b.Order("one", list)[0].ID)
}

func TestRoundRobin_Empty(t *testing.T) {
	assert.Nil(t, NewRoundRobin().Order("svc", nil))
}

func TestRoundRobin_ConcurrentEvenSpread(t *testing.T) {
	b := NewRoundRobin()
	list := instances("a", "b", "c", "d")
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	counts := map[string]int{}
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := b.Order("svc", list)[0].ID
				mu.Lock()
				counts[id]++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	for _, inst := range list {
		assert.Equal(t, workers*perWorker/len(list), counts[inst.ID])
	}
}
