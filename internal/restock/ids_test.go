package restock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"Restock/internal/restock"
)

func TestNextID(t *testing.T) {
	assert.Equal(t, 1, restock.NextID([]restock.Product{}))
	assert.Equal(t, 1, restock.NextID[restock.Subscription](nil))

	subs := []restock.Subscription{{ID: 3}, {ID: 9}, {ID: 4}}
	next := restock.NextID(subs)
	assert.Equal(t, 10, next)
	for _, s := range subs {
		assert.Greater(t, next, s.ID)
	}
}
