package xslices_test

import (
	"testing"

	"deedles.dev/wbg/internal/xslices"
	"github.com/stretchr/testify/assert"
)

func isEven(v int) bool { return v%2 == 0 }

func TestFilter(t *testing.T) {
	assert.Equal(t, []int{2, 4}, xslices.Filter([]int{1, 2, 3, 4, 5}, isEven))
	assert.Empty(t, xslices.Filter([]int{1, 3}, isEven))
}

func TestFind(t *testing.T) {
	v, ok := xslices.Find([]int{1, 3, 4, 6}, isEven)
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	_, ok = xslices.Find([]int{1, 3}, isEven)
	assert.False(t, ok)
}
