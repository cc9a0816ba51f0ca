package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexAddBuckets(t *testing.T) {
	idx := make(Index)
	idx.Add(&File{Path: "a", Size: 4})
	idx.Add(&File{Path: "b", Size: 4})
	idx.Add(&File{Path: "c", Size: 8})

	assert.Len(t, idx[4], 2)
	assert.Len(t, idx[8], 1)
	assert.Equal(t, 3, idx.Len())
}

func TestRetainDuplicateBucketsDropsSingletons(t *testing.T) {
	idx := make(Index)
	idx.Add(&File{Path: "a", Size: 4})
	idx.Add(&File{Path: "b", Size: 4})
	idx.Add(&File{Path: "c", Size: 8})

	idx.RetainDuplicateBuckets()

	assert.Len(t, idx, 1)
	assert.Len(t, idx[4], 2)
	assert.Equal(t, 2, idx.Len())
}

func TestRetainDuplicateBucketsEmptyIndex(t *testing.T) {
	idx := make(Index)
	idx.RetainDuplicateBuckets()
	assert.Equal(t, 0, idx.Len())
}
