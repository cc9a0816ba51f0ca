package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsiebens/dedup/internal/record"
)

func digest(b byte) [32]byte {
	var d [32]byte
	d[0] = b
	return d
}

func TestPartitionGroupsByDigest(t *testing.T) {
	a := &record.File{Path: "a", Size: 4, HasDigest: true, Digest: digest(1)}
	b := &record.File{Path: "b", Size: 4, HasDigest: true, Digest: digest(1)}
	c := &record.File{Path: "c", Size: 4, HasDigest: true, Digest: digest(2)}

	classes := partition([]*record.File{a, b, c})

	require.Len(t, classes, 1)
	assert.Equal(t, a, classes[0].rep)
	assert.Equal(t, []*record.File{b}, classes[0].dests)
}

func TestPartitionSkipsUndigestedRecords(t *testing.T) {
	a := &record.File{Path: "a", Size: 4, HasDigest: true, Digest: digest(1)}
	b := &record.File{Path: "b", Size: 4, HasDigest: false}

	classes := partition([]*record.File{a, b})
	assert.Empty(t, classes)
}

func TestPartitionNoClassWithSingleMatch(t *testing.T) {
	a := &record.File{Path: "a", Size: 4, HasDigest: true, Digest: digest(1)}
	classes := partition([]*record.File{a})
	assert.Empty(t, classes)
}

func TestPartitionRespectsSecondaryDigest(t *testing.T) {
	a := &record.File{Path: "a", Size: 4, HasDigest: true, Digest: digest(1), HasLong: true, LongDigest: digest(9)}
	b := &record.File{Path: "b", Size: 4, HasDigest: true, Digest: digest(1), HasLong: true, LongDigest: digest(8)}

	classes := partition([]*record.File{a, b})
	assert.Empty(t, classes)
}
