package humanterm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytesFormatsHumanReadable(t *testing.T) {
	assert.Equal(t, "5 B", Bytes(5))
	assert.Equal(t, "1.0 MB", Bytes(1000000))
}

func TestBoldIsNoopOffTerminal(t *testing.T) {
	// Under `go test`, stdout is not a terminal, so Bold must not add escapes.
	assert.Equal(t, "saved", Bold("saved"))
}
