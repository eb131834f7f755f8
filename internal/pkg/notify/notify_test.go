package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferDismissHidesLoading(t *testing.T) {
	b := NewBuffer()
	id := b.Loading("Confirming transaction...")
	b.Dismiss(id)
	b.Success("Successfully upgraded to premium plan!")

	msgs := b.Drain()
	require.Len(t, msgs, 1)
	assert.Equal(t, KindSuccess, msgs[0].Kind)
	assert.Empty(t, b.Drain())
}

func TestLast(t *testing.T) {
	b := NewBuffer()
	_, ok := Last(b.Drain())
	assert.False(t, ok)

	b.Error("first")
	b.Error("second")
	last, ok := Last(b.Drain())
	require.True(t, ok)
	assert.Equal(t, "second", last.Text)
}
