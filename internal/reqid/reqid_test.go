package reqid

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewContextStoresID(t *testing.T) {
	ctx, id := NewContext(context.Background())

	got, ok := FromContext(ctx)
	require.True(t, ok)
	require.Equal(t, id, got)
}

func TestFromContextWithoutID(t *testing.T) {
	_, ok := FromContext(context.Background())
	require.False(t, ok)
}
