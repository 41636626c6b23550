package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnavailable(t *testing.T) {
	wrapped := fmt.Errorf("exact lookup: %w: connection refused", ErrUnavailable)
	assert.True(t, IsUnavailable(wrapped))
	assert.False(t, IsUnavailable(fmt.Errorf("syntax error")))
	assert.False(t, IsUnavailable(nil))
}

func TestIsTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	<-ctx.Done()

	assert.True(t, IsTimeout(ctx.Err()))
	assert.True(t, IsTimeout(fmt.Errorf("run query: %w", context.DeadlineExceeded)))
	assert.False(t, IsTimeout(context.Canceled))
	assert.False(t, IsTimeout(ErrUnavailable))
}
