package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrNotOwned(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("add custom block: %w", ErrNotOwned)
	assert.Equal(t, "resource is owned by another user", ErrNotOwned.Error())
	assert.True(t, errors.Is(wrapped, ErrNotOwned))
}
