package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorWrapsKind(t *testing.T) {
	err := fmt.Errorf("handler: %w", Validation(MsgInvalidDate))
	assert.ErrorIs(t, err, ErrValidation)
	assert.False(t, errors.Is(err, ErrNotFound))

	msg, ok := Message(err)
	assert.True(t, ok)
	assert.Equal(t, MsgInvalidDate, msg)

	_, ok = Message(errors.New("plain"))
	assert.False(t, ok)
}

func TestForbidden(t *testing.T) {
	err := Forbidden()
	assert.ErrorIs(t, err, ErrForbidden)
	msg, _ := Message(err)
	assert.Equal(t, "Admin access required", msg)
}
