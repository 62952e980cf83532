package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAvatarStore_NotConfigured(t *testing.T) {
	var s *AvatarStore
	_, err := s.Put(context.Background(), "u1", "me.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewAvatarStore(nil, "bucket").Put(context.Background(), "u1", "me.png", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestObjectPath(t *testing.T) {
	p := ObjectPath("u1", "Me.PNG")
	assert.True(t, strings.HasPrefix(p, "avatars/u1/"))
	assert.True(t, strings.HasSuffix(p, ".png"))
	assert.NotEqual(t, p, ObjectPath("u1", "Me.PNG"))
}
