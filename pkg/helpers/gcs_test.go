package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://storage.googleapis.com/erp-assets/avatars/u1/a.png", PublicURL("erp-assets", "avatars/u1/a.png"))
	assert.Equal(t, "https://storage.googleapis.com/b/avatars/my%20pic%3F.png", PublicURL("b", "avatars/my pic?.png"))
}

func TestNewESClient_DisabledWithoutAddrs(t *testing.T) {
	es, err := NewESClient(nil, "", "")
	require.NoError(t, err)
	assert.Nil(t, es)

	es, err = NewESClient([]string{"http://localhost:9200"}, "elastic", "secret")
	require.NoError(t, err)
	assert.NotNil(t, es)
}
