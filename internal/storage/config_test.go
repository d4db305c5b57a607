package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/postboard/postboard/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	id, key, err := objectKey("image/png")
	require.NoError(t, err)
	_, perr := uuid.Parse(id)
	require.NoError(t, perr)
	require.Equal(t, "posts/"+id+".png", key)

	_, key, err = objectKey(" IMAGE/JPEG ")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(key, ".jpg"))
}

func TestObjectKey_Unsupported(t *testing.T) {
	_, _, err := objectKey("application/pdf")
	require.ErrorIs(t, err, ErrUnsupportedType)
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestObjectKey_Unique(t *testing.T) {
	a, _, _ := objectKey("image/gif")
	b, _, _ := objectKey("image/gif")
	require.NotEqual(t, a, b)
}

func TestNewImageStore_MissingEndpoint(t *testing.T) {
	_, err := NewImageStore(context.Background(), Config{})
	require.Error(t, err)
}
