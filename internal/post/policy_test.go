package post

import (
	"testing"

	"github.com/postboard/postboard/internal/apperr"
	"github.com/postboard/postboard/internal/identity"
	"github.com/stretchr/testify/require"
)

func TestIsOwner(t *testing.T) {
	require.True(t, IsOwner(alice.UserID, alice))
	require.False(t, IsOwner(alice.UserID, bob))
	require.False(t, IsOwner("", identity.Identity{}))
}

func TestAuthorizeMutation(t *testing.T) {
	require.NoError(t, AuthorizeMutation(alice.UserID, alice, "denied"))

	err := AuthorizeMutation(alice.UserID, carol, "User not authorized to delete the post")
	require.Error(t, err)
	require.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	require.Equal(t, "User not authorized to delete the post", apperr.Message(err))
}

func TestAuthorizeMutation_PanicsWithoutIdentity(t *testing.T) {
	require.Panics(t, func() {
		_ = AuthorizeMutation(alice.UserID, identity.Identity{}, "denied")
	})
}

func TestSlugify(t *testing.T) {
	require.Equal(t, "hello_world", Slugify("Hello World"))
	require.Equal(t, "a__b", Slugify("A  B"))
	require.Equal(t, "tabs_and_newlines_", Slugify("Tabs\tand\nNewlines "))
	require.Equal(t, "hello_world", SlugCandidate("hello_world", 1))
	require.Equal(t, "hello_world_3", SlugCandidate("hello_world", 3))
}
