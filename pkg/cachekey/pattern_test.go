package cachekey_test

import (
	"testing"

	"github.com/gobwas/glob"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/feedcache/pkg/cachekey"
)

func TestMatch(t *testing.T) {
	t.Parallel()

	t.Run("renders wildcards for unpinned segments", func(t *testing.T) {
		t.Parallel()

		testCases := []struct {
			name    string
			pattern *cachekey.Pattern
			want    string
		}{
			{
				name:    "whole namespace",
				pattern: cachekey.Match(cachekey.NamespacePosts),
				want:    "posts:page=*:limit=*:user=*",
			},
			{
				name:    "viewer scoped",
				pattern: cachekey.Match(cachekey.NamespacePosts).Viewer("u1"),
				want:    "posts:page=*:limit=*:user=u1",
			},
			{
				name:    "subject and viewer",
				pattern: cachekey.Match(cachekey.NamespaceUserPostsLikes).Subject("ana").Viewer("u1"),
				want:    "userPostsLikes:ana:page=*:limit=*:user=u1",
			},
			{
				name:    "any subject",
				pattern: cachekey.Match(cachekey.NamespaceUserPosts).Viewer("u1"),
				want:    "userPosts:*:page=*:limit=*:user=u1",
			},
			{
				name:    "single entity",
				pattern: cachekey.Match(cachekey.NamespacePost).Subject("p1"),
				want:    "post:p1",
			},
			{
				name:    "users directory",
				pattern: cachekey.Match(cachekey.NamespaceUsers),
				want:    "users:page=*:limit=*",
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()

				got, err := tc.pattern.Build()
				require.NoError(t, err)
				require.Equal(t, tc.want, got)
			})
		}
	})

	t.Run("matches exactly the keys it pins", func(t *testing.T) {
		t.Parallel()

		g := glob.MustCompile(cachekey.Match(cachekey.NamespacePosts).Viewer("u1").String())

		require.True(t, g.Match(cachekey.Posts(1, 10, "u1")))
		require.True(t, g.Match(cachekey.Posts(7, 50, "u1")))
		require.False(t, g.Match(cachekey.Posts(1, 10, "u12")))
		require.False(t, g.Match(cachekey.Posts(1, 10, "")))
		require.False(t, g.Match(cachekey.UserPosts("ana", 1, 10, "u1")))
	})

	t.Run("whole namespace pattern covers every key shape", func(t *testing.T) {
		t.Parallel()

		keys := map[cachekey.Namespace]string{
			cachekey.NamespacePosts:          cachekey.Posts(1, 10, ""),
			cachekey.NamespaceUserPosts:      cachekey.UserPosts("a:b", 1, 10, "u1"),
			cachekey.NamespaceUserPostsLikes: cachekey.UserPostsLikes("ana", 1, 10, "u1"),
			cachekey.NamespacePost:           cachekey.Post("p1"),
			cachekey.NamespaceUsers:          cachekey.Users(1, 10),
			cachekey.NamespaceUserProfile:    cachekey.UserProfile("ana"),
			cachekey.NamespaceComments:       cachekey.Comments("p1"),
			cachekey.NamespaceSearch:         cachekey.Search("go [1]", 1, 10, "u1"),
		}

		for _, ns := range cachekey.Namespaces() {
			g := glob.MustCompile(cachekey.Match(ns).String())
			for other, key := range keys {
				require.Equal(t, ns == other, g.Match(key), "pattern %s vs key %s", ns, key)
			}
		}
	})

	t.Run("misuse is reported", func(t *testing.T) {
		t.Parallel()

		_, err := cachekey.Match("feeds").Build()
		require.ErrorIs(t, err, cachekey.ErrUnknownNamespace)

		_, err = cachekey.Match(cachekey.NamespaceUsers).Subject("ana").Build()
		require.ErrorIs(t, err, cachekey.ErrSubject)

		p := cachekey.Match(cachekey.NamespaceUsers).Viewer("u1")
		_, err = p.Build()
		require.ErrorIs(t, err, cachekey.ErrUnexpectedParam)
		require.Empty(t, p.String())
	})
}
