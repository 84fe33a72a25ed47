// Package cachekey builds cache keys and invalidation patterns for the feed
// read paths.
//
// A key is a namespace, an optional subject (an immutable entity id or
// username) and the namespace's parameters in a fixed order:
//
//	posts:page=1:limit=10:user=guest
//	userPosts:ana:page=2:limit=10:user=64f1c2
//	post:64f1c9
//
// Two calls with the same inputs always yield the same string, whatever the
// order the caller supplied parameters in. Anonymous viewers are encoded as
// [Guest], never omitted. Values are percent-escaped so they cannot contain
// the ":" separator or glob metacharacters.
//
// Patterns come from [Match]; any segment not pinned renders as "*":
//
//	cachekey.Match(cachekey.NamespacePosts).Viewer(userID).String()
//	// posts:page=*:limit=*:user=<userID>
package cachekey
