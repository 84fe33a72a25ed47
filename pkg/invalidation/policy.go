package invalidation

import (
	"fmt"
	"slices"

	"github.com/dmitrymomot/feedcache/pkg/cachekey"
)

// Kind is the type of a committed write.
type Kind string

const (
	PostCreated    Kind = "post_created"
	PostEdited     Kind = "post_edited"
	PostDeleted    Kind = "post_deleted"
	CommentCreated Kind = "comment_created"
	CommentEdited  Kind = "comment_edited"
	CommentDeleted Kind = "comment_deleted"
	LikeToggled    Kind = "like_toggled"
	ProfileEdited  Kind = "profile_edited"
	UserCreated    Kind = "user_created"
	UserDeleted    Kind = "user_deleted"
	SessionChanged Kind = "session_changed"
)

// Kinds returns every known mutation kind.
func Kinds() []Kind {
	return []Kind{
		PostCreated, PostEdited, PostDeleted,
		CommentCreated, CommentEdited, CommentDeleted,
		LikeToggled, ProfileEdited, UserCreated, UserDeleted, SessionChanged,
	}
}

// Mutation describes a committed write. Which fields are required depends
// on Kind:
//
//   - post kinds: UserID and Username of the author; PostID for edit and delete
//   - comment kinds: PostID; PostAuthorUsername when known
//   - LikeToggled: Username of the liker; PostID and PostAuthorUsername when known
//   - ProfileEdited: UserID and Username (the new one); PreviousUsername on rename
//   - UserCreated, UserDeleted: Username
//   - SessionChanged: UserID
type Mutation struct {
	Kind               Kind
	UserID             string
	Username           string
	PostID             string
	PostAuthorUsername string
	PreviousUsername   string
}

// Patterns returns the key patterns a mutation makes stale, without
// duplicates and in a stable order. When in doubt a pattern is widened: an
// extra miss costs a query, a missed key serves stale data.
func Patterns(m Mutation) ([]string, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	var ps patterns

	switch m.Kind {
	case PostCreated, PostEdited, PostDeleted:
		ps.add(cachekey.Match(cachekey.NamespacePosts).Viewer(m.UserID))
		ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(m.Username).Viewer(m.UserID))
		// Every viewer's feed and the author's profile list the post.
		ps.add(cachekey.Match(cachekey.NamespacePosts))
		ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(m.Username))
		ps.add(cachekey.Match(cachekey.NamespaceSearch))

		if m.Kind == PostCreated {
			break
		}
		ps.add(cachekey.Match(cachekey.NamespacePost).Subject(m.PostID))
		// Liked-post lists of any user may embed the post.
		ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes))

		if m.Kind == PostDeleted {
			ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes).Subject(m.Username).Viewer(m.UserID))
			ps.add(cachekey.Match(cachekey.NamespaceComments).Subject(m.PostID))
		}

	case CommentCreated, CommentEdited, CommentDeleted:
		ps.add(cachekey.Match(cachekey.NamespaceComments).Subject(m.PostID))
		ps.add(cachekey.Match(cachekey.NamespacePost).Subject(m.PostID))
		// Comment counts are embedded in every list that renders the post.
		ps.add(cachekey.Match(cachekey.NamespacePosts))
		ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes))
		ps.add(cachekey.Match(cachekey.NamespaceSearch))
		if m.PostAuthorUsername != "" {
			ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(m.PostAuthorUsername))
		} else {
			ps.add(cachekey.Match(cachekey.NamespaceUserPosts))
		}

	case LikeToggled:
		ps.add(cachekey.Match(cachekey.NamespacePosts))
		ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(m.Username))
		// Like counts show in every user's liked-post list, not only the liker's.
		ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes))
		ps.add(cachekey.Match(cachekey.NamespaceSearch))
		if m.PostAuthorUsername != "" {
			ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(m.PostAuthorUsername))
		}
		if m.PostID != "" {
			ps.add(cachekey.Match(cachekey.NamespacePost).Subject(m.PostID))
		}

	case ProfileEdited:
		for _, name := range m.usernames() {
			ps.add(cachekey.Match(cachekey.NamespaceUserProfile).Subject(name))
			ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(name).Viewer(m.UserID))
			ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes).Subject(name).Viewer(m.UserID))
			// Author details are embedded in every rendering of their posts.
			ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(name))
			ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes).Subject(name))
		}
		ps.add(cachekey.Match(cachekey.NamespacePosts))
		ps.add(cachekey.Match(cachekey.NamespaceUsers))
		ps.add(cachekey.Match(cachekey.NamespaceSearch))

	case UserCreated, UserDeleted:
		ps.add(cachekey.Match(cachekey.NamespacePosts))
		ps.add(cachekey.Match(cachekey.NamespaceUsers))
		ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Subject(m.Username))
		ps.add(cachekey.Match(cachekey.NamespaceSearch))

		if m.Kind == UserDeleted {
			ps.add(cachekey.Match(cachekey.NamespaceUserProfile).Subject(m.Username))
			ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes).Subject(m.Username))
			// Their posts, likes and comments disappear from everything.
			ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes))
			ps.add(cachekey.Match(cachekey.NamespacePost))
			ps.add(cachekey.Match(cachekey.NamespaceComments))
		}

	case SessionChanged:
		ps.add(cachekey.Match(cachekey.NamespacePosts).Viewer(m.UserID))
		ps.add(cachekey.Match(cachekey.NamespaceUserPosts).Viewer(m.UserID))
		ps.add(cachekey.Match(cachekey.NamespaceUserPostsLikes).Viewer(m.UserID))
		ps.add(cachekey.Match(cachekey.NamespaceSearch).Viewer(m.UserID))
	}

	return ps.result()
}

func (m Mutation) validate() error {
	var need []string

	switch m.Kind {
	case PostCreated:
		need = m.missing("UserID", m.UserID, "Username", m.Username)
	case PostEdited, PostDeleted:
		need = m.missing("UserID", m.UserID, "Username", m.Username, "PostID", m.PostID)
	case CommentCreated, CommentEdited, CommentDeleted:
		need = m.missing("PostID", m.PostID)
	case LikeToggled, UserCreated, UserDeleted:
		need = m.missing("Username", m.Username)
	case ProfileEdited:
		need = m.missing("UserID", m.UserID, "Username", m.Username)
	case SessionChanged:
		need = m.missing("UserID", m.UserID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, m.Kind)
	}

	if len(need) > 0 {
		return fmt.Errorf("%w: %s needs %v", ErrMissingField, m.Kind, need)
	}
	return nil
}

// missing takes name/value pairs and returns the names with empty values.
func (Mutation) missing(pairs ...string) []string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			out = append(out, pairs[i])
		}
	}
	return out
}

func (m Mutation) usernames() []string {
	if m.PreviousUsername == "" || m.PreviousUsername == m.Username {
		return []string{m.Username}
	}
	return []string{m.Username, m.PreviousUsername}
}

// patterns accumulates rendered patterns in insertion order.
type patterns struct {
	err error
	out []string
}

func (p *patterns) add(b *cachekey.Pattern) {
	if p.err != nil {
		return
	}
	s, err := b.Build()
	if err != nil {
		p.err = err
		return
	}
	if !slices.Contains(p.out, s) {
		p.out = append(p.out, s)
	}
}

func (p *patterns) result() ([]string, error) {
	return p.out, p.err
}
