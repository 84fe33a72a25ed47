package cachekey

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Params maps parameter names to values. Order of insertion is irrelevant:
// keys always render parameters in the namespace's declared order.
type Params map[string]string

const sep = ":"

// escaper neutralizes the segment separator and glob metacharacters so a
// value can neither split a key nor widen a pattern.
var escaper = strings.NewReplacer(
	"%", "%25",
	":", "%3A",
	"*", "%2A",
	"?", "%3F",
	"[", "%5B",
	"]", "%5D",
	"\\", "%5C",
	"{", "%7B",
	"}", "%7D",
)

// Build renders the key for ns. subject must be non-empty exactly when the
// namespace carries one, and params must hold every declared parameter and
// nothing else. An empty viewer renders as Guest.
func Build(ns Namespace, subject string, params Params) (string, error) {
	s, ok := schemas[ns]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	if s.subject != (subject != "") {
		return "", fmt.Errorf("%w: %s", ErrSubject, ns)
	}

	values := make([]string, len(s.params))
	for i, name := range s.params {
		v, ok := params[name]
		if !ok {
			return "", fmt.Errorf("%w: %s needs %q", ErrMissingParam, ns, name)
		}
		values[i] = v
	}

	if len(params) > len(s.params) {
		var extra []error
		for name := range params {
			if !slices.Contains(s.params, name) {
				extra = append(extra, fmt.Errorf("%w: %s has no %q", ErrUnexpectedParam, ns, name))
			}
		}
		return "", errors.Join(extra...)
	}

	return render(ns, subject, values...), nil
}

// Posts is the key of a page of the main feed as seen by viewer.
func Posts(page, limit int, viewer string) string {
	return render(NamespacePosts, "", itoa(page), itoa(limit), viewer)
}

// UserPosts is the key of a page of username's profile feed.
func UserPosts(username string, page, limit int, viewer string) string {
	return render(NamespaceUserPosts, username, itoa(page), itoa(limit), viewer)
}

// UserPostsLikes is the key of a page of posts liked by username.
func UserPostsLikes(username string, page, limit int, viewer string) string {
	return render(NamespaceUserPostsLikes, username, itoa(page), itoa(limit), viewer)
}

// Users is the key of a page of the user directory.
func Users(page, limit int) string {
	return render(NamespaceUsers, "", itoa(page), itoa(limit))
}

// Search is the key of a page of search results. The query is normalized
// so that equivalent queries share an entry.
func Search(query string, page, limit int, viewer string) string {
	return render(NamespaceSearch, "", query, itoa(page), itoa(limit), viewer)
}

// Post is the key of a single post view.
func Post(id string) string {
	return render(NamespacePost, id)
}

// UserProfile is the key of a single profile view.
func UserProfile(username string) string {
	return render(NamespaceUserProfile, username)
}

// Comments is the key of the comment thread of a post.
func Comments(postID string) string {
	return render(NamespaceComments, postID)
}

// Viewer returns userID, or Guest for an anonymous request.
func Viewer(userID string) string {
	if userID == "" {
		return Guest
	}
	return userID
}

// NormalizeQuery trims, collapses inner whitespace and case-folds a search
// query.
func NormalizeQuery(q string) string {
	// A Caser is stateful, so each call gets its own.
	return cases.Fold().String(strings.Join(strings.Fields(q), " "))
}

// render assumes values are in declared order and complete.
func render(ns Namespace, subject string, values ...string) string {
	s := schemas[ns]

	var b strings.Builder
	b.WriteString(string(ns))
	if s.subject {
		b.WriteString(sep)
		b.WriteString(escaper.Replace(subject))
	}
	for i, name := range s.params {
		b.WriteString(sep)
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(escaper.Replace(normalize(name, values[i])))
	}
	return b.String()
}

func normalize(name, value string) string {
	switch name {
	case ParamUser:
		return Viewer(value)
	case ParamQuery:
		return NormalizeQuery(value)
	}
	return value
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
