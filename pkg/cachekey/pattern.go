package cachekey

import (
	"fmt"
	"slices"
	"strings"
)

// Wildcard matches any run of characters in a pattern segment.
const Wildcard = "*"

// Pattern builds glob patterns over the keys of one namespace. Segments that
// are not pinned render as Wildcard, so a pattern always matches every key
// of its namespace that agrees on the pinned segments.
type Pattern struct {
	params  map[string]string
	err     error
	ns      Namespace
	subject string
}

// Match starts a pattern over ns.
//
//	cachekey.Match(cachekey.NamespaceUserPosts).Subject("ana").Param(cachekey.ParamUser, "u1").String()
//	// userPosts:ana:page=*:limit=*:user=u1
func Match(ns Namespace) *Pattern {
	p := &Pattern{ns: ns, params: make(map[string]string)}
	if !ns.Valid() {
		p.err = fmt.Errorf("%w: %q", ErrUnknownNamespace, ns)
	}
	return p
}

// Subject pins the entity segment. An empty id leaves it wildcarded.
func (p *Pattern) Subject(id string) *Pattern {
	if p.err == nil && !p.ns.HasSubject() {
		p.err = fmt.Errorf("%w: %s", ErrSubject, p.ns)
	}
	p.subject = id
	return p
}

// Param pins a parameter. The viewer and query values are normalized the
// same way keys normalize them.
func (p *Pattern) Param(name, value string) *Pattern {
	if p.err == nil && !slices.Contains(schemas[p.ns].params, name) {
		p.err = fmt.Errorf("%w: %s has no %q", ErrUnexpectedParam, p.ns, name)
	}
	p.params[name] = value
	return p
}

// Viewer pins the user parameter.
func (p *Pattern) Viewer(userID string) *Pattern {
	return p.Param(ParamUser, userID)
}

// Build renders the pattern or reports the first misuse.
func (p *Pattern) Build() (string, error) {
	if p.err != nil {
		return "", p.err
	}

	var b strings.Builder
	b.WriteString(string(p.ns))
	if p.ns.HasSubject() {
		b.WriteString(sep)
		if p.subject == "" {
			b.WriteString(Wildcard)
		} else {
			b.WriteString(escaper.Replace(p.subject))
		}
	}
	for _, name := range schemas[p.ns].params {
		b.WriteString(sep)
		b.WriteString(name)
		b.WriteByte('=')
		if v, ok := p.params[name]; ok {
			b.WriteString(escaper.Replace(normalize(name, v)))
		} else {
			b.WriteString(Wildcard)
		}
	}
	return b.String(), nil
}

// String renders the pattern. A misused builder renders as an empty string,
// which the cache rejects.
func (p *Pattern) String() string {
	s, err := p.Build()
	if err != nil {
		return ""
	}
	return s
}
