package cachekey

// Namespace identifies the shape of a cached query.
type Namespace string

const (
	NamespacePosts          Namespace = "posts"
	NamespaceUserPosts      Namespace = "userPosts"
	NamespaceUserPostsLikes Namespace = "userPostsLikes"
	NamespacePost           Namespace = "post"
	NamespaceUsers          Namespace = "users"
	NamespaceUserProfile    Namespace = "userProfile"
	NamespaceComments       Namespace = "comments"
	NamespaceSearch         Namespace = "search"
)

// Parameter names. The order they appear in a key is fixed per namespace.
const (
	ParamQuery = "q"
	ParamPage  = "page"
	ParamLimit = "limit"
	ParamUser  = "user"
)

// Guest is the viewer value for anonymous requests.
const Guest = "guest"

type schema struct {
	params  []string
	subject bool
}

var schemas = map[Namespace]schema{
	NamespacePosts:          {params: []string{ParamPage, ParamLimit, ParamUser}},
	NamespaceUserPosts:      {subject: true, params: []string{ParamPage, ParamLimit, ParamUser}},
	NamespaceUserPostsLikes: {subject: true, params: []string{ParamPage, ParamLimit, ParamUser}},
	NamespacePost:           {subject: true},
	NamespaceUsers:          {params: []string{ParamPage, ParamLimit}},
	NamespaceUserProfile:    {subject: true},
	NamespaceComments:       {subject: true},
	NamespaceSearch:         {params: []string{ParamQuery, ParamPage, ParamLimit, ParamUser}},
}

// Namespaces returns every declared namespace.
func Namespaces() []Namespace {
	return []Namespace{
		NamespacePosts, NamespaceUserPosts, NamespaceUserPostsLikes, NamespacePost,
		NamespaceUsers, NamespaceUserProfile, NamespaceComments, NamespaceSearch,
	}
}

// HasSubject reports whether keys of ns carry an entity identifier segment.
func (ns Namespace) HasSubject() bool {
	return schemas[ns].subject
}

// Params returns the ordered parameter names of ns.
func (ns Namespace) Params() []string {
	return append([]string(nil), schemas[ns].params...)
}

// Valid reports whether ns is declared.
func (ns Namespace) Valid() bool {
	_, ok := schemas[ns]
	return ok
}
