package ui

// RouteName identifies a screen in the navigation stack.
type RouteName string

const (
	Home        RouteName = "Home"
	SongDetail  RouteName = "SongDetail"
	SongPreview RouteName = "SongPreview"
)

// Route parameter keys.
const (
	ParamExternalURL = "external_url"
	ParamPreviewURL  = "preview_url"
	ParamTitle       = "title"
	ParamCoverURL    = "cover_url"
)

// Route is a screen plus the string parameters it was pushed with.
type Route struct {
	Name   RouteName
	Params map[string]string
}

// URL returns the page the route shows, if any.
func (r Route) URL() string {
	switch r.Name {
	case SongDetail:
		return r.Params[ParamExternalURL]
	case SongPreview:
		return r.Params[ParamPreviewURL]
	default:
		return ""
	}
}

// Navigator is a stack of routes rooted at [Home].
type Navigator struct {
	stack []Route
}

func NewNavigator() *Navigator {
	return &Navigator{stack: []Route{{Name: Home}}}
}

func (n *Navigator) Push(r Route) {
	n.stack = append(n.stack, r)
}

// Pop removes the top route. Home is never popped.
func (n *Navigator) Pop() bool {
	if len(n.stack) <= 1 {
		return false
	}
	n.stack = n.stack[:len(n.stack)-1]
	return true
}

func (n *Navigator) Current() Route {
	return n.stack[len(n.stack)-1]
}

func (n *Navigator) Depth() int {
	return len(n.stack)
}
