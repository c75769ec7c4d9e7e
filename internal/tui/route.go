package tui

import "strings"

// Route paths
const (
	PathLogin         = "/"
	PathDashboard     = "/dashboard"
	PathCreateUser    = "/create-user"
	PathCreateProject = "/create-project"
	PathTasks         = "/tasks"

	projectPrefix = "/projects/"
)

// Screen is the view a route mounts
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenCreateUser
	ScreenCreateProject
	ScreenTasks
	ScreenProject
	ScreenNotFound
)

// Route is a console location such as "/dashboard" or "/projects/42"
type Route string

// ProjectRoute returns the details route of a project
func ProjectRoute(id string) Route {
	return Route(projectPrefix + id)
}

// ProjectID returns the :id parameter of a project route
func (r Route) ProjectID() (string, bool) {
	id, ok := strings.CutPrefix(string(r), projectPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

// Screen resolves the route to the view it shows
func (r Route) Screen() Screen {
	switch r {
	case PathLogin:
		return ScreenLogin
	case PathDashboard:
		return ScreenDashboard
	case PathCreateUser:
		return ScreenCreateUser
	case PathCreateProject:
		return ScreenCreateProject
	case PathTasks:
		return ScreenTasks
	}
	if _, ok := r.ProjectID(); ok {
		return ScreenProject
	}
	return ScreenNotFound
}

// Gated reports whether the route needs a stored credential. Everything
// except the login screen does.
func (r Route) Gated() bool {
	return r.Screen() != ScreenLogin
}
