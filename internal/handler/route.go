package handler

// Route is the closed set of paths the handler dispatches on.
type Route int

const (
	RouteDefault Route = iota
	RouteHealth
)

const HealthPath = "/health"

// RouteFor maps an invocation's resource field to a Route. Anything that is
// not the health path, including an empty resource, takes the write path.
func RouteFor(resource string) Route {
	if resource == HealthPath {
		return RouteHealth
	}
	return RouteDefault
}

func (r Route) String() string {
	switch r {
	case RouteHealth:
		return "health"
	default:
		return "default"
	}
}
