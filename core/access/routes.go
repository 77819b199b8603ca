package access

import "strings"

// Classification categorizes a request path for the gate middleware.
type Classification int

const (
	// Public paths require no session.
	Public Classification = iota
	// AuthOnly paths are authentication pages; authenticated users are
	// redirected away from them.
	AuthOnly
	// Protected paths require an authenticated session.
	Protected
)

func (c Classification) String() string {
	switch c {
	case AuthOnly:
		return "auth-only"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// Fixed, ordered path prefix lists; there is no runtime configuration.
var (
	authOnlyPaths = []string{
		"/auth/login",
		"/auth/signup",
		"/v1/auth/login",
		"/v1/auth/signup",
	}
	// "/auth" and "/v1/auth" cover the logged-out flows (password reset,
	// confirm, callback); login/signup are caught by authOnlyPaths first.
	publicPaths = []string{
		"/auth",
		"/v1/auth",
		"/healthz",
		"/media",
	}
	protectedPaths = []string{
		"/student",
		"/instructor",
		"/api",
		"/v1",
	}
)

// Classify categorizes a request path as Public, AuthOnly or Protected by
// prefix matching over the fixed lists. The root path is always Public.
func Classify(path string) Classification {
	if path == "" || path == "/" {
		return Public
	}
	for _, p := range authOnlyPaths {
		if matches(path, p) {
			return AuthOnly
		}
	}
	for _, p := range publicPaths {
		if matches(path, p) {
			return Public
		}
	}
	for _, p := range protectedPaths {
		if matches(path, p) {
			return Protected
		}
	}
	return Public
}

func matches(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
