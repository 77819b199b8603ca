package access

import (
	"net/url"

	"github.com/darasa-lms/darasa/core/account"
)

// Redirect targets.
const (
	LoginPath               = "/auth/login"
	StudentDashboardPath    = "/student/dashboard"
	InstructorDashboardPath = "/instructor/dashboard"
)

// Decision is the outcome of gating a single request.
type Decision struct {
	Allow      bool
	RedirectTo string
}

var allow = Decision{Allow: true}

// DashboardPath returns the dashboard the given user belongs on.
// Unknown or missing roles default to the student dashboard.
func DashboardPath(usr *account.User) string {
	if usr != nil && usr.IsInstructor() {
		return InstructorDashboardPath
	}
	return StudentDashboardPath
}

// Decide applies the gating rules, in order:
//  1. no session on a Protected path -> redirect to login, preserving the
//     requested path in a redirectTo query param;
//  2. a session on an AuthOnly path -> redirect to the role dashboard;
//  3. otherwise the request proceeds unmodified.
func Decide(usr *account.User, class Classification, path string) Decision {
	if usr == nil && class == Protected {
		return Decision{RedirectTo: LoginPath + "?redirectTo=" + url.QueryEscape(path)}
	}
	if usr != nil && class == AuthOnly {
		return Decision{RedirectTo: DashboardPath(usr)}
	}
	return allow
}
