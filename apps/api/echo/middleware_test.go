package echoapi

import (
	"net/http"
	"testing"

	"github.com/darasa-lms/darasa/core/access"
	"github.com/darasa-lms/darasa/core/account"
)

func Test_gateMiddleware(t *testing.T) {
	env := setupEnv(t)

	student := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)
	instructor := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	inactive := env.createUser(t, "N Dog", "ndog@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", false)

	tests := []struct {
		name         string
		path         string
		token        string
		wantCode     int
		wantLocation string
	}{
		{name: "root is public", path: "/", wantCode: http.StatusOK},
		{name: "healthz is public", path: "/healthz", wantCode: http.StatusOK},
		{
			name: "protected page without session redirects to login", path: "/student/dashboard",
			wantCode: http.StatusFound, wantLocation: access.LoginPath + "?redirectTo=%2Fstudent%2Fdashboard",
		},
		{
			name: "protected API without session gets 401", path: "/v1/enrollments",
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "expired session reads as anonymous", path: "/v1/enrollments", token: "not-even-a-jwt",
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "deactivated account reads as anonymous", path: "/v1/enrollments", token: env.getToken(t, inactive),
			wantCode: http.StatusUnauthorized,
		},
		{
			name: "student on auth page redirects to student dashboard", path: "/auth/login",
			token: env.getToken(t, student), wantCode: http.StatusFound, wantLocation: access.StudentDashboardPath,
		},
		{
			name: "instructor on auth page redirects to instructor dashboard", path: "/auth/login",
			token: env.getToken(t, instructor), wantCode: http.StatusFound, wantLocation: access.InstructorDashboardPath,
		},
		{
			name: "student with session passes the gate", path: "/v1/enrollments",
			token: env.getToken(t, student), wantCode: http.StatusOK,
		},
		{
			name: "authenticated API client on auth endpoint gets JSON not a redirect",
			path: "/v1/auth/login", token: env.getToken(t, student), wantCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := env.newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("code = %v; wantCode %v", rec.Code, tt.wantCode)
			}
			if tt.wantLocation != "" {
				if loc := rec.Header().Get("Location"); loc != tt.wantLocation {
					t.Errorf("Location = %s; want %s", loc, tt.wantLocation)
				}
			}
		})
	}

	t.Run("anonymous password reset passes the gate", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"email": "hero@test.cd"})
		req, rec := env.newRequest(http.MethodPost, "/v1/auth/password-reset", body)
		env.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
	})

	t.Run("authenticated auth API denial is a JSON error", func(t *testing.T) {
		req, rec := env.newAuthRequest(http.MethodPost, "/v1/auth/login", env.getToken(t, student))
		env.app.ServeHTTP(rec, req)

		checkCodeAndData(t, httpTest{
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "already authenticated"}),
		}, rec)
	})
}
