package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/enrollment"
)

func Test_enrollmentApi_enroll(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	student := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	public := env.createMaterial(t, owner, "Published", true)
	draft := env.createMaterial(t, owner, "Hidden Draft", false)

	body := func(materialID string) []byte {
		return marchallObj(t, map[string]string{"material_id": materialID})
	}

	tests := []httpTest{
		{name: "auth required", body: body(public.ID), wantCode: http.StatusUnauthorized},
		{
			name: "material ID required", token: env.getToken(t, student), body: body(""),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown material reads as not found", token: env.getToken(t, student),
			body:     body("6e1c9f4c-0000-0000-0000-000000000000"),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "material not found"}),
		},
		{
			name: "hidden material is not enrollable", token: env.getToken(t, student), body: body(draft.ID),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "this material is not available for enrollment"}),
		},
		{name: "enrolled", token: env.getToken(t, student), body: body(public.ID), wantCode: http.StatusCreated},
		{
			name: "enrolling twice is rejected", token: env.getToken(t, student), body: body(public.ID),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "already enrolled in this material"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := env.newAuthRequest(http.MethodPost, "/v1/enrollments/enroll", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}

	// the rejected retry must not have produced a second row
	enrollments, err := env.enrollmentRepo.QueryEnrollmentsByStudent(reqCtx(), student.ID)
	if err != nil {
		t.Fatalf("QueryEnrollmentsByStudent() failed, %v", err)
	}
	if len(enrollments) != 1 {
		t.Errorf("len(enrollments) = %d; want 1", len(enrollments))
	}
}

func Test_enrollmentApi_query(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	student := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)
	other := env.createUser(t, "Keen", "keen@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	algo := env.createMaterial(t, owner, "Algorithms", true)
	calc := env.createMaterial(t, owner, "Calculus", true)
	env.enroll(t, student, algo)
	env.enroll(t, student, calc)
	env.enroll(t, other, algo)

	req, rec := env.newAuthRequest(http.MethodGet, "/v1/enrollments", env.getToken(t, student))
	env.app.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var enrollments []enrollment.Enrollment
	if err := json.Unmarshal(rec.Body.Bytes(), &enrollments); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(enrollments) != 2 {
		t.Fatalf("len(enrollments) = %d; want 2", len(enrollments))
	}
	for _, enr := range enrollments {
		if enr.StudentID != student.ID {
			t.Errorf("enr.StudentID = %s; want %s", enr.StudentID, student.ID)
		}
	}
}
