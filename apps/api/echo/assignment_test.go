package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/assignment"
)

func Test_assignmentApi_create(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	rival := env.createUser(t, "Rival", "rival@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	student := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	mat := env.createMaterial(t, owner, "Algorithms", true)

	due := time.Now().Add(72 * time.Hour).UTC()
	body := marchallObj(t, map[string]interface{}{
		"material_id": mat.ID, "title": "HW 1", "description": "sorting", "due_date": due,
	})

	tests := []httpTest{
		{
			name: "instructor role required", token: env.getToken(t, student), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "only into own material", token: env.getToken(t, rival), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "unknown material reads as not found", token: env.getToken(t, owner),
			body: marchallObj(t, map[string]interface{}{
				"material_id": "6e1c9f4c-0000-0000-0000-000000000000", "title": "HW 1",
			}),
			wantCode: http.StatusNotFound,
		},
		{
			name: "missing title rejected", token: env.getToken(t, owner),
			body:     marchallObj(t, map[string]interface{}{"material_id": mat.ID}),
			wantCode: http.StatusBadRequest,
		},
		{name: "created", token: env.getToken(t, owner), body: body, wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := env.newAuthRequest(http.MethodPost, "/v1/assignments", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if tt.wantCode == http.StatusCreated {
				var asg assignment.Assignment
				if err := json.Unmarshal(rec.Body.Bytes(), &asg); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if asg.InstructorID != owner.ID {
					t.Errorf("asg.InstructorID = %s; want %s", asg.InstructorID, owner.ID)
				}
				if !asg.DueDate.Valid {
					t.Error("expected the due date to be kept")
				}
			}
		})
	}
}

func Test_assignmentApi_retrieve(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	student := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)
	enrolled := env.createUser(t, "Keen", "keen@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	draft := env.createMaterial(t, owner, "Hidden Draft", false)
	env.enroll(t, enrolled, draft)
	asg := env.createAssignment(t, draft, "HW 1")

	tests := []httpTest{
		{name: "owner sees it", path: "/v1/assignments/" + asg.ID, token: env.getToken(t, owner), wantCode: http.StatusOK},
		{name: "enrolled student sees it", path: "/v1/assignments/" + asg.ID, token: env.getToken(t, enrolled), wantCode: http.StatusOK},
		{
			name: "hidden parent reads as not found", path: "/v1/assignments/" + asg.ID, token: env.getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "assignment not found"}),
		},
		{
			name: "unknown ID reads as not found", path: "/v1/assignments/lol", token: env.getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "assignment not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := env.newAuthRequest(http.MethodGet, tt.path, tt.token)
			env.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
		})
	}
}

func Test_assignmentApi_submit(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	enrolled := env.createUser(t, "Keen", "keen@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)
	outsider := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	draft := env.createMaterial(t, owner, "Hidden Draft", false)
	env.enroll(t, enrolled, draft)
	asg := env.createAssignment(t, draft, "HW 1")

	submit := func(t *testing.T, token, content string) (*http.Response, assignment.Submission, int) {
		t.Helper()
		body := marchallObj(t, map[string]string{"content": content})
		req, rec := env.newAuthRequest(http.MethodPost, "/v1/assignments/"+asg.ID+"/submissions", token, body)
		env.app.ServeHTTP(rec, req)
		var sub assignment.Submission
		if rec.Code == http.StatusCreated {
			if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
				t.Fatalf("unmarshalling response: %v", err)
			}
		}
		return rec.Result(), sub, rec.Code
	}

	t.Run("empty submission rejected", func(t *testing.T) {
		if _, _, code := submit(t, env.getToken(t, enrolled), ""); code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v", code, http.StatusBadRequest)
		}
	})

	t.Run("invisible assignment reads as not found", func(t *testing.T) {
		if _, _, code := submit(t, env.getToken(t, outsider), "let me in"); code != http.StatusNotFound {
			t.Errorf("code = %v; want %v", code, http.StatusNotFound)
		}
	})

	t.Run("resubmitting overwrites in place", func(t *testing.T) {
		_, first, code := submit(t, env.getToken(t, enrolled), "first draft")
		if code != http.StatusCreated {
			t.Fatalf("code = %v; want %v", code, http.StatusCreated)
		}
		_, second, code := submit(t, env.getToken(t, enrolled), "final answer")
		if code != http.StatusCreated {
			t.Fatalf("code = %v; want %v", code, http.StatusCreated)
		}

		if second.ID != first.ID {
			t.Errorf("expected the same submission row; got %s and %s", first.ID, second.ID)
		}
		subs, err := env.assignmentRepo.QuerySubmissionsByAssignment(reqCtx(), asg.ID)
		if err != nil {
			t.Fatalf("QuerySubmissionsByAssignment() failed, %v", err)
		}
		if len(subs) != 1 {
			t.Fatalf("len(subs) = %d; want 1", len(subs))
		}
		if subs[0].Content != "final answer" {
			t.Errorf("subs[0].Content = %q; want %q", subs[0].Content, "final answer")
		}
	})

	t.Run("own submission is retrievable", func(t *testing.T) {
		req, rec := env.newAuthRequest(http.MethodGet, "/v1/assignments/"+asg.ID+"/submissions/mine", env.getToken(t, enrolled))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusOK, rec.Body.String())
		}
		var sub assignment.Submission
		if err := json.Unmarshal(rec.Body.Bytes(), &sub); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if sub.StudentID != enrolled.ID {
			t.Errorf("sub.StudentID = %s; want %s", sub.StudentID, enrolled.ID)
		}
	})
}

func Test_assignmentApi_grade(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	rival := env.createUser(t, "Rival", "rival@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	student := env.createUser(t, "Keen", "keen@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	mat := env.createMaterial(t, owner, "Algorithms", true)
	asg := env.createAssignment(t, mat, "HW 1")

	sub, err := env.assignmentRepo.UpsertSubmission(reqCtx(), assignment.Submission{
		AssignmentID: asg.ID,
		StudentID:    student.ID,
		Content:      "my answer",
		SubmittedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("UpsertSubmission() failed, %v", err)
	}

	score := 85
	body := marchallObj(t, map[string]interface{}{"score": score, "feedback": "solid work"})

	tests := []httpTest{
		{
			name: "instructor role required", path: "/v1/submissions/" + sub.ID + "/grade",
			token: env.getToken(t, student), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "only the owning instructor may grade", path: "/v1/submissions/" + sub.ID + "/grade",
			token: env.getToken(t, rival), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "unknown submission reads as not found", path: "/v1/submissions/lol/grade",
			token: env.getToken(t, owner), body: body,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "score out of range rejected", path: "/v1/submissions/" + sub.ID + "/grade",
			token: env.getToken(t, owner), body: marchallObj(t, map[string]interface{}{"score": 101}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "graded by the owner", path: "/v1/submissions/" + sub.ID + "/grade",
			token: env.getToken(t, owner), body: body, wantCode: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := env.newAuthRequest(http.MethodPut, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if tt.wantCode == http.StatusOK {
				var graded assignment.Submission
				if err := json.Unmarshal(rec.Body.Bytes(), &graded); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if !graded.IsGraded() || graded.Score.Int != score {
					t.Errorf("graded.Score = %+v; want %d", graded.Score, score)
				}
				if !graded.GradedAt.Valid {
					t.Error("expected gradedAt to be stamped")
				}
			}
		})
	}
}
