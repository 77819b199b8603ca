package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/material"
)

func Test_materialApi_create(t *testing.T) {
	env := setupEnv(t)

	instructor := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	student := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	body := marchallObj(t, map[string]interface{}{"title": "Intro to Go", "description": "fast track", "is_public": true})

	tests := []httpTest{
		{name: "auth required", body: body, wantCode: http.StatusUnauthorized},
		{
			name: "instructor role required", token: env.getToken(t, student), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			// validation failures must render as a 400 field map
			name: "missing title rejected", token: env.getToken(t, instructor),
			body:     marchallObj(t, map[string]interface{}{"description": "no title"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"title": "title is a required field"}),
		},
		{name: "created", token: env.getToken(t, instructor), body: body, wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := env.newAuthRequest(http.MethodPost, "/v1/materials", tt.token, tt.body)
			env.app.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if tt.wantData != nil {
				checkCodeAndData(t, tt, rec)
			}
			if tt.wantCode == http.StatusCreated {
				var mat material.Material
				if err := json.Unmarshal(rec.Body.Bytes(), &mat); err != nil {
					t.Fatalf("unmarshalling response: %v", err)
				}
				if mat.InstructorID != instructor.ID {
					t.Errorf("mat.InstructorID = %s; want %s", mat.InstructorID, instructor.ID)
				}
			}
		})
	}
}

func Test_materialApi_retrieve(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	student := env.createUser(t, "Hero", "hero@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)
	enrolled := env.createUser(t, "Keen", "keen@test.cd", account.RoleStudent, "Sup3rStr0ng#pwd", true)

	public := env.createMaterial(t, owner, "Published", true)
	draft := env.createMaterial(t, owner, "Hidden Draft", false)
	env.enroll(t, enrolled, draft)

	tests := []httpTest{
		{name: "public material visible to any student", path: "/v1/materials/" + public.ID, token: env.getToken(t, student), wantCode: http.StatusOK},
		{
			name: "hidden draft reads as not found", path: "/v1/materials/" + draft.ID, token: env.getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "material not found"}),
		},
		{name: "hidden draft visible to its owner", path: "/v1/materials/" + draft.ID, token: env.getToken(t, owner), wantCode: http.StatusOK},
		{name: "hidden draft visible to enrolled student", path: "/v1/materials/" + draft.ID, token: env.getToken(t, enrolled), wantCode: http.StatusOK},
		{
			name: "unknown ID reads as not found", path: "/v1/materials/lol", token: env.getToken(t, student),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "material not found"}),
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

func Test_materialApi_destroy(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	rival := env.createUser(t, "Rival", "rival@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)

	mat := env.createMaterial(t, owner, "Precious", true)

	t.Run("non-owner delete is denied and nothing is removed", func(t *testing.T) {
		req, rec := env.newAuthRequest(http.MethodDelete, "/v1/materials/"+mat.ID, env.getToken(t, rival))
		env.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusForbidden, rec.Body.String())
		}
		if _, err := env.materialRepo.GetMaterialByID(reqCtx(), mat.ID); err != nil {
			t.Errorf("expected the material to survive, got %v", err)
		}
	})

	t.Run("owner delete cascades", func(t *testing.T) {
		asg := env.createAssignment(t, mat, "HW 1")

		req, rec := env.newAuthRequest(http.MethodDelete, "/v1/materials/"+mat.ID, env.getToken(t, owner))
		env.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
		if _, err := env.materialRepo.GetMaterialByID(reqCtx(), mat.ID); err != material.ErrNotFound {
			t.Errorf("expected the material to be gone, got %v", err)
		}
		_ = asg // cascade behavior is covered in the store tests
	})
}

func Test_materialApi_videos(t *testing.T) {
	env := setupEnv(t)

	owner := env.createUser(t, "Teacher", "teacher@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)
	rival := env.createUser(t, "Rival", "rival@test.cd", account.RoleInstructor, "Sup3rStr0ng#pwd", true)

	mat := env.createMaterial(t, owner, "With Videos", true)

	body := marchallObj(t, map[string]interface{}{
		"title":       "Lesson 1",
		"youtube_url": "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		"position":    1,
	})

	t.Run("bad YouTube URL rejected", func(t *testing.T) {
		bad := marchallObj(t, map[string]interface{}{"title": "Lesson 1", "youtube_url": "https://vimeo.com/123"})
		req, rec := env.newAuthRequest(http.MethodPost, "/v1/materials/"+mat.ID+"/videos", env.getToken(t, owner), bad)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusBadRequest, rec.Body.String())
		}
	})

	t.Run("non-owner cannot attach videos", func(t *testing.T) {
		req, rec := env.newAuthRequest(http.MethodPost, "/v1/materials/"+mat.ID+"/videos", env.getToken(t, rival), body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("code = %v; want %v; body %s", rec.Code, http.StatusForbidden, rec.Body.String())
		}
	})

	t.Run("owner attaches and removes a video", func(t *testing.T) {
		req, rec := env.newAuthRequest(http.MethodPost, "/v1/materials/"+mat.ID+"/videos", env.getToken(t, owner), body)
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
		var vid material.Video
		if err := json.Unmarshal(rec.Body.Bytes(), &vid); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}

		req, rec = env.newAuthRequest(http.MethodDelete, "/v1/videos/"+vid.ID, env.getToken(t, owner))
		env.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; want %v; body %s", rec.Code, http.StatusNoContent, rec.Body.String())
		}
	})
}
