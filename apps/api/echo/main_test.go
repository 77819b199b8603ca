package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/access"
	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/dashboard"
	"github.com/darasa-lms/darasa/core/enrollment"
	"github.com/darasa-lms/darasa/core/material"
	"github.com/darasa-lms/darasa/services/blob"
	"github.com/darasa-lms/darasa/services/email"
	"github.com/darasa-lms/darasa/services/logger"
	dummydb "github.com/darasa-lms/darasa/storage/database/dummy"
)

type testEnv struct {
	conf *core.Config
	app  Server

	accountRepo    account.Repository
	materialRepo   material.Repository
	assignmentRepo assignment.Repository
	enrollmentRepo enrollment.Repository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	conf := &core.Config{
		Env:              "TEST",
		TestMode:         true,
		AppName:          "Darasa",
		SecretKey:        []byte("s3cr3ts-are-n0t-s4fe-in-tests"),
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: "noreply@test.cd",
		Server: core.ServerConfig{
			SessionCookieName:         "session",
			JWTExpirationDelta:        7 * 24 * time.Hour,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
		Media: core.MediaConfig{
			Root:    t.TempDir(),
			BaseURL: "http://localhost:8000/media",
		},
	}
	core.InitMail(conf)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	accountRepo := dummydb.NewAccountRepository(db)
	materialRepo := dummydb.NewMaterialRepository(db)
	assignmentRepo := dummydb.NewAssignmentRepository(db)
	enrollmentRepo := dummydb.NewEnrollmentRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	guard := access.NewGuard()
	accountSvc := account.NewService(accountRepo, conf, mailSvc)
	materialSvc := material.NewService(materialRepo, enrollmentRepo, guard)
	enrollmentSvc := enrollment.NewService(enrollmentRepo, materialRepo)
	assignmentSvc := assignment.NewService(assignmentRepo, materialRepo, enrollmentRepo, accountRepo, guard, conf, mailSvc)
	dashboardSvc := dashboard.NewService(materialRepo, assignmentRepo, enrollmentRepo)

	app := NewServer(&Options{
		Conf:           conf,
		Logger:         logsvc.NewStdLogger(log.New(ioutil.Discard, "", 0)),
		DisableReqLogs: true,
		AccountSvc:     accountSvc,
		MaterialSvc:    materialSvc,
		AssignmentSvc:  assignmentSvc,
		EnrollmentSvc:  enrollmentSvc,
		DashboardSvc:   dashboardSvc,
		Storage:        blobsvc.NewLocalStorage(conf),
	})

	return &testEnv{
		conf:           conf,
		app:            app,
		accountRepo:    accountRepo,
		materialRepo:   materialRepo,
		assignmentRepo: assignmentRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (env *testEnv) createUser(t *testing.T, name, email, role, pwd string, isActive bool) account.User {
	t.Helper()

	now := time.Now().UTC()
	usr := account.User{
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("SetPassword() failed, %v", err)
		}
	}
	usr, err := env.accountRepo.CreateUser(reqCtx(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

func (env *testEnv) createMaterial(t *testing.T, instructor account.User, title string, isPublic bool) material.Material {
	t.Helper()

	now := time.Now().UTC()
	mat, err := env.materialRepo.CreateMaterial(reqCtx(), material.Material{
		InstructorID: instructor.ID,
		Title:        title,
		IsPublic:     isPublic,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		t.Fatalf("CreateMaterial() failed, %v", err)
	}
	return mat
}

func (env *testEnv) createAssignment(t *testing.T, mat material.Material, title string, dueDate ...time.Time) assignment.Assignment {
	t.Helper()

	now := time.Now().UTC()
	asg := assignment.Assignment{
		MaterialID:   mat.ID,
		InstructorID: mat.InstructorID,
		Title:        title,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if len(dueDate) > 0 {
		asg.DueDate.SetValid(dueDate[0])
	}
	asg, err := env.assignmentRepo.CreateAssignment(reqCtx(), asg)
	if err != nil {
		t.Fatalf("CreateAssignment() failed, %v", err)
	}
	return asg
}

func (env *testEnv) enroll(t *testing.T, student account.User, mat material.Material) enrollment.Enrollment {
	t.Helper()

	enr, err := env.enrollmentRepo.CreateEnrollment(reqCtx(), enrollment.Enrollment{
		StudentID:  student.ID,
		MaterialID: mat.ID,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed, %v", err)
	}
	return enr
}

func (env *testEnv) getToken(t *testing.T, usr account.User) string {
	t.Helper()

	token, err := GenerateToken(env.conf, GetUserClaims(env.conf, usr))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func (env *testEnv) newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: env.conf.Server.SessionCookieName, Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (env *testEnv) newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return env.newAuthRequest(method, path, "", data...)
}

func reqCtx() context.Context { return context.Background() }

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
