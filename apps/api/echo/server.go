package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/darasa-lms/darasa/core"
	"github.com/darasa-lms/darasa/core/account"
	"github.com/darasa-lms/darasa/core/assignment"
	"github.com/darasa-lms/darasa/core/dashboard"
	"github.com/darasa-lms/darasa/core/enrollment"
	"github.com/darasa-lms/darasa/core/material"
	"github.com/darasa-lms/darasa/services/blob"
)

type (
	Options struct {
		Conf           *core.Config
		Logger         core.Logger
		DisableReqLogs bool

		AccountSvc    *account.Service
		MaterialSvc   *material.Service
		AssignmentSvc *assignment.Service
		EnrollmentSvc *enrollment.Service
		DashboardSvc  *dashboard.Service
		Storage       blobsvc.Storage
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error
	}

	server struct {
		opts *Options
		app  *echo.Echo
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts: opts,
		app:  echo.New(),
	}
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, func() {
		_ = s.Stop(context.Background())
	})
	s.app.Debug = conf.Debug

	s.app.Use(gateMiddleware(conf, s.opts.AccountSvc))

	s.app.GET("/", home)
	s.app.GET("/healthz", healthz)
	s.app.Static("/media", conf.Media.Root)

	v1 := s.app.Group("/v1")
	registerAuthAPI(v1, s.opts.AccountSvc, conf)
	registerMaterialAPI(v1, s.opts.MaterialSvc)
	registerAssignmentAPI(v1, s.opts.AssignmentSvc)
	registerEnrollmentAPI(v1, s.opts.EnrollmentSvc)
	registerDashboardAPI(v1, s.opts.DashboardSvc)
	registerUploadAPI(v1, s.opts.Storage)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Conf.Server.Addr))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Darasa API!")
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
