package main

import (
	stdlog "log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/darasa-lms/darasa/apps/api/echo"
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
	"github.com/darasa-lms/darasa/storage/database"
	sqlxrepos "github.com/darasa-lms/darasa/storage/database/sqlx"
)

func main() {
	logger := stdlog.New(os.Stdout, "API : ", stdlog.LstdFlags|stdlog.Lshortfile)

	conf, err := core.NewConfig(core.Getwd())
	if err != nil {
		logger.Fatalf("%+v", err)
	}
	core.InitMail(conf)

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(!(conf.Debug || conf.TestMode))

	// set up DB
	if err = database.CreateIfNotExist(conf); err != nil {
		logger.Fatalf("%+v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatalf("%+v", err)
	}
	defer func() { _ = db.Close() }()
	if err = database.Migrate(db); err != nil {
		logger.Fatalf("%+v", err)
	}
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, appLogger)
	}

	accountRepo := sqlxrepos.NewAccountRepository(dbx)
	materialRepo := sqlxrepos.NewMaterialRepository(dbx)
	assignmentRepo := sqlxrepos.NewAssignmentRepository(dbx)
	enrollmentRepo := sqlxrepos.NewEnrollmentRepository(dbx)

	guard := access.NewGuard()
	accountSvc := account.NewService(accountRepo, conf, mailSvc)
	materialSvc := material.NewService(materialRepo, enrollmentRepo, guard)
	enrollmentSvc := enrollment.NewService(enrollmentRepo, materialRepo)
	assignmentSvc := assignment.NewService(assignmentRepo, materialRepo, enrollmentRepo, accountRepo, guard, conf, mailSvc)
	dashboardSvc := dashboard.NewService(materialRepo, assignmentRepo, enrollmentRepo)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Conf:          conf,
			Logger:        appLogger,
			AccountSvc:    accountSvc,
			MaterialSvc:   materialSvc,
			AssignmentSvc: assignmentSvc,
			EnrollmentSvc: enrollmentSvc,
			DashboardSvc:  dashboardSvc,
			Storage:       blobsvc.NewLocalStorage(conf),
		},
	)
	app.Start()
}
