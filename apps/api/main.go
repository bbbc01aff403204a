package main

import (
	"context"
	"database/sql"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/veta-academy/backend/apps/api/echo"
	"github.com/veta-academy/backend/core"
	"github.com/veta-academy/backend/core/catalog"
	"github.com/veta-academy/backend/core/enrollment"
	"github.com/veta-academy/backend/core/lead"
	"github.com/veta-academy/backend/core/notification"
	"github.com/veta-academy/backend/core/platform"
	"github.com/veta-academy/backend/core/review"
	"github.com/veta-academy/backend/core/session"
	"github.com/veta-academy/backend/core/user"
	emailsvc "github.com/veta-academy/backend/services/email"
	logsvc "github.com/veta-academy/backend/services/logger"
	"github.com/veta-academy/backend/storage/database"
	sqlxrepos "github.com/veta-academy/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := setUpDB(core.Conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error("failed to close DB", err)
		}
	}()
	dbx := sqlx.NewDb(db, "postgres")

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	notifHub := notification.NewHub()
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(dbx), mailSvc)
	sessionSvc := session.NewService(sqlxrepos.NewSessionRepository(dbx), usrSvc)
	catalogSvc := catalog.NewService(sqlxrepos.NewCourseRepository(dbx))
	platformSvc := platform.NewService(sqlxrepos.NewPlatformRepository(dbx))
	leadSvc := lead.NewService(sqlxrepos.NewLeadRepository(dbx), mailSvc, notifHub.For(notification.AdminOwner))
	reviewSvc := review.NewService(sqlxrepos.NewReviewRepository(dbx), catalogSvc)
	enrollmentSvc := enrollment.NewService(sqlxrepos.NewEnrollmentRepository(dbx), catalogSvc, platformSvc)

	// =========================================================================
	// Initialize App

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	if err = core.ParseEmailTemplates(logger); err != nil {
		logger.Fatal(fmt.Sprintf("parsing email templates: %v", err), err)
	}

	if !platformSvc.ConfigurationComplete() {
		logger.Warn("platform configuration incomplete: set up areas, loyalty and general config")
	}

	// =========================================================================
	// Start Debug Service
	//
	// /debug/pprof - Added to the default mux by importing the net/http/pprof package.
	// /debug/vars - Added to the default mux by importing the expvar package.

	expvar.NewString("build").Set(core.Conf.Build)
	expvar.NewString("env").Set(core.Conf.Env)

	go func() {
		if err := http.ListenAndServe(core.Conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()

	// =========================================================================
	// Start API Service

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:       core.Conf.Server.Host,
			Logger:        logger,
			UserSvc:       usrSvc,
			SessionSvc:    sessionSvc,
			CatalogSvc:    catalogSvc,
			PlatformSvc:   platformSvc,
			LeadSvc:       leadSvc,
			ReviewSvc:     reviewSvc,
			EnrollmentSvc: enrollmentSvc,
			NotifHub:      notifHub,
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.Server.ShutdownTimeout)
		defer cancel()

		// asking listener to shutdown and shed load
		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
