package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/ourson-app/backend/apps/api/echo"
	"github.com/ourson-app/backend/core"
	"github.com/ourson-app/backend/core/content"
	"github.com/ourson-app/backend/core/user"
	emailsvc "github.com/ourson-app/backend/services/email"
	logsvc "github.com/ourson-app/backend/services/logger"
	"github.com/ourson-app/backend/storage/database"
	sqlxrepos "github.com/ourson-app/backend/storage/database/sqlx"
)

func main() {
	// =========================================================================
	// Set up Dependencies

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	sdb := sqlx.NewDb(db, "postgres")
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(sdb), mailSvc, logger)
	contentSvc := content.NewService(sqlxrepos.NewContentRepository(sdb), logger)

	// =========================================================================
	// Start API Service

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	server := echoapi.NewServer(
		&echoapi.Options{
			Address:    core.Conf.Server.Address(),
			Logger:     logger,
			UserSvc:    usrSvc,
			ContentSvc: contentSvc,
		},
	)

	go server.Start()

	// =========================================================================
	// Shutdown

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-await(osSignals, server.ShutdownSignal()):
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		// give outstanding requests a deadline for completion
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err = server.Stop(ctx); err != nil {
			logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
		}
	}
}

// await merges OS signals with the server's internal shutdown requests.
func await(chans ...<-chan os.Signal) <-chan os.Signal {
	out := make(chan os.Signal, 1)
	for _, ch := range chans {
		go func(ch <-chan os.Signal) {
			if sig, ok := <-ch; ok {
				out <- sig
			}
		}(ch)
	}
	return out
}

func setUpDB() (*sql.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
