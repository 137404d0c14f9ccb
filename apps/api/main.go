package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/stagedock/stagedock/apps/api/echo"
	"github.com/stagedock/stagedock/core"
	"github.com/stagedock/stagedock/core/document"
	"github.com/stagedock/stagedock/core/stageplot"
	"github.com/stagedock/stagedock/core/user"
	emailsvc "github.com/stagedock/stagedock/services/email"
	exportsvc "github.com/stagedock/stagedock/services/export"
	logsvc "github.com/stagedock/stagedock/services/logger"
	"github.com/stagedock/stagedock/storage/database"
	sqlxrepos "github.com/stagedock/stagedock/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		core.Conf,
	)
	logger.Enable(!core.Conf.Debug)

	// set up DB
	db, err := setUpDB()
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer func() {
		if err = db.Close(); err != nil {
			logger.Error(fmt.Sprintf("closing database: %v", err), err)
		}
	}()

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(db), mailSvc)
	docSvc := document.NewService(sqlxrepos.NewDocumentRepository(db))
	itemSvc := stageplot.NewService(sqlxrepos.NewItemRepository(db), core.Conf)

	logger.Info(fmt.Sprintf("Application initializing : version %q", core.Conf.Build))
	defer logger.Info("Application stopped")

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     fmt.Sprintf("%s:%d", core.Conf.Server.Host, core.Conf.Server.Port),
			Logger:      logger,
			UserSvc:     usrSvc,
			DocumentSvc: docSvc,
			ItemSvc:     itemSvc,
			Exporter:    exportsvc.NewTextExporter(),
			EmailSvc:    mailSvc,
		},
	)

	go func() {
		app.Start()
	}()

	sig := <-app.ShutdownSignal()
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	// give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = app.Stop(ctx); err != nil {
		logger.Fatal(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB() (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(core.Conf); err != nil {
		return nil, err
	}

	db, err := database.Open(core.Conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db.DB); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
