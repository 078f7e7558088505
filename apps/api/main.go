package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/kud0/mindsy/apps/api/echo"
	"github.com/kud0/mindsy/core"
	"github.com/kud0/mindsy/core/study"
	"github.com/kud0/mindsy/core/user"
	emailsvc "github.com/kud0/mindsy/services/email"
	logsvc "github.com/kud0/mindsy/services/logger"
	"github.com/kud0/mindsy/storage/database"
	sqlxrepos "github.com/kud0/mindsy/storage/database/sqlx"
)

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up logger
	var logger core.Logger
	if core.Conf.Debug {
		logger = logsvc.NewConsoleLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	dbx := sqlx.NewDb(db, core.Conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(dbx), mailSvc)
	studySvc := study.NewService(sqlxrepos.NewNodeRepository(dbx))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:     core.Conf.Server.Addr,
			Logger:   logger,
			UserSvc:  usrSvc,
			StudySvc: studySvc,
		},
	)
	errAndDie(app.Start())
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
