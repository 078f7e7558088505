package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/kud0/mindsy/core"
	"github.com/kud0/mindsy/storage/database"
	sqlxrepos "github.com/kud0/mindsy/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// createdb runs before the app DB exists; it connects as the DB admin
	if len(os.Args) > 1 && os.Args[1] == "createdb" {
		errAndDie(database.CreateIfNotExist(core.Conf))
		return
	}

	// set up DB
	db, err := database.Open(core.Conf)
	errAndDie(err)
	defer db.Close()
	errAndDie(db.Ping())

	// start CLI
	cli := commandLine{
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(sqlx.NewDb(db, core.Conf.Database.Engine)),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
