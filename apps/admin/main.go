package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/highschool/scheduler/core"
	"github.com/highschool/scheduler/storage/database"
	sqlxrepos "github.com/highschool/scheduler/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()

	cli := commandLine{
		db:      db,
		usrRepo: sqlxrepos.NewUserRepository(sqlx.NewDb(db, conf.Database.Engine)),
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
