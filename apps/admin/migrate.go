package main

import (
	"path/filepath"

	"github.com/pressly/goose"

	"github.com/highschool/scheduler/core"
)

var gooseRunFunc = goose.Run // mockable

func (cli *commandLine) migrate(args []string) error {
	if len(args) == 0 {
		cli.printUsage()
		return errHelp
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	dir := filepath.Join(core.Conf.WorkDir, "storage", "database", "migrations")
	return gooseRunFunc(args[0], cli.db, dir, args[1:]...)
}
