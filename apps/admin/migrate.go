package main

import (
	"github.com/veta-academy/backend/storage/database"
)

var runMigrationFunc = database.RunMigrationCommand // mockable

func (cli *commandLine) migrate(args []string) error {
	var arguments []string
	if len(args) > 1 {
		arguments = args[1:]
	}
	return runMigrationFunc(args[0], cli.db, arguments...)
}
