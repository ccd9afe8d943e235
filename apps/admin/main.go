package main

import (
	"context"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/KAILASATEJANI/nam/core"
	"github.com/KAILASATEJANI/nam/core/campus"
	"github.com/KAILASATEJANI/nam/services/email"
	"github.com/KAILASATEJANI/nam/services/logger"
	"github.com/KAILASATEJANI/nam/storage/database"
	"github.com/KAILASATEJANI/nam/storage/database/postgres"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.New("ADMIN : ", conf)

	ctx := context.Background()
	store := database.Open(ctx, conf, logger)

	validate := validator.New()
	core.InitValidators(validate, core.NewTranslator())

	mailSvc := emailsvc.New(conf, logger)
	cli := commandLine{
		svc:       campus.NewService(store, nil, mailSvc, logger, conf),
		validate:  validate,
		storeName: store.Name(),
		out:       os.Stdout,
	}
	if pg, ok := store.(*pgdb.DB); ok {
		cli.db = pg.SQL()
	}

	err := cli.run(os.Args)
	mailSvc.Wait()
	if cErr := store.Close(ctx); cErr != nil {
		logger.Error("closing store", cErr)
	}
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
