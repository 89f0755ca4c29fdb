package main

import (
	"log/slog"
	"os"

	"hermannm.dev/devlog"
	"hermannm.dev/devlog/log"
	"hermannm.dev/orderstats/api"
	"hermannm.dev/orderstats/config"
	"hermannm.dev/orderstats/dataset"
)

func main() {
	logHandler := devlog.NewHandler(os.Stdout, &devlog.Options{Level: slog.LevelInfo})
	slog.SetDefault(slog.New(logHandler))

	conf, err := config.ReadFromEnv()
	if err != nil {
		log.ErrorCause(err, "failed to read config from env")
		os.Exit(1)
	}

	log.Infof("Loading dataset from '%s'...", conf.DataFile)
	data, err := dataset.Load(conf.DataFile)
	if err != nil {
		log.ErrorCause(err, "failed to load dataset")
		os.Exit(1)
	}
	log.Infof("Loaded %d rows, %d columns", data.NumRows(), len(data.ColumnNames()))

	dashboardAPI := api.NewDashboardAPI(conf)
	dashboardAPI.SetDataset(data)

	log.Infof("Listening on port %s...", conf.API.Port)
	if err := dashboardAPI.ListenAndServe(); err != nil {
		log.ErrorCause(err, "server stopped")
		os.Exit(1)
	}
}
