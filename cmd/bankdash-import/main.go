package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"bankdash/internal/amqp"
	"bankdash/internal/cli"
	"bankdash/internal/log"
	"bankdash/internal/services"
	"bankdash/internal/sources/csvfile"
)

func main() {
	file := flag.String("file", "", "CSV file to import (required)")
	keep := flag.Int("keep", 5, "number of snapshots to keep after the import; 0 keeps all")
	list := flag.Bool("list", false, "list stored snapshots and exit")
	flag.Parse()

	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL")).WithComponent(log.ComponentStorage)

	if *file == "" && !*list {
		logger.Error("Error: -file is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	if *list {
		snaps, err := repo.ListSnapshots(ctx, 50)
		if err != nil {
			logger.Error("Failed to list snapshots", log.FieldError, err)
			os.Exit(1)
		}
		for _, snap := range snaps {
			fmt.Printf("%s\t%s\t%d rows\t%s\n", snap.ID, snap.ImportedAt.Format(time.RFC3339), snap.Rows, snap.Source)
		}
		return
	}

	var publisher services.Publisher
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer client.Close()
		publisher = client
	}

	svc := services.NewImportService(repo, publisher, *keep, logger)
	res, err := svc.Import(ctx, csvfile.New(*file))
	if err != nil {
		logger.Error("Import failed", log.FieldOperation, log.OpImport, log.FieldSource, *file, log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Snapshot imported",
		log.FieldOperation, log.OpImport,
		log.FieldImportID, res.Snapshot.ID,
		log.FieldRecords, res.Records,
		"pruned", res.Pruned,
		"announced", res.Announced)
	fmt.Printf("Imported %d rows as snapshot %s\n", res.Snapshot.Rows, res.Snapshot.ID)
}
