package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/quizkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/quizkeeper/internal/client/cli"
	"github.com/dmitrijs2005/quizkeeper/internal/client/config"
	"github.com/dmitrijs2005/quizkeeper/internal/client/generator"
	"github.com/dmitrijs2005/quizkeeper/internal/client/repositories/records"
	"github.com/dmitrijs2005/quizkeeper/internal/client/services"
	"github.com/dmitrijs2005/quizkeeper/internal/cryptox"
	"github.com/dmitrijs2005/quizkeeper/internal/filex"
	"github.com/dmitrijs2005/quizkeeper/internal/logging"
)

const memoryDSN = ":memory:"

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()

	logger := logging.NewLogger(os.Stderr, cfg.LogLevel)
	logger.Debug(ctx, "configuration loaded", "config", cfg.String())

	repo, closeRepo, err := openRepository(ctx, cfg.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	cipher := cryptox.NewCipher(cryptox.WithIterations(cfg.KDFIterations))
	vault := services.NewVaultService(repo, cipher, logger,
		services.WithSaveDelay(cfg.SaveDelay),
		services.WithSaveObserver(cli.SaveReporter(os.Stdout)),
	)

	gen := generator.NewOpenAIClient(cfg.RetryAttempts, logger)
	defer gen.Close()

	app := cli.NewApp(vault, services.NewQuizService(vault, gen, logger), logger, os.Stdin, os.Stdout)
	app.Run(ctx)
}

func openRepository(ctx context.Context, dsn string) (records.Repository, func(), error) {
	if dsn == memoryDSN {
		return records.NewMemoryRepository(), func() {}, nil
	}
	if _, err := filex.EnsureParentDir(dsn); err != nil {
		return nil, nil, err
	}
	db, err := records.Open(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return records.NewSQLiteRepository(db), func() { _ = db.Close() }, nil
}
