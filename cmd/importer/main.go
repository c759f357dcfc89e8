package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"github.com/user/radiodex/internal/config"
	"github.com/user/radiodex/internal/logging"
	"github.com/user/radiodex/internal/model"
	"github.com/user/radiodex/internal/repository"
	"github.com/user/radiodex/internal/service"
	"github.com/user/radiodex/internal/utils"
	"gorm.io/gorm/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logging.Init(cfg.LogLevel, "console")

	app := &cli.Command{
		Name:  "radiodex-import",
		Usage: "Import the radio station catalog from a CSV file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "csv",
				Aliases:  []string{"f"},
				Usage:    "Path or http(s) URL of the stations CSV",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Clear stations, tags and their dependent rows before importing (users are kept)",
			},
			&cli.StringFlag{
				Name:  "driver",
				Usage: "Database driver (postgres or sqlite), defaults to DB_DRIVER",
				Value: cfg.DBDriver,
			},
			&cli.StringFlag{
				Name:  "dsn",
				Usage: "Database DSN or sqlite path, defaults to the configured database",
				Value: cfg.DatabaseURL,
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Stations per insert batch",
				Value: 200,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runImport(ctx, cmd)
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("import failed")
	}
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	db, err := repository.InitDB(cmd.String("driver"), cmd.String("dsn"), logger.Warn)
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := repository.Migrate(db); err != nil {
		return fmt.Errorf("数据库迁移失败: %w", err)
	}

	src, err := openSource(ctx, cmd.String("csv"))
	if err != nil {
		return err
	}
	defer src.Close()

	start := time.Now()
	res, err := service.NewStationImporter(db).Import(ctx, src, service.ImportOptions{
		Reset:     cmd.Bool("reset"),
		BatchSize: int(cmd.Int("batch-size")),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Imported %d stations (%d skipped) in %s\n", res.Stations, res.Skipped, time.Since(start).Round(time.Millisecond))
	for _, name := range model.TagCategoryNames() {
		fmt.Printf("  %-12s %d tags\n", name, res.Tags[name])
	}

	total, err := repository.NewStationRepository(db).Count()
	if err != nil {
		return fmt.Errorf("统计电台数量失败: %w", err)
	}
	fmt.Printf("Catalog now holds %d stations\n", total)
	fmt.Println("Send SIGHUP to a running server to drop its cached similar stations and tag lists")
	return nil
}

// openSource 本地文件或远程 URL
func openSource(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return utils.NewHTTPClient(2*time.Minute).Open(ctx, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开 CSV 文件: %w", err)
	}
	return f, nil
}
