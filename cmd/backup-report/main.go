// Command backup-report writes the backup report for a span of days and
// exits. Without flags it covers today.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"temple/internal/cli"
	"temple/internal/core"
	applog "temple/internal/log"
	"temple/internal/render"
	"temple/internal/report"
	"temple/internal/services"
)

func main() {
	from := flag.String("from", "", "first day, YYYY-MM-DD")
	to := flag.String("to", "", "last day, YYYY-MM-DD (defaults to -from)")
	preset := flag.String("preset", "", "today, yesterday, last7 or last30")
	flag.Parse()

	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentBackup)
	loc, _ := cfg.Location()
	ctx := context.Background()

	rng, err := resolveRange(*preset, *from, *to, time.Now().In(loc), loc)
	if err != nil {
		logger.Error("Invalid range", applog.FieldError, err)
		os.Exit(2)
	}

	be := cli.OpenBackend(ctx, logger, cfg)
	defer be.Cleanup()

	engine, err := render.NewEngine(render.NewAssets(cfg.AssetsDir, logger), render.DefaultLetterhead(), logger)
	if err != nil {
		logger.Error("Failed to load document templates", applog.FieldError, err)
		os.Exit(1)
	}
	svc := services.NewBackupService(be.Store, render.WithTimeout(engine, cfg.RenderTimeout),
		cfg.BackupsDir, cfg.BackupXLSX, services.WithLogger(logger))

	res, err := svc.Generate(ctx, rng)
	if err != nil {
		logger.Error("Backup failed", applog.FieldError, err)
		os.Exit(1)
	}
	fmt.Println(res.Path)
	if res.SheetPath != "" {
		fmt.Println(res.SheetPath)
	}
	logger.Info("Backup written",
		applog.FieldFrom, rng.From.String(),
		applog.FieldTo, rng.To.String(),
		applog.FieldCount, res.Summary.Count,
		"total", core.FormatAmount(res.Summary.Total))
}

func resolveRange(preset, from, to string, now time.Time, loc *time.Location) (core.DateRange, error) {
	if preset != "" {
		p, err := report.ParsePreset(preset)
		if err != nil {
			return core.DateRange{}, err
		}
		return p.Resolve(now)
	}
	if from == "" {
		return report.Today.Resolve(now)
	}
	start, err := core.ParseDate(from, loc)
	if err != nil {
		return core.DateRange{}, err
	}
	end := start
	if to != "" {
		if end, err = core.ParseDate(to, loc); err != nil {
			return core.DateRange{}, err
		}
	}
	rng := core.DateRange{From: start, To: end}
	return rng, rng.Validate()
}
