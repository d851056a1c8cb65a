// Command import-legacy copies users, poojas and receipts from the previous
// application's database into the configured store. Receipt ids are kept.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"temple/internal/cli"
	"temple/internal/importer"
	applog "temple/internal/log"
	"temple/internal/services"
)

func main() {
	from := flag.String("from", "", "path to the old temple.db")
	flag.Parse()

	cfg, logger := cli.LoadAndValidateConfig(applog.ComponentImporter)
	if *from == "" {
		fmt.Fprintln(os.Stderr, "usage: import-legacy -from <old temple.db>")
		os.Exit(2)
	}
	loc, _ := cfg.Location()
	ctx := context.Background()

	src, err := importer.OpenLegacy(*from)
	if err != nil {
		logger.Error("Failed to open legacy database", applog.FieldError, err)
		os.Exit(1)
	}
	defer src.Close()

	be := cli.OpenBackend(ctx, logger, cfg)
	defer be.Cleanup()

	auth := services.NewAuthService(be.Store, services.WithLogger(logger))
	rep, err := importer.New(src, be.Store, auth.HashPassword, loc, logger).Run(ctx)
	if err != nil {
		logger.Error("Legacy import failed", applog.FieldError, err)
		os.Exit(1)
	}
	fmt.Printf("imported %d users, %d poojas (%d prices updated), %d receipts; skipped %d rows\n",
		rep.Users, rep.Poojas, rep.PoojasUpdated, rep.Receipts, rep.Skipped)
}
