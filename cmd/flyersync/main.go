// Command flyersync scrapes the weekly catalogs of the configured markets,
// publishes their pages and keeps the catalog documents up to date.
//
//	flyersync run [-market lidl] [-force]
//	flyersync list [-json]
//	flyersync purge -market lidl [-lang de]
//	flyersync seed -file brochures.json
//	flyersync export -file brochures.json
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"flyersync/internal/app"
	"flyersync/internal/config"
	perr "flyersync/internal/platform/errors"
	"flyersync/internal/platform/logger"
	"flyersync/internal/report"
)

func usage() {
	fmt.Fprintln(os.Stderr, "usage: flyersync <run|list|purge|seed|export> [flags]")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	cmd, args := os.Args[1], os.Args[2:]

	l := logger.Get()
	defer func() { _ = logger.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "run":
		err = runCmd(ctx, args)
	case "list":
		err = listCmd(ctx, args)
	case "purge":
		err = purgeCmd(ctx, args)
	case "seed":
		err = seedCmd(ctx, args)
	case "export":
		err = exportCmd(ctx, args)
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		l.Error().Err(err).Str("command", cmd).Str("code", perr.CodeOf(err).String()).Msg("command failed")
		stop()
		os.Exit(1)
	}
}

func open(ctx context.Context, force bool) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	cfg.Force = cfg.Force || force
	return app.New(ctx, cfg)
}

func runCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	market := fs.String("market", "", "only process this market")
	force := fs.Bool("force", false, "reprocess even when validities are unchanged")
	asJSON := fs.Bool("json", false, "print the run report as JSON")
	_ = fs.Parse(args)

	a, err := open(ctx, *force)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	rep, err := a.Run(ctx, *market)
	if err != nil {
		return err
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return report.WriteOutcomes(os.Stdout, rep)
}

func listCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	asJSON := fs.Bool("json", false, "print records as JSON")
	_ = fs.Parse(args)

	a, err := open(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	recs, err := a.Store.List(ctx)
	if err != nil {
		return err
	}
	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}
	return report.WriteRecords(os.Stdout, recs)
}

func purgeCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purge", flag.ExitOnError)
	market := fs.String("market", "", "market whose records are deleted (required)")
	lang := fs.String("lang", "", "restrict to one language")
	_ = fs.Parse(args)
	if *market == "" {
		return perr.InvalidArgf("purge needs -market")
	}

	a, err := open(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	n, err := a.Store.DeleteBy(ctx, *market, *lang)
	if err != nil {
		return err
	}
	logger.Get().Info().Str("market", *market).Str("language", *lang).Int("deleted", n).Msg("records purged")
	return nil
}

func seedCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	file := fs.String("file", "brochures.json", "JSON array of catalog records")
	_ = fs.Parse(args)

	recs, err := app.LoadRecords(*file)
	if err != nil {
		return err
	}
	a, err := open(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	n, err := app.Seed(ctx, a.Store, recs)
	logger.Get().Info().Str("file", *file).Int("inserted", n).Int("total", len(recs)).Msg("seed finished")
	return err
}

func exportCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	file := fs.String("file", "brochures.json", "output file")
	_ = fs.Parse(args)

	a, err := open(ctx, false)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	recs, err := a.Store.List(ctx)
	if err != nil {
		return err
	}
	if err := app.SaveRecords(*file, recs); err != nil {
		return err
	}
	logger.Get().Info().Str("file", *file).Int("records", len(recs)).Msg("records exported")
	return nil
}
