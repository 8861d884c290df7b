package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"

	"github.com/anyulbade/affiliate-analytics-dashboard/internal/analytics"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/cache"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/config"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/database"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/dto"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/importer"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/model"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/repository"
	"github.com/anyulbade/affiliate-analytics-dashboard/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the process exit code so deferred cleanup happens before exit.
func run(args []string) int {
	cfg := config.Load()

	fs := flag.NewFlagSet("importer", flag.ContinueOnError)
	kind := fs.String("kind", "", "what the file holds: transactions or payments")
	file := fs.String("file", "", "xlsx or csv file to import")
	dsn := fs.String("dsn", cfg.DatabaseURL(), "PostgreSQL connection URL")
	compute := fs.Bool("compute", false, "print totals and suspicious affiliates")
	migrate := fs.Bool("migrate", false, "apply migrations before importing")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	zerolog.DefaultContextLogger = &log.Logger

	if *file == "" && !*compute {
		fmt.Fprintln(os.Stderr, "usage: importer -kind transactions|payments -file PATH [-dsn URL] [-compute]")
		fmt.Fprintln(os.Stderr, "       importer -compute [-dsn URL]")
		return 2
	}
	if *file != "" && *kind != model.KindTransactions && *kind != model.KindPayments {
		log.Error().Str("kind", *kind).Msg("-kind must be transactions or payments")
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, *dsn)
	if err != nil {
		log.Error().Err(err).Msg("failed to connect to database")
		return 1
	}
	defer pool.Close()

	if *migrate {
		database.MigrationsDir = cfg.MigrationsDir
		if err := database.RunMigrations(*dsn); err != nil {
			log.Error().Err(err).Msg("failed to run migrations")
			return 1
		}
	}

	loc := cfg.Location()
	txnRepo := repository.NewTransactionRepository(pool, loc)
	paymentRepo := repository.NewPaymentRepository(pool)

	// Shares the server's cache so dashboards computed before the import are dropped.
	resultCache, err := cache.New(cache.Config{
		Backend:       cfg.CacheBackend,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		MaxEntries:    cfg.CacheMaxEntries,
	})
	if err != nil {
		log.Warn().Err(err).Msg("cache unavailable, cached dashboards expire on their own")
		resultCache = cache.Noop{}
	}
	defer resultCache.Close()

	analyticsSvc := service.NewAnalyticsService(txnRepo, paymentRepo, resultCache, cfg.CacheTTL, loc, nil)

	if *file != "" {
		importSvc := service.NewImportService(txnRepo, paymentRepo, repository.NewImportBatchRepository(pool), loc, analyticsSvc, nil)
		if err := runImport(ctx, importSvc, *kind, *file); err != nil {
			return 1
		}
	}

	if *compute {
		res, err := analyticsSvc.Compute(ctx, dto.Window{})
		if err != nil {
			log.Error().Err(err).Msg("compute failed")
			return 1
		}
		printResult(res)
	}
	return 0
}

func runImport(ctx context.Context, svc *service.ImportService, kind, path string) error {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Msg("open file")
		return err
	}
	defer f.Close()

	var bar *progressbar.ProgressBar
	progress := func(done, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total), "inserting "+kind)
		}
		_ = bar.Set(done)
	}

	run := svc.ImportTransactions
	if kind == model.KindPayments {
		run = svc.ImportPayments
	}

	ib, err := run(ctx, path, f, progress)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		var pe *importer.ParseError
		if errors.As(err, &pe) {
			for _, re := range pe.Errors {
				fmt.Fprintf(os.Stderr, "row %d\t%s\t%s\n", re.Row, re.Field, re.Message)
			}
		}
		log.Error().Err(err).Str("file", path).Msg("import failed")
		return err
	}

	fmt.Printf("batch %s: %d %s imported\n", ib.ID, ib.RowCount, ib.Kind)
	return nil
}

func printResult(res *analytics.Result) {
	t := res.Totals
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "customers\t%d\n", t.TotalCustomers)
	fmt.Fprintf(w, "affiliates\t%d\n", t.TotalAffiliates)
	fmt.Fprintf(w, "cac\t%s\n", t.CACTotal.StringFixed(2))
	fmt.Fprintf(w, "ltv\t%s\n", t.LTVTotal.StringFixed(2))
	fmt.Fprintf(w, "roi\t%s\n", t.ROI.StringFixed(4))
	fmt.Fprintf(w, "cohorts\t%d\n", len(res.Cohorts))
	w.Flush()

	if len(res.Suspicious) == 0 {
		fmt.Println("\nno suspicious affiliates")
		return
	}

	fmt.Println("\nsuspicious affiliates")
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AFFILIATE\tSCORE\tCUSTOMERS\tNGR\tROI\tSIGNALS")
	for _, a := range res.Suspicious {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\t%s\t%s\n",
			a.AfiliadosID, a.Score, a.Customers, a.NGRTotal.StringFixed(2), a.ROI.StringFixed(2),
			strings.Join(a.RiskFlags, ","))
	}
	w.Flush()
}
