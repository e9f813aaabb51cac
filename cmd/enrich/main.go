package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/schollz/progressbar/v3"

	"github.com/ignite/email-enrich/internal/bedrock"
	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/datanorm"
	"github.com/ignite/email-enrich/internal/domain"
	"github.com/ignite/email-enrich/internal/enrich"
	"github.com/ignite/email-enrich/internal/hunter"
	"github.com/ignite/email-enrich/internal/neverbounce"
	"github.com/ignite/email-enrich/internal/pattern"
	"github.com/ignite/email-enrich/internal/pkg/distlock"
	"github.com/ignite/email-enrich/internal/pkg/logger"
	"github.com/ignite/email-enrich/internal/pkg/ratelimit"
	"github.com/ignite/email-enrich/internal/signalhire"
	"github.com/ignite/email-enrich/internal/storage"
	"github.com/ignite/email-enrich/internal/verify"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		handleRun(os.Args[2:])
	case "seed":
		handleSeed(os.Args[2:])
	case "reports":
		handleReports(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`enrich — contact email inference and verification

Usage:
  enrich <command> [flags]

Commands:
  run  --input <contacts.csv>      Enrich a contact file
       [--config <path>]           Config file (default: config.yaml)
       [--known <emails.csv>]      Seed patterns from known addresses first

  seed --known <emails.csv>        Seed the pattern cache and exit
       [--config <path>]

  reports [--limit <n>]            Show recent run reports
       [--config <path>]

Environment:
  HUNTER_API_KEY       Hunter domain-search API key
  NEVERBOUNCE_API_KEY  NeverBounce verification API key
  SIGNALHIRE_API_KEY   SignalHire email-finder API key
  REDIS_URL            Shared Redis for rate budgets, locks and verdicts
  LOG_LEVEL            debug | info | warn | error`)
}

func handleRun(args []string) {
	input := flagValue(args, "--input")
	if input == "" {
		fatal("--input is required")
	}

	cfg := loadConfig(args)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := storage.New(cfg.Storage)
	if err != nil {
		fatal("initializing storage: %v", err)
	}

	cachePath := cfg.Enrich.PatternCachePath
	if applied, err := store.RestorePatternSnapshot(ctx, cachePath); err != nil {
		logger.Warn("pattern_snapshot_restore_failed", "error", err.Error())
	} else if applied {
		logger.Info("pattern_snapshot_restored", "path", cachePath)
	}

	patternCache := pattern.NewCache(cachePath)
	if err := patternCache.Hydrate(); err != nil {
		logger.Warn("pattern_cache_hydrate_failed", "error", err.Error())
	}

	if knownPath := flagValue(args, "--known"); knownPath != "" {
		n, err := seedFromKnown(patternCache, knownPath)
		if err != nil {
			fatal("seeding from %s: %v", knownPath, err)
		}
		fmt.Printf("Seeded %d domain patterns from %s\n", n, knownPath)
	}

	table, err := datanorm.Read(input)
	if err != nil {
		fatal("reading contacts: %v", err)
	}
	if dropped := table.Dedupe(); dropped > 0 {
		fmt.Printf("Dropped %d duplicate contacts\n", dropped)
	}
	contacts := table.Contacts()
	if len(contacts) == 0 {
		fatal("no contact rows in %s", input)
	}

	// Shared Redis backs the rate budget, the verdict cache and the
	// per-domain lookup locks when configured.
	var rdb *redis.Client
	if cfg.Redis.Enabled && cfg.Redis.URL != "" {
		opts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			fatal("parsing redis url: %v", err)
		}
		rdb = redis.NewClient(opts)
		defer rdb.Close()
	}

	var verifier enrich.Verifier = verify.Disabled{}
	if cfg.NeverBounce.Enabled {
		// Verdict cache: shared Redis first, then the DynamoDB ledger,
		// then per-run memory.
		var verifyCache verify.Cache = verify.NewMemoryCache()
		if rdb != nil {
			verifyCache = verify.NewRedisCache(rdb, 0)
		} else if ledger := store.VerificationLedger(); ledger != nil {
			verifyCache = ledger
		}

		var pacer ratelimit.Pacer = ratelimit.NewLocal(cfg.NeverBounce.RatePerMinute)
		if rdb != nil {
			pacer = ratelimit.NewRedis(rdb, "neverbounce", cfg.NeverBounce.RatePerMinute)
		}

		verifier = verify.NewService(neverbounce.NewClient(cfg.NeverBounce), verifyCache, verify.Options{
			Timeout:     cfg.NeverBounce.Timeout(),
			BaseDelay:   cfg.NeverBounce.BaseDelay(),
			MaxBackoff:  cfg.NeverBounce.MaxBackoff(),
			StrictValid: cfg.NeverBounce.StrictValid,
			Pacer:       pacer,
		})
	} else {
		logger.Warn("verification_disabled", "reason", "no NeverBounce API key")
	}

	var lookup pattern.LookupProvider
	if cfg.Hunter.Enabled {
		lookup = hunter.NewClient(cfg.Hunter)
	}
	engine := pattern.NewEngine(patternCache, lookup, cfg.Hunter.MinConfidence)
	if rdb != nil {
		lockTTL := cfg.Enrich.LockTTL()
		engine.Locker = func(dom string) distlock.DistLock {
			return distlock.NewDomainLock(rdb, dom, lockTTL)
		}
	}

	runOpts := enrich.Options{
		VerifyExisting: cfg.Enrich.VerifyExistingEmail,
		FlushEvery:     cfg.Enrich.FlushEvery,
		Pace:           cfg.Enrich.Pace(),
	}
	if cfg.SignalHire.Enabled {
		runOpts.Finder = signalhire.NewClient(cfg.SignalHire)
	}
	if cfg.Bedrock.Enabled {
		repairer, err := bedrock.NewNameRepairer(ctx, cfg.Bedrock)
		if err != nil {
			logger.Warn("bedrock_unavailable", "error", err.Error())
		} else {
			runOpts.Repairer = repairer
		}
	}

	bar := progressbar.NewOptions(len(contacts),
		progressbar.OptionSetDescription("Enriching contacts"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() { fmt.Println() }),
	)
	runOpts.Progress = func(done, total int) { _ = bar.Set(done) }

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		fmt.Fprintln(os.Stderr, "\nInterrupted, finishing the current contact...")
		cancel()
	}()

	orch := enrich.NewOrchestrator(engine, verifier, enrich.NewGenerator(cfg.Enrich.MaxCandidates), patternCache, runOpts)
	outcomes, stats := orch.Run(ctx, contacts)

	outPath, err := datanorm.WriteEnriched(table, outcomes, input)
	if err != nil {
		fatal("writing output: %v", err)
	}

	// The run context may already be canceled; persistence still runs.
	saveCtx := context.Background()
	report := storage.RunReport{
		RunStats:   *stats,
		InputFile:  filepath.Base(input),
		OutputFile: filepath.Base(outPath),
	}
	if err := store.SaveRunReport(saveCtx, report); err != nil {
		logger.Warn("run_report_save_failed", "error", err.Error())
	}
	if _, err := os.Stat(cachePath); err == nil {
		if err := store.SavePatternSnapshot(saveCtx, cachePath); err != nil {
			logger.Warn("pattern_snapshot_save_failed", "error", err.Error())
		}
	}

	printSummary(stats, outPath)
}

func handleSeed(args []string) {
	knownPath := flagValue(args, "--known")
	if knownPath == "" {
		fatal("--known is required")
	}

	cfg := loadConfig(args)

	patternCache := pattern.NewCache(cfg.Enrich.PatternCachePath)
	if err := patternCache.Hydrate(); err != nil {
		logger.Warn("pattern_cache_hydrate_failed", "error", err.Error())
	}

	n, err := seedFromKnown(patternCache, knownPath)
	if err != nil {
		fatal("seeding from %s: %v", knownPath, err)
	}
	if err := patternCache.Flush(); err != nil {
		fatal("flushing pattern cache: %v", err)
	}

	fmt.Printf("Seeded %d domain patterns into %s (%d total)\n",
		n, cfg.Enrich.PatternCachePath, patternCache.Len())
}

func handleReports(args []string) {
	cfg := loadConfig(args)

	limit := 10
	if v := flagValue(args, "--limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			fatal("--limit must be a positive number")
		}
		limit = n
	}

	store, err := storage.New(cfg.Storage)
	if err != nil {
		fatal("initializing storage: %v", err)
	}

	reports := store.RecentReports(limit)
	if len(reports) == 0 {
		fmt.Println("No run reports found")
		return
	}

	fmt.Println("=========================================================")
	fmt.Println(" RECENT ENRICHMENT RUNS")
	fmt.Println("=========================================================")
	for _, r := range reports {
		fmt.Printf("  %s  %s\n", r.StartedAt.Format("2006-01-02 15:04"), r.RunID)
		fmt.Printf("      input=%s output=%s\n", r.InputFile, r.OutputFile)
		fmt.Printf("      total=%d verified=%d unverified=%d missing_name=%d failed=%d review=%d\n",
			r.Total, r.Verified, r.Unverified, r.MissingName, r.Failed, r.NeedsReview)
	}
	fmt.Println("=========================================================")
}

func loadConfig(args []string) *config.Config {
	cfgPath := flagValue(args, "--config")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadFromEnv(cfgPath)
	if err != nil {
		fatal("loading config: %v", err)
	}

	logger.SetLevel(logger.ParseLevel(cfg.Logging.Level))
	logger.SetRedactPII(!cfg.Logging.LogRawPII)
	return cfg
}

func seedFromKnown(cache *pattern.Cache, path string) (int, error) {
	table, err := datanorm.Read(path)
	if err != nil {
		return 0, err
	}

	records := pattern.DetectFromContacts(table.Contacts())
	for _, rec := range records {
		cache.Put(rec)
	}
	return len(records), nil
}

func printSummary(stats *enrich.RunStats, outPath string) {
	fmt.Println("=========================================================")
	fmt.Println(" ENRICHMENT REPORT")
	fmt.Println("=========================================================")
	fmt.Printf("  Run ID:        %s\n", stats.RunID)
	fmt.Printf("  Contacts:      %d\n", stats.Total)
	fmt.Printf("  Generated:     %d\n", stats.Generated)
	fmt.Printf("  Verified:      %d\n", stats.Verified)
	fmt.Printf("  Unverified:    %d\n", stats.Unverified)
	fmt.Printf("  Missing name:  %d\n", stats.MissingName)
	fmt.Printf("  Failed:        %d\n", stats.Failed)
	fmt.Printf("  Needs review:  %d\n", stats.NeedsReview)
	fmt.Printf("  Duration:      %.1fs\n", stats.DurationSeconds)
	if len(stats.PatternUsage) > 0 {
		fmt.Println("---------------------------------------------------------")
		fmt.Println("  Pattern usage:")
		for _, p := range domain.AllPatterns {
			if n := stats.PatternUsage[p]; n > 0 {
				fmt.Printf("    %-12s %d\n", p, n)
			}
		}
	}
	fmt.Println("---------------------------------------------------------")
	fmt.Printf("  Output: %s\n", outPath)
	fmt.Println("=========================================================")
}

func flagValue(args []string, name string) string {
	for i, a := range args {
		if a == name && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
