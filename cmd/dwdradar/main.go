package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/joho/godotenv"
	"github.com/meigma/dwdradar"
	"github.com/meigma/dwdradar/store"
	"github.com/meigma/dwdradar/store/disk"
)

// timestampLayouts are the accepted forms for -timestamps, -start, and
// -end. Times without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

func main() {
	// .env is optional.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "fetch":
		runFetch(os.Args[2:])
	case "latest":
		runLatest(os.Args[2:])
	case "watch":
		runWatch(os.Args[2:])
	case "help", "-h", "-help", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `Usage: dwdradar <command> [flags]

Commands:
  fetch    download payloads for explicit timestamps or a time range
  latest   download the most recent payload to stdout or a file
  watch    poll for the most recent payload on an interval

Run "dwdradar <command> -h" for the flags of one command.

Environment (also read from .env): DWDRADAR_BASE_URL,
DWDRADAR_USER_AGENT, DWDRADAR_CACHE_DIR, DWDRADAR_OUT_DIR,
DWDRADAR_INTERVAL.
`)
}

type clientFlags struct {
	baseURL   string
	userAgent string
	cacheDir  string
	verbose   bool
}

func registerClientFlags(fs *flag.FlagSet, cfg *clientFlags) {
	fs.StringVar(&cfg.baseURL, "base-url", envDefault("DWDRADAR_BASE_URL", ""), "open-data server URL (empty = production server)")
	fs.StringVar(&cfg.userAgent, "user-agent", envDefault("DWDRADAR_USER_AGENT", "dwdradar-cli"), "User-Agent header for requests")
	fs.StringVar(&cfg.cacheDir, "cache-dir", envDefault("DWDRADAR_CACHE_DIR", ""), "disk cache directory (empty = in-memory caches)")
	fs.BoolVar(&cfg.verbose, "v", false, "enable debug logging")
}

type selectionFlags struct {
	product    string
	site       string
	format     string
	resolution string
	period     string
}

func registerSelectionFlags(fs *flag.FlagSet, cfg *selectionFlags) {
	fs.StringVar(&cfg.product, "product", "", "product code (rx, dx, sweep_vol_v, radolan_grid, ...)")
	fs.StringVar(&cfg.site, "site", "", "radar site code (site and sweep products)")
	fs.StringVar(&cfg.format, "format", "", "payload format: binary, bufr, hdf5")
	fs.StringVar(&cfg.resolution, "resolution", "", "grid resolution: 5_minutes, 15_minutes, hourly, daily")
	fs.StringVar(&cfg.period, "period", "", "grid period: historical, recent")
}

func runFetch(args []string) {
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	var client clientFlags
	var sel selectionFlags
	registerClientFlags(fs, &client)
	registerSelectionFlags(fs, &sel)
	timestamps := fs.String("timestamps", "", "comma-separated instants to fetch")
	start := fs.String("start", "", "range start")
	end := fs.String("end", "", "range end (inclusive)")
	step := fs.Duration("step", 0, "range step (default 24h)")
	outDir := fs.String("out", envDefault("DWDRADAR_OUT_DIR", "data"), "output directory")
	skipExisting := fs.Bool("skip-existing", false, "serve instants already on disk without downloading")
	_ = fs.Parse(args)

	logger := newLogger(client.verbose)

	payloads, err := disk.New(*outDir)
	if err != nil {
		log.Fatalf("open output dir: %v", err)
	}

	storeOpts := []dwdradar.Option{
		dwdradar.WithStore(payloads),
		dwdradar.WithWriteLocal(true),
	}
	if *skipExisting {
		storeOpts = append(storeOpts, dwdradar.WithPreferLocal(true))
	}

	c, err := buildClient(client, logger, storeOpts...)
	if err != nil {
		log.Fatalf("build client: %v", err)
	}

	reqOpts, err := timeOptions(*timestamps, *start, *end, *step)
	if err != nil {
		log.Fatal(err)
	}
	req, err := buildRequest(sel, reqOpts...)
	if err != nil {
		log.Fatalf("build request: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	begin := time.Now()
	fetched, failed := 0, 0
	var byteCount int64
	for result, err := range c.Collect(ctx, req) {
		if err != nil {
			logger.Error("collect failed", "error", err)
			failed++
			continue
		}
		logger.Info("payload stored",
			"timestamp", result.Timestamp.Format(time.RFC3339),
			"bytes", len(result.Payload),
		)
		byteCount += int64(len(result.Payload))
		fetched++
	}

	fmt.Printf("fetched=%d failed=%d bytes=%d elapsed=%s\n",
		fetched, failed, byteCount, time.Since(begin).Round(time.Millisecond))
	if fetched == 0 && failed > 0 {
		os.Exit(1)
	}
}

func runLatest(args []string) {
	fs := flag.NewFlagSet("latest", flag.ExitOnError)
	var client clientFlags
	var sel selectionFlags
	registerClientFlags(fs, &client)
	registerSelectionFlags(fs, &sel)
	outFile := fs.String("o", "-", "output file (\"-\" = stdout)")
	_ = fs.Parse(args)

	logger := newLogger(client.verbose)

	c, err := buildClient(client, logger)
	if err != nil {
		log.Fatalf("build client: %v", err)
	}
	req, err := buildRequest(sel, dwdradar.Latest())
	if err != nil {
		log.Fatalf("build request: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := c.Latest(ctx, req)
	if err != nil {
		log.Fatalf("fetch latest: %v", err)
	}

	logger.Info("latest payload",
		"timestamp", result.Timestamp.Format(time.RFC3339),
		"bytes", len(result.Payload),
	)
	if *outFile == "-" {
		if _, err := os.Stdout.Write(result.Payload); err != nil {
			log.Fatalf("write payload: %v", err)
		}
		return
	}
	if err := os.WriteFile(*outFile, result.Payload, 0o644); err != nil {
		log.Fatalf("write payload: %v", err)
	}
}

func runWatch(args []string) {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	var client clientFlags
	var sel selectionFlags
	registerClientFlags(fs, &client)
	registerSelectionFlags(fs, &sel)
	interval := fs.Duration("interval", envDuration("DWDRADAR_INTERVAL", 5*time.Minute), "poll interval")
	outDir := fs.String("out", envDefault("DWDRADAR_OUT_DIR", "data"), "output directory")
	_ = fs.Parse(args)

	logger := newLogger(client.verbose)

	if *interval <= 0 {
		log.Fatal("interval must be positive")
	}

	payloads, err := disk.New(*outDir)
	if err != nil {
		log.Fatalf("open output dir: %v", err)
	}
	c, err := buildClient(client, logger)
	if err != nil {
		log.Fatalf("build client: %v", err)
	}
	req, err := buildRequest(sel, dwdradar.Latest())
	if err != nil {
		log.Fatalf("build request: %v", err)
	}

	job := func() {
		ctx, cancel := context.WithTimeout(context.Background(), *interval)
		defer cancel()

		result, err := c.Latest(ctx, req)
		if err != nil {
			logger.Error("poll failed", "error", err)
			return
		}
		key := watchKey(sel, result.Timestamp)
		if err := payloads.Put(key, result.Payload); err != nil {
			logger.Error("store payload failed", "key", key.String(), "error", err)
			return
		}
		logger.Info("payload stored",
			"key", key.String(),
			"timestamp", result.Timestamp.Format(time.RFC3339),
			"bytes", len(result.Payload),
		)
	}

	logger.Info("watching", "product", sel.product, "interval", *interval, "out", *outDir)
	job()

	scheduler := gocron.NewScheduler(time.UTC)
	if _, err := scheduler.Every(*interval).Do(job); err != nil {
		log.Fatalf("schedule poll job: %v", err)
	}
	scheduler.StartAsync()
	defer scheduler.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logger.Info("shutting down")
}

// watchKey names a stored poll result. Grid payloads share the layout
// written by fetch; products without a resolution drop that level.
func watchKey(sel selectionFlags, ts time.Time) store.Key {
	return store.Key{
		Parameter:  sel.product,
		Resolution: sel.resolution,
		Entity:     fmt.Sprintf("%s_%s", sel.product, ts.UTC().Format("200601021504")),
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func buildClient(cfg clientFlags, logger *slog.Logger, extra ...dwdradar.Option) (*dwdradar.Client, error) {
	opts := []dwdradar.Option{dwdradar.WithLogger(logger)}
	if cfg.baseURL != "" {
		opts = append(opts, dwdradar.WithBaseURL(cfg.baseURL))
	}
	if cfg.userAgent != "" {
		opts = append(opts, dwdradar.WithUserAgent(cfg.userAgent))
	}
	if cfg.cacheDir != "" {
		opts = append(opts, dwdradar.WithCacheDir(cfg.cacheDir))
	}
	opts = append(opts, extra...)
	return dwdradar.NewClient(opts...)
}

func buildRequest(sel selectionFlags, opts ...dwdradar.RequestOption) (*dwdradar.Request, error) {
	if sel.product == "" {
		return nil, errors.New("-product is required")
	}
	if sel.site != "" {
		opts = append(opts, dwdradar.WithSite(dwdradar.Site(sel.site)))
	}
	if sel.format != "" {
		opts = append(opts, dwdradar.WithFormat(dwdradar.Format(sel.format)))
	}
	if sel.resolution != "" {
		opts = append(opts, dwdradar.WithResolution(dwdradar.Resolution(sel.resolution)))
	}
	if sel.period != "" {
		opts = append(opts, dwdradar.WithPeriod(dwdradar.Period(sel.period)))
	}
	return dwdradar.NewRequest(dwdradar.Product(sel.product), opts...)
}

func timeOptions(timestamps, start, end string, step time.Duration) ([]dwdradar.RequestOption, error) {
	var opts []dwdradar.RequestOption
	if timestamps != "" {
		ts, err := parseTimes(timestamps)
		if err != nil {
			return nil, err
		}
		opts = append(opts, dwdradar.WithTimestamps(ts...))
	}
	if start != "" || end != "" {
		from, err := parseTime(start)
		if err != nil {
			return nil, fmt.Errorf("-start: %w", err)
		}
		to, err := parseTime(end)
		if err != nil {
			return nil, fmt.Errorf("-end: %w", err)
		}
		opts = append(opts, dwdradar.WithRange(from, to))
	}
	if step > 0 {
		opts = append(opts, dwdradar.WithRangeStep(step))
	}
	return opts, nil
}

func parseTimes(csv string) ([]time.Time, error) {
	var out []time.Time
	for _, field := range strings.Split(csv, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		t, err := parseTime(field)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil, errors.New("-timestamps is empty")
	}
	return out, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
