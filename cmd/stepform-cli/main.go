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

	"github.com/goliatone/go-stepform/internal/config"
	"github.com/goliatone/go-stepform/pkg/binding"
	"github.com/goliatone/go-stepform/pkg/definition"
	"github.com/goliatone/go-stepform/pkg/forms/seller"
	"github.com/goliatone/go-stepform/pkg/persist"
	"github.com/goliatone/go-stepform/pkg/renderers/tui"
	"github.com/goliatone/go-stepform/pkg/stepper"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	defPath := flag.String("definition", cfg.Definition.Path, "form definition file (built-in seller form if empty)")
	backend := flag.String("store", cfg.Store.Backend, "draft store: memory, file or redis")
	dir := flag.String("dir", cfg.Store.Dir, "draft directory for the file store")
	redisURL := flag.String("redis-url", cfg.Store.RedisURL, "redis URL for the redis store")
	key := flag.String("key", cfg.Store.Key, "draft key to resume (new key if empty)")
	user := flag.String("user", cfg.Session.User, "display name used when signing in")
	format := flag.String("format", cfg.Output.Format, "output format: json or pretty")
	level := flag.String("log-level", cfg.Log.Level, "log level: debug, info, warn or error")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	cfg.Definition.Path = *defPath
	cfg.Store.Backend = *backend
	cfg.Store.Dir = *dir
	cfg.Store.RedisURL = *redisURL
	cfg.Store.Key = *key
	cfg.Session.User = *user
	cfg.Output.Format = *format
	cfg.Log.Level = *level
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logLevel, _ := cfg.Log.SlogLevel()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	compiled, err := compile(cfg.Definition.Path)
	if err != nil {
		log.Fatalf("Failed to compile form: %v", err)
	}

	store, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to open draft store: %v", err)
	}

	draftKey := cfg.Store.Key
	if draftKey == "" {
		draftKey = persist.NewKey()
	}
	recorder := persist.NewRecorder(store, draftKey, persist.WithRecorderLogger(logger))
	resume, found, err := recorder.Restore(ctx)
	if err != nil {
		log.Fatalf("Failed to restore draft %s: %v", draftKey, err)
	}
	if found {
		logger.Info("resuming draft", slog.String("key", draftKey))
	}

	opts := append(resume, recorder.Options()...)
	opts = append(opts, stepper.WithLogger(logger))
	engine, err := compiled.NewEngine(opts...)
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}
	recorder.Attach(engine)

	outputFormat, _ := tui.ParseOutputFormat(cfg.Output.Format)
	runner, err := tui.New(engine, compiled,
		tui.WithOutputFormat(outputFormat),
		tui.WithDisplayName(cfg.Session.User),
		tui.WithBindingOptions(binding.WithStrictSanitizer()),
		tui.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("Failed to start terminal session: %v", err)
	}

	fmt.Fprintf(os.Stderr, "Draft key: %s\n", draftKey)
	payload, err := runner.Run(ctx)
	if errors.Is(err, tui.ErrAborted) || errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Stopped. Resume with -key %s\n", draftKey)
		stop()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("Form session failed: %v", err)
	}

	if err := recorder.Clear(context.Background()); err != nil {
		logger.Warn("failed to clear draft", slog.String("key", draftKey), slog.Any("error", err))
	}

	if *output != "" {
		if err := os.WriteFile(*output, payload, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Submission written to %s\n", *output)
	} else {
		fmt.Println(string(payload))
	}
}

func compile(path string) (*definition.Compiled, error) {
	if path == "" {
		return seller.Compile()
	}
	def, err := definition.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return definition.Compile(def)
}

func openStore(ctx context.Context, cfg config.StoreConfig) (persist.Store, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return persist.NewFileStore(cfg.Dir)
	case config.BackendRedis:
		client, err := persist.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return persist.NewRedisStore(client, persist.WithTTL(cfg.TTL)), nil
	default:
		return persist.NewMemoryStore(), nil
	}
}
