package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Oldmanrunning/HELOC/internal/config"
	"github.com/Oldmanrunning/HELOC/internal/server"
	"github.com/Oldmanrunning/HELOC/pkg/cache"
	"github.com/Oldmanrunning/HELOC/pkg/constants"
	"github.com/Oldmanrunning/HELOC/pkg/export"
	"github.com/Oldmanrunning/HELOC/pkg/heloc"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var zapConfig zap.Config
	switch format {
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}
		zapConfig.OutputPaths = []string{loggingConfig.OutputFile}
		zapConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return zapConfig.Build()
}

// buildCache wires the configured memoization backend; "none" disables
// memoization entirely.
func buildCache(conf *config.Configuration, logger *zap.Logger) (*cache.Memoizer, error) {
	if err := conf.ValidateCache(); err != nil {
		return nil, err
	}

	var backend cache.Cache
	switch conf.Cache.Backend {
	case config.CacheBackendNone:
		return nil, nil
	case config.CacheBackendMemory:
		backend = cache.NewMemory(conf.Cache.MaxEntries)
	case config.CacheBackendRedis:
		backend = cache.NewRedis(conf.Cache.RedisAddress, conf.Cache.RedisTTL())
	}
	return cache.NewMemoizer(backend, heloc.NewScheduleGenerator(logger), logger), nil
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, report")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	serve := flag.Bool("serve", false, "serve the HTTP API instead of running one calculation")
	flag.Parse()

	// Optional .env preload for deployments that inject settings that way.
	_ = godotenv.Load()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *outputFormatFlag != "" {
		conf.Output.Format = *outputFormatFlag
	}
	if err := conf.ValidateOutputFormat(); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	memoizer, err := buildCache(conf, logger)
	if err != nil {
		logger.Fatal("failed to configure cache",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if *serve {
		handler := server.NewHandler(logger, server.Options{
			Memoizer:     memoizer,
			MaxBodyBytes: conf.Server.MaxBodyBytes,
			Version:      version,
		})
		logger.Info("serving HELOC calculator API",
			zap.String("op", "main"),
			zap.String("address", conf.Server.Address),
		)
		if err := http.ListenAndServe(conf.Server.Address, handler); err != nil {
			logger.Fatal("server exited",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	runCalculation(conf, memoizer, logger)
}

func runCalculation(conf *config.Configuration, memoizer *cache.Memoizer, logger *zap.Logger) {
	terms, err := conf.Loan.Terms()
	if err != nil {
		logger.Fatal("invalid loan configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	draws := conf.Loan.DrawEvents()
	generator := heloc.NewScheduleGenerator(logger)
	asOf := time.Now()

	var schedule heloc.Schedule
	if memoizer != nil {
		schedule, err = memoizer.GenerateAsOf(context.Background(), terms, draws, asOf)
	} else {
		schedule, err = generator.GenerateAsOf(terms, draws, asOf)
	}
	if err != nil {
		logger.Fatal("failed to generate schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
	summary := heloc.Summarize(schedule)

	switch conf.Output.Format {
	case constants.OutputFormatPretty:
		export.Pretty(os.Stdout, terms, summary, schedule, asOf)
		if ltv := heloc.LoanToValue(terms.Principal, conf.Loan.ExistingLoan, conf.Loan.HomeValue); ltv > 0 {
			fmt.Printf("Loan-to-value: %.2f%%\n", ltv*100)
		}
		if total := conf.Loan.FeeSchedule().Total(); total > 0 {
			fmt.Printf("Total fees: %s\n", export.USD(total))
		}
		if conf.Loan.AltRatePct > 0 {
			comparison, err := generator.CompareAsOf(terms, conf.Loan.AltRatePct, draws, asOf)
			if err != nil {
				logger.Fatal("failed to compute comparison",
					zap.String("op", "main"),
					zap.Error(err),
				)
			}
			fmt.Printf("At %.2f%% APR: monthly %s (%+.2f), total interest %s (%+.2f)\n",
				conf.Loan.AltRatePct,
				export.USD(comparison.Alternative.MonthlyPayment), comparison.MonthlyPaymentDelta,
				export.USD(comparison.Alternative.TotalInterest), comparison.TotalInterestDelta)
		}
	case constants.OutputFormatCSV:
		body, err := export.CSV(schedule)
		if err != nil {
			logger.Fatal("failed to render CSV",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		fmt.Print(string(body))
	case constants.OutputFormatJSON:
		body, err := export.RecordsJSON(schedule)
		if err != nil {
			logger.Fatal("failed to render JSON",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		fmt.Println(string(body))
	case constants.OutputFormatReport:
		fmt.Print(export.ShortReport(terms, summary, asOf))
	}
}
