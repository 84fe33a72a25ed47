// Package logger builds the *slog.Logger shared by the cache, the
// invalidator and the feedcache command.
//
// Cache failures are absorbed by the read path and only ever surface as
// warn-level records, so the logger is the main window into store health.
//
// # Configuration
//
// [Config] carries LOG_LEVEL and LOG_FORMAT env tags:
//
//	var cfg logger.Config
//	if err := env.Parse(&cfg); err != nil {
//		return err
//	}
//	log := logger.New(cfg.Options()...)
//
// # Context Attributes
//
// [ContextWithAttrs] attaches attributes to a context; every record logged
// with that context carries them. The invalidator tags its context with the
// mutation kind, so the per-pattern records emitted by the cache observer
// show which write triggered them:
//
//	ctx = logger.ContextWithAttrs(ctx, slog.String("mutation", "like_toggled"))
//	log.WarnContext(ctx, "cache invalidate failed", slog.String("pattern", p))
//	// {"level":"WARN","msg":"cache invalidate failed","pattern":"...","mutation":"like_toggled"}
//
// A [ContextExtractor] does the same for values already stored in the
// context by other code, such as a request ID:
//
//	log := logger.New(logger.WithExtractors(requestIDExtractor))
//
// [NewContextHandler] applies both to any slog.Handler.
//
// # Sentry Integration
//
// [NewWithSentry] sends warn and error records to Sentry as well as the
// local handler; errors become issues. With an empty SENTRY_DSN, or if
// initialization fails, it logs locally only:
//
//	log := logger.NewWithSentry(logger.SentryConfig{
//		DSN:         os.Getenv("SENTRY_DSN"),
//		Environment: "production",
//	}, cfg.Options()...)
//
// [NewNope] discards everything and is the default wherever a logger is
// optional.
package logger
