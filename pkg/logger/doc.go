// Package logger provides a context-aware wrapper around Go's slog package
// adding functional options for configuration, helper attribute constructors,
// and transparent injection of values stored in context.Context.
//
// The package aims to standardise structured logging across services by
// exposing a single factory – New – that creates a *slog.Logger configured by
// a set of Option functions. These options allow you to:
//
//   • Select an output format (text or json)
//   • Set the minimum log level
//   • Supply default slog.Attr values applied to every record
//   • Register ContextExtractor callbacks that inject attributes pulled from a
//     context value (for example the authenticated user) every time Handle is
//     invoked.
//
// # Architecture
//
// Logger builds a decorated slog.Handler. First, New determines the concrete
// slog.Handler implementation – slog.NewTextHandler or slog.NewJSONHandler –
// based on the configured Format. It then wraps the handler with an internal
// context handler which is responsible for executing any registered
// ContextExtractor callbacks before delegating to the underlying handler.
//
// Helper constructors such as Group, Error, UserID, Permission or Decision
// live in attr.go and return commonly-used slog.Attr instances to keep
// attribute naming consistent across access-control logs.
//
// # Usage
//
//	import "github.com/dmitrymomot/accesskit/pkg/logger"
//
//	func main() {
//	    log := logger.New(
//	        logger.WithEnvironment(os.Getenv("APP_ENV"), "admin-api"),
//	        logger.WithContextExtractors(authz.LoggerExtractor()),
//	    )
//	    logger.SetAsDefault(log)
//
//	    log.InfoContext(ctx, "permission check",
//	        logger.Permission("content.update"),
//	        logger.Decision(allowed),
//	    )
//	}
//
// # Configuration
//
// The behaviour of New can be tuned with a variety of Option helpers:
//
//   • WithDevelopment / WithStaging / WithProduction – sensible defaults per environment.
//   • WithEnvironment – pick a preset from a raw APP_ENV value.
//   • WithFormat / WithTextFormatter / WithJSONFormatter – override output format.
//   • WithLevel – set a custom slog.Level.
//   • WithAttr – attach static attributes.
//   • WithContextExtractors / WithContextValue – inject attributes from context.
//
// # Error Handling
//
// Helper functions Error and Errors produce attributes only when the supplied
// error value is non-nil allowing calls like:
//
//	log.Info("operation succeeded", logger.Error(err))
//
// without an additional nil check.
package logger
