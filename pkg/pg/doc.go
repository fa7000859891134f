// Package pg provides utilities for interacting with PostgreSQL using the
// pgx/v5 driver. It offers a thin abstraction around connection pooling,
// health checks, and common error helpers so that applications can bootstrap
// a resilient database layer with only a few lines of code.
//
// The package purposefully keeps a very small API surface while relying on
// the battle-tested `pgx/v5` driver for connectivity, so that callers are
// never locked-in and can freely extend the behaviour where needed.
//
// # Architecture
//
// At its core the package exposes three cooperating building blocks:
//
//   • Config – a declarative struct whose fields are populated from
//     environment variables via github.com/caarlos0/env. It controls
//     connection pool limits and health-check cadence.
//
//   • Connect – opens a *pgxpool.Pool based on Config, retrying with
//     exponential back-off until the database becomes available.
//
//   • Healthcheck – wraps the pool's Ping in a closure compatible with
//     standard health-endpoint plumbing.
//
// # Usage
//
// Basic set-up using the default configuration:
//
//	package main
//
//	import (
// 	    "context"
//	    "github.com/dmitrymomot/accesskit/pkg/config"
//	    "github.com/dmitrymomot/accesskit/pkg/pg"
// 	)
//
// 	func main() {
// 	    var cfg pg.Config
// 	    config.MustLoad(&cfg)
//
// 	    ctx := context.Background()
// 	    pool, err := pg.Connect(ctx, cfg)
// 	    if err != nil {
// 	        panic(err)
// 	    }
// 	    defer pool.Close()
//
// 	    // expose health endpoint
// 	    health := pg.Healthcheck(pool)
// 	    if err := health(ctx); err != nil {
// 	        panic(err)
// 	    }
// 	}
//
// # Configuration
//
// All configuration values are provided through environment variables so that
// they can be tuned per-environment without code changes. Refer to the field
// tags in Config for exact variable names and defaults.
//
// # Error Handling
//
// Convenience helpers such as [pg.IsDuplicateKeyError] or
// [pg.IsForeignKeyViolationError] unwrap errors returned by pgx/
// `*pgconn.PgError` and make error classification trivial inside business
// logic.
package pg
