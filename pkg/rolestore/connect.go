package rolestore

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/accesskit/pkg/mongo"
	"github.com/dmitrymomot/accesskit/pkg/pg"
	"github.com/dmitrymomot/accesskit/pkg/redis"
)

// ConnectPostgres dials PostgreSQL with the connector's retry policy, ensures
// the authorization schema, and returns a ready store.
func ConnectPostgres(ctx context.Context, cfg pg.Config, opts ...PostgresOption) (*Postgres, error) {
	pool, err := pg.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("rolestore: connect postgres: %w", err)
	}
	store := NewPostgres(pool, opts...)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

// ConnectMongo dials MongoDB, ensures the unique indexes the adapter relies
// on, and returns a ready store.
func ConnectMongo(ctx context.Context, cfg mongo.Config, database string, opts ...MongoOption) (*Mongo, error) {
	db, err := mongo.NewWithDatabase(ctx, cfg, database)
	if err != nil {
		return nil, fmt.Errorf("rolestore: connect mongo: %w", err)
	}
	store := NewMongo(db, opts...)
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = db.Client().Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

// ConnectRedisProjections dials Redis and layers a shared projection cache
// over source. Use it when several instances must observe invalidations
// together; single-instance deployments are usually better served by
// NewCachedProjections.
func ConnectRedisProjections(ctx context.Context, cfg redis.Config, source ProjectionSource, opts ...RedisOption) (*RedisProjections, error) {
	client, err := redis.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("rolestore: connect redis: %w", err)
	}
	return NewRedisProjections(source, client, opts...), nil
}
