// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mongo provides the managed MongoDB client behind the default donor
store backend (STORE_DRIVER=mongo).

Core Responsibilities:

  - Lifecycle: the client is connected once at startup and disconnected once
    at shutdown by cmd/api.
  - Invariants: unique indexes on donors.email and donors.username are created
    at boot, so duplicate signups racing past the pre-check are still rejected.
*/
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/itve/donorapi/internal/platform/constants"
)

// Client settings for a small CRUD workload.
const (
	maxPoolSize            = 20
	minPoolSize            = 2
	connectTimeout         = 5 * time.Second
	serverSelectionTimeout = 5 * time.Second
	pingTimeout            = 2 * time.Second
)

// Store bundles a connected client with the application database.
type Store struct {
	client   *mongo.Client
	database *mongo.Database
	logger   *slog.Logger
}

// Connect parses a MongoDB URL, connects, pings and returns a ready-to-use store.
//
// # Parameters
//   - ctx: Context for the initial ping.
//   - mongoURL: MongoDB connection string.
//   - databaseName: Name of the application database.
//   - logger: Structured logger for connection events.
func Connect(ctx context.Context, mongoURL, databaseName string, logger *slog.Logger) (*Store, error) {
	clientOptions := options.Client().
		ApplyURI(mongoURL).
		SetAppName(constants.AppName).
		SetMaxPoolSize(maxPoolSize).
		SetMinPoolSize(minPoolSize).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelectionTimeout)

	client, err := mongo.Connect(clientOptions)
	if err != nil {
		return nil, fmt.Errorf("mongo: invalid client options: %w", err)
	}

	store := &Store{client: client, database: client.Database(databaseName), logger: logger}

	// Validate connectivity immediately at startup.
	if err := store.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info("mongo_client_connected",
		slog.String("database", databaseName),
		slog.Int("max_pool_size", maxPoolSize),
	)

	return store, nil
}

// Database returns the application database handle.
func (store *Store) Database() *mongo.Database {
	return store.database
}

// Collection returns a handle to the named collection.
func (store *Store) Collection(name string) *mongo.Collection {
	return store.database.Collection(name)
}

// Ping verifies that the primary is reachable.
func (store *Store) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := store.client.Ping(pingCtx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo: ping failed: %w", err)
	}

	return nil
}

// Close disconnects the client and drains its pool.
func (store *Store) Close(ctx context.Context) error {
	if err := store.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo: disconnect failed: %w", err)
	}
	return nil
}

// EnsureIndexes creates the unique indexes the donor collection relies on.
// Creating an index that already exists with the same definition is a no-op.
func (store *Store) EnsureIndexes(ctx context.Context) error {
	models := DonorIndexes()

	names, err := store.Collection(constants.CollectionDonors).Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("mongo: create donor indexes: %w", err)
	}

	store.logger.InfoContext(ctx, "mongo_indexes_ensured", slog.Any("indexes", names))
	return nil
}

// DonorIndexes lists the index definitions of the donors collection.
func DonorIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("donors_email_key").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("donors_username_key").SetUnique(true),
		},
	}
}
