// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a ping.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(appCfg.MongoURI))
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		CommuneMongoClient:   client,
		CommuneMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the unique indexes the stores rely on: one account
// per email, at most one membership per (user, org), and one label per
// (org, folded name).
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.CommuneMongoDatabase

	indexes := []struct {
		collection string
		model      mongo.IndexModel
	}{
		{
			collection: "users",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email"),
			},
		},
		{
			collection: "memberships",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "org_id", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_user_org"),
			},
		},
		{
			collection: "memberships",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "org_id", Value: 1}},
				Options: options.Index().SetName("org_members"),
			},
		},
		{
			collection: "labels",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "org_id", Value: 1}, {Key: "name_ci", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_org_label"),
			},
		},
		{
			collection: "chatrooms",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "org_id", Value: 1}},
				Options: options.Index().SetName("org_chatrooms"),
			},
		},
		{
			collection: "messages",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "chatroom_id", Value: 1}, {Key: "created_at", Value: 1}},
				Options: options.Index().SetName("chatroom_history"),
			},
		},
		{
			collection: "contacts",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "org_id", Value: 1}},
				Options: options.Index().SetName("org_contacts"),
			},
		},
		{
			collection: "tasks",
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "org_id", Value: 1}},
				Options: options.Index().SetName("org_tasks"),
			},
		},
	}

	for _, idx := range indexes {
		if _, err := db.Collection(idx.collection).Indexes().CreateOne(ctx, idx.model); err != nil {
			return fmt.Errorf("create index on %s: %w", idx.collection, err)
		}
	}

	logger.Info("schema ensured", zap.Int("indexes", len(indexes)))
	return nil
}
