package database

import (
	"context"
	"time"

	"nnact/config"
	"nnact/repository"

	"github.com/juju/errors"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// uniqueIndexes 与 MySQL 的 uniqueIndex 保持一致
var uniqueIndexes = map[string]string{
	repository.CollectionClients:     "email",
	repository.CollectionTechnicians: "email",
	repository.CollectionServices:    "serviceNumber",
	repository.CollectionUsers:       "phone",
}

// InitMongo 连接 MongoDB 并创建唯一索引
func InitMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Database.MongoURI))
	if err != nil {
		return nil, nil, errors.Annotate(err, "connect mongo")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, errors.Annotate(err, "ping mongo")
	}

	db := client.Database(cfg.Database.DBName)
	if err := EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, err
	}

	logrus.WithField("database", cfg.Database.DBName).Info("mongo ready")
	return client, db, nil
}

// EnsureIndexes 创建唯一索引和常用查询索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, field := range uniqueIndexes {
		_, err := db.Collection(coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return errors.Annotatef(err, "create unique index %s.%s", coll, field)
		}
	}

	secondary := []struct {
		coll  string
		field string
	}{
		{repository.CollectionExpenses, "expenseDate"},
		{repository.CollectionExpenses, "category"},
		{repository.CollectionServiceRequests, "preferredDate"},
		{repository.CollectionPayments, "paidAt"},
	}
	for _, idx := range secondary {
		_, err := db.Collection(idx.coll).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: idx.field, Value: 1}},
		})
		if err != nil {
			return errors.Annotatef(err, "create index %s.%s", idx.coll, idx.field)
		}
	}
	return nil
}
