package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes 创建所有集合的索引
// 统一入口，在应用启动时调用
func EnsureIndexes(db *mongo.Database) error {
	ctx := context.Background()

	// sessions 集合索引
	sessionColl := db.Collection("sessions")
	sessionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_created"),
		},
	}
	if err := createIndexes(ctx, sessionColl, sessionIndexes); err != nil {
		return err
	}

	// messages 集合索引
	// 单会话消息按时间有序读取依赖这个复合索引
	messageColl := db.Collection("messages")
	messageIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "session_id", Value: 1}, bson.E{Key: "timestamp", Value: 1}},
			Options: options.Index().SetName("idx_session_timestamp"),
		},
	}
	if err := createIndexes(ctx, messageColl, messageIndexes); err != nil {
		return err
	}

	// interactions 集合索引
	interactionColl := db.Collection("interactions")
	interactionIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{bson.E{Key: "session_id", Value: 1}, bson.E{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_session_timestamp"),
		},
	}
	return createIndexes(ctx, interactionColl, interactionIndexes)
}

// createIndexes 辅助函数：创建索引
func createIndexes(ctx context.Context, coll *mongo.Collection, indexes []mongo.IndexModel) error {
	if len(indexes) == 0 {
		return nil
	}
	_, err := coll.Indexes().CreateMany(ctx, indexes)
	return err
}
