package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"sentinel/internal/model"
)

// InteractionRepo 问答分析记录仓库，只写不改
type InteractionRepo struct {
	collection *mongo.Collection
}

// NewInteractionRepo 创建分析记录仓库
func NewInteractionRepo(db *mongo.Database) *InteractionRepo {
	return &InteractionRepo{
		collection: db.Collection("interactions"),
	}
}

// Record 写入一条问答记录
func (r *InteractionRepo) Record(ctx context.Context, sessionID string, rec *model.Interaction) error {
	objectID, err := primitive.ObjectIDFromHex(sessionID)
	if err != nil {
		return err
	}

	rec.SessionID = objectID
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	_, err = r.collection.InsertOne(ctx, rec)
	return err
}
