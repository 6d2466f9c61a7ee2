package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"sentinel/internal/model"
)

// SessionRepo 会话仓库
type SessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo 创建会话仓库
func NewSessionRepo(db *mongo.Database) *SessionRepo {
	return &SessionRepo{
		collection: db.Collection("sessions"),
	}
}

// Create 创建会话
func (r *SessionRepo) Create(ctx context.Context, title string) (*model.Session, error) {
	if title == "" {
		title = "New Conversation"
	}

	session := &model.Session{
		Title:     title,
		CreatedAt: time.Now(),
	}

	result, err := r.collection.InsertOne(ctx, session)
	if err != nil {
		return nil, err
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid
	}
	return session, nil
}

// FindByID 根据 ID 查询
func (r *SessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var session model.Session
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&session)
	if err != nil {
		return nil, err
	}

	return &session, nil
}

// Rename 重命名会话标题，会话唯一允许的变更
func (r *SessionRepo) Rename(ctx context.Context, id, title string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.UpdateByID(ctx, objectID, bson.M{"$set": bson.M{"title": title}})
	return err
}
