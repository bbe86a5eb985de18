package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	coll *mongo.Collection
}

type messageDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	UserID    string             `bson:"user_id"`
	Role      string             `bson:"role"`
	Content   string             `bson:"content"`
	Timestamp time.Time          `bson:"timestamp"`
}

// Create inserts a new message
func (r *MessageRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	doc := messageDocument{
		ID:        primitive.NewObjectID(),
		UserID:    m.UserID.String(),
		Role:      string(m.Role),
		Content:   m.Content,
		Timestamp: m.Timestamp.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	m.ID = doc.ID.Hex()
	return nil
}

// ListRecent retrieves the newest messages for a user
func (r *MessageRepository) ListRecent(ctx context.Context, userID domain.UserID, limit int) ([]domain.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"user_id": userID.String()}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []messageDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(docs))
	for _, doc := range docs {
		messages = append(messages, domain.ChatMessage{
			ID:        doc.ID.Hex(),
			UserID:    domain.UserID(doc.UserID),
			Role:      domain.MessageRole(doc.Role),
			Content:   doc.Content,
			Timestamp: doc.Timestamp.UTC(),
		})
	}
	return messages, nil
}
