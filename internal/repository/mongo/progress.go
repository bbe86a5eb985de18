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

// ProgressRepository implements domain.ProgressRepository
type ProgressRepository struct {
	coll *mongo.Collection
}

// Optional fields are omitted rather than stored as null.
type progressDocument struct {
	ID               primitive.ObjectID `bson:"_id"`
	UserID           string             `bson:"user_id"`
	Date             time.Time          `bson:"date"`
	Weight           *float64           `bson:"weight,omitempty"`
	CaloriesConsumed *int               `bson:"calories_consumed,omitempty"`
	CaloriesBurned   *int               `bson:"calories_burned,omitempty"`
	WorkoutDuration  *int               `bson:"workout_duration,omitempty"`
	Steps            *int               `bson:"steps,omitempty"`
	WaterIntake      *float64           `bson:"water_intake,omitempty"`
	SleepHours       *float64           `bson:"sleep_hours,omitempty"`
	Mood             *string            `bson:"mood,omitempty"`
	Notes            *string            `bson:"notes,omitempty"`
	CreatedAt        time.Time          `bson:"created_at"`
}

// Create inserts a progress entry
func (r *ProgressRepository) Create(ctx context.Context, p *domain.DailyProgress) error {
	doc := progressDocument{
		ID:               primitive.NewObjectID(),
		UserID:           p.UserID.String(),
		Date:             p.Date.UTC(),
		Weight:           p.Weight,
		CaloriesConsumed: p.CaloriesConsumed,
		CaloriesBurned:   p.CaloriesBurned,
		WorkoutDuration:  p.WorkoutDuration,
		Steps:            p.Steps,
		WaterIntake:      p.WaterIntake,
		SleepHours:       p.SleepHours,
		Mood:             p.Mood,
		Notes:            p.Notes,
		CreatedAt:        p.CreatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("failed to create progress: %w", err)
	}

	p.ID = doc.ID.Hex()
	return nil
}

// ListRange retrieves entries dated within [start, end], oldest first
func (r *ProgressRepository) ListRange(ctx context.Context, userID domain.UserID, start, end time.Time) ([]domain.DailyProgress, error) {
	filter := bson.M{
		"user_id": userID.String(),
		"date":    bson.M{"$gte": start.UTC(), "$lte": end.UTC()},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []progressDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode progress: %w", err)
	}

	entries := make([]domain.DailyProgress, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, domain.DailyProgress{
			ID:               doc.ID.Hex(),
			UserID:           domain.UserID(doc.UserID),
			Date:             doc.Date.UTC(),
			Weight:           doc.Weight,
			CaloriesConsumed: doc.CaloriesConsumed,
			CaloriesBurned:   doc.CaloriesBurned,
			WorkoutDuration:  doc.WorkoutDuration,
			Steps:            doc.Steps,
			WaterIntake:      doc.WaterIntake,
			SleepHours:       doc.SleepHours,
			Mood:             doc.Mood,
			Notes:            doc.Notes,
			CreatedAt:        doc.CreatedAt.UTC(),
		})
	}
	return entries, nil
}
