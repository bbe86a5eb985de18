package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Rrens/fitness-coach/internal/domain"
)

// UserRepository implements domain.UserRepository
type UserRepository struct {
	coll *mongo.Collection
}

type userDocument struct {
	ID                  primitive.ObjectID `bson:"_id"`
	Email               string             `bson:"email"`
	PasswordHash        string             `bson:"password_hash"`
	Name                string             `bson:"name"`
	Age                 int                `bson:"age"`
	Weight              float64            `bson:"weight"`
	Height              float64            `bson:"height"`
	FitnessGoals        []string           `bson:"fitness_goals"`
	MedicalConditions   []string           `bson:"medical_conditions"`
	Injuries            []string           `bson:"injuries"`
	DietaryRestrictions []string           `bson:"dietary_restrictions"`
	CreatedAt           time.Time          `bson:"created_at"`
	LastLogin           time.Time          `bson:"last_login"`
}

// Create inserts a new user. The id is always assigned by the store.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	doc := userDocument{
		ID:                  primitive.NewObjectID(),
		Email:               user.Email,
		PasswordHash:        user.PasswordHash,
		Name:                user.Name,
		Age:                 user.Age,
		Weight:              user.Weight,
		Height:              user.Height,
		FitnessGoals:        make([]string, 0, len(user.FitnessGoals)),
		MedicalConditions:   nonNil(user.MedicalConditions),
		Injuries:            nonNil(user.Injuries),
		DietaryRestrictions: nonNil(user.DietaryRestrictions),
		CreatedAt:           user.CreatedAt.UTC(),
		LastLogin:           user.LastLogin.UTC(),
	}
	for _, g := range user.FitnessGoals {
		doc.FitnessGoals = append(doc.FitnessGoals, string(g))
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &domain.ConflictError{Resource: "User", Field: "email"}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = domain.UserID(doc.ID.Hex())
	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	oid, ok := objectID(id.String())
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("failed to check email: %w", err)
	}
	return n > 0, nil
}

// UpdateLastLogin records a successful login
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id domain.UserID, at time.Time) error {
	oid, ok := objectID(id.String())
	if !ok {
		return &domain.NotFoundError{Resource: "User", ID: id.String()}
	}

	res, err := r.coll.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"last_login": at.UTC()}})
	if err != nil {
		return fmt.Errorf("failed to update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return &domain.NotFoundError{Resource: "User", ID: id.String()}
	}
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var doc userDocument
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user := &domain.User{
		ID:                  domain.UserID(doc.ID.Hex()),
		Email:               doc.Email,
		PasswordHash:        doc.PasswordHash,
		Name:                doc.Name,
		Age:                 doc.Age,
		Weight:              doc.Weight,
		Height:              doc.Height,
		FitnessGoals:        make([]domain.FitnessGoal, 0, len(doc.FitnessGoals)),
		MedicalConditions:   nonNil(doc.MedicalConditions),
		Injuries:            nonNil(doc.Injuries),
		DietaryRestrictions: nonNil(doc.DietaryRestrictions),
		CreatedAt:           doc.CreatedAt.UTC(),
		LastLogin:           doc.LastLogin.UTC(),
	}
	for _, g := range doc.FitnessGoals {
		user.FitnessGoals = append(user.FitnessGoals, domain.FitnessGoal(g))
	}
	return user, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
