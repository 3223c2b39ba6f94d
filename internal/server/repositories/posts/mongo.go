package posts

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/dmitrijs2005/tutorhub/internal/common"
	"github.com/dmitrijs2005/tutorhub/internal/server/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository stores each post as one document holding its interest
// list, so every mutation is a single-document atomic update.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// EnsureIndexes creates the listing indexes.
func (r *MongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "student", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create posts indexes: %w", err)
	}
	return nil
}

func (r *MongoRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	post.CreatedAt, post.UpdatedAt = now, now
	post.Status = models.StatusOpen
	post.InterestedTutors = []string{}
	post.SelectedTutor = nil

	if _, err := r.col.InsertOne(ctx, post); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	return post, nil
}

func (r *MongoRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	normalize(&p)
	return &p, nil
}

func containsFold(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func listFilter(f models.PostFilter) bson.M {
	filter := bson.M{}
	if f.Subject != "" {
		filter["subject"] = containsFold(f.Subject)
	}
	if f.Location != "" {
		filter["location"] = containsFold(f.Location)
	}
	if f.MinSalary != nil || f.MaxSalary != nil {
		salary := bson.M{}
		if f.MinSalary != nil {
			salary["$gte"] = *f.MinSalary
		}
		if f.MaxSalary != nil {
			salary["$lte"] = *f.MaxSalary
		}
		filter["salary"] = salary
	}
	if f.StudentID != "" {
		filter["student"] = f.StudentID
	}
	return filter
}

func (r *MongoRepository) List(ctx context.Context, f models.PostFilter) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cur, err := r.col.Find(ctx, listFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}

	result := []*models.Post{}
	if err := cur.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	for _, p := range result {
		normalize(p)
	}
	return result, nil
}

func (r *MongoRepository) findAndUpdate(ctx context.Context, filter, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var p models.Post
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		return nil, err
	}
	normalize(&p)
	return &p, nil
}

// explainMiss re-reads post id after a conditional write matched nothing.
func (r *MongoRepository) explainMiss(ctx context.Context, err error, id string, explain func(*models.Post) error) error {
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("mongo error: %w", err)
	}
	p, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	return explain(p)
}

func (r *MongoRepository) Update(ctx context.Context, id, studentID string, patch models.PostPatch) (*models.Post, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Subject != nil {
		set["subject"] = *patch.Subject
	}
	if patch.Location != nil {
		set["location"] = *patch.Location
	}
	if patch.Salary != nil {
		set["salary"] = *patch.Salary
	}
	if patch.Requirements != nil {
		set["requirements"] = *patch.Requirements
	}

	p, err := r.findAndUpdate(ctx, bson.M{"_id": id, "student": studentID}, bson.M{"$set": set})
	if err != nil {
		return nil, r.explainMiss(ctx, err, id, func(p *models.Post) error { return ownershipError(p, studentID) })
	}
	return p, nil
}

func (r *MongoRepository) Delete(ctx context.Context, id, studentID string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "student": studentID})
	if err != nil {
		return fmt.Errorf("mongo error: %w", err)
	}
	if res.DeletedCount > 0 {
		return nil
	}
	return r.explainMiss(ctx, mongo.ErrNoDocuments, id, func(p *models.Post) error { return ownershipError(p, studentID) })
}

func (r *MongoRepository) AddInterestedTutor(ctx context.Context, id, tutorID string) (*models.Post, error) {
	filter := bson.M{"_id": id, "interestedTutors": bson.M{"$ne": tutorID}}
	update := bson.M{
		"$push": bson.M{"interestedTutors": tutorID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}

	p, err := r.findAndUpdate(ctx, filter, update)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("mongo error: %w", err)
	}
	// either the post is gone or the tutor is already listed
	return r.Get(ctx, id)
}

func (r *MongoRepository) SelectTutor(ctx context.Context, id, studentID, tutorID string) (*models.Post, error) {
	filter := bson.M{
		"_id":              id,
		"student":          studentID,
		"status":           models.StatusOpen,
		"interestedTutors": tutorID,
	}
	update := bson.M{"$set": bson.M{
		"selectedTutor": tutorID,
		"status":        models.StatusAssigned,
		"updatedAt":     time.Now().UTC(),
	}}

	p, err := r.findAndUpdate(ctx, filter, update)
	if err != nil {
		return nil, r.explainMiss(ctx, err, id, func(p *models.Post) error { return selectionError(p, studentID, tutorID) })
	}
	return p, nil
}

// normalize replaces a missing interest array with an empty one.
func normalize(p *models.Post) {
	if p.InterestedTutors == nil {
		p.InterestedTutors = []string{}
	}
}
