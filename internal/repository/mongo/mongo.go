// Package mongo is the document-store gateway backed by MongoDB.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"

	"github.com/garnizeh/jobhunt/internal/analytics"
	"github.com/garnizeh/jobhunt/internal/apperr"
	"github.com/garnizeh/jobhunt/internal/mongodb"
	"github.com/garnizeh/jobhunt/internal/query"
	"github.com/garnizeh/jobhunt/pkg/models"
	"github.com/garnizeh/jobhunt/pkg/repository"
)

const stagingCollection = "jobs_staging"

type MongoRepo struct {
	client *mongodb.Client
	logger *zap.Logger
}

var _ repository.JobRepo = (*MongoRepo)(nil)
var _ repository.StatsRepo = (*MongoRepo)(nil)
var _ repository.UserRepo = (*MongoRepo)(nil)

func New(client *mongodb.Client, logger *zap.Logger) *MongoRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MongoRepo{client: client, logger: logger}
}

func (r *MongoRepo) FindJob(ctx context.Context, f query.Filter) (*models.Job, error) {
	var d jobDoc
	err := r.client.Jobs().FindOne(ctx, f.BSON()).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	j := d.model()
	return &j, nil
}

func (r *MongoRepo) ListJobs(ctx context.Context, f query.Filter, p query.Page) ([]models.Job, error) {
	if p.Limit <= 0 {
		p.Limit = query.DefaultLimit
	}
	cur, err := r.client.Jobs().Find(ctx, f.BSON(), listOptions(p))
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer cur.Close(ctx)

	var docs []jobDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	if len(docs) == 0 {
		return nil, apperr.ErrNotFound
	}

	out := make([]models.Job, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].model())
	}
	return out, nil
}

// listOptions orders by _id so offset pages stay stable between calls.
// ObjectIDs grow with insertion, which keeps the import order.
func listOptions(p query.Page) *options.FindOptionsBuilder {
	return options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetSkip(int64(p.Offset)).
		SetLimit(int64(p.Limit))
}

func (r *MongoRepo) CountJobs(ctx context.Context, f query.Filter) (int64, error) {
	n, err := r.client.Jobs().CountDocuments(ctx, f.BSON())
	if err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// ReplaceJobs loads jobs into a staging collection, indexes it, then renames
// it over the live collection so readers never see a partial set.
func (r *MongoRepo) ReplaceJobs(ctx context.Context, jobs []models.Job) (int, error) {
	staging := r.client.Database().Collection(stagingCollection)
	if err := staging.Drop(ctx); err != nil {
		return 0, fmt.Errorf("drop staging: %w", err)
	}

	if len(jobs) == 0 {
		if _, err := r.client.Jobs().DeleteMany(ctx, bson.D{}); err != nil {
			return 0, fmt.Errorf("clear jobs: %w", err)
		}
		return 0, nil
	}

	docs := make([]any, 0, len(jobs))
	for i := range jobs {
		docs = append(docs, toJobDoc(&jobs[i]))
	}
	res, err := staging.InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("insert staging: %w", err)
	}
	if _, err := staging.Indexes().CreateMany(ctx, mongodb.JobIndexes()); err != nil {
		return 0, fmt.Errorf("index staging: %w", err)
	}
	if err := r.client.RenameCollection(ctx, stagingCollection, mongodb.JobsCollection); err != nil {
		return 0, err
	}

	r.logger.Info("jobs replaced", zap.Int("count", len(res.InsertedIDs)))
	return len(res.InsertedIDs), nil
}

// JobStats runs the facet pipeline. Driver and decode failures are wrapped in
// a DataProcessingError carrying a remediation hint.
func (r *MongoRepo) JobStats(ctx context.Context) (*models.JobStats, error) {
	cur, err := r.client.Jobs().Aggregate(ctx, analytics.Pipeline())
	if err != nil {
		return nil, &apperr.DataProcessingError{Err: err, Hint: analytics.Hint}
	}
	defer cur.Close(ctx)

	var docs []bson.Raw
	if err := cur.All(ctx, &docs); err != nil {
		return nil, &apperr.DataProcessingError{Err: err, Hint: analytics.Hint}
	}
	if len(docs) == 0 {
		return nil, apperr.ErrNoData
	}

	st, err := analytics.Decode(docs[0])
	if errors.Is(err, apperr.ErrNoData) {
		return nil, err
	}
	if err != nil {
		return nil, &apperr.DataProcessingError{Err: err, Hint: analytics.Hint}
	}
	return st, nil
}

func (r *MongoRepo) CreateUser(ctx context.Context, u *models.User) (string, error) {
	if u == nil {
		return "", fmt.Errorf("user is nil")
	}
	res, err := r.client.Users().InsertOne(ctx, toUserDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return "", fmt.Errorf("%w: email already registered", apperr.ErrConflict)
	}
	if err != nil {
		return "", fmt.Errorf("create user: %w", err)
	}
	if id, ok := res.InsertedID.(bson.ObjectID); ok {
		return id.Hex(), nil
	}
	return fmt.Sprint(res.InsertedID), nil
}

func (r *MongoRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var d userDoc
	err := r.client.Users().FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return d.model(), nil
}

func (r *MongoRepo) UpdateLastLogin(ctx context.Context, email string, at time.Time) error {
	res, err := r.client.Users().UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "last_login", Value: at.UTC()}}}},
	)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
