package repository

import (
	"context"
	"time"

	"nnact/models"

	"github.com/juju/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// 集合名与 MySQL 表名保持一致
const (
	CollectionClients         = "clients"
	CollectionTechnicians     = "technicians"
	CollectionServices        = "services"
	CollectionParts           = "parts"
	CollectionPayments        = "payments"
	CollectionFeedback        = "feedback"
	CollectionProjects        = "projects"
	CollectionServiceRequests = "service_requests"
	CollectionExpenses        = "expenses"
	CollectionUsers           = "users"
)

var newestFirst = bson.D{{Key: "createdAt", Value: -1}}

// NewMongoRepositories 基于 MongoDB 构建全部仓储
func NewMongoRepositories(db *mongo.Database) *Repositories {
	return &Repositories{
		Clients:         newMongoCRUD[models.Client](db.Collection(CollectionClients), newestFirst),
		Technicians:     newMongoCRUD[models.Technician](db.Collection(CollectionTechnicians), newestFirst),
		Services:        &mongoServiceRecordRepository{newMongoCRUD[models.ServiceRecord](db.Collection(CollectionServices), newestFirst)},
		Parts:           newMongoCRUD[models.Part](db.Collection(CollectionParts), newestFirst),
		Payments:        newMongoCRUD[models.Payment](db.Collection(CollectionPayments), bson.D{{Key: "paidAt", Value: -1}}),
		Feedback:        newMongoCRUD[models.Feedback](db.Collection(CollectionFeedback), bson.D{{Key: "feedbackDate", Value: -1}}),
		Projects:        newMongoCRUD[models.Project](db.Collection(CollectionProjects), newestFirst),
		ServiceRequests: &mongoServiceRequestRepository{newMongoCRUD[models.ServiceRequest](db.Collection(CollectionServiceRequests), newestFirst)},
		Expenses:        &mongoExpenseRepository{newMongoCRUD[models.Expense](db.Collection(CollectionExpenses), bson.D{{Key: "expenseDate", Value: -1}})},
		Users:           &mongoUserRepository{newMongoCRUD[models.User](db.Collection(CollectionUsers), newestFirst)},
	}
}

type mongoCRUD[T any, PT interface {
	*T
	models.Document
}] struct {
	coll *mongo.Collection
	sort bson.D
}

func newMongoCRUD[T any, PT interface {
	*T
	models.Document
}](coll *mongo.Collection, sort bson.D) *mongoCRUD[T, PT] {
	return &mongoCRUD[T, PT]{coll: coll, sort: sort}
}

// now MongoDB 只保存毫秒精度
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (r *mongoCRUD[T, PT]) Create(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	meta.ID = models.NewID()
	ts := now()
	meta.CreatedAt = ts
	meta.UpdatedAt = ts
	_, err := r.coll.InsertOne(ctx, doc)
	return translateMongoError(err)
}

func (r *mongoCRUD[T, PT]) FindByID(ctx context.Context, id string) (*T, error) {
	if !models.ValidID(id) {
		return nil, ErrNotFound
	}
	var doc T
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		return nil, translateMongoError(err)
	}
	return &doc, nil
}

func (r *mongoCRUD[T, PT]) FindByIDs(ctx context.Context, ids []string) ([]T, error) {
	valid := validIDs(ids)
	if len(valid) == 0 {
		return make([]T, 0), nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": valid}}, options.Find())
}

func (r *mongoCRUD[T, PT]) FindAll(ctx context.Context) ([]T, error) {
	return r.find(ctx, bson.D{}, options.Find().SetSort(r.sort))
}

func (r *mongoCRUD[T, PT]) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]T, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, translateMongoError(err)
	}
	docs := make([]T, 0)
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, translateMongoError(err)
	}
	return docs, nil
}

func (r *mongoCRUD[T, PT]) Update(ctx context.Context, doc *T) error {
	meta := PT(doc).Meta()
	if !models.ValidID(meta.ID) {
		return ErrNotFound
	}
	meta.UpdatedAt = now()
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": meta.ID}, doc)
	if err != nil {
		return translateMongoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoCRUD[T, PT]) Delete(ctx context.Context, id string) error {
	if !models.ValidID(id) {
		return ErrNotFound
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type mongoServiceRecordRepository struct {
	*mongoCRUD[models.ServiceRecord, *models.ServiceRecord]
}

func (r *mongoServiceRecordRepository) LatestServiceNumber(ctx context.Context, prefix string) (string, error) {
	var latest struct {
		ServiceNumber string `bson:"serviceNumber"`
	}
	err := r.coll.FindOne(ctx,
		bson.M{"serviceNumber": primitive.Regex{Pattern: serviceNumberPattern(prefix)}},
		options.FindOne().
			SetSort(bson.D{{Key: "serviceNumber", Value: -1}}).
			SetProjection(bson.M{"serviceNumber": 1}),
	).Decode(&latest)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", translateMongoError(err)
	}
	return latest.ServiceNumber, nil
}

func (r *mongoServiceRecordRepository) ServiceTypes(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, r.coll, "serviceType")
}

type mongoServiceRequestRepository struct {
	*mongoCRUD[models.ServiceRequest, *models.ServiceRequest]
}

func (r *mongoServiceRequestRepository) FindByPreferredDate(ctx context.Context, date string) ([]models.ServiceRequest, error) {
	return r.find(ctx, bson.M{"preferredDate": date}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
}

type mongoUserRepository struct {
	*mongoCRUD[models.User, *models.User]
}

func (r *mongoUserRepository) FindByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, bson.M{"phone": phone}).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

func distinctStrings(ctx context.Context, coll *mongo.Collection, field string) ([]string, error) {
	values, err := coll.Distinct(ctx, field, bson.D{})
	if err != nil {
		return nil, translateMongoError(err)
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func translateMongoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return errors.Trace(err)
}
