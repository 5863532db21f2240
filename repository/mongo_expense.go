package repository

import (
	"context"
	"regexp"

	"nnact/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoExpenseRepository struct {
	*mongoCRUD[models.Expense, *models.Expense]
}

func (r *mongoExpenseRepository) Find(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	return r.find(ctx, mongoExpenseQuery(filter), options.Find().SetSort(bson.D{{Key: "expenseDate", Value: -1}}))
}

func (r *mongoExpenseRepository) FindPage(ctx context.Context, filter ExpenseFilter, page ExpensePage) ([]models.Expense, int64, error) {
	query := mongoExpenseQuery(filter)
	total, err := r.coll.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, translateMongoError(err)
	}

	field := page.SortBy
	if _, ok := gormExpenseSortColumns[field]; !ok {
		field = SortByExpenseDate
	}
	direction := 1
	if page.Desc {
		direction = -1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: field, Value: direction}, {Key: "_id", Value: 1}}).
		SetSkip(int64((page.Page - 1) * page.Limit)).
		SetLimit(int64(page.Limit))

	list, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *mongoExpenseRepository) Sum(ctx context.Context, filter ExpenseFilter) (float64, error) {
	pipeline := bson.A{
		bson.M{"$match": mongoExpenseQuery(filter)},
		bson.M{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, translateMongoError(err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, translateMongoError(err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return models.RoundMoney(rows[0].Total), nil
}

func (r *mongoExpenseRepository) Categories(ctx context.Context) ([]string, error) {
	return distinctStrings(ctx, r.coll, "category")
}

func (r *mongoExpenseRepository) DeleteMany(ctx context.Context, ids []string) (int64, error) {
	valid := validIDs(ids)
	if len(valid) == 0 {
		return 0, nil
	}
	res, err := r.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": valid}})
	if err != nil {
		return 0, translateMongoError(err)
	}
	return res.DeletedCount, nil
}

func mongoExpenseQuery(f ExpenseFilter) bson.M {
	query := bson.M{}
	if f.Category != "" {
		query["category"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Category), Options: "i"}
	}
	if f.Description != "" {
		query["description"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Description), Options: "i"}
	}
	amount := bson.M{}
	if f.MinAmount != nil {
		amount["$gte"] = *f.MinAmount
	}
	if f.MaxAmount != nil {
		amount["$lte"] = *f.MaxAmount
	}
	if len(amount) > 0 {
		query["amount"] = amount
	}
	date := bson.M{}
	if f.StartDate != nil {
		date["$gte"] = *f.StartDate
	}
	if f.EndDate != nil {
		date["$lte"] = *f.EndDate
	}
	if len(date) > 0 {
		query["expenseDate"] = date
	}
	return query
}
