package repository

import (
	"context"
	"testing"
	"time"

	"nnact/models"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoCRUD(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find by id", func(mt *mtest.T) {
		repo := newMongoCRUD[models.Client](mt.Coll, newestFirst)
		id := models.NewID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nnact.clients", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "firstName", Value: "Ada"},
			{Key: "email", Value: "ada@example.com"},
			{Key: "isRepeatCustomer", Value: true},
		}))

		client, err := repo.FindByID(ctx, id)
		require.NoError(mt, err)
		assert.Equal(mt, id, client.ID)
		assert.Equal(mt, "Ada", client.FirstName)
		assert.True(mt, client.IsRepeatCustomer)
	})

	mt.Run("find by id missing", func(mt *mtest.T) {
		repo := newMongoCRUD[models.Client](mt.Coll, newestFirst)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nnact.clients", mtest.FirstBatch))

		_, err := repo.FindByID(ctx, models.NewID())
		assert.True(mt, errors.Is(err, ErrNotFound))

		_, err = repo.FindByID(ctx, "64b7f0c2e4b0a1a2b3c4d5e6")
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("create assigns id and timestamps", func(mt *mtest.T) {
		repo := newMongoCRUD[models.Part](mt.Coll, newestFirst)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		part := &models.Part{Base: models.Base{ID: "chosen-by-caller"}, Name: "Compressor", Quantity: 2, UnitCost: 150, TotalCost: 300}
		require.NoError(mt, repo.Create(ctx, part))
		assert.True(mt, models.ValidID(part.ID))
		assert.False(mt, part.CreatedAt.IsZero())
		assert.Equal(mt, part.CreatedAt, part.UpdatedAt)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := newMongoCRUD[models.ServiceRecord](mt.Coll, newestFirst)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: nnact.services index: serviceNumber_1",
		}))

		err := repo.Create(ctx, &models.ServiceRecord{ServiceNumber: "NSN-25A-0001"})
		assert.True(mt, errors.Is(err, ErrDuplicate))
	})

	mt.Run("update missing", func(mt *mtest.T) {
		repo := newMongoCRUD[models.Project](mt.Coll, newestFirst)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))

		err := repo.Update(ctx, &models.Project{Base: models.Base{ID: models.NewID()}, Title: "Hotel"})
		assert.True(mt, errors.Is(err, ErrNotFound))
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := newMongoCRUD[models.Feedback](mt.Coll, newestFirst)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		require.NoError(mt, repo.Delete(ctx, models.NewID()))
		assert.True(mt, errors.Is(repo.Delete(ctx, models.NewID()), ErrNotFound))
	})
}

func TestMongoServiceRecordRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("latest service number", func(mt *mtest.T) {
		repo := &mongoServiceRecordRepository{newMongoCRUD[models.ServiceRecord](mt.Coll, newestFirst)}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nnact.services", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: models.NewID()},
			{Key: "serviceNumber", Value: "NSN-25A-0042"},
		}))

		latest, err := repo.LatestServiceNumber(ctx, "NSN-25A")
		require.NoError(mt, err)
		assert.Equal(mt, "NSN-25A-0042", latest)
	})

	mt.Run("no service number yet", func(mt *mtest.T) {
		repo := &mongoServiceRecordRepository{newMongoCRUD[models.ServiceRecord](mt.Coll, newestFirst)}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nnact.services", mtest.FirstBatch))

		latest, err := repo.LatestServiceNumber(ctx, "NSN-25B")
		require.NoError(mt, err)
		assert.Empty(mt, latest)
	})

	mt.Run("service types", func(mt *mtest.T) {
		repo := &mongoServiceRecordRepository{newMongoCRUD[models.ServiceRecord](mt.Coll, newestFirst)}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{"Freezer Repair", "", "Dryer Repair"}}))

		types, err := repo.ServiceTypes(ctx)
		require.NoError(mt, err)
		assert.Equal(mt, []string{"Freezer Repair", "Dryer Repair"}, types)
	})
}

func TestMongoExpenseRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("find page", func(mt *mtest.T) {
		repo := &mongoExpenseRepository{newMongoCRUD[models.Expense](mt.Coll, newestFirst)}
		docs := make([]bson.D, 0, 5)
		for i := 0; i < 5; i++ {
			docs = append(docs, bson.D{
				{Key: "_id", Value: models.NewID()},
				{Key: "category", Value: "Fuel"},
				{Key: "amount", Value: float64(i + 1)},
				{Key: "expenseDate", Value: time.Date(2025, 3, i+1, 0, 0, 0, 0, time.UTC)},
			})
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "nnact.expenses", mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: int32(25)}}),
			mtest.CreateCursorResponse(0, "nnact.expenses", mtest.FirstBatch, docs...),
		)

		list, total, err := repo.FindPage(ctx, ExpenseFilter{Category: "fuel"}, ExpensePage{Page: 3, Limit: 10, SortBy: SortByExpenseDate, Desc: true})
		require.NoError(mt, err)
		assert.Equal(mt, int64(25), total)
		assert.Len(mt, list, 5)
	})

	mt.Run("sum", func(mt *mtest.T) {
		repo := &mongoExpenseRepository{newMongoCRUD[models.Expense](mt.Coll, newestFirst)}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nnact.expenses", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: 30.01},
		}))

		total, err := repo.Sum(ctx, ExpenseFilter{})
		require.NoError(mt, err)
		assert.Equal(mt, 30.01, total)
	})

	mt.Run("sum of nothing", func(mt *mtest.T) {
		repo := &mongoExpenseRepository{newMongoCRUD[models.Expense](mt.Coll, newestFirst)}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "nnact.expenses", mtest.FirstBatch))

		total, err := repo.Sum(ctx, ExpenseFilter{Category: "none"})
		require.NoError(mt, err)
		assert.Zero(mt, total)
	})

	mt.Run("delete many", func(mt *mtest.T) {
		repo := &mongoExpenseRepository{newMongoCRUD[models.Expense](mt.Coll, newestFirst)}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}))

		n, err := repo.DeleteMany(ctx, []string{models.NewID(), models.NewID(), models.NewID()})
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)
	})
}

func TestMongoExpenseQuery(t *testing.T) {
	minAmount, maxAmount := 10.0, 50.0
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	q := mongoExpenseQuery(ExpenseFilter{Category: "a.b", MinAmount: &minAmount, MaxAmount: &maxAmount, StartDate: &start})

	assert.Contains(t, q, "category")
	assert.Equal(t, bson.M{"$gte": minAmount, "$lte": maxAmount}, q["amount"])
	assert.Equal(t, bson.M{"$gte": start}, q["expenseDate"])
	assert.NotContains(t, q, "description")
	assert.Empty(t, mongoExpenseQuery(ExpenseFilter{}))
}
