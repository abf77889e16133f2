package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/MattStellino/TrackIt/internal/core/domain"
	"github.com/MattStellino/TrackIt/internal/core/ports"
)

const collectionTransactions = "transactions"

// TransactionRepository implements ports.TransactionRepository on MongoDB.
type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type transactionDoc struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty"`
	UserID            string              `bson:"user_id"`
	Type              string              `bson:"type"`
	Amount            float64             `bson:"amount"`
	Category          string              `bson:"category"`
	Description       string              `bson:"description,omitempty"`
	Date              time.Time           `bson:"date"`
	Tags              []string            `bson:"tags,omitempty"`
	Recurring         bool                `bson:"recurring"`
	RecurringInterval string              `bson:"recurring_interval,omitempty"`
	Attachments       []domain.Attachment `bson:"attachments,omitempty"`
	CreatedAt         time.Time           `bson:"created_at"`
	UpdatedAt         time.Time           `bson:"updated_at"`
}

func (d *transactionDoc) toDomain() *domain.Transaction {
	return &domain.Transaction{
		ID:                d.ID.Hex(),
		UserID:            d.UserID,
		Type:              domain.TransactionType(d.Type),
		Amount:            d.Amount,
		Category:          d.Category,
		Description:       d.Description,
		Date:              d.Date,
		Tags:              d.Tags,
		Recurring:         d.Recurring,
		RecurringInterval: domain.RecurringInterval(d.RecurringInterval),
		Attachments:       d.Attachments,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := transactionDoc{
		UserID:            t.UserID,
		Type:              string(t.Type),
		Amount:            t.Amount,
		Category:          t.Category,
		Description:       t.Description,
		Date:              t.Date,
		Tags:              t.Tags,
		Recurring:         t.Recurring,
		RecurringInterval: string(t.RecurringInterval),
		Attachments:       t.Attachments,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}

	created := *t
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id, userID string) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}

	var doc transactionDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TransactionRepository) Update(ctx context.Context, id, userID string, fields ports.UpdateTransactionFields) (*domain.Transaction, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownedFilter(id, userID)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if fields.Type != nil {
		set["type"] = string(*fields.Type)
	}
	if fields.Amount != nil {
		set["amount"] = *fields.Amount
	}
	if fields.Category != nil {
		set["category"] = *fields.Category
	}
	if fields.Description != nil {
		set["description"] = *fields.Description
	}
	if fields.Date != nil {
		set["date"] = fields.Date.UTC()
	}
	if fields.Tags != nil {
		set["tags"] = *fields.Tags
	}
	if fields.Recurring != nil {
		set["recurring"] = *fields.Recurring
	}
	if fields.RecurringInterval != nil {
		set["recurring_interval"] = string(*fields.RecurringInterval)
	}
	if fields.Attachments != nil {
		set["attachments"] = *fields.Attachments
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc transactionDoc
	if err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, err := ownedFilter(id, userID)
	if err != nil {
		return err
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) DeleteMany(ctx context.Context, userID string, ids []string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		// Malformed ids can never match a document; skip them instead of
		// failing the whole batch.
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return 0, nil
	}

	res, err := r.col.DeleteMany(ctx, bson.M{
		"_id":     bson.M{"$in": oids},
		"user_id": userID,
	})
	if err != nil {
		return 0, fmt.Errorf("bulk delete transactions: %w", err)
	}
	return res.DeletedCount, nil
}

func (r *TransactionRepository) List(ctx context.Context, f ports.ListTransactionsFilter) ([]*domain.Transaction, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := buildListFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	dir := 1
	if f.SortDesc {
		dir = -1
	}
	opts := options.Find().
		// Secondary _id key keeps the order stable across pages when the
		// primary sort field has duplicates.
		SetSort(bson.D{{Key: f.SortBy, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(int64((f.Page - 1) * f.Limit)).
		SetLimit(int64(f.Limit))

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Transaction
	for cur.Next(ctx) {
		var doc transactionDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode transaction: %w", err)
		}
		out = append(out, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	return out, total, nil
}

// buildListFilter translates the filter DTO into a conjunctive bson query.
// Search terms are ORed across description, category, and tags.
func buildListFilter(f ports.ListTransactionsFilter) bson.M {
	filter := bson.M{"user_id": f.UserID}

	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Category != "" {
		filter["category"] = bson.M{"$regex": primitive.Regex{
			Pattern: regexp.QuoteMeta(f.Category),
			Options: "i",
		}}
	}

	dateRange := bson.M{}
	if !f.DateFrom.IsZero() {
		dateRange["$gte"] = f.DateFrom.UTC()
	}
	if !f.DateTo.IsZero() {
		dateRange["$lte"] = f.DateTo.UTC()
	}
	if len(dateRange) > 0 {
		filter["date"] = dateRange
	}

	amountRange := bson.M{}
	if f.MinAmount > 0 {
		amountRange["$gte"] = f.MinAmount
	}
	if f.MaxAmount > 0 {
		amountRange["$lte"] = f.MaxAmount
	}
	if len(amountRange) > 0 {
		filter["amount"] = amountRange
	}

	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = []bson.M{
			{"description": bson.M{"$regex": re}},
			{"category": bson.M{"$regex": re}},
			{"tags": bson.M{"$regex": re}},
		}
	}

	return filter
}

// amountIf sums $amount only for documents of the given type.
func amountIf(txType string) bson.M {
	return bson.M{"$sum": bson.M{"$cond": bson.A{
		bson.M{"$eq": bson.A{"$type", txType}},
		"$amount",
		0,
	}}}
}

func statsMatch(userID string, from time.Time) bson.M {
	match := bson.M{"user_id": userID}
	if !from.IsZero() {
		match["date"] = bson.M{"$gte": from.UTC()}
	}
	return match
}

func (r *TransactionRepository) Summary(ctx context.Context, userID string, from time.Time) (*ports.StatsSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: statsMatch(userID, from)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":            nil,
			"total_income":   amountIf(string(domain.TypeIncome)),
			"total_expenses": amountIf(string(domain.TypeExpense)),
			"count":          bson.M{"$sum": 1},
			"avg_amount":     bson.M{"$avg": "$amount"},
			"min_amount":     bson.M{"$min": "$amount"},
			"max_amount":     bson.M{"$max": "$amount"},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("summary aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		TotalIncome   float64 `bson:"total_income"`
		TotalExpenses float64 `bson:"total_expenses"`
		Count         int64   `bson:"count"`
		AvgAmount     float64 `bson:"avg_amount"`
		MinAmount     float64 `bson:"min_amount"`
		MaxAmount     float64 `bson:"max_amount"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("summary decode: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	row := rows[0]
	return &ports.StatsSummary{
		TotalIncome:   row.TotalIncome,
		TotalExpenses: row.TotalExpenses,
		Count:         row.Count,
		AvgAmount:     row.AvgAmount,
		MinAmount:     row.MinAmount,
		MaxAmount:     row.MaxAmount,
	}, nil
}

func (r *TransactionRepository) CategoryBreakdown(ctx context.Context, userID string, from time.Time, limit int) ([]ports.CategoryStat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: statsMatch(userID, from)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id":   "$category",
			"total": bson.M{"$sum": "$amount"},
			"count": bson.M{"$sum": 1},
			"avg":   bson.M{"$avg": "$amount"},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "total", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("category aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		Category string  `bson:"_id"`
		Total    float64 `bson:"total"`
		Count    int64   `bson:"count"`
		Avg      float64 `bson:"avg"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("category decode: %w", err)
	}

	out := make([]ports.CategoryStat, len(rows))
	for i, row := range rows {
		out[i] = ports.CategoryStat{
			Category: row.Category,
			Total:    row.Total,
			Count:    row.Count,
			Avg:      row.Avg,
		}
	}
	return out, nil
}

func (r *TransactionRepository) MonthlyTrend(ctx context.Context, userID string, from time.Time) ([]ports.MonthlyStat, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: statsMatch(userID, from)}},
		bson.D{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$date"},
				"month": bson.M{"$month": "$date"},
			},
			"income":   amountIf(string(domain.TypeIncome)),
			"expenses": amountIf(string(domain.TypeExpense)),
		}}},
		bson.D{{Key: "$sort", Value: bson.D{
			{Key: "_id.year", Value: 1},
			{Key: "_id.month", Value: 1},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("monthly aggregate: %w", err)
	}
	defer cur.Close(ctx)

	var rows []struct {
		ID struct {
			Year  int `bson:"year"`
			Month int `bson:"month"`
		} `bson:"_id"`
		Income   float64 `bson:"income"`
		Expenses float64 `bson:"expenses"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("monthly decode: %w", err)
	}

	out := make([]ports.MonthlyStat, len(rows))
	for i, row := range rows {
		out[i] = ports.MonthlyStat{
			Year:     row.ID.Year,
			Month:    row.ID.Month,
			Income:   row.Income,
			Expenses: row.Expenses,
		}
	}
	return out, nil
}

func (r *TransactionRepository) Categories(ctx context.Context, userID string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	values, err := r.col.Distinct(ctx, "category", bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("distinct categories: %w", err)
	}

	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out, nil
}

// ownedFilter builds the id+owner filter used by every single-document
// operation. A malformed id is treated as not-found rather than an error so
// id-guessing is indistinguishable from a miss.
func ownedFilter(id, userID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTransactionNotFound
	}
	return bson.M{"_id": oid, "user_id": userID}, nil
}

// EnsureIndexes creates the query indexes on the transactions collection.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "type", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
