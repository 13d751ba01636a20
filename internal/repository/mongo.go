package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"ledger/internal/identifier"
	"ledger/internal/models"
)

// transactionDocument is the BSON shape of a stored transaction.
type transactionDocument struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	Type     string             `bson:"type"`
	Name     string             `bson:"name"`
	Amount   float64            `bson:"amount"`
	Category string             `bson:"category"`
	Date     string             `bson:"date"`
}

func toDocument(tx *models.Transaction) transactionDocument {
	doc := transactionDocument{
		Type:     tx.Type,
		Name:     tx.Name,
		Amount:   tx.Amount,
		Category: tx.Category,
		Date:     tx.Date,
	}
	if oid, err := identifier.Parse(tx.ID); err == nil {
		doc.ID = oid
	}
	return doc
}

func (d transactionDocument) toModel() models.Transaction {
	return models.Transaction{
		ID:       d.ID.Hex(),
		Type:     d.Type,
		Name:     d.Name,
		Amount:   d.Amount,
		Category: d.Category,
		Date:     d.Date,
	}
}

// setDocument builds the $set payload for the fields present.
func setDocument(fields models.TransactionFields) bson.D {
	var set bson.D
	if fields.Type != nil {
		set = append(set, bson.E{Key: "type", Value: *fields.Type})
	}
	if fields.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *fields.Name})
	}
	if fields.Amount != nil {
		set = append(set, bson.E{Key: "amount", Value: *fields.Amount})
	}
	if fields.Category != nil {
		set = append(set, bson.E{Key: "category", Value: *fields.Category})
	}
	if fields.Date != nil {
		set = append(set, bson.E{Key: "date", Value: *fields.Date})
	}
	return set
}

// MongoStore keeps transactions in a single MongoDB collection.
type MongoStore struct {
	coll *mongo.Collection
}

// NewMongoStore creates a MongoStore over coll.
func NewMongoStore(coll *mongo.Collection) *MongoStore {
	return &MongoStore{coll: coll}
}

// Create validates fields and inserts a new document.
func (s *MongoStore) Create(ctx context.Context, fields models.TransactionFields) (*models.Transaction, error) {
	tx, err := models.NewTransaction(fields)
	if err != nil {
		return nil, err
	}
	tx.ID = identifier.New()

	if _, err := s.coll.InsertOne(ctx, toDocument(tx)); err != nil {
		return nil, fmt.Errorf("insert transaction: %w", err)
	}
	return tx, nil
}

// List returns every document in natural (insertion) order.
func (s *MongoStore) List(ctx context.Context) ([]models.Transaction, error) {
	return s.find(ctx, bson.D{})
}

// FindByID returns the document with the given identifier.
func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	oid, err := identifier.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse identifier: %w", err)
	}

	var doc transactionDocument
	if err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	tx := doc.toModel()
	return &tx, nil
}

// Update validates the fields present and applies them with a single
// find-and-modify, returning the post-update document.
func (s *MongoStore) Update(ctx context.Context, id string, fields models.TransactionFields) (*models.Transaction, error) {
	fields = fields.Normalize()
	if err := fields.Validate(false); err != nil {
		return nil, err
	}
	if fields.IsEmpty() {
		return s.FindByID(ctx, id)
	}

	oid, err := identifier.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse identifier: %w", err)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc transactionDocument
	err = s.coll.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: setDocument(fields)}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update transaction: %w", err)
	}
	tx := doc.toModel()
	return &tx, nil
}

// Delete removes the document with the given identifier.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := identifier.Parse(id)
	if err != nil {
		return fmt.Errorf("parse identifier: %w", err)
	}

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindByCategory returns documents whose category equals category exactly.
func (s *MongoStore) FindByCategory(ctx context.Context, category string) ([]models.Transaction, error) {
	return s.find(ctx, bson.D{{Key: "category", Value: category}})
}

// FindByTypeContaining returns documents whose type contains variant, ignoring case.
func (s *MongoStore) FindByTypeContaining(ctx context.Context, variant string) ([]models.Transaction, error) {
	return s.find(ctx, typeFilter(variant))
}

// typeFilter matches variant literally anywhere in type, ignoring case.
func typeFilter(variant string) bson.D {
	return bson.D{{Key: "type", Value: primitive.Regex{Pattern: regexp.QuoteMeta(variant), Options: "i"}}}
}

// Ping checks that the deployment is reachable.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (s *MongoStore) find(ctx context.Context, filter bson.D) ([]models.Transaction, error) {
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}

	var docs []transactionDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transactions: %w", err)
	}

	txs := make([]models.Transaction, 0, len(docs))
	for _, d := range docs {
		txs = append(txs, d.toModel())
	}
	return txs, nil
}
