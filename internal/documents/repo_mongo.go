package documents

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionName is the MongoDB collection holding documents.
const CollectionName = "documents"

// MongoRepo implements Repo on a MongoDB collection. Ids are ObjectID hex strings.
type MongoRepo struct {
	Coll *mongo.Collection
}

// NewMongoRepo binds the repo to the documents collection of db.
func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{Coll: db.Collection(CollectionName)}
}

type mongoDocument struct {
	ID                   primitive.ObjectID `bson:"_id"`
	Title                string             `bson:"title"`
	Content              string             `bson:"content"`
	FileType             string             `bson:"fileType"`
	FileName             string             `bson:"fileName,omitempty"`
	SizeBytes            int64              `bson:"sizeBytes,omitempty"`
	SourceKey            string             `bson:"sourceKey,omitempty"`
	IsProcessed          bool               `bson:"isProcessed"`
	Summary              *string            `bson:"summary,omitempty"`
	AudioURL             *string            `bson:"audioUrl,omitempty"`
	IsSummarizing        bool               `bson:"isSummarizing"`
	SummarizingStartedAt *time.Time         `bson:"summarizingStartedAt,omitempty"`
	SummarizedAt         *time.Time         `bson:"summarizedAt,omitempty"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

func (m mongoDocument) toDocument() Document {
	doc := Document{
		ID:                   m.ID.Hex(),
		Title:                m.Title,
		Content:              m.Content,
		FileType:             m.FileType,
		FileName:             m.FileName,
		SizeBytes:            m.SizeBytes,
		SourceKey:            m.SourceKey,
		IsProcessed:          m.IsProcessed,
		Summary:              m.Summary,
		AudioURL:             m.AudioURL,
		IsSummarizing:        m.IsSummarizing,
		SummarizingStartedAt: utcPtr(m.SummarizingStartedAt),
		SummarizedAt:         utcPtr(m.SummarizedAt),
		CreatedAt:            m.CreatedAt.UTC(),
		UpdatedAt:            m.UpdatedAt.UTC(),
	}
	return doc
}

// EnsureIndexes creates the listing index. It is safe to call repeatedly.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.Coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("create documents index: %w", err)
	}
	return nil
}

// Create inserts a new document.
func (r *MongoRepo) Create(ctx context.Context, in NewDocument) (Document, error) {
	if err := in.Validate(); err != nil {
		return Document{}, err
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	m := mongoDocument{
		ID:        primitive.NewObjectID(),
		Title:     in.Title,
		Content:   in.Content,
		FileType:  in.FileType,
		FileName:  in.FileName,
		SizeBytes: in.SizeBytes,
		SourceKey: in.SourceKey,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.Coll.InsertOne(ctx, m); err != nil {
		return Document{}, fmt.Errorf("insert document: %w", err)
	}
	return m.toDocument(), nil
}

// GetByID fetches a document by ObjectID hex.
func (r *MongoRepo) GetByID(ctx context.Context, id string) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Document{}, ErrNotFound
	}
	var m mongoDocument
	if err := r.Coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&m); err != nil {
		return Document{}, mapMongoErr(err)
	}
	return m.toDocument(), nil
}

// List returns all documents newest first.
func (r *MongoRepo) List(ctx context.Context) ([]Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	cur, err := r.Coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	docs := []Document{}
	for cur.Next(ctx) {
		var m mongoDocument
		if err := cur.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, m.toDocument())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// UpdateSummary stores the summary, marks the document processed and stamps summarizedAt.
func (r *MongoRepo) UpdateSummary(ctx context.Context, id, summary string, at time.Time) (Document, error) {
	return r.findOneAndSet(ctx, id, nil, bson.M{
		"summary":      summary,
		"isProcessed":  true,
		"summarizedAt": at,
		"updatedAt":    at,
	})
}

// UpdateAudioURL records a pre-rendered audio asset.
func (r *MongoRepo) UpdateAudioURL(ctx context.Context, id, url string, at time.Time) (Document, error) {
	return r.findOneAndSet(ctx, id, nil, bson.M{
		"audioUrl":  url,
		"updatedAt": at,
	})
}

// BeginSummarize takes the lease with a filtered FindOneAndUpdate.
func (r *MongoRepo) BeginSummarize(ctx context.Context, id string, at, staleBefore time.Time) (Document, error) {
	free := bson.A{
		bson.M{"isSummarizing": bson.M{"$ne": true}},
		bson.M{"summarizingStartedAt": bson.M{"$exists": false}},
		bson.M{"summarizingStartedAt": bson.M{"$lt": staleBefore}},
	}
	doc, err := r.findOneAndSet(ctx, id, bson.M{"$or": free}, bson.M{
		"isSummarizing":        true,
		"summarizingStartedAt": at,
		"updatedAt":            at,
	})
	if !errors.Is(err, ErrNotFound) {
		return doc, err
	}

	oid, hexErr := primitive.ObjectIDFromHex(id)
	if hexErr != nil {
		return Document{}, ErrNotFound
	}
	n, err := r.Coll.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return Document{}, fmt.Errorf("check document: %w", err)
	}
	if n == 0 {
		return Document{}, ErrNotFound
	}
	return Document{}, ErrConflict
}

// EndSummarize releases the lease taken at startedAt.
func (r *MongoRepo) EndSummarize(ctx context.Context, id string, startedAt time.Time) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = r.Coll.UpdateOne(ctx,
		bson.M{"_id": oid, "isSummarizing": true, "summarizingStartedAt": startedAt},
		bson.M{
			"$set":   bson.M{"isSummarizing": false, "updatedAt": time.Now().UTC()},
			"$unset": bson.M{"summarizingStartedAt": ""},
		},
	)
	if err != nil {
		return fmt.Errorf("release summarize lock: %w", err)
	}
	return nil
}

// Ping checks the primary is reachable.
func (r *MongoRepo) Ping(ctx context.Context) error {
	return r.Coll.Database().Client().Ping(ctx, readpref.Primary())
}

func (r *MongoRepo) findOneAndSet(ctx context.Context, id string, extra bson.M, set bson.M) (Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Document{}, ErrNotFound
	}
	filter := bson.M{"_id": oid}
	for k, v := range extra {
		filter[k] = v
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m mongoDocument
	if err := r.Coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&m); err != nil {
		return Document{}, mapMongoErr(err)
	}
	return m.toDocument(), nil
}

func mapMongoErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return fmt.Errorf("mongo: %w", err)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

var _ Repo = (*MongoRepo)(nil)
