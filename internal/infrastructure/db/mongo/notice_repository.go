package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/campusboard/notice-board/internal/core/domain"
)

const collectionNotices = "notices"

type NoticeRepository struct {
	col   *mongo.Collection
	users *mongo.Collection
	now   func() time.Time
}

func NewNoticeRepository(db *mongo.Database) *NoticeRepository {
	return &NoticeRepository{
		col:   db.Collection(collectionNotices),
		users: db.Collection(collectionUsers),
		now:   time.Now,
	}
}

type noticeDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Content   string             `bson:"content"`
	Category  string             `bson:"category"`
	PostedBy  primitive.ObjectID `bson:"posted_by"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
	// Poster is filled by the $lookup stage and never written.
	Poster *userDoc `bson:"poster,omitempty"`
}

func (d *noticeDoc) toDomain() *domain.Notice {
	n := &domain.Notice{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Content:   d.Content,
		Category:  domain.Category(d.Category),
		PostedBy:  domain.Poster{ID: d.PostedBy.Hex()},
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
	if d.Poster != nil {
		n.PostedBy.Name = d.Poster.Name
	}
	return n
}

// Find returns matching notices newest first, each joined with its poster's
// name. Posters that no longer exist leave the name empty.
func (r *NoticeRepository) Find(ctx context.Context, filter domain.NoticeFilter) ([]*domain.Notice, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: buildNoticeQuery(filter)}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}},
	}
	pipeline = append(pipeline, posterLookup()...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find notices: %w", err)
	}
	defer cur.Close(ctx)

	var docs []noticeDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode notices: %w", err)
	}

	out := make([]*domain.Notice, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// Create checks that the poster exists, inserts the notice and reads it back
// joined with the poster's name.
func (r *NoticeRepository) Create(ctx context.Context, n *domain.Notice) (*domain.Notice, error) {
	posterID, err := primitive.ObjectIDFromHex(n.PostedBy.ID)
	if err != nil {
		return nil, domain.Invalid("posted_by", "does not reference an existing user")
	}

	insertCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	count, err := r.users.CountDocuments(insertCtx, bson.M{"_id": posterID})
	if err != nil {
		return nil, fmt.Errorf("check poster: %w", err)
	}
	if count == 0 {
		return nil, domain.Invalid("posted_by", "does not reference an existing user")
	}

	now := r.now().UTC().Truncate(time.Millisecond)
	doc := noticeDoc{
		ID:        primitive.NewObjectID(),
		Title:     n.Title,
		Content:   n.Content,
		Category:  string(n.Category),
		PostedBy:  posterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.col.InsertOne(insertCtx, doc); err != nil {
		return nil, fmt.Errorf("insert notice: %w", err)
	}

	return r.FindByID(ctx, doc.ID.Hex())
}

func (r *NoticeRepository) FindByID(ctx context.Context, id string) (*domain.Notice, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrNoticeNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": oid}}},
	}
	pipeline = append(pipeline, posterLookup()...)

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find notice: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("find notice: %w", err)
		}
		return nil, domain.ErrNoticeNotFound
	}
	var doc noticeDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode notice: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *NoticeRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrNoticeNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNoticeNotFound
	}
	return nil
}

// EnsureIndexes creates the indexes backing the listing sort and filters.
func (r *NoticeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// buildNoticeQuery translates a filter into a $match document. The search
// term is escaped so it is matched literally.
func buildNoticeQuery(f domain.NoticeFilter) bson.M {
	q := bson.M{}
	if f.Search != "" {
		rx := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = bson.A{
			bson.M{"title": rx},
			bson.M{"content": rx},
		}
	}
	if f.Category != "" {
		q["category"] = string(f.Category)
	}
	if !f.Day.IsZero() {
		q["created_at"] = bson.M{
			"$gte": f.Day.UTC(),
			"$lt":  f.DayEnd().UTC(),
		}
	}
	return q
}

// posterLookup joins the posting user's document as "poster".
func posterLookup() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         collectionUsers,
			"localField":   "posted_by",
			"foreignField": "_id",
			"as":           "poster",
		}}},
		{{Key: "$unwind", Value: bson.M{
			"path":                       "$poster",
			"preserveNullAndEmptyArrays": true,
		}}},
	}
}
