package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"crowdfund/backend/models"
	"crowdfund/backend/query"
)

const (
	IdeasCollection  = "ideas"
	ForumsCollection = "forums"
)

// ConnectMongo dials uri and returns the client and the named database.
func ConnectMongo(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, client.Database(database), nil
}

// EnsureIndexes creates the unique name/title indexes and the sweep index.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(IdeasCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "fundingDeadline", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("idea indexes: %w", err)
	}
	_, err = db.Collection(ForumsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "title", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("forum indexes: %w", err)
	}
	return nil
}

func direction(order query.SortOrder) int {
	if order == query.Asc {
		return 1
	}
	return -1
}

func ideaSortDoc(s query.IdeaSort) bson.D {
	return bson.D{{Key: string(s.By), Value: direction(s.Order)}}
}

func forumSortDoc(s query.ForumSort) bson.D {
	return bson.D{{Key: string(s.By), Value: direction(s.Order)}}
}

func openFilter() bson.M {
	return bson.M{"status": models.StatusOpen}
}

// searchFilter matches open documents whose field contains the query, ignoring case.
func searchFilter(field string, search query.Search) bson.M {
	f := openFilter()
	f[field] = bson.M{"$regex": regexp.QuoteMeta(search.Normalized()), "$options": "i"}
	return f
}

func expiredFilter(now time.Time) bson.M {
	return bson.M{"status": models.StatusOpen, "fundingDeadline": bson.M{"$lte": now}}
}

func unratedByFilter(ideaID, raterID string) bson.M {
	return bson.M{"_id": ideaID, "ratings.ratedBy": bson.M{"$ne": raterID}}
}

// investableFilter matches the idea only while it is open and has room for amount.
func investableFilter(ideaID string, amount float64) bson.M {
	return bson.M{
		"_id":    ideaID,
		"status": models.StatusOpen,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{"$alreadyCollected", amount}},
			"$targetAmount",
		}},
	}
}

// MongoIdeaStore stores ideas as single documents with embedded arrays.
type MongoIdeaStore struct {
	coll *mongo.Collection
}

func NewMongoIdeaStore(db *mongo.Database) *MongoIdeaStore {
	return &MongoIdeaStore{coll: db.Collection(IdeasCollection)}
}

func (s *MongoIdeaStore) Insert(ctx context.Context, idea *models.Idea) error {
	_, err := s.coll.InsertOne(ctx, idea)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrIdeaNameTaken
	}
	return err
}

func (s *MongoIdeaStore) FindByID(ctx context.Context, id string) (*models.Idea, error) {
	var idea models.Idea
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&idea)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrIdeaNotFound
	}
	if err != nil {
		return nil, err
	}
	return &idea, nil
}

func (s *MongoIdeaStore) NameExists(ctx context.Context, name string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"name": name}, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *MongoIdeaStore) exists(ctx context.Context, id string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *MongoIdeaStore) PushRating(ctx context.Context, ideaID string, r models.Rating) error {
	res, err := s.coll.UpdateOne(ctx, unratedByFilter(ideaID, r.RatedBy), bson.M{"$push": bson.M{"ratings": r}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	ok, err := s.exists(ctx, ideaID)
	if err != nil {
		return err
	}
	if !ok {
		return models.ErrIdeaNotFound
	}
	return models.ErrAlreadyRated
}

func (s *MongoIdeaStore) PushComment(ctx context.Context, ideaID string, c models.Comment) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": ideaID}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrIdeaNotFound
	}
	return nil
}

func (s *MongoIdeaStore) PullComment(ctx context.Context, ideaID, commentID string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": ideaID}, bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrIdeaNotFound
	}
	if res.ModifiedCount == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}

func (s *MongoIdeaStore) ApplyInvestment(ctx context.Context, ideaID string, entry models.FundingHistoryElement) (float64, error) {
	update := bson.M{
		"$inc":  bson.M{"alreadyCollected": entry.Amount},
		"$push": bson.M{"fundingHistory": entry},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"alreadyCollected": 1})

	var out struct {
		AlreadyCollected float64 `bson:"alreadyCollected"`
	}
	err := s.coll.FindOneAndUpdate(ctx, investableFilter(ideaID, entry.Amount), update, opts).Decode(&out)
	if err == nil {
		return out.AlreadyCollected, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, err
	}

	// The conditional update matched nothing; report why.
	idea, err := s.FindByID(ctx, ideaID)
	if err != nil {
		return 0, err
	}
	if idea.IsClosed() {
		return 0, models.ErrIdeaClosed
	}
	return 0, models.ErrFundingGreaterThanTarget
}

func (s *MongoIdeaStore) SetStatus(ctx context.Context, ideaID string, status models.Status) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": ideaID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrIdeaNotFound
	}
	return nil
}

func (s *MongoIdeaStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Idea, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	ideas := []*models.Idea{}
	if err := cur.All(ctx, &ideas); err != nil {
		return nil, err
	}
	return ideas, nil
}

func (s *MongoIdeaStore) FindExpired(ctx context.Context, now time.Time) ([]*models.Idea, error) {
	return s.find(ctx, expiredFilter(now), options.Find())
}

func (s *MongoIdeaStore) ListOpen(ctx context.Context, sort query.IdeaSort, page query.Page) ([]*models.Idea, int64, error) {
	total, err := s.coll.CountDocuments(ctx, openFilter())
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(ideaSortDoc(sort)).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))
	ideas, err := s.find(ctx, openFilter(), opts)
	return ideas, total, err
}

func (s *MongoIdeaStore) SearchOpen(ctx context.Context, search query.Search, sort query.IdeaSort) ([]*models.Idea, error) {
	opts := options.Find().SetSort(ideaSortDoc(sort)).SetLimit(int64(search.Limit))
	return s.find(ctx, searchFilter("name", search), opts)
}

// MongoForumStore stores forums with their embedded comment thread.
type MongoForumStore struct {
	coll *mongo.Collection
}

func NewMongoForumStore(db *mongo.Database) *MongoForumStore {
	return &MongoForumStore{coll: db.Collection(ForumsCollection)}
}

func (s *MongoForumStore) Insert(ctx context.Context, forum *models.Forum) error {
	_, err := s.coll.InsertOne(ctx, forum)
	if mongo.IsDuplicateKeyError(err) {
		return models.ErrForumTitleTaken
	}
	return err
}

func (s *MongoForumStore) FindByID(ctx context.Context, id string) (*models.Forum, error) {
	var forum models.Forum
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&forum)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.ErrForumNotFound
	}
	if err != nil {
		return nil, err
	}
	return &forum, nil
}

func (s *MongoForumStore) TitleExists(ctx context.Context, title string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"title": title}, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *MongoForumStore) PushComment(ctx context.Context, forumID string, c models.ForumComment) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": forumID}, bson.M{"$push": bson.M{"comments": c}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrForumNotFound
	}
	return nil
}

func (s *MongoForumStore) PullComment(ctx context.Context, forumID, commentID string) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": forumID}, bson.M{"$pull": bson.M{"comments": bson.M{"_id": commentID}}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrForumNotFound
	}
	if res.ModifiedCount == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}

func (s *MongoForumStore) SetCommentHelpful(ctx context.Context, forumID, commentID string, helpful bool) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": forumID, "comments._id": commentID},
		bson.M{"$set": bson.M{"comments.$.isHelpful": helpful}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": forumID}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrForumNotFound
	}
	return models.ErrCommentNotFound
}

func (s *MongoForumStore) SetStatus(ctx context.Context, forumID string, status models.Status) error {
	res, err := s.coll.UpdateOne(ctx, bson.M{"_id": forumID}, bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrForumNotFound
	}
	return nil
}

func (s *MongoForumStore) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*models.Forum, error) {
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	forums := []*models.Forum{}
	if err := cur.All(ctx, &forums); err != nil {
		return nil, err
	}
	return forums, nil
}

func (s *MongoForumStore) ListOpen(ctx context.Context, sort query.ForumSort, page query.Page) ([]*models.Forum, int64, error) {
	total, err := s.coll.CountDocuments(ctx, openFilter())
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().
		SetSort(forumSortDoc(sort)).
		SetSkip(int64(page.Skip())).
		SetLimit(int64(page.Limit))
	forums, err := s.find(ctx, openFilter(), opts)
	return forums, total, err
}

func (s *MongoForumStore) SearchOpen(ctx context.Context, search query.Search) ([]*models.Forum, error) {
	opts := options.Find().
		SetSort(forumSortDoc(query.ForumSort{By: query.ForumByCreatedAt, Order: query.Desc})).
		SetLimit(int64(search.Limit))
	return s.find(ctx, searchFilter("title", search), opts)
}

var (
	_ IdeaStore  = (*MongoIdeaStore)(nil)
	_ ForumStore = (*MongoForumStore)(nil)
)
