package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/parisbet/backend/internal/apperr"
	"github.com/parisbet/backend/internal/models"
)

// betDoc is the MongoDB document shape: the bet with its votes
// embedded, so a bet and its vote set live in one document.
type betDoc struct {
	models.Bet `bson:",inline"`
	Votes      []models.Vote `bson:"votes"`
}

// MongoBetStore is the persistent bet store, selected when MONGO_URI
// is set.
type MongoBetStore struct {
	col *mongo.Collection
}

func NewMongoBetStore(db *mongo.Database) *MongoBetStore {
	return &MongoBetStore{col: db.Collection("bets")}
}

func (s *MongoBetStore) CreateBet(ctx context.Context, b *models.Bet) error {
	doc := betDoc{Bet: *b, Votes: []models.Vote{}}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongo insert bet: %w", err)
	}
	return nil
}

func (s *MongoBetStore) GetBet(ctx context.Context, id string) (*models.Bet, error) {
	var doc betDoc
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc.Bet, nil
}

func (s *MongoBetStore) ListBets(ctx context.Context) ([]models.Bet, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cur, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []betDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	bets := make([]models.Bet, 0, len(docs))
	for _, d := range docs {
		bets = append(bets, d.Bet)
	}
	return bets, nil
}

func (s *MongoBetStore) Votes(ctx context.Context, id string) ([]models.Vote, error) {
	var doc betDoc
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.Votes, nil
}

func (s *MongoBetStore) AddVote(ctx context.Context, id string, v models.Vote) error {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$push": bson.M{"votes": v}},
	)
	if err != nil {
		return fmt.Errorf("mongo push vote: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (s *MongoBetStore) SetStatus(ctx context.Context, id string, status models.BetStatus, resolvedOption *int) error {
	update := bson.M{"status": status}
	if resolvedOption != nil {
		update["resolved_option"] = *resolvedOption
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": update},
	)
	if err != nil {
		return fmt.Errorf("mongo set status: %w", err)
	}
	if res.MatchedCount == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
