package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/wdp365/siteapi/internal/apperr"
	"github.com/wdp365/siteapi/internal/domain"
	"github.com/wdp365/siteapi/internal/repo"
)

var _ repo.Store = (*Store)(nil)

type Store struct {
	client   *mongo.Client
	statuses *mongo.Collection
	contacts *mongo.Collection
	log      *zap.Logger
}

func New(ctx context.Context, uri, dbName string, log *zap.Logger) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect: %w", err)
	}
	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping: %w", err)
	}
	db := client.Database(dbName)
	return &Store{
		client:   client,
		statuses: db.Collection(repo.StatusCollection),
		contacts: db.Collection(repo.ContactCollection),
		log:      log,
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// withoutID hides Mongo's _id so only business fields are decoded.
func withoutID() *options.FindOptions {
	return options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}})
}

// ---- StatusStore ----

func (s *Store) InsertStatus(ctx context.Context, st *domain.StatusCheck) error {
	if _, err := s.statuses.InsertOne(ctx, repo.StatusToDoc(st)); err != nil {
		return apperr.StorageFailure("could not save status check", fmt.Errorf("insert status: %w", err))
	}
	return nil
}

func (s *Store) ListStatus(ctx context.Context) ([]domain.StatusCheck, error) {
	cur, err := s.statuses.Find(ctx, bson.D{}, withoutID())
	if err != nil {
		return nil, apperr.StorageFailure("could not list status checks", fmt.Errorf("find status: %w", err))
	}
	var docs []repo.StatusDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.StorageFailure("could not list status checks", fmt.Errorf("decode status: %w", err))
	}
	out := make([]domain.StatusCheck, 0, len(docs))
	for _, d := range docs {
		rec, err := d.Record()
		if err != nil {
			s.log.Warn("mongo_skip_status", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// ---- ContactStore ----

func (s *Store) InsertContact(ctx context.Context, c *domain.ContactSubmission) error {
	if _, err := s.contacts.InsertOne(ctx, repo.ContactToDoc(c)); err != nil {
		return apperr.StorageFailure("could not save your message", fmt.Errorf("insert contact: %w", err))
	}
	return nil
}

func (s *Store) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	cur, err := s.contacts.Find(ctx, bson.D{}, withoutID())
	if err != nil {
		return nil, apperr.StorageFailure("could not list submissions", fmt.Errorf("find contacts: %w", err))
	}
	var docs []repo.ContactDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, apperr.StorageFailure("could not list submissions", fmt.Errorf("decode contacts: %w", err))
	}
	out := make([]domain.ContactSubmission, 0, len(docs))
	for _, d := range docs {
		rec, err := d.Record()
		if err != nil {
			s.log.Warn("mongo_skip_contact", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}
