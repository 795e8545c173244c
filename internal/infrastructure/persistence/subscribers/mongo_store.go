package subscribers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Gerrylewin/shopguide-blog/internal/domain/newsletter"
	"github.com/Gerrylewin/shopguide-blog/internal/infrastructure/observability/logging"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const subscribersCollection = "subscribers"

type subscriberDoc struct {
	Email        string    `bson:"_id"`
	SubscribedAt time.Time `bson:"subscribedAt"`
}

// MongoStore is the document-store subscriber backend.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *logging.ChanneledLogger
}

// NewMongoStore connects to the configured Mongo deployment and pings it
// before handing the store out.
func NewMongoStore(ctx context.Context, connectionURL, database string, logger *logging.ChanneledLogger) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(connectionURL))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(subscribersCollection),
		logger:     logger,
	}, nil
}

func (s *MongoStore) Name() string { return "mongo" }

// GetAll returns every subscriber, newest first.
func (s *MongoStore) GetAll(ctx context.Context) ([]newsletter.Subscriber, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "subscribedAt", Value: -1}}))
	if err != nil {
		s.logger.Database().Error("Failed to load subscribers", "error", err.Error(), "backend", s.Name())
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []subscriberDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	subs := make([]newsletter.Subscriber, 0, len(docs))
	for _, doc := range docs {
		subs = append(subs, newsletter.Subscriber{Email: doc.Email, SubscribedAt: doc.SubscribedAt})
	}
	return subs, nil
}

// Add inserts a subscriber document, returning false on a duplicate key.
func (s *MongoStore) Add(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	_, err := s.collection.InsertOne(ctx, subscriberDoc{
		Email:        email,
		SubscribedAt: time.Now().UTC(),
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			s.logger.Database().Debug("Subscriber already exists", "email", email, "backend", s.Name())
			return false, nil
		}
		s.logger.Database().Error("Subscriber insert failed", "error", err.Error(), "email", email, "backend", s.Name())
		return false, err
	}
	s.logger.Database().Info("Subscriber insert completed", "email", email, "backend", s.Name())
	return true, nil
}

// Remove deletes a subscriber document, returning false when absent.
func (s *MongoStore) Remove(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	result, err := s.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: email}})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		s.logger.Database().Error("Subscriber delete failed", "error", err.Error(), "email", email, "backend", s.Name())
		return false, err
	}
	if result.DeletedCount == 0 {
		return false, nil
	}
	s.logger.Database().Info("Subscriber removed", "email", email, "backend", s.Name())
	return true, nil
}

// Close disconnects the Mongo client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
