package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/posts"
	"github.com/dmitrijs2005/tutorhub/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection = "users"
	postsCollection = "posts"
)

// MongoRepositoryManager vends MongoDB-backed repositories over one client.
type MongoRepositoryManager struct {
	db    *mongo.Database
	users *users.MongoRepository
	posts *posts.MongoRepository
}

// ConnectMongo connects to uri, pings the primary and binds database dbName.
func ConnectMongo(ctx context.Context, uri, dbName string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoRepositoryManager(client.Database(dbName)), nil
}

func NewMongoRepositoryManager(db *mongo.Database) *MongoRepositoryManager {
	return &MongoRepositoryManager{
		db:    db,
		users: users.NewMongoRepository(db.Collection(usersCollection)),
		posts: posts.NewMongoRepository(db.Collection(postsCollection)),
	}
}

func (m *MongoRepositoryManager) Users() users.Repository { return m.users }
func (m *MongoRepositoryManager) Posts() posts.Repository { return m.posts }

// RunMigrations creates the collection indexes, including the unique
// email index the credential store relies on.
func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	if err := m.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return m.posts.EnsureIndexes(ctx)
}

func (m *MongoRepositoryManager) Ping(ctx context.Context) error {
	return m.db.Client().Ping(ctx, readpref.Primary())
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.db.Client().Disconnect(ctx)
}
