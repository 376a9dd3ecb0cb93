package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const mongoSlotsCollection = "slots"

type slotDocument struct {
	Name      string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend хранит каждый слот отдельным документом MongoDB.
type MongoBackend struct {
	client *mongo.Client
	slots  *mongo.Collection
}

// NewMongoBackend подключается к MongoDB и проверяет доступность сервера.
func NewMongoBackend(ctx context.Context, uri, database string) (*MongoBackend, error) {
	if database == "" {
		return nil, errors.New("mongo database name is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &MongoBackend{
		client: client,
		slots:  client.Database(database).Collection(mongoSlotsCollection),
	}, nil
}

// Load возвращает содержимое слота.
func (m *MongoBackend) Load(ctx context.Context, slot string) ([]byte, error) {
	var doc slotDocument
	err := m.slots.FindOne(ctx, bson.M{"_id": slot}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSlotEmpty
		}
		return nil, fmt.Errorf("find slot %s: %w", slot, err)
	}
	return []byte(doc.Value), nil
}

// Save перезаписывает содержимое слота, создавая документ при необходимости.
func (m *MongoBackend) Save(ctx context.Context, slot string, data []byte) error {
	_, err := m.slots.UpdateOne(ctx,
		bson.M{"_id": slot},
		bson.M{"$set": bson.M{"value": string(data), "updatedAt": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}
	return nil
}

// Remove удаляет документ слота.
func (m *MongoBackend) Remove(ctx context.Context, slot string) error {
	if _, err := m.slots.DeleteOne(ctx, bson.M{"_id": slot}); err != nil {
		return fmt.Errorf("delete slot %s: %w", slot, err)
	}
	return nil
}

// Close отключается от сервера.
func (m *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
