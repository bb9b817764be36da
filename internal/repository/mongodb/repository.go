package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Repository defines the interface for report storage.
type Repository interface {
	SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error
	ListMonthlyReports(ctx context.Context, limit int64) ([]models.MonthlyReport, error)
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: "monthly_reports",
	}, nil
}

func (r *MongoDBRepository) collection() *mongo.Collection {
	return r.client.Database(r.dbName).Collection(r.collName)
}

// SaveMonthlyReport stores a monthly snapshot, replacing any earlier one
// for the same month.
func (r *MongoDBRepository) SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error {
	filter := bson.D{{Key: "year", Value: report.Year}, {Key: "month", Value: report.Month}}
	opts := options.Replace().SetUpsert(true)

	if _, err := r.collection().ReplaceOne(ctx, filter, report, opts); err != nil {
		return fmt.Errorf("failed to save monthly report %d-%02d: %w", report.Year, report.Month, err)
	}
	return nil
}

// ListMonthlyReports returns the most recent snapshots first.
func (r *MongoDBRepository) ListMonthlyReports(ctx context.Context, limit int64) ([]models.MonthlyReport, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "year", Value: -1}, {Key: "month", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection().Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly reports: %w", err)
	}
	defer cursor.Close(ctx)

	var reports []models.MonthlyReport
	if err := cursor.All(ctx, &reports); err != nil {
		return nil, fmt.Errorf("failed to decode monthly reports: %w", err)
	}
	return reports, nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
