package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/scm/dashboard-gateway/internal/core/domain"
	"github.com/scm/dashboard-gateway/internal/core/ports"
)

const (
	auditCollection = "audit_log"
	auditRetention  = 90 * 24 * time.Hour
)

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(auditCollection)}
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

type auditDocument struct {
	ID          string    `bson:"_id"`
	Actor       string    `bson:"actor"`
	Role        string    `bson:"role"`
	Action      string    `bson:"action"`
	Resource    string    `bson:"resource,omitempty"`
	Invalidated []string  `bson:"invalidated,omitempty"`
	Outcome     string    `bson:"outcome"`
	Error       string    `bson:"error,omitempty"`
	At          time.Time `bson:"at"`
}

func toAuditDocument(e domain.AuditEntry) auditDocument {
	return auditDocument{
		ID:          e.ID,
		Actor:       e.Actor,
		Role:        e.Role.String(),
		Action:      e.Action,
		Resource:    e.Resource,
		Invalidated: e.Invalidated,
		Outcome:     string(e.Outcome),
		Error:       e.Error,
		At:          e.At.UTC(),
	}
}

// Insert appends one entry to the audit_log collection.
func (r *AuditRepository) Insert(ctx context.Context, e domain.AuditEntry) error {
	if _, err := r.col.InsertOne(ctx, toAuditDocument(e)); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes and the retention TTL index.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "actor", Value: 1}, {Key: "at", Value: -1}}},
		{Keys: bson.D{{Key: "action", Value: 1}}},
		{
			Keys:    bson.D{{Key: "at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(int32(auditRetention.Seconds())),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
