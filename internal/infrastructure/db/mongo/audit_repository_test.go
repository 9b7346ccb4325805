package mongo

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/scm/dashboard-gateway/internal/core/domain"
)

func TestToAuditDocument(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	doc := toAuditDocument(domain.AuditEntry{
		ID:          "a1",
		Actor:       "admin",
		Role:        domain.RoleGovernmentAdmin,
		Action:      "user.delete",
		Resource:    "7",
		Invalidated: []string{"users"},
		Outcome:     domain.AuditSucceeded,
		At:          at,
	})

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if m["_id"] != "a1" || m["role"] != "GOVERNMENT_ADMIN" || m["outcome"] != "succeeded" {
		t.Fatalf("unexpected document: %v", m)
	}
	if _, ok := m["error"]; ok {
		t.Fatal("empty error should be omitted")
	}
	if doc.At.Location() != time.UTC || !doc.At.Equal(at) {
		t.Fatalf("timestamp not normalised to UTC: %v", doc.At)
	}
}

func TestToAuditDocument_Failure(t *testing.T) {
	doc := toAuditDocument(domain.AuditEntry{
		ID:      "a2",
		Outcome: domain.AuditFailed,
		Error:   errors.New("remote down").Error(),
	})
	if doc.Error != "remote down" || doc.Invalidated != nil {
		t.Fatalf("unexpected document: %+v", doc)
	}
}
