package repositories

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestLogOrderSortsByInsertion(t *testing.T) {
	sort, ok := logOrder.Sort.(bson.D)
	if !ok {
		t.Fatalf("expected bson.D sort, got %T", logOrder.Sort)
	}
	if len(sort) != 1 || sort[0].Key != "_id" || sort[0].Value != 1 {
		t.Fatalf("unexpected log sort %v", sort)
	}
}
