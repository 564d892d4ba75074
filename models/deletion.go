package models

import (
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// DeletionState is either Active or Deleted at a point in time. It is stored
// as a nullable deletedAt field.
type DeletionState struct {
	at      time.Time
	deleted bool
}

func Active() DeletionState {
	return DeletionState{}
}

func DeletedAt(at time.Time) DeletionState {
	return DeletionState{at: at, deleted: true}
}

func (s DeletionState) IsDeleted() bool {
	return s.deleted
}

// At returns the deletion time and whether the record is deleted.
func (s DeletionState) At() (time.Time, bool) {
	return s.at, s.deleted
}

func (s DeletionState) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !s.deleted {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(s.at)
}

func (s *DeletionState) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	if t == bson.TypeNull || t == bson.TypeUndefined {
		*s = Active()
		return nil
	}
	at, ok := bson.RawValue{Type: t, Value: data}.TimeOK()
	if !ok {
		return fmt.Errorf("deletedAt: unexpected bson type %s", t)
	}
	*s = DeletedAt(at)
	return nil
}

func (s DeletionState) MarshalJSON() ([]byte, error) {
	if !s.deleted {
		return []byte("null"), nil
	}
	return json.Marshal(s.at)
}

func (s *DeletionState) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Active()
		return nil
	}
	var at time.Time
	if err := json.Unmarshal(data, &at); err != nil {
		return err
	}
	*s = DeletedAt(at)
	return nil
}
