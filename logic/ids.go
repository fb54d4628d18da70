package logic

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/gravitl/scimdir/database"
	"github.com/gravitl/scimdir/models"
	"github.com/gravitl/scimdir/servercfg"
)

// IDsForMode - random ids for file and memory persistence, store sequences otherwise
func IDsForMode(persistenceMode string, gw database.Gateway) IDGenerator {
	switch persistenceMode {
	case servercfg.FilePersistence, servercfg.MemoryPersistence:
		return UUIDIDs{}
	}
	if seq, ok := gw.(database.Sequencer); ok {
		return SequenceIDs{Seq: seq}
	}
	return UUIDIDs{}
}

// IDGenerator - hands out ids for new entities.
// floor is the highest numeric id currently cached for the entity type.
type IDGenerator interface {
	NextID(entity models.EntityType, floor int64) (string, error)
}

// SequenceIDs - decimal ids from durable store sequences, never reused across restarts
type SequenceIDs struct {
	Seq database.Sequencer
}

// id ranges the sample directory starts from
const (
	userIDFloor  = 100
	groupIDFloor = 1000
)

// NextID - next value of the entity's sequence, above floor
func (s SequenceIDs) NextID(entity models.EntityType, floor int64) (string, error) {
	min := int64(userIDFloor)
	if entity == models.GroupEntity {
		min = groupIDFloor
	}
	if floor < min {
		floor = min
	}
	next, err := s.Seq.NextSequence(string(entity), floor)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(next, 10), nil
}

// UUIDIDs - random ids for file and memory persistence
type UUIDIDs struct{}

// NextID - a random UUID
func (UUIDIDs) NextID(models.EntityType, int64) (string, error) {
	return uuid.NewString(), nil
}

// maxNumericID - highest id that parses as an integer, 0 when none do
func maxNumericID(ids []string) int64 {
	var max int64
	for _, id := range ids {
		if n, err := strconv.ParseInt(id, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max
}
