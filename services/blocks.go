package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/engramhq/engram/core"
	"github.com/google/uuid"
)

// BlockService ingests append-only block records for authenticated users.
type BlockService struct {
	db core.BlockStorage
}

func NewBlockService(db core.BlockStorage) *BlockService {
	return &BlockService{db: db}
}

// BlockInput is the raw shape of a block-create request. CreatedAt is typed
// loosely because clients send either an RFC 3339 string or a Unix
// epoch-milliseconds number; validation narrows it.
type BlockInput struct {
	LocalID   string  `json:"localId"`
	CreatedAt any     `json:"createdAt,omitempty"`
	Body      *string `json:"body,omitempty"`
}

func parseCreatedAt(v any) (*time.Time, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return nil, errors.New("must be a valid RFC 3339 timestamp")
		}
		return &t, nil
	case float64:
		t := time.UnixMilli(int64(val))
		return &t, nil
	default:
		return nil, errors.New("must be a timestamp")
	}
}

func (in BlockInput) validate() (*time.Time, error) {
	fields := map[string]string{}
	if in.LocalID == "" {
		fields["localId"] = "localId is required"
	}
	createdAt, err := parseCreatedAt(in.CreatedAt)
	if err != nil {
		fields["createdAt"] = err.Error()
	}
	if len(fields) > 0 {
		return nil, &core.ValidationError{Fields: fields}
	}
	return createdAt, nil
}

// Ingest validates input and persists exactly one block owned by userID.
// The owning user id always comes from the resolved session, never from the
// request body. Identical payloads produce distinct blocks; localId dedup is
// a client-side convention.
func (s *BlockService) Ingest(ctx context.Context, userID string, input BlockInput) (*core.Block, error) {
	if userID == "" {
		return nil, core.ErrUnauthenticated
	}

	createdAt, err := input.validate()
	if err != nil {
		return nil, err
	}

	block := &core.Block{
		ID:        uuid.NewString(),
		UserID:    userID,
		LocalID:   input.LocalID,
		Body:      input.Body,
		CreatedAt: createdAt,
		Inserted:  time.Now(),
	}

	if err := s.db.CreateBlock(ctx, block); err != nil {
		return nil, fmt.Errorf("%w: creating block: %w", core.ErrPersistence, err)
	}

	return block, nil
}
