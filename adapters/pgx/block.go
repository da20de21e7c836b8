package pgx

import (
	"context"

	"github.com/engramhq/engram/core"
)

func (a *Adapter) CreateBlock(ctx context.Context, block *core.Block) error {
	q := `INSERT INTO blocks (id, user_id, local_id, body, created_at)
	      VALUES ($1, $2, $3, $4, $5)
	      RETURNING inserted`

	return a.pool.QueryRow(ctx, q,
		block.ID, block.UserID, block.LocalID, block.Body, block.CreatedAt,
	).Scan(&block.Inserted)
}
