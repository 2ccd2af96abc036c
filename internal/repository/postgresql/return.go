package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"

	"github.com/shopfront/fulfillment/internal/db"
	"github.com/shopfront/fulfillment/internal/repository"
)

type ReturnRepo struct {
	db db.DB
}

func NewReturnRepo(db db.DB) *ReturnRepo {
	return &ReturnRepo{db: db}
}

func (r *ReturnRepo) GetAll(ctx context.Context) ([]*repository.ReturnRequest, error) {
	var returns []*repository.ReturnRequest
	err := r.db.Select(ctx, &returns, "SELECT * FROM returns ORDER BY requested_at ASC")
	return returns, err
}

func (r *ReturnRepo) GetByID(ctx context.Context, id string) (*repository.ReturnRequest, error) {
	var ret repository.ReturnRequest
	err := r.db.Get(ctx, &ret, "SELECT * FROM returns WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrObjectNotFound
		}
		return nil, err
	}
	return &ret, nil
}

func (r *ReturnRepo) UpsertTx(ctx context.Context, tx db.Tx, ret *repository.ReturnRequest) error {
	_, err := tx.Exec(ctx, `
        INSERT INTO returns (
            id, order_id, user_id, type, requested_at, status
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            status = EXCLUDED.status
    `, ret.ID, ret.OrderID, ret.UserID, ret.Type, ret.RequestedAt, ret.Status)
	return err
}
