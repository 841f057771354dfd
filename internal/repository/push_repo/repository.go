package push_repo

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table        = "push_subscriptions"
	colID        = "id"
	colUserID    = "user_id"
	colEndpoint  = "endpoint"
	colP256dh    = "p256dh"
	colAuth      = "auth"
	colActive    = "active"
	colUpdatedAt = "updated_at"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewPushRepository(dbc *pgxpool.Pool) repository.PushRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.dbc)
}

// SaveSubscription - сохраняет подписку или обновляет ключи существующей.
// xmax = 0 у возвращенной строки значит, что это была вставка
func (r *repo) SaveSubscription(ctx context.Context, sub *model.PushSubscription) (bool, error) {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}

	query := psql.Insert(table).
		Columns(colID, colUserID, colEndpoint, colP256dh, colAuth, colActive).
		Values(sub.ID, sub.UserID, sub.Endpoint, sub.Keys.P256dh, sub.Keys.Auth, true).
		Suffix("ON CONFLICT (" + colUserID + ", " + colEndpoint + ") DO UPDATE SET " +
			colP256dh + " = EXCLUDED." + colP256dh + ", " +
			colAuth + " = EXCLUDED." + colAuth + ", " +
			colActive + " = true, " +
			colUpdatedAt + " = now() " +
			"RETURNING " + colID + "::text, (xmax = 0)")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	var created bool
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&sub.ID, &created)
	if err != nil {
		return false, err
	}
	sub.Active = true

	return created, nil
}

// ActiveSubscriptions - активные подписки пользователя
func (r *repo) ActiveSubscriptions(ctx context.Context, userID int) ([]model.PushSubscription, error) {
	query := psql.Select(colID+"::text", colUserID, colEndpoint, colP256dh, colAuth, colActive, colUpdatedAt).
		From(table).
		Where(sq.Eq{colUserID: userID, colActive: true}).
		OrderBy(colUpdatedAt + " DESC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		var s model.PushSubscription
		err := rows.Scan(&s.ID, &s.UserID, &s.Endpoint, &s.Keys.P256dh, &s.Keys.Auth, &s.Active, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		subs = append(subs, s)
	}

	return subs, rows.Err()
}

// DeactivateSubscription - помечает подписку неактивной (браузер отписался)
func (r *repo) DeactivateSubscription(ctx context.Context, id string) error {
	query := psql.Update(table).
		Set(colActive, false).
		Set(colUpdatedAt, sq.Expr("now()")).
		Where(sq.Eq{colID: id})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.conn(ctx).Exec(ctx, sqlStr, args...)
	return err
}
