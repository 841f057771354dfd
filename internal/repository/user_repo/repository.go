package user_repo

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/repository"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "users"
	colID           = "id"
	colName         = "name"
	colLogin        = "login"
	colPasswordHash = "password_hash"
	colCoins        = "coins"
	colCreatedAt    = "created_at"
)

// SQLSTATE нарушения уникальности (логин занят)
const uniqueViolation = "23505"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewUserRepository(dbc *pgxpool.Pool) repository.UserRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// conn - текущая транзакция из контекста или пул, если транзакции нет
func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.dbc)
}

// CreateUser - создает нового пользователя в БД.
// Возвращает ID созданного пользователя
func (r *repo) CreateUser(ctx context.Context, user *model.User) (int, error) {
	query := psql.Insert(table).
		Columns(colName, colLogin, colPasswordHash, colCoins).
		Values(user.Name, user.Login, user.Password, user.Coins).
		Suffix("RETURNING " + colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, model.ErrLoginTaken
		}
		return 0, fmt.Errorf("create user: %w", err)
	}

	return id, nil
}

// GetUserByLogin - возвращает модель пользователя по его логину
func (r *repo) GetUserByLogin(ctx context.Context, login string) (*model.User, error) {
	query := psql.Select(colID, colName, colLogin, colPasswordHash, colCoins, colCreatedAt).
		From(table).
		Where(sq.Eq{colLogin: login})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var user model.User
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).
		Scan(&user.ID, &user.Name, &user.Login, &user.Password, &user.Coins, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	return &user, nil
}

// ListUsers - все пользователи без хэшей паролей, по порядку регистрации
func (r *repo) ListUsers(ctx context.Context) ([]model.User, error) {
	query := psql.Select(colID, colName, colLogin, colCoins, colCreatedAt).
		From(table).
		OrderBy(colID)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Login, &u.Coins, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}

// GetBalance - получение баланса пользователя по его ID
func (r *repo) GetBalance(ctx context.Context, id int) (int, error) {
	return r.getBalance(ctx, id, false)
}

// GetBalanceForUpdate - то же, что GetBalance, но с блокировкой строки (SELECT ... FOR UPDATE)
func (r *repo) GetBalanceForUpdate(ctx context.Context, id int) (int, error) {
	return r.getBalance(ctx, id, true)
}

func (r *repo) getBalance(ctx context.Context, id int, lock bool) (int, error) {
	query := psql.Select(colCoins).
		From(table).
		Where(sq.Eq{colID: id})
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var coins int
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&coins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrUserNotFound
		}
		return 0, err
	}

	return coins, nil
}

// DebitBalance - условное списание монет.
// Обновление проходит только при coins >= amount, поэтому баланс не уходит в минус
func (r *repo) DebitBalance(ctx context.Context, id int, amount int) (int, error) {
	query := psql.Update(table).
		Set(colCoins, sq.Expr(colCoins+" - ?", amount)).
		Where(sq.Eq{colID: id}).
		Where(sq.GtOrEq{colCoins: amount}).
		Suffix("RETURNING " + colCoins)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var coins int
	err = r.conn(ctx).QueryRow(ctx, sqlStr, args...).Scan(&coins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.ErrInsufficientBalance
		}
		return 0, err
	}

	return coins, nil
}
