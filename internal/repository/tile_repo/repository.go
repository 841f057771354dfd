package tile_repo

import (
	"context"
	"cozytown_backend/internal/model"
	"cozytown_backend/internal/repository"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table           = "tiles"
	colID           = "id"
	colX            = "position_x"
	colY            = "position_y"
	colTileType     = "tile_type"
	colUnlockCost   = "unlock_cost"
	colSlotA        = "user1_contribution"
	colSlotB        = "user2_contribution"
	colContributorA = "user1_id"
	colContributorB = "user2_id"
	colUpdatedAt    = "updated_at"
)

var columns = []string{
	colID + "::text", colX, colY, colTileType, colUnlockCost,
	colSlotA, colSlotB, colContributorA, colContributorB, colUpdatedAt,
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewTileRepository(dbc *pgxpool.Pool) repository.TileRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

func (r *repo) conn(ctx context.Context) trmpgx.Tr {
	return r.getter.DefaultTrOrDB(ctx, r.dbc)
}

// GetTile - чтение тайла без блокировки
func (r *repo) GetTile(ctx context.Context, id string) (*model.Tile, error) {
	return r.getTile(ctx, id, false)
}

// GetTileForUpdate - чтение тайла с блокировкой строки.
// Второй конкурентный вклад в тот же тайл ждет коммита первого и читает уже новые слоты
func (r *repo) GetTileForUpdate(ctx context.Context, id string) (*model.Tile, error) {
	return r.getTile(ctx, id, true)
}

func (r *repo) getTile(ctx context.Context, id string, lock bool) (*model.Tile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, model.ErrTileNotFound
	}

	query := psql.Select(columns...).
		From(table).
		Where(sq.Eq{colID: id})
	if lock {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	tile, err := scanTile(r.conn(ctx).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTileNotFound
		}
		return nil, err
	}

	return tile, nil
}

// ListTiles - все тайлы в порядке отрисовки: строка, затем столбец
func (r *repo) ListTiles(ctx context.Context) ([]model.Tile, error) {
	query := psql.Select(columns...).
		From(table).
		OrderBy(colY+" ASC", colX+" ASC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.conn(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tiles []model.Tile
	for rows.Next() {
		tile, err := scanTile(rows)
		if err != nil {
			return nil, err
		}
		tiles = append(tiles, *tile)
	}

	return tiles, rows.Err()
}

// UpdateContributions - запись новых слотов с проверкой, что старые значения не изменились
func (r *repo) UpdateContributions(ctx context.Context, upd model.TileUpdate) error {
	query := psql.Update(table).
		Set(colSlotA, upd.SlotA).
		Set(colSlotB, upd.SlotB).
		Set(colContributorA, upd.ContributorA).
		Set(colContributorB, upd.ContributorB).
		Set(colUpdatedAt, sq.Expr("now()")).
		Where(sq.Eq{
			colID:    upd.TileID,
			colSlotA: upd.PrevA,
			colSlotB: upd.PrevB,
		})

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	tag, err := r.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("update tile %s: %w", upd.TileID, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrConflict
	}

	return nil
}

// CreateTile - вставка тайла при сидировании карты.
// Клетка (x, y) уникальна, повторный вызов ничего не меняет
func (r *repo) CreateTile(ctx context.Context, tile *model.Tile) (bool, error) {
	if tile.ID == "" {
		tile.ID = uuid.NewString()
	}

	query := psql.Insert(table).
		Columns(colID, colX, colY, colTileType, colUnlockCost, colSlotA, colSlotB).
		Values(tile.ID, tile.X, tile.Y, tile.TileType, tile.UnlockCost, 0, 0).
		Suffix("ON CONFLICT (" + colX + ", " + colY + ") DO NOTHING")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return false, err
	}

	tag, err := r.conn(ctx).Exec(ctx, sqlStr, args...)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func scanTile(row pgx.Row) (*model.Tile, error) {
	var (
		t        model.Tile
		contribA *int32
		contribB *int32
	)
	err := row.Scan(
		&t.ID, &t.X, &t.Y, &t.TileType, &t.UnlockCost,
		&t.SlotA, &t.SlotB, &contribA, &contribB, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.ContributorA = toIntPtr(contribA)
	t.ContributorB = toIntPtr(contribB)
	return &t, nil
}

func toIntPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}
