package tile

import (
	"context"
	"cozytown_backend/internal/model"
	"fmt"
	"log"
	"math"
)

func (s *serv) ListTiles(ctx context.Context) ([]model.Tile, error) {
	return s.tileRepo.ListTiles(ctx)
}

func (s *serv) GetTile(ctx context.Context, id string) (*model.Tile, error) {
	return s.tileRepo.GetTile(ctx, id)
}

// Suggestion - сумма для предзаполнения диалога вклада
func (s *serv) Suggestion(ctx context.Context, tileID string, userID int) (*model.Suggestion, error) {
	tile, err := s.tileRepo.GetTile(ctx, tileID)
	if err != nil {
		return nil, err
	}

	coins, err := s.userRepo.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.Suggestion{
		TileID: tile.ID,
		Amount: Suggest(*tile, userID, coins, s.mapCfg.SlotPolicy()),
		Cap:    tile.Cap(),
		Need:   tile.Remaining(),
		Coins:  coins,
	}, nil
}

// Progress - доля открытых тайлов на карте
func (s *serv) Progress(ctx context.Context) (*model.MapProgress, error) {
	tiles, err := s.tileRepo.ListTiles(ctx)
	if err != nil {
		return nil, err
	}

	p := &model.MapProgress{TotalTiles: len(tiles)}
	for _, t := range tiles {
		if t.IsUnlocked() {
			p.UnlockedTiles++
		}
	}
	if p.TotalTiles > 0 {
		p.Progress = int(math.Round(float64(p.UnlockedTiles) / float64(p.TotalTiles) * 100))
	}

	p.Status = model.ProgressInProgress
	if p.Progress == 100 {
		p.Status = model.ProgressUnlocked
	}

	return p, nil
}

// SeedGrid - создает недостающие тайлы сетки из конфига. Повторный запуск безопасен
func (s *serv) SeedGrid(ctx context.Context) (int, error) {
	created := 0

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		created = 0
		for y := 0; y < s.mapCfg.Height(); y++ {
			for x := 0; x < s.mapCfg.Width(); x++ {
				ok, err := s.tileRepo.CreateTile(txCtx, &model.Tile{
					X:          x,
					Y:          y,
					TileType:   s.mapCfg.TileType(x, y),
					UnlockCost: s.mapCfg.UnlockCost(x, y),
				})
				if err != nil {
					return fmt.Errorf("seed tile (%d,%d): %w", x, y, err)
				}
				if ok {
					created++
				}
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		log.Printf("map seeded: %d new tiles", created)
	}
	return created, nil
}
