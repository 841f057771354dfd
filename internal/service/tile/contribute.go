package tile

import (
	"context"
	"cozytown_backend/internal/model"
	"errors"
	"fmt"
	"log"

	"github.com/cenkalti/backoff/v4"
)

// Contribute - атомарно применяет вклад: слоты тайла и списание монет
// пишутся в одной транзакции, либо не пишется ничего
func (s *serv) Contribute(ctx context.Context, c model.Contribution) (*model.ContributionResult, error) {
	// Валидация до любых обращений к хранилищу
	if err := ValidateAmount(c.Amount); err != nil {
		return nil, err
	}

	var res *model.ContributionResult
	err := backoff.Retry(func() error {
		r, err := s.commit(ctx, c)
		if err != nil {
			if !isRetryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		res = r
		return nil
	}, s.retry.backOff(ctx))
	if err != nil {
		if isValidation(err) {
			return nil, err
		}
		log.Printf("contribute to tile %s by user %d failed: %v", c.TileID, c.UserID, err)
		return nil, fmt.Errorf("%w: %w", model.ErrCommitFailed, err)
	}

	s.confirmCommitted(ctx, res)

	if s.publisher != nil {
		s.publisher.Publish(res.Tile)
	}
	// Открытие решается по состоянию своей транзакции: пуш уходит ровно один раз
	if res.Unlocked {
		go s.announceUnlock(res.Tile)
	}

	return res, nil
}

// confirmCommitted - перечитывает тайл после коммита. Если слоты совпадают с записанными,
// берем сохраненную строку, иначе тайл уже изменил чужой коммит и остаемся на своем состоянии
func (s *serv) confirmCommitted(ctx context.Context, res *model.ContributionResult) {
	stored, err := s.tileRepo.GetTile(ctx, res.Tile.ID)
	if err != nil {
		log.Printf("read-after-write for tile %s failed: %v", res.Tile.ID, err)
		return
	}
	if stored.SlotA != res.Tile.SlotA || stored.SlotB != res.Tile.SlotB {
		return
	}
	res.Tile = *stored
}

// commit - одна попытка транзакции
func (s *serv) commit(ctx context.Context, c model.Contribution) (*model.ContributionResult, error) {
	var res *model.ContributionResult

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Свежие слоты под блокировкой строки, а не то, что видел клиент
		tile, err := s.tileRepo.GetTileForUpdate(txCtx, c.TileID)
		if err != nil {
			return err
		}
		if tile.IsUnlocked() {
			return model.ErrTileUnlocked
		}

		// 2. Баланс под блокировкой
		coins, err := s.userRepo.GetBalanceForUpdate(txCtx, c.UserID)
		if err != nil {
			return err
		}
		if c.Amount > coins {
			return model.ErrInsufficientBalance
		}

		// 3. Выбор слота и проверка потолка
		upd, slot, err := AssignSlot(*tile, c.UserID, c.Amount, s.mapCfg.SlotPolicy())
		if err != nil {
			return err
		}

		// 4. Запись слотов (compare-and-swap)
		if err := s.tileRepo.UpdateContributions(txCtx, upd); err != nil {
			return err
		}

		// 5. Списание монет
		balance, err := s.userRepo.DebitBalance(txCtx, c.UserID, c.Amount)
		if err != nil {
			return err
		}

		applied := *tile
		applied.SlotA, applied.SlotB = upd.SlotA, upd.SlotB
		applied.ContributorA, applied.ContributorB = upd.ContributorA, upd.ContributorB

		res = &model.ContributionResult{
			Tile:      applied,
			Slot:      slot,
			Balance:   balance,
			Unlocked:  applied.IsUnlocked(),
			Remaining: applied.Remaining(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// isValidation - ошибки, при которых пользователь должен поменять ввод, повтор бессмысленен
func isValidation(err error) bool {
	return errors.Is(err, model.ErrInvalidAmount) ||
		errors.Is(err, model.ErrCapExceeded) ||
		errors.Is(err, model.ErrInsufficientBalance) ||
		errors.Is(err, model.ErrTileUnlocked) ||
		errors.Is(err, model.ErrSlotTaken) ||
		errors.Is(err, model.ErrTileNotFound) ||
		errors.Is(err, model.ErrUserNotFound)
}

func isRetryable(err error) bool {
	if isValidation(err) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// announceUnlock - пуш обоим вкладчикам. Ошибки только логируются
func (s *serv) announceUnlock(tile model.Tile) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	msg := model.PushMessage{
		Title: "Tile unlocked!",
		Body:  fmt.Sprintf("The cozy town is growing: tile (%d, %d) is now open.", tile.X, tile.Y),
	}

	notified := make(map[int]struct{}, 2)
	for _, id := range []*int{tile.ContributorA, tile.ContributorB} {
		if id == nil {
			continue
		}
		if _, ok := notified[*id]; ok {
			continue
		}
		notified[*id] = struct{}{}

		if _, err := s.notifier.Send(ctx, *id, msg); err != nil && !errors.Is(err, model.ErrNoSubscriptions) {
			log.Printf("notify user %d about tile %s: %v", *id, tile.ID, err)
		}
	}
}
