package tile

import (
	"cozytown_backend/internal/config"
	"cozytown_backend/internal/model"
)

// ValidateAmount - вклад должен быть положительным
func ValidateAmount(amount int) error {
	if amount <= 0 {
		return model.ErrInvalidAmount
	}
	return nil
}

// AssignSlot выбирает слот для вклада и считает новые суммы слотов.
// Ничего не пишет, только возвращает кандидата на запись
func AssignSlot(t model.Tile, userID, amount int, policy config.SlotPolicy) (model.TileUpdate, model.Slot, error) {
	if err := ValidateAmount(amount); err != nil {
		return model.TileUpdate{}, "", err
	}

	slot, err := pickSlot(t, userID, policy)
	if err != nil {
		return model.TileUpdate{}, "", err
	}

	upd := model.TileUpdate{
		TileID:       t.ID,
		PrevA:        t.SlotA,
		PrevB:        t.SlotB,
		SlotA:        t.SlotA,
		SlotB:        t.SlotB,
		ContributorA: t.ContributorA,
		ContributorB: t.ContributorB,
	}

	uid := userID
	switch slot {
	case model.SlotA:
		upd.SlotA += amount
		if upd.SlotA > t.Cap() {
			return model.TileUpdate{}, "", model.ErrCapExceeded
		}
		if upd.ContributorA == nil {
			upd.ContributorA = &uid
		}
	case model.SlotB:
		upd.SlotB += amount
		if upd.SlotB > t.Cap() {
			return model.TileUpdate{}, "", model.ErrCapExceeded
		}
		if upd.ContributorB == nil {
			upd.ContributorB = &uid
		}
	}

	return upd, slot, nil
}

func pickSlot(t model.Tile, userID int, policy config.SlotPolicy) (model.Slot, error) {
	if policy == config.SlotPolicyHeuristic {
		// Слот A, если он пуст или если B уже начат, а A еще не добран до потолка
		if t.SlotA == 0 || (t.SlotB > 0 && t.SlotA < t.Cap()) {
			return model.SlotA, nil
		}
		return model.SlotB, nil
	}

	if slot, ok := t.SlotOf(userID); ok {
		return slot, nil
	}
	// Слот свободен, только если к нему никто не привязан и в нем нет монет
	if t.ContributorA == nil && t.SlotA == 0 {
		return model.SlotA, nil
	}
	if t.ContributorB == nil && t.SlotB == 0 {
		return model.SlotB, nil
	}
	return "", model.ErrSlotTaken
}

// Suggest - подсказка суммы для диалога вклада, ни к чему не обязывает.
// min(остаток слота, сколько не хватает тайлу, баланс), но не меньше нуля
func Suggest(t model.Tile, userID, coins int, policy config.SlotPolicy) int {
	if t.IsUnlocked() {
		return 0
	}

	slot, err := pickSlot(t, userID, policy)
	if err != nil {
		return 0
	}

	headroom := t.Cap() - t.SlotA
	if slot == model.SlotB {
		headroom = t.Cap() - t.SlotB
	}

	return max(0, min(headroom, t.Remaining(), coins))
}
