package model

import "time"

// Ширина строки сетки, по которой считается индекс картинки тайла
const assetRowWidth = 6

const (
	SlotA Slot = "a"
	SlotB Slot = "b"
)

// Slot - один из двух слотов вклада в тайл
type Slot string

// Tile - клетка карты. Открывается, когда оба слота набрали по 50% стоимости
type Tile struct {
	ID           string
	X            int
	Y            int
	TileType     string
	UnlockCost   int
	SlotA        int
	SlotB        int
	ContributorA *int // ID пользователя, привязанного к слоту A (nil, если слот свободен)
	ContributorB *int // ID пользователя, привязанного к слоту B
	UpdatedAt    time.Time
}

// Cap - потолок одного слота: floor(unlock_cost / 2)
func (t Tile) Cap() int {
	return t.UnlockCost / 2
}

// IsUnlocked вычисляется только из слотов и никогда не хранится отдельно
func (t Tile) IsUnlocked() bool {
	c := t.Cap()
	return t.SlotA >= c && t.SlotB >= c
}

// Remaining - сколько монет еще нужно до открытия. У открытого тайла всегда 0,
// даже при нечетной стоимости
func (t Tile) Remaining() int {
	if t.IsUnlocked() {
		return 0
	}
	rest := t.UnlockCost - (t.SlotA + t.SlotB)
	if rest < 0 {
		return 0
	}
	return rest
}

// AssetIndex - детерминированный индекс картинки по координатам
func (t Tile) AssetIndex() int {
	return t.X*assetRowWidth + t.Y + 1
}

// SlotOf возвращает слот, к которому привязан пользователь
func (t Tile) SlotOf(userID int) (Slot, bool) {
	if t.ContributorA != nil && *t.ContributorA == userID {
		return SlotA, true
	}
	if t.ContributorB != nil && *t.ContributorB == userID {
		return SlotB, true
	}
	return "", false
}

// Contribution - намерение пользователя вложить монеты в тайл
type Contribution struct {
	TileID string
	UserID int
	Amount int
}

type ContributionResult struct {
	Tile      Tile
	Slot      Slot
	Balance   int
	Unlocked  bool
	Remaining int
}

// TileUpdate - новое состояние слотов для записи в хранилище.
// PrevA/PrevB - значения, прочитанные в той же транзакции (compare-and-swap)
type TileUpdate struct {
	TileID       string
	PrevA        int
	PrevB        int
	SlotA        int
	SlotB        int
	ContributorA *int
	ContributorB *int
}

type Suggestion struct {
	TileID string
	Amount int
	Cap    int
	Need   int
	Coins  int
}

const (
	ProgressInProgress = "in-progress"
	ProgressUnlocked   = "unlocked"
)

// MapProgress - сводка по открытию всей карты
type MapProgress struct {
	TotalTiles    int
	UnlockedTiles int
	Progress      int
	Status        string
}
