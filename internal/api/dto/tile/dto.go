package tile

type TileResponse struct {
	ID           string `json:"id"`
	X            int    `json:"position_x"`
	Y            int    `json:"position_y"`
	TileType     string `json:"tile_type"`
	UnlockCost   int    `json:"unlock_cost"`
	SlotA        int    `json:"user1_contribution"` // Вклад слота A
	SlotB        int    `json:"user2_contribution"` // Вклад слота B
	ContributorA *int   `json:"user1_id"`           // Кто привязан к слоту A
	ContributorB *int   `json:"user2_id"`           // Кто привязан к слоту B
	SlotCap      int    `json:"slot_cap"`           // floor(unlock_cost / 2)
	Remaining    int    `json:"remaining"`          // Сколько еще нужно монет
	IsUnlocked   bool   `json:"is_unlocked"`        // Вычисляется из слотов
	AssetIndex   int    `json:"asset_index"`        // x*6 + y + 1
}

type ListResponse struct {
	Tiles []TileResponse `json:"tiles"`
}

type ContributeRequest struct {
	Amount int `json:"amount"` // Сумма вклада (положительное целое)
}

type ContributeResponse struct {
	Tile      TileResponse `json:"tile"`
	Slot      string       `json:"slot"`      // "a" или "b"
	Balance   int          `json:"balance"`   // Баланс после списания
	Unlocked  bool         `json:"unlocked"`  // Тайл открылся этим вкладом
	Remaining int          `json:"remaining"` // Сколько еще не хватает
	Message   string       `json:"message"`
}

type SuggestionResponse struct {
	TileID string `json:"tile_id"`
	Amount int    `json:"amount"` // Подсказка для диалога
	Cap    int    `json:"slot_cap"`
	Need   int    `json:"remaining"`
	Coins  int    `json:"coins"`
}

type ProgressResponse struct {
	TotalTiles    int    `json:"total_tiles"`
	UnlockedTiles int    `json:"unlocked_tiles"`
	Progress      int    `json:"progress"` // 0-100
	Status        string `json:"status"`   // "in-progress" или "unlocked"
}

// LiveEvent - сообщение живой карты
type LiveEvent struct {
	Type string       `json:"type"`
	Tile TileResponse `json:"tile"`
}
