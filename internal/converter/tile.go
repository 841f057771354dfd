package converter

import (
	dto "cozytown_backend/internal/api/dto/tile"
	"cozytown_backend/internal/model"
	"fmt"
)

func ToTileResponse(t model.Tile) dto.TileResponse {
	return dto.TileResponse{
		ID:           t.ID,
		X:            t.X,
		Y:            t.Y,
		TileType:     t.TileType,
		UnlockCost:   t.UnlockCost,
		SlotA:        t.SlotA,
		SlotB:        t.SlotB,
		ContributorA: t.ContributorA,
		ContributorB: t.ContributorB,
		SlotCap:      t.Cap(),
		Remaining:    t.Remaining(),
		IsUnlocked:   t.IsUnlocked(),
		AssetIndex:   t.AssetIndex(),
	}
}

func ToListResponse(tiles []model.Tile) dto.ListResponse {
	result := make([]dto.TileResponse, len(tiles))
	for i, t := range tiles {
		result[i] = ToTileResponse(t)
	}
	return dto.ListResponse{Tiles: result}
}

func ToContribution(tileID string, userID int, req dto.ContributeRequest) model.Contribution {
	return model.Contribution{
		TileID: tileID,
		UserID: userID,
		Amount: req.Amount,
	}
}

func ToContributeResponse(res model.ContributionResult) dto.ContributeResponse {
	msg := fmt.Sprintf("Contribution successful! %d coins still needed to unlock this tile.", res.Remaining)
	if res.Unlocked {
		msg = "Tile unlocked! The cozy town is growing!"
	}

	return dto.ContributeResponse{
		Tile:      ToTileResponse(res.Tile),
		Slot:      string(res.Slot),
		Balance:   res.Balance,
		Unlocked:  res.Unlocked,
		Remaining: res.Remaining,
		Message:   msg,
	}
}

func ToSuggestionResponse(s model.Suggestion) dto.SuggestionResponse {
	return dto.SuggestionResponse{
		TileID: s.TileID,
		Amount: s.Amount,
		Cap:    s.Cap,
		Need:   s.Need,
		Coins:  s.Coins,
	}
}

func ToProgressResponse(p model.MapProgress) dto.ProgressResponse {
	return dto.ProgressResponse{
		TotalTiles:    p.TotalTiles,
		UnlockedTiles: p.UnlockedTiles,
		Progress:      p.Progress,
		Status:        p.Status,
	}
}

func ToLiveEvent(t model.Tile) dto.LiveEvent {
	kind := "tile_updated"
	if t.IsUnlocked() {
		kind = "tile_unlocked"
	}
	return dto.LiveEvent{Type: kind, Tile: ToTileResponse(t)}
}
