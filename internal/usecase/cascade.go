package usecase

import (
	"context"
	"fmt"

	repo "foodtruck/internal/repository"
)

// トラックを参照している行ごと消す（カート→注文→メニュー→トラック）
func deleteTruckCascade(ctx context.Context, r repo.TxRepos, truckID int64) error {
	if err := r.Carts().DeleteByTruck(ctx, truckID); err != nil {
		return fmt.Errorf("delete cart entries of truck %d: %w", truckID, err)
	}
	if err := r.Orders().DeleteByTruckID(ctx, truckID); err != nil {
		return fmt.Errorf("delete orders of truck %d: %w", truckID, err)
	}
	if err := r.MenuItems().DeleteByTruck(ctx, truckID); err != nil {
		return fmt.Errorf("delete menu items of truck %d: %w", truckID, err)
	}
	return r.Trucks().Delete(ctx, truckID)
}

// ユーザーを丸ごと消す。順番はセッション→カート→注文→トラック→ユーザー
func purgeUser(ctx context.Context, r repo.TxRepos, userID int64) error {
	if _, err := r.Sessions().DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := r.Carts().ClearByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete cart entries: %w", err)
	}
	if err := r.Orders().DeleteByUserID(ctx, userID); err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}

	trucks, err := r.Trucks().ListByOwner(ctx, userID)
	if err != nil {
		return fmt.Errorf("list trucks: %w", err)
	}
	for _, t := range trucks {
		if err := deleteTruckCascade(ctx, r, t.ID); err != nil {
			return err
		}
	}

	return r.Users().Delete(ctx, userID)
}
