package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"foodtruck/internal/domain/model"
	repo "foodtruck/internal/repository"

	"github.com/sirupsen/logrus"
)

// 管理画面（承認・停止・削除）
type AdminUsecase struct {
	tx     repo.TransactionManager
	users  repo.UserRepository
	trucks repo.TruckRepository
	menu   repo.MenuItemRepository
	log    *logrus.Logger
}

func NewAdminUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	trucks repo.TruckRepository,
	menu repo.MenuItemRepository,
	log *logrus.Logger,
) *AdminUsecase {
	return &AdminUsecase{tx: tx, users: users, trucks: trucks, menu: menu, log: log}
}

func (u *AdminUsecase) Stats(ctx context.Context) (model.AdminStats, error) {
	s, err := u.users.Stats(ctx)
	if err != nil {
		return model.AdminStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return s, nil
}

func (u *AdminUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.users.ListNonAdmin(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}

func (u *AdminUsecase) ListTrucks(ctx context.Context) ([]model.TruckWithOwner, error) {
	trucks, err := u.trucks.ListWithOwner(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if trucks == nil {
		trucks = []model.TruckWithOwner{}
	}
	return trucks, nil
}

func (u *AdminUsecase) ListPending(ctx context.Context) ([]model.User, error) {
	users, err := u.users.ListPendingOwners(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return users, nil
}

// UpdateUserStatus は停止/再開。オーナーならトラックも一緒に切り替える。
// 停止したユーザーのセッションは消す。
func (u *AdminUsecase) UpdateUserStatus(ctx context.Context, userID int64, status string) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next := model.UserStatus(strings.TrimSpace(status))
	if next != model.UserStatusActive && next != model.UserStatusInactive {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "Valid status is required (active or inactive)")
	}

	var out model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "User not found")
		}
		if err != nil {
			return err
		}
		if user.Role == model.RoleAdmin {
			return NewHTTPError(http.StatusForbidden, "Cannot modify admin users")
		}

		if err := r.Users().UpdateStatus(ctx, userID, next); err != nil {
			return err
		}

		if user.Role == model.RoleTruckOwner {
			ts, os := model.TruckStatusAvailable, model.TruckOrderAvailable
			if next == model.UserStatusInactive {
				ts, os = model.TruckStatusInactive, model.TruckOrderUnavailable
			}
			if err := r.Trucks().SetStatusesByOwner(ctx, userID, ts, os); err != nil {
				return err
			}
		}

		if next == model.UserStatusInactive {
			if _, err := r.Sessions().DeleteByUserID(ctx, userID); err != nil {
				return err
			}
		}

		user.Status = next
		out = user
		return nil
	})
	if err != nil {
		return model.User{}, u.dbError(err, "update user status")
	}
	return out, nil
}

// DeleteUser は却下と同じ順番で全部消す
func (u *AdminUsecase) DeleteUser(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindByID(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "User not found")
		}
		if err != nil {
			return err
		}
		if user.Role == model.RoleAdmin {
			return NewHTTPError(http.StatusForbidden, "Cannot delete admin users")
		}
		return purgeUser(ctx, r, userID)
	})
	if err != nil {
		return u.dbError(err, "delete user")
	}
	return nil
}

// トラックの公開状態（adminだけが変えられる）
func (u *AdminUsecase) UpdateTruckStatus(ctx context.Context, truckID int64, status string) (model.Truck, error) {
	if truckID <= 0 {
		return model.Truck{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next := model.TruckStatus(strings.TrimSpace(status))
	if next != model.TruckStatusAvailable && next != model.TruckStatusInactive {
		return model.Truck{}, NewHTTPError(http.StatusBadRequest, "Valid truckstatus is required (available or inactive)")
	}

	//停止中は注文も受け付けない
	orderStatus := model.TruckOrderAvailable
	if next == model.TruckStatusInactive {
		orderStatus = model.TruckOrderUnavailable
	}

	err := u.trucks.UpdateTruckStatus(ctx, truckID, next, orderStatus)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Truck{}, NewHTTPError(http.StatusNotFound, msgTruckNotFound)
	}
	if err != nil {
		return model.Truck{}, u.dbError(err, "update truck status")
	}

	t, err := u.trucks.FindByID(ctx, truckID)
	if err != nil {
		return model.Truck{}, u.dbError(err, "reload truck")
	}
	return t, nil
}

// 販売停止も含めた全メニュー
func (u *AdminUsecase) TruckMenu(ctx context.Context, truckID int64) ([]model.MenuItem, error) {
	if truckID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if _, err := u.trucks.FindByID(ctx, truckID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewHTTPError(http.StatusNotFound, msgTruckNotFound)
		}
		return nil, u.dbError(err, "find truck")
	}

	items, err := u.menu.List(ctx, repo.MenuItemFilter{TruckID: truckID})
	if err != nil {
		return nil, u.dbError(err, "list menu")
	}
	return items, nil
}

func (u *AdminUsecase) DeleteTruck(ctx context.Context, truckID int64) error {
	if truckID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Trucks().FindByID(ctx, truckID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, msgTruckNotFound)
			}
			return err
		}
		return deleteTruckCascade(ctx, r, truckID)
	})
	if err != nil {
		return u.dbError(err, "delete truck")
	}
	return nil
}

// Approve は pending のオーナーをactiveにし、pendingのトラックを公開する
func (u *AdminUsecase) Approve(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().ApprovePending(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Pending user not found")
		}
		if err != nil {
			return err
		}
		if err := r.Trucks().ApprovePendingByOwner(ctx, userID); err != nil {
			return err
		}
		out = user
		return nil
	})
	if err != nil {
		return model.User{}, u.dbError(err, "approve owner")
	}

	u.log.WithField("user_id", userID).Info("truck owner approved")
	return out, nil
}

// Reject は申請ごと消す（セッション→カート→注文→トラック→ユーザー）
func (u *AdminUsecase) Reject(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out model.User
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		user, err := r.Users().FindPendingOwner(ctx, userID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Pending user not found")
		}
		if err != nil {
			return err
		}
		if err := purgeUser(ctx, r, userID); err != nil {
			return err
		}
		out = user
		return nil
	})
	if err != nil {
		return model.User{}, u.dbError(err, "reject owner")
	}

	u.log.WithField("user_id", userID).Info("truck owner registration rejected")
	return out, nil
}

// HTTPErrorはそのまま、それ以外はログに残して500
func (u *AdminUsecase) dbError(err error, op string) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	u.log.WithError(err).WithField("op", op).Error("admin operation failed")
	return NewHTTPError(http.StatusInternalServerError, "db error")
}
