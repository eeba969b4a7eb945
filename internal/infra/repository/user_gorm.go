package repository

import (
	"context"

	"foodtruck/internal/domain/model"
	domainrepo "foodtruck/internal/repository"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) domainrepo.UserRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return translateErr(r.db.WithContext(ctx).Create(user).Error)
}

// emailでユーザーを1件取得
func (r *userGormRepository) FindByEmail(ctx context.Context, email string) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&u).Error
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&u).Error
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

func (r *userGormRepository) UpdateProfile(ctx context.Context, id int64, p domainrepo.UserProfilePatch) (model.User, error) {
	updates := map[string]interface{}{}
	if p.Name != nil {
		updates["name"] = *p.Name
	}
	if p.Email != nil {
		updates["email"] = *p.Email
	}
	if p.PasswordHash != nil {
		updates["password_hash"] = *p.PasswordHash
	}
	if p.Birthdate != nil {
		updates["birthdate"] = *p.Birthdate
	}

	if len(updates) > 0 {
		res := r.db.WithContext(ctx).
			Model(&model.User{}).
			Where("id = ?", id).
			Updates(updates)
		if res.Error != nil {
			return model.User{}, translateErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return model.User{}, domainrepo.ErrNotFound
		}
	}

	return r.FindByID(ctx, id)
}

func (r *userGormRepository) UpdateStatus(ctx context.Context, id int64, status model.UserStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	// 0件更新は「対象がない」
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

func (r *userGormRepository) ApprovePending(ctx context.Context, id int64) (model.User, error) {
	res := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ? AND status = ? AND role = ?", id, model.UserStatusPending, model.RoleTruckOwner).
		Update("status", model.UserStatusActive)
	if res.Error != nil {
		return model.User{}, translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return model.User{}, domainrepo.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *userGormRepository) FindPendingOwner(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).
		Where("id = ? AND status = ? AND role = ?", id, model.UserStatusPending, model.RoleTruckOwner).
		First(&u).Error
	if err != nil {
		return model.User{}, translateErr(err)
	}
	return u, nil
}

func (r *userGormRepository) ListPendingOwners(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("status = ? AND role = ?", model.UserStatusPending, model.RoleTruckOwner).
		Order("created_at desc").
		Find(&users).Error
	if err != nil {
		return []model.User{}, err
	}
	return users, nil
}

func (r *userGormRepository) ListNonAdmin(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("role <> ?", model.RoleAdmin).
		Order("created_at desc").
		Find(&users).Error
	if err != nil {
		return []model.User{}, err
	}
	return users, nil
}

func (r *userGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.User{}, id)
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return domainrepo.ErrNotFound
	}
	return nil
}

// ダッシュボード用の件数
func (r *userGormRepository) Stats(ctx context.Context) (model.AdminStats, error) {
	var s model.AdminStats
	db := r.db.WithContext(ctx)

	counts := []struct {
		dst   *int64
		query *gorm.DB
	}{
		{&s.TotalUsers, db.Model(&model.User{}).Where("role <> ?", model.RoleAdmin)},
		{&s.TotalTrucks, db.Model(&model.Truck{})},
		{&s.TotalOrders, db.Model(&model.Order{})},
		{&s.TotalCustomers, db.Model(&model.User{}).Where("role = ?", model.RoleCustomer)},
		{&s.TotalOwners, db.Model(&model.User{}).Where("role = ? AND status = ?", model.RoleTruckOwner, model.UserStatusActive)},
		{&s.PendingApprovals, db.Model(&model.User{}).Where("role = ? AND status = ?", model.RoleTruckOwner, model.UserStatusPending)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dst).Error; err != nil {
			return model.AdminStats{}, err
		}
	}
	return s, nil
}
