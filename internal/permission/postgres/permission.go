package postgres

import (
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) permission.RepositoryAPI {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) GetAll() ([]*userDatamodel.Permission, error) {
	var perms []*userDatamodel.Permission
	err := r.db.Order("category ASC, name ASC").Find(&perms).Error
	return perms, err
}

func (r *PermissionRepository) GetByName(name string) (*userDatamodel.Permission, error) {
	var perm userDatamodel.Permission
	err := r.db.Where("name = ?", name).First(&perm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepository) GetByID(id int64) (*userDatamodel.Permission, error) {
	var perm userDatamodel.Permission
	err := r.db.Where("id = ?", id).First(&perm).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &perm, nil
}

func (r *PermissionRepository) GetForUser(userID int64) ([]*userDatamodel.Permission, error) {
	var perms []*userDatamodel.Permission
	err := r.db.
		Joins("JOIN user_permissions up ON up.permission_id = permissions.id").
		Where("up.user_id = ?", userID).
		Order("permissions.name ASC").
		Find(&perms).Error
	return perms, err
}

func (r *PermissionRepository) HasGrant(userID, permissionID int64) (bool, error) {
	var count int64
	err := r.db.Model(&userDatamodel.UserPermission{}).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Count(&count).Error
	return count > 0, err
}

func (r *PermissionRepository) CreateGrant(grant *userDatamodel.UserPermission) error {
	return r.db.Create(grant).Error
}

func (r *PermissionRepository) DeleteGrant(userID, permissionID int64) error {
	return r.db.
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&userDatamodel.UserPermission{}).Error
}

func (r *PermissionRepository) DeleteGrantsForUser(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&userDatamodel.UserPermission{}).Error
}

func (r *PermissionRepository) ListUserIDsByRole(role string) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("role = ? AND status = ?", role, "active").
		Pluck("id", &ids).Error
	return ids, err
}
