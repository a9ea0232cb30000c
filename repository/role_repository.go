package repository

import (
	"errors"

	"github.com/camden-git/gallerysysbackend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormRoleRepository struct {
	db *gorm.DB
}

func NewGormRoleRepository(db *gorm.DB) RoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) Create(role *models.Role) error {
	return r.db.Create(role).Error
}

func (r *GormRoleRepository) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := r.db.First(&role, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

func (r *GormRoleRepository) ListAll() ([]models.Role, error) {
	var roles []models.Role
	err := r.db.Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *GormRoleRepository) Update(role *models.Role) error {
	return r.db.Session(&gorm.Session{FullSaveAssociations: true}).Save(role).Error
}

func (r *GormRoleRepository) DeleteByName(name string) error {
	role, err := r.GetByName(name)
	if err != nil {
		return err
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		// delete associated UserRole entries (assignments of this role to users)
		if err := tx.Where("role_id = ?", role.ID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		// delete the role itself
		return tx.Delete(&models.Role{}, role.ID).Error
	})
}

func (r *GormRoleRepository) FindUsersByRoleName(name string) ([]models.User, error) {
	var role models.Role
	err := r.db.Preload("Users").Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	users := make([]models.User, 0, len(role.Users))
	for _, userPtr := range role.Users {
		if userPtr != nil {
			users = append(users, *userPtr)
		}
	}
	return users, nil
}

func (r *GormRoleRepository) AddUserToRole(userID, roleID uint) error {
	userRole := models.UserRole{
		UserID: userID,
		RoleID: roleID,
	}

	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&userRole).Error
}

func (r *GormRoleRepository) RemoveUserFromRole(userID, roleID uint) error {
	return r.db.Where("user_id = ? AND role_id = ?", userID, roleID).Delete(&models.UserRole{}).Error
}
