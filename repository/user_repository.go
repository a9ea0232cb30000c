package repository

import (
	"errors"

	"github.com/camden-git/gallerysysbackend/models"
	"gorm.io/gorm"
)

type GormUserRepository struct {
	db *gorm.DB
}

func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Roles").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Preload("Roles").Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *GormUserRepository) ListAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Preload("Roles").Order("username ASC").Find(&users).Error
	return users, err
}

func (r *GormUserRepository) GetUserRoles(userID uint) ([]models.Role, error) {
	user, err := r.GetByID(userID)
	if err != nil {
		return nil, err
	}

	roles := make([]models.Role, 0, len(user.Roles))
	for _, rolePtr := range user.Roles {
		if rolePtr != nil {
			roles = append(roles, *rolePtr)
		}
	}
	return roles, nil
}
