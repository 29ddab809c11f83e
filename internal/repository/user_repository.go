package repository

import (
	"github.com/chatterboxhq/chatterbox-backend/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) FindByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	return &user, err
}

// ListOthers returns every user except the requesting one, for the user list
// screen. Online status is layered on by the service from the routing table.
func (r *UserRepository) ListOthers(excludeUserID uint) ([]models.User, error) {
	var users []models.User
	err := r.db.Where("id <> ?", excludeUserID).
		Order("username ASC").
		Find(&users).Error
	return users, err
}
