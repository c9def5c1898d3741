package postgres

import (
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll(includeDeleted bool) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	q := r.db.Order("name ASC")
	if !includeDeleted {
		q = q.Where("status <> ?", "deleted")
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	var u userDatamodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(u *userDatamodel.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) Update(u *userDatamodel.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) ListDirectoryManaged() ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.Where("ldap_dn IS NOT NULL").Find(&users).Error
	return users, err
}
