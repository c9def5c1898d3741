package postgres

import (
	orgDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/organization"
	userDatamodel "github.com/elitehr/elite-time/internal/core/datamodel/user"
	"github.com/elitehr/elite-time/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll() ([]*orgDatamodel.Department, error) {
	var depts []*orgDatamodel.Department
	err := r.db.Order("name ASC").Find(&depts).Error
	return depts, err
}

func (r *DepartmentRepository) GetByID(id int64) (*orgDatamodel.Department, error) {
	var dept orgDatamodel.Department
	err := r.db.Where("id = ?", id).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) GetByName(name string) (*orgDatamodel.Department, error) {
	var dept orgDatamodel.Department
	err := r.db.Where("name = ?", name).First(&dept).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &dept, nil
}

func (r *DepartmentRepository) Create(dept *orgDatamodel.Department) error {
	return r.db.Create(dept).Error
}

func (r *DepartmentRepository) Update(dept *orgDatamodel.Department) error {
	return r.db.Save(dept).Error
}

func (r *DepartmentRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&orgDatamodel.Department{}).Error
}

func (r *DepartmentRepository) CountActiveEmployees(departmentName string) (int64, error) {
	var count int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("department = ? AND status = ?", departmentName, "active").
		Count(&count).Error
	return count, err
}

// Rename runs the department rename and the employee fan-out in one
// transaction so no row is ever left pointing at a name that no longer
// exists.
func (r *DepartmentRepository) Rename(id int64, oldName, newName string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&orgDatamodel.Department{}).
			Where("id = ?", id).
			Update("name", newName).Error; err != nil {
			return err
		}
		return tx.Model(&userDatamodel.User{}).
			Where("department = ?", oldName).
			Update("department", newName).Error
	})
}
