package department

import "github.com/elitehr/elite-time/internal"

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ManagerID   *int64 `json:"manager_id,omitempty"`
}

func (d CreateDepartmentDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateDepartmentDTO struct {
	Description *string `json:"description,omitempty"`
	ManagerID   *int64  `json:"manager_id,omitempty"`
}

type RenameDepartmentDTO struct {
	NewName string `json:"new_name"`
}

func (d RenameDepartmentDTO) Validate() error {
	if d.NewName == "" {
		return internal.NewValidationError("new_name is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type DepartmentsResponse struct {
	Success     bool          `json:"success"`
	Departments []*Department `json:"departments"`
}
