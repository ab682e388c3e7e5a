package department

import "time"

type Department struct {
	Code       string    `json:"departmentCode"`
	Name       string    `json:"departmentName"`
	ParentCode string    `json:"parentDepartmentCode,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Node is a department with its children, used by the hierarchy view.
type Node struct {
	Department
	Children []*Node `json:"children,omitempty"`
}

type Member struct {
	EmployeeNumber string `json:"employeeNumber"`
	Name           string `json:"name"`
	DepartmentCode string `json:"departmentCode"`
	DepartmentName string `json:"departmentName"`
	PositionCode   string `json:"positionCode"`
	PhoneNumber    string `json:"phoneNumber,omitempty"`
}
