package employee

import (
	"time"

	"inflow/internal/auth"
)

type Employee struct {
	ID                string    `json:"id"`
	EmployeeNumber    string    `json:"employeeNumber"`
	Name              string    `json:"name"`
	Email             string    `json:"email,omitempty"`
	PhoneNumber       string    `json:"phoneNumber,omitempty"`
	Role              auth.Role `json:"role"`
	DepartmentCode    string    `json:"departmentCode"`
	PositionCode      string    `json:"positionCode"`
	MonthlySalary     int64     `json:"monthlySalary"`
	AnnualSalary      int64     `json:"annualSalary"`
	BirthDate         time.Time `json:"birthDate"`
	JoinDate          time.Time `json:"joinDate"`
	ResignationStatus string    `json:"resignationStatus"`
	ProfileImgURL     string    `json:"profileImgUrl,omitempty"`
	StreetAddress     string    `json:"streetAddress,omitempty"`
	DetailedAddress   string    `json:"detailedAddress,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

const (
	ContractTypeEmployment = "EMPLOYMENT"
	ContractTypeSecurity   = "SECURITY"

	ContractStatusSigning    = "SIGNING"
	ContractStatusRegistered = "REGISTERED"
)

type Contract struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employeeId"`
	ContractType  string     `json:"contractType"`
	FileName      string     `json:"fileName,omitempty"`
	FileURL       string     `json:"fileUrl,omitempty"`
	Status        string     `json:"contractStatus"`
	ConsentStatus string     `json:"consentStatus"`
	RegisteredAt  *time.Time `json:"registeredAt,omitempty"`
}

type RegisterInput struct {
	EmployeeNumber string `json:"employeeNumber" validate:"required"`
	Name           string `json:"name" validate:"required"`
	Email          string `json:"email" validate:"omitempty,email"`
	PhoneNumber    string `json:"phoneNumber"`
	DepartmentCode string `json:"departmentCode" validate:"required"`
	PositionCode   string `json:"positionCode" validate:"required"`
	MonthlySalary  int64  `json:"monthlySalary" validate:"required,gt=0"`
	BirthDate      string `json:"birthDate" validate:"required"`
}

type ContactUpdate struct {
	Email           *string `json:"email"`
	PhoneNumber     *string `json:"phoneNumber"`
	StreetAddress   *string `json:"streetAddress"`
	DetailedAddress *string `json:"detailedAddress"`
	ProfileImgURL   *string `json:"profileImgUrl"`
}
