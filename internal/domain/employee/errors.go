package employee

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrMappingNotFound  = errors.New("employee has no clover mapping")
)
