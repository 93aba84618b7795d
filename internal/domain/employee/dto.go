package employee

type EmployeeFilter struct {
	IsActive *bool `json:"is_active,omitempty"`
}

type EmployeeResponse struct {
	ID            int64   `json:"id"`
	FirstName     string  `json:"first_name"`
	PreferredName *string `json:"preferred_name,omitempty"`
	MiddleName    *string `json:"middle_name,omitempty"`
	LastName      string  `json:"last_name"`
	DisplayName   string  `json:"display_name"`
	Role          string  `json:"role"`
	PhoneNumber   *string `json:"phone_number,omitempty"`
	Email         *string `json:"email,omitempty"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	IsActive      bool    `json:"is_active"`
	Position      *string `json:"position,omitempty"`
	Address       *string `json:"address,omitempty"`
}
