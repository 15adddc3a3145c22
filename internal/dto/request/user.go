package request

type EditMeRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=2,max=64"`
	LastName  string  `json:"lastName" validate:"required,min=2,max=64"`
	Username  *string `json:"username,omitempty" validate:"omitempty,min=3,max=80"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,e164"`
}
