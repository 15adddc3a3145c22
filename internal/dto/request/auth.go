package request

type RegisterRequest struct {
	FirstName string  `json:"firstName" validate:"required,min=2,max=64"`
	LastName  string  `json:"lastName" validate:"required,min=2,max=64"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=16"`
	Photo     *string `json:"photo,omitempty" validate:"omitempty,url"`
}

type LoginRequest struct {
	EmailOrUsername string `json:"emailOrUsername" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=16"`
}

type SendOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type LoginOtpRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type EmailVerificationRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Password            string `json:"password" validate:"required,min=8,max=16"`
	IdentificationToken string `json:"identificationToken" validate:"required"`
}
