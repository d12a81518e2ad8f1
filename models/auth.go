package models

// Credentials is the sign-in form.
type Credentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Registration is the sign-up form. New accounts start as PENDING traders.
type Registration struct {
	FullName    string `json:"fullName" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Phone       string `json:"phone" binding:"required"`
	Governorate string `json:"governorate" binding:"required"`
	Age         int    `json:"age" binding:"required,min=16,max=120"`
}
