package handler

import "time"

// Every response body carries a success flag; error bodies add a message.
// This envelope is shared by all endpoints.

// errorResponse is the standard envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// --- Auth: customer ---

type registerRequest struct {
	FullName      string `json:"full_name"      validate:"required,min=2,max=100"`
	IDNumber      string `json:"id_number"      validate:"required,id_number"`
	AccountNumber string `json:"account_number" validate:"required,account_number"`
	Username      string `json:"username"       validate:"required,min=3,max=30"`
	Password      string `json:"password"       validate:"required,min=8,max=72"`
}

type customerLoginRequest struct {
	Username      string `json:"username"       validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	Password      string `json:"password"       validate:"required"`
}

type customerResponse struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Username      string    `json:"username"`
	AccountNumber string    `json:"account_number"`
	CreatedAt     time.Time `json:"created_at"`
}

type customerAuthResponse struct {
	Success  bool             `json:"success"`
	Token    string           `json:"token"`
	Customer customerResponse `json:"customer"`
}

type customerProfileResponse struct {
	Success  bool             `json:"success"`
	Customer customerResponse `json:"customer"`
}

// --- Auth: employee ---

type employeeLoginRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required"`
	Email        string `json:"email"         validate:"required,email"`
	Password     string `json:"password"      validate:"required"`
}

type employeeResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	EmployeeCode string `json:"employee_code"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	Department   string `json:"department"`
}

type employeeAuthResponse struct {
	Success  bool             `json:"success"`
	Token    string           `json:"token"`
	Employee employeeResponse `json:"employee"`
}

type employeeProfileResponse struct {
	Success  bool             `json:"success"`
	Employee employeeResponse `json:"employee"`
}

// --- Payments ---

type createPaymentRequest struct {
	Amount       string `json:"amount"        validate:"required"`
	Currency     string `json:"currency"      validate:"required,oneof=USD EUR GBP ZAR"`
	Provider     string `json:"provider"      validate:"required,oneof=SWIFT"`
	PayeeAccount string `json:"payee_account" validate:"required,payee_account"`
	SwiftCode    string `json:"swift_code"    validate:"required,swift_code"`
}

type paymentResponse struct {
	ID              string     `json:"id"`
	CustomerID      string     `json:"customer_id"`
	Amount          string     `json:"amount"`
	Currency        string     `json:"currency"`
	Provider        string     `json:"provider"`
	PayeeAccount    string     `json:"payee_account"`
	SwiftCode       string     `json:"swift_code"`
	Status          string     `json:"status"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	SubmittedBy     string     `json:"submitted_by,omitempty"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type singlePaymentResponse struct {
	Success bool            `json:"success"`
	Payment paymentResponse `json:"payment"`
}

type listPaymentsResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Payments []paymentResponse `json:"payments"`
}

// --- Review ---

type rejectPaymentRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

type submitBatchRequest struct {
	PaymentIDs []string `json:"payment_ids" validate:"required,min=1,dive,required"`
}

type submitBatchResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int64  `json:"count"`
}

// --- Reporting ---

type statisticsResponse struct {
	Success   bool  `json:"success"`
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Verified  int64 `json:"verified"`
	Completed int64 `json:"completed"`
	Rejected  int64 `json:"rejected"`
}
