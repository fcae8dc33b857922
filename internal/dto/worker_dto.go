package dto

type CreateWorkerRequest struct {
	FullName     string  `json:"full_name"     validate:"required,min=3"`
	ContractType string  `json:"contract_type" validate:"required,oneof=por_dia a_trato sin_contrato"`
	Email        *string `json:"email"         validate:"omitempty,email"`
}

type WorkerResponse struct {
	ID           string  `json:"id"`
	FullName     string  `json:"full_name"`
	ContractType string  `json:"contract_type"`
	Email        *string `json:"email,omitempty"`
	Active       bool    `json:"active"`
	CreatedAt    string  `json:"created_at"`
}
