package handler

import (
	"time"

	"bancoapi/internal/model"
)

// Request and response DTOs for the HTTP boundary. Internal records are
// never serialized directly; each entity has an explicit representation
// and mapping here.

type CreateClientRequest struct {
	CPF   string `json:"cpf" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type UpdateClientRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type CreateTransferRequest struct {
	SourceCPF string  `json:"source_cpf" binding:"required"`
	TargetCPF string  `json:"target_cpf" binding:"required"`
	Value     float64 `json:"value" binding:"required,gt=0"`
}

type ClientResponse struct {
	CPF      string    `json:"cpf"`
	Name     string    `json:"name"`
	Phone    string    `json:"phone"`
	Email    string    `json:"email"`
	Creation time.Time `json:"creation"`
}

type AccountResponse struct {
	AccountUser string `json:"account_user"`
	Number      string `json:"number"`
	Balance     int64  `json:"balance"`
}

type TransferResponse struct {
	ID          int64     `json:"id"`
	ReferenceNo string    `json:"reference_no"`
	SourceCPF   string    `json:"source_cpf"`
	TargetCPF   string    `json:"target_cpf"`
	Value       int64     `json:"value"`
	Date        time.Time `json:"date"`
}

func toClientResponse(client *model.Client) ClientResponse {
	return ClientResponse{
		CPF:      client.CPF,
		Name:     client.Name,
		Phone:    client.Phone,
		Email:    client.Email,
		Creation: client.CreatedAt,
	}
}

func toClientResponses(clients []*model.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		out = append(out, toClientResponse(client))
	}
	return out
}

func toAccountResponse(account *model.Account) AccountResponse {
	return AccountResponse{
		AccountUser: account.CPF,
		Number:      account.Number,
		Balance:     account.Balance,
	}
}

func toAccountResponses(accounts []*model.Account) []AccountResponse {
	out := make([]AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		out = append(out, toAccountResponse(account))
	}
	return out
}

func toTransferResponse(transfer *model.Transfer) TransferResponse {
	return TransferResponse{
		ID:          transfer.ID,
		ReferenceNo: transfer.ReferenceNo,
		SourceCPF:   transfer.SourceCPF,
		TargetCPF:   transfer.TargetCPF,
		Value:       transfer.Amount,
		Date:        transfer.CreatedAt,
	}
}

func toTransferResponses(transfers []*model.Transfer) []TransferResponse {
	out := make([]TransferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		out = append(out, toTransferResponse(transfer))
	}
	return out
}
