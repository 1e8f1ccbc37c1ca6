package handler

import (
	"errors"
	"math"

	"bancoapi/internal/config"
	"bancoapi/internal/infrastructure/cache"
	"bancoapi/internal/repository"
	"bancoapi/internal/service"
	"bancoapi/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// malformedMessage is the boundary message for requests that fail
// structural or field validation.
const malformedMessage = "confira os dados informados"

// Handler bundles the service dependencies behind the HTTP surface.
type Handler struct {
	registryService *service.RegistryService
	transferService *service.TransferService
	queryService    *service.QueryService
}

func NewHandler(db *gorm.DB, cfg *config.Config, accountCache *cache.AccountCache) *Handler {
	return &Handler{
		registryService: service.NewRegistryService(db, cfg, accountCache),
		transferService: service.NewTransferService(db, cfg, accountCache),
		queryService:    service.NewQueryService(db, accountCache),
	}
}

// ============================================================
// Clients
// ============================================================

// CreateClient registers a client and opens its account.
// POST /api/v1/clients
func (h *Handler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, malformedMessage)
		return
	}

	client, err := h.registryService.Register(c.Request.Context(), &service.RegisterRequest{
		CPF:   req.CPF,
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, toClientResponse(client))
}

// ListClients returns every registered client.
// GET /api/v1/clients
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.queryService.ListClients(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toClientResponses(clients))
}

// GetClient returns one client by CPF.
// GET /api/v1/clients/:cpf
func (h *Handler) GetClient(c *gin.Context) {
	client, err := h.queryService.GetClient(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toClientResponse(client))
}

// UpdateClient applies a partial update to a client's mutable fields.
// PUT /api/v1/clients/:cpf
func (h *Handler) UpdateClient(c *gin.Context) {
	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, malformedMessage)
		return
	}

	client, err := h.registryService.Update(c.Request.Context(), c.Param("cpf"), &service.UpdateRequest{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toClientResponse(client))
}

// DeleteClient removes a client and its account. Transfer history stays.
// DELETE /api/v1/clients/:cpf
func (h *Handler) DeleteClient(c *gin.Context) {
	if err := h.registryService.Delete(c.Request.Context(), c.Param("cpf")); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, gin.H{"cpf": c.Param("cpf")})
}

// ============================================================
// Accounts
// ============================================================

// ListAccounts returns every account.
// GET /api/v1/accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	accounts, err := h.queryService.ListAccounts(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toAccountResponses(accounts))
}

// GetAccount returns the account owned by a CPF.
// GET /api/v1/accounts/:cpf
func (h *Handler) GetAccount(c *gin.Context) {
	account, err := h.queryService.GetAccount(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toAccountResponse(account))
}

// ============================================================
// Transfers
// ============================================================

// CreateTransfer executes a transfer between two CPFs.
// POST /api/v1/transfers
//
// The wire value is a JSON number for compatibility with the original
// API, but balances are integer minor units: fractional values are
// rejected rather than truncated.
func (h *Handler) CreateTransfer(c *gin.Context) {
	var req CreateTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, malformedMessage)
		return
	}
	if req.Value != math.Trunc(req.Value) {
		response.ParamError(c, malformedMessage+": value must be a whole number of units")
		return
	}
	// float64(MaxInt64) rounds up to 2^63, so >= also catches the exact
	// boundary; beyond it the int64 conversion would be undefined.
	if req.Value >= math.MaxInt64 {
		response.ParamError(c, malformedMessage+": value out of range")
		return
	}

	transfer, err := h.transferService.Execute(c.Request.Context(), &service.TransferRequest{
		SourceCPF: req.SourceCPF,
		TargetCPF: req.TargetCPF,
		Amount:    int64(req.Value),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Created(c, toTransferResponse(transfer))
}

// ListTransfers returns the whole transfer log in id order.
// GET /api/v1/transfers
func (h *Handler) ListTransfers(c *gin.Context) {
	transfers, err := h.queryService.ListTransfers(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toTransferResponses(transfers))
}

// TransfersSent returns transfers performed by a CPF (possibly empty).
// GET /api/v1/transfers/sent/:cpf
func (h *Handler) TransfersSent(c *gin.Context) {
	transfers, err := h.queryService.TransfersBySource(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toTransferResponses(transfers))
}

// TransfersReceived returns transfers received by a CPF (possibly empty).
// GET /api/v1/transfers/received/:cpf
func (h *Handler) TransfersReceived(c *gin.Context) {
	transfers, err := h.queryService.TransfersByTarget(c.Request.Context(), c.Param("cpf"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, toTransferResponses(transfers))
}

// writeError maps service and repository errors onto the envelope.
// Anything unrecognized is a storage-layer fault and stays a 500.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *service.ValidationError
	switch {
	case errors.As(err, &validationErr):
		response.ParamError(c, malformedMessage+": "+validationErr.Error())
	case errors.Is(err, service.ErrSameAccount):
		response.BusinessError(c, response.CodeSameAccount, err.Error())
	case errors.Is(err, service.ErrInsufficientFunds):
		response.BusinessError(c, response.CodeInsufficientFunds, err.Error())
	case errors.Is(err, repository.ErrDuplicateClient):
		response.BusinessError(c, response.CodeDuplicateClient, err.Error())
	case errors.Is(err, repository.ErrDuplicateAccount):
		response.BusinessError(c, response.CodeDuplicateAccount, err.Error())
	case errors.Is(err, repository.ErrClientNotFound):
		response.NotFound(c, response.CodeClientNotFound, err.Error())
	case errors.Is(err, repository.ErrAccountNotFound):
		response.NotFound(c, response.CodeAccountNotFound, err.Error())
	default:
		response.ServerError(c, "internal error")
	}
}
