package wallet_api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ms-storefront/internal/logger"
	"ms-storefront/internal/utils"
	"ms-storefront/internal/wallet"
	"ms-storefront/internal/wallet/lisk"
)

// NonceSource looks up the next alt-chain nonce for an address.
type NonceSource interface {
	Nonce(ctx context.Context, address string) (uint64, error)
}

type Handler struct {
	Wallets  *wallet.Service
	AltChain *wallet.AltChainWallet
	Nonces   NonceSource
	Logger   *logger.Logger
}

func NewHandler(wallets *wallet.Service, altChain *wallet.AltChainWallet, nonces NonceSource, log *logger.Logger) *Handler {
	return &Handler{Wallets: wallets, AltChain: altChain, Nonces: nonces, Logger: log}
}

type SessionResponse struct {
	Connected bool            `json:"connected"`
	Address   string          `json:"address,omitempty"`
	Short     string          `json:"shortAddress,omitempty"`
	Kind      string          `json:"kind,omitempty"`
	Options   []wallet.Option `json:"options"`
}

type ConnectRequest struct {
	Kind string `json:"kind"`
}

type TransferRequest struct {
	Recipient string `json:"recipientAddress"`
	Amount    string `json:"amount"`
	Data      string `json:"data,omitempty"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/wallet", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.Disconnect)
		r.Post("/connect", h.Connect)
		r.Get("/events", h.StreamSessionEvents)
		r.Post("/alt-chain/transfer", h.BuildAltChainTransfer)
	})
}

func (h *Handler) sessionResponse(r *http.Request) (SessionResponse, error) {
	resp := SessionResponse{Options: wallet.Options(h.Wallets.Connector.Kinds())}
	address, kind, ok, err := h.Wallets.Current(r.Context())
	if err != nil || !ok {
		return resp, err
	}
	resp.Connected = true
	resp.Address = address
	resp.Short = wallet.ShortAddress(address)
	if kind != 0 {
		resp.Kind = kind.String()
	}
	return resp, nil
}

// GetSession handles GET /api/wallet
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	resp, err := h.sessionResponse(r)
	if err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to read wallet session: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to read wallet session", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Wallet session retrieved", resp))
}

// Connect handles POST /api/wallet/connect
func (h *Handler) Connect(w http.ResponseWriter, r *http.Request) {
	var req ConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	kind, err := wallet.ParseKind(req.Kind)
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse(wallet.UserMessage(err), err.Error()))
		return
	}

	address, err := h.Wallets.Connect(r.Context(), kind)
	if err != nil {
		utils.WriteJSON(w, connectStatus(err), utils.ErrorResponse(wallet.UserMessage(err), err.Error()))
		return
	}

	resp := SessionResponse{
		Connected: true,
		Address:   address,
		Short:     wallet.ShortAddress(address),
		Kind:      kind.String(),
		Options:   wallet.Options(h.Wallets.Connector.Kinds()),
	}
	message := fmt.Sprintf("Connected to %s: %s", kind.DisplayName(), resp.Short)
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse(message, resp))
}

// Disconnect handles DELETE /api/wallet
func (h *Handler) Disconnect(w http.ResponseWriter, r *http.Request) {
	if err := h.Wallets.Disconnect(r.Context()); err != nil {
		h.Logger.Error("API", fmt.Sprintf("Failed to disconnect wallet: %v", err))
		utils.WriteJSON(w, http.StatusInternalServerError, utils.ErrorResponse("Failed to disconnect wallet", err.Error()))
		return
	}
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Wallet disconnected", SessionResponse{
		Options: wallet.Options(h.Wallets.Connector.Kinds()),
	}))
}

// BuildAltChainTransfer handles POST /api/wallet/alt-chain/transfer. The returned transfer is
// unsigned and is not broadcast.
func (h *Handler) BuildAltChainTransfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid request body", err.Error()))
		return
	}

	if h.AltChain == nil {
		utils.WriteJSON(w, http.StatusPreconditionRequired, utils.ErrorResponse("No Lisk wallet connected", "alt-chain wallet unavailable"))
		return
	}
	account, ok := h.AltChain.Account()
	if !ok || account.PublicKey == "" {
		utils.WriteJSON(w, http.StatusPreconditionRequired, utils.ErrorResponse("No Lisk wallet connected", "alt-chain account with public key required"))
		return
	}

	var nonce uint64
	if h.Nonces != nil {
		n, err := h.Nonces.Nonce(r.Context(), account.Address)
		if err != nil {
			h.Logger.Error("API", fmt.Sprintf("Failed to fetch nonce for %s: %v", wallet.ShortAddress(account.Address), err))
			utils.WriteJSON(w, http.StatusBadGateway, utils.ErrorResponse("Failed to fetch account nonce", err.Error()))
			return
		}
		nonce = n
	}

	tx, err := lisk.BuildTransfer(lisk.TransferInput{
		SenderPublicKey: account.PublicKey,
		Recipient:       req.Recipient,
		Amount:          req.Amount,
		Nonce:           nonce,
		Data:            req.Data,
	})
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorResponse("Invalid transfer", err.Error()))
		return
	}

	h.Logger.LogWallet(wallet.KindAltChain.String(), fmt.Sprintf("built unsigned transfer of %d beddows", tx.Amount))
	utils.WriteJSON(w, http.StatusOK, utils.SuccessResponse("Unsigned transfer built; sign it in your wallet", tx))
}

func connectStatus(err error) int {
	switch {
	case errors.Is(err, wallet.ErrUnsupportedWallet):
		return http.StatusBadRequest
	case errors.Is(err, wallet.ErrProviderNotFound), errors.Is(err, wallet.ErrWalletNotInstalled):
		return http.StatusNotFound
	case errors.Is(err, wallet.ErrConnectionRejected):
		return http.StatusForbidden
	case errors.Is(err, wallet.ErrNoAccounts), errors.Is(err, wallet.ErrNoAccountsFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
