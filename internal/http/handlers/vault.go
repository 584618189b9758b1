package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dropDatabas3/haven/internal/audit"
	"github.com/dropDatabas3/haven/internal/auth"
	"github.com/dropDatabas3/haven/internal/domain/repository"
	httpx "github.com/dropDatabas3/haven/internal/http"
	"github.com/dropDatabas3/haven/internal/observability/logger"
)

// VaultHandler expone el CRUD de items del vault. El server trata el
// payload como opaco; el cifrado es del lado del cliente.
type VaultHandler struct {
	Auth  auth.CurrentUserProvider
	Vault repository.VaultRepository
	Audit *audit.Service
}

func (h *VaultHandler) Register(r chi.Router) {
	r.Get("/v1/vault", h.list)
	r.Post("/v1/vault", h.create)
	r.Put("/v1/vault/{itemID}", h.update)
	r.Delete("/v1/vault/{itemID}", h.remove)
}

type vaultItemDTO struct {
	ID                string         `json:"id"`
	Provider          string         `json:"provider"`
	ProviderAccountID string         `json:"providerAccountId,omitempty"`
	Name              string         `json:"name"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	RecoveryMethods   map[string]any `json:"recoveryMethods,omitempty"`
	EncryptedPayload  string         `json:"encryptedPayload"`
	RecoveryStatus    string         `json:"recoveryStatus"`
	CreatedAt         time.Time      `json:"createdAt"`
}

func toVaultItemDTO(it *repository.VaultItem) vaultItemDTO {
	return vaultItemDTO{
		ID:                it.ID,
		Provider:          it.Provider,
		ProviderAccountID: it.ProviderAccountID,
		Name:              it.Name,
		Metadata:          it.Metadata,
		RecoveryMethods:   it.RecoveryMethods,
		EncryptedPayload:  it.EncryptedPayload,
		RecoveryStatus:    string(it.RecoveryStatus),
		CreatedAt:         it.CreatedAt,
	}
}

// ownedItem carga el item y verifica que pertenezca al usuario. Un item
// ajeno responde not_found, nunca forbidden: no filtramos existencia.
func (h *VaultHandler) ownedItem(w http.ResponseWriter, r *http.Request, userID string) (*repository.VaultItem, bool) {
	itemID := chi.URLParam(r, "itemID")
	item, err := h.Vault.GetByID(r.Context(), itemID)
	if err != nil {
		if repository.IsNotFound(err) {
			httpx.WriteError(w, http.StatusNotFound, "not_found", "el item no existe")
			return nil, false
		}
		logger.From(r.Context()).Error("get vault item failed", logger.UserID(userID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo leer el item")
		return nil, false
	}
	if item.UserID != userID {
		httpx.WriteError(w, http.StatusNotFound, "not_found", "el item no existe")
		return nil, false
	}
	return item, true
}

func (h *VaultHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	items, err := h.Vault.ListByUser(r.Context(), user.ID)
	if err != nil {
		logger.From(r.Context()).Error("list vault failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo listar el vault")
		return
	}

	out := make([]vaultItemDTO, 0, len(items))
	for i := range items {
		out = append(out, toVaultItemDTO(&items[i]))
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": out})
}

type createVaultItemIn struct {
	Provider          string         `json:"provider"`
	ProviderAccountID string         `json:"providerAccountId"`
	Name              string         `json:"name"`
	Metadata          map[string]any `json:"metadata"`
	RecoveryMethods   map[string]any `json:"recoveryMethods"`
	EncryptedPayload  string         `json:"encryptedPayload"`
}

func (h *VaultHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}

	var in createVaultItemIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}
	if in.Name == "" || in.Provider == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_input", "name y provider son obligatorios")
		return
	}

	item, err := h.Vault.Insert(r.Context(), repository.CreateVaultItemInput{
		UserID:            user.ID,
		Provider:          in.Provider,
		ProviderAccountID: in.ProviderAccountID,
		Name:              in.Name,
		Metadata:          in.Metadata,
		RecoveryMethods:   in.RecoveryMethods,
		EncryptedPayload:  in.EncryptedPayload,
	})
	if err != nil {
		logger.From(r.Context()).Error("create vault item failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo crear el item")
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionAssetAdded, map[string]any{
		"name":     in.Name,
		"provider": in.Provider,
	}); err != nil {
		logger.From(r.Context()).Warn("vault audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusCreated, toVaultItemDTO(item))
}

type updateVaultItemIn struct {
	Name             *string        `json:"name"`
	Metadata         map[string]any `json:"metadata"`
	RecoveryMethods  map[string]any `json:"recoveryMethods"`
	EncryptedPayload *string        `json:"encryptedPayload"`
}

func (h *VaultHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}
	item, ok := h.ownedItem(w, r, user.ID)
	if !ok {
		return
	}

	var in updateVaultItemIn
	if !httpx.ReadJSON(w, r, &in) {
		return
	}

	err := h.Vault.Update(r.Context(), item.ID, repository.UpdateVaultItemInput{
		Name:             in.Name,
		Metadata:         in.Metadata,
		RecoveryMethods:  in.RecoveryMethods,
		EncryptedPayload: in.EncryptedPayload,
	})
	if err != nil {
		logger.From(r.Context()).Error("update vault item failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo actualizar el item")
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionAssetUpdated, map[string]any{
		"name": item.Name,
	}); err != nil {
		logger.From(r.Context()).Warn("vault audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (h *VaultHandler) remove(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r, h.Auth)
	if !ok {
		return
	}
	item, ok := h.ownedItem(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.Vault.Delete(r.Context(), item.ID); err != nil {
		logger.From(r.Context()).Error("delete vault item failed", logger.UserID(user.ID), logger.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal_error", "no se pudo eliminar el item")
		return
	}

	if err := h.Audit.Append(r.Context(), user.ID, repository.ActionAssetDeleted, map[string]any{
		"name": item.Name,
	}); err != nil {
		logger.From(r.Context()).Warn("vault audit failed", logger.UserID(user.ID), logger.Err(err))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
