package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/TommyLangiano/app-tvn-sub004/pkg/auth"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/httputil"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/observability"
	"github.com/TommyLangiano/app-tvn-sub004/pkg/permissions"
)

// RapportiniHandlers serves time reports with the own-versus-all
// permission split: a caller with "all" grants operates on the whole
// tenant, a caller with only "own" grants is confined to rows whose
// user_id is their own, and everyone else is denied. The decision is a
// pure permission-table lookup on the effective role.
type RapportiniHandlers struct {
	store  RapportinoStore
	logger *observability.Logger
}

// NewRapportiniHandlers creates the time report handlers.
func NewRapportiniHandlers(store RapportinoStore, logger *observability.Logger) *RapportiniHandlers {
	return &RapportiniHandlers{store: store, logger: logger}
}

func (h *RapportiniHandlers) list(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	role := ac.Tenant.Role.TableRole()

	switch {
	case permissions.HasPermission(role, permissions.RapportiniAllView):
		reports, err := h.store.List(r.Context(), ac.Tenant.TenantID)
		if err != nil {
			writeStoreError(w, h.logger, err)
			return
		}
		httputil.WriteSuccess(w, map[string]interface{}{"rapportini": reports})
	case permissions.HasPermission(role, permissions.RapportiniOwnView):
		reports, err := h.store.ListByUser(r.Context(), ac.Tenant.TenantID, ac.User.ID)
		if err != nil {
			writeStoreError(w, h.logger, err)
			return
		}
		httputil.WriteSuccess(w, map[string]interface{}{"rapportini": reports})
	default:
		httputil.WriteForbidden(w, "Insufficient permissions")
	}
}

func (h *RapportiniHandlers) get(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	report, err := h.store.Get(r.Context(), ac.Tenant.TenantID, id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	if !permissions.CanViewRapportino(ac.Tenant.Role.TableRole(), ac.User.ID, report.UserID) {
		httputil.WriteForbidden(w, "Insufficient permissions")
		return
	}
	httputil.WriteSuccess(w, report)
}

type rapportinoRequest struct {
	UserID   string  `json:"user_id,omitempty"`
	Data     string  `json:"data"`
	Commessa *string `json:"commessa,omitempty"`
	Ore      float64 `json:"ore"`
	Note     *string `json:"note,omitempty"`
}

func (h *RapportiniHandlers) create(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	role := ac.Tenant.Role.TableRole()

	var req rapportinoRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Data, "data") {
		return
	}
	if req.Ore <= 0 || req.Ore > 24 {
		httputil.WriteValidationError(w, "ore must be between 0 and 24")
		return
	}

	// Writing on behalf of somebody else needs the "all" grant.
	targetUser := ac.User.ID
	if req.UserID != "" && req.UserID != ac.User.ID {
		if !permissions.HasPermission(role, permissions.RapportiniAllCreate) {
			httputil.WriteForbidden(w, "Insufficient permissions")
			return
		}
		targetUser = req.UserID
	} else if !permissions.HasPermission(role, permissions.RapportiniOwnCreate) {
		httputil.WriteForbidden(w, "Insufficient permissions")
		return
	}

	report := &Rapportino{
		TenantID: ac.Tenant.TenantID,
		UserID:   targetUser,
		Data:     req.Data,
		Commessa: req.Commessa,
		Ore:      req.Ore,
		Note:     req.Note,
	}
	if err := h.store.Create(r.Context(), report); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteCreated(w, report)
}

func (h *RapportiniHandlers) update(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.store.Get(r.Context(), ac.Tenant.TenantID, id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if !permissions.CanEditRapportino(ac.Tenant.Role.TableRole(), ac.User.ID, existing.UserID) {
		httputil.WriteForbidden(w, "Insufficient permissions")
		return
	}

	var req rapportinoRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Data, "data") {
		return
	}
	if req.Ore <= 0 || req.Ore > 24 {
		httputil.WriteValidationError(w, "ore must be between 0 and 24")
		return
	}

	existing.Data = req.Data
	existing.Commessa = req.Commessa
	existing.Ore = req.Ore
	existing.Note = req.Note
	if err := h.store.Update(r.Context(), existing); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteSuccess(w, existing)
}

func (h *RapportiniHandlers) delete(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())
	id, ok := httputil.ParsePathInt64OrError(w, r, "id")
	if !ok {
		return
	}

	existing, err := h.store.Get(r.Context(), ac.Tenant.TenantID, id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if !permissions.CanDeleteRapportino(ac.Tenant.Role.TableRole(), ac.User.ID, existing.UserID) {
		httputil.WriteForbidden(w, "Insufficient permissions")
		return
	}

	if err := h.store.Delete(r.Context(), ac.Tenant.TenantID, id); err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	httputil.WriteNoContent(w)
}

// register mounts the time report endpoints behind the member wrapper;
// the finer own-versus-all decisions happen inside the handlers.
func (h *RapportiniHandlers) register(router *mux.Router, wrap func(http.Handler) http.Handler) {
	router.Handle("/api/rapportini", wrap(http.HandlerFunc(h.list))).Methods(http.MethodGet)
	router.Handle("/api/rapportini", wrap(http.HandlerFunc(h.create))).Methods(http.MethodPost)
	router.Handle("/api/rapportini/{id}", wrap(http.HandlerFunc(h.get))).Methods(http.MethodGet)
	router.Handle("/api/rapportini/{id}", wrap(http.HandlerFunc(h.update))).Methods(http.MethodPut)
	router.Handle("/api/rapportini/{id}", wrap(http.HandlerFunc(h.delete))).Methods(http.MethodDelete)
}
