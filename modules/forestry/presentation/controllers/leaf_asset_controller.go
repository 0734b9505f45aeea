package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/silvacore/patrimony/modules/forestry/domain/entities/leafasset"
	"github.com/silvacore/patrimony/modules/forestry/presentation/viewmodels"
	"github.com/silvacore/patrimony/modules/forestry/services"
	"github.com/silvacore/patrimony/pkg/application"
	"github.com/silvacore/patrimony/pkg/httpapi"
	"github.com/silvacore/patrimony/pkg/serrors"
)

type LeafAssetController struct {
	basePath string
	service  *services.LeafAssetService
}

func NewLeafAssetController(app application.Application) application.Controller {
	return &LeafAssetController{
		basePath: "/api/forestry/leaf-assets",
		service:  app.Service(services.LeafAssetService{}).(*services.LeafAssetService),
	}
}

func (c *LeafAssetController) Key() string {
	return c.basePath
}

func (c *LeafAssetController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Upsert).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.Delete).Methods(http.MethodDelete)
}

func (c *LeafAssetController) List(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}

	params := &leafasset.FindParams{Limit: q.Limit, Offset: q.Offset}
	if raw := r.URL.Query().Get("standId"); raw != "" {
		standID, err := uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "standId is not a valid UUID", "Validation.InvalidStandID"))
			return
		}
		params.StandID = &standID
	}

	items, total, err := c.service.List(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, httpapi.NewPaginated(viewmodels.FromLeafAssets(items), total, q.Page, q.Limit))
}

func (c *LeafAssetController) Upsert(w http.ResponseWriter, r *http.Request) {
	var dto leafasset.UpsertDTO
	if err := decodeBody(r, &dto); err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	saved, err := c.service.Upsert(r.Context(), &dto)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromLeafAsset(saved))
}

func (c *LeafAssetController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	if err := c.service.Delete(r.Context(), id); err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, map[string]bool{"deleted": true})
}
