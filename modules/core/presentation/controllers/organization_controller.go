package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/silvacore/patrimony/modules/core/domain/entities/organization"
	"github.com/silvacore/patrimony/modules/core/services"
	"github.com/silvacore/patrimony/pkg/application"
	"github.com/silvacore/patrimony/pkg/httpapi"
	"github.com/silvacore/patrimony/pkg/serrors"
)

type OrganizationController struct {
	basePath string
	service  *services.OrganizationService
}

func NewOrganizationController(app application.Application) application.Controller {
	return &OrganizationController{
		basePath: "/api/core/organizations",
		service:  app.Service(services.OrganizationService{}).(*services.OrganizationService),
	}
}

func (c *OrganizationController) Key() string {
	return c.basePath
}

func (c *OrganizationController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/{id}", c.GetByID).Methods(http.MethodGet)
}

type organizationView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	IsActive  bool   `json:"isActive"`
	CreatedAt string `json:"createdAt"`
}

func toOrganizationView(o organization.Organization) organizationView {
	return organizationView{
		ID:        o.ID.String(),
		Name:      o.Name,
		Slug:      o.Slug,
		IsActive:  o.IsActive,
		CreatedAt: o.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (c *OrganizationController) List(w http.ResponseWriter, r *http.Request) {
	items, total, err := c.service.List(r.Context(), &organization.FindParams{})
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	views := make([]organizationView, 0, len(items))
	for _, item := range items {
		views = append(views, toOrganizationView(item))
	}
	_ = httpapi.WriteData(w, http.StatusOK, httpapi.NewPaginated(views, total, 1, len(views)))
}

func (c *OrganizationController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "id is not a valid UUID", "Core.Organizations.InvalidID"))
		return
	}
	entity, err := c.service.GetByID(r.Context(), id)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, toOrganizationView(entity))
}

func (c *OrganizationController) Create(w http.ResponseWriter, r *http.Request) {
	var dto services.CreateOrganizationDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "request body is not valid JSON", "Validation.InvalidBody"))
		return
	}
	created, err := c.service.Create(r.Context(), &dto)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusCreated, toOrganizationView(created))
}
