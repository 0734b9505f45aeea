package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/compartment"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/estate"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/plot"
	"github.com/silvacore/patrimony/modules/forestry/domain/aggregates/stand"
	"github.com/silvacore/patrimony/modules/forestry/presentation/viewmodels"
	"github.com/silvacore/patrimony/modules/forestry/services"
	"github.com/silvacore/patrimony/pkg/application"
	"github.com/silvacore/patrimony/pkg/configuration"
	"github.com/silvacore/patrimony/pkg/httpapi"
	"github.com/silvacore/patrimony/pkg/serrors"
)

// hierarchyLevel selects which node kind an operation targets. Estates
// are level 2; the numbering is part of the public API.
type hierarchyLevel int

const (
	levelEstate      hierarchyLevel = 2
	levelCompartment hierarchyLevel = 3
	levelStand       hierarchyLevel = 4
	levelPlot        hierarchyLevel = 5
)

var (
	errInvalidLevel = serrors.NewError("INVALID_LEVEL", "level must be one of 2, 3, 4, 5", "Forestry.InvalidLevel")
	errInvalidID    = serrors.NewError(serrors.ValidationCode, "id is not a valid UUID", "Forestry.InvalidID")
	errInvalidBody  = serrors.NewError(serrors.ValidationCode, "request body is not valid JSON", "Validation.InvalidBody")
)

type ForestryController struct {
	basePath     string
	estates      *services.EstateService
	compartments *services.CompartmentService
	stands       *services.StandService
	plots        *services.PlotService
}

func NewForestryController(app application.Application) application.Controller {
	return &ForestryController{
		basePath:     "/api/forestry",
		estates:      app.Service(services.EstateService{}).(*services.EstateService),
		compartments: app.Service(services.CompartmentService{}).(*services.CompartmentService),
		stands:       app.Service(services.StandService{}).(*services.StandService),
		plots:        app.Service(services.PlotService{}).(*services.PlotService),
	}
}

func (c *ForestryController) Key() string {
	return c.basePath
}

func (c *ForestryController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/nodes/{level}", c.List).Methods(http.MethodGet)
	router.HandleFunc("/nodes/{level}", c.Create).Methods(http.MethodPost)
	router.HandleFunc("/nodes/{level}/{id}", c.GetByID).Methods(http.MethodGet)
	router.HandleFunc("/nodes/{level}/{id}", c.Update).Methods(http.MethodPatch)
	router.HandleFunc("/nodes/{level}/{id}", c.Delete).Methods(http.MethodDelete)
}

func parseLevel(r *http.Request) (hierarchyLevel, error) {
	raw := mux.Vars(r)["level"]
	switch raw {
	case "2":
		return levelEstate, nil
	case "3":
		return levelCompartment, nil
	case "4":
		return levelStand, nil
	case "5":
		return levelPlot, nil
	}
	return 0, errInvalidLevel.WithDetail("level", raw)
}

func parseID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

type listQuery struct {
	ParentID *uuid.UUID
	Search   string
	Page     int
	Limit    int
	Offset   int
}

func parseListQuery(r *http.Request) (listQuery, error) {
	conf := configuration.Use()
	q := r.URL.Query()

	out := listQuery{
		Search: strings.TrimSpace(q.Get("search")),
		Page:   1,
		Limit:  conf.PageSize,
	}
	if raw := q.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return out, serrors.NewError(serrors.ValidationCode, "page must be a positive integer", "Validation.InvalidPage")
		}
		out.Page = page
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return out, serrors.NewError(serrors.ValidationCode, "limit must be a positive integer", "Validation.InvalidLimit")
		}
		out.Limit = limit
	}
	if out.Limit > conf.MaxPageSize {
		out.Limit = conf.MaxPageSize
	}
	out.Offset = (out.Page - 1) * out.Limit

	if raw := q.Get("parentId"); raw != "" {
		parentID, err := uuid.Parse(raw)
		if err != nil {
			return out, serrors.NewError(serrors.ValidationCode, "parentId is not a valid UUID", "Validation.InvalidParentID")
		}
		out.ParentID = &parentID
	}
	return out, nil
}

func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func (c *ForestryController) List(w http.ResponseWriter, r *http.Request) {
	level, err := parseLevel(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	q, err := parseListQuery(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}

	ctx := r.Context()
	switch level {
	case levelEstate:
		items, total, err := c.estates.List(ctx, &estate.FindParams{
			Search: q.Search, Limit: q.Limit, Offset: q.Offset,
		})
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, httpapi.NewPaginated(viewmodels.FromEstates(items), total, q.Page, q.Limit))
	case levelCompartment:
		items, total, err := c.compartments.List(ctx, &compartment.FindParams{
			EstateID: q.ParentID, Search: q.Search, Limit: q.Limit, Offset: q.Offset,
		})
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, httpapi.NewPaginated(viewmodels.FromCompartments(items), total, q.Page, q.Limit))
	case levelStand:
		items, total, err := c.stands.List(ctx, &stand.FindParams{
			CompartmentID: q.ParentID, Search: q.Search, Limit: q.Limit, Offset: q.Offset,
		})
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, httpapi.NewPaginated(viewmodels.FromStands(items), total, q.Page, q.Limit))
	case levelPlot:
		items, total, err := c.plots.List(ctx, &plot.FindParams{
			StandID: q.ParentID, Search: q.Search, Limit: q.Limit, Offset: q.Offset,
		})
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, httpapi.NewPaginated(viewmodels.FromPlots(items), total, q.Page, q.Limit))
	}
}

func (c *ForestryController) GetByID(w http.ResponseWriter, r *http.Request) {
	level, err := parseLevel(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}

	ctx := r.Context()
	switch level {
	case levelEstate:
		entity, err := c.estates.GetByID(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromEstate(entity))
	case levelCompartment:
		entity, err := c.compartments.GetByID(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromCompartment(entity))
	case levelStand:
		entity, err := c.stands.GetByID(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromStand(entity))
	case levelPlot:
		entity, err := c.plots.GetByID(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromPlot(entity))
	}
}

func (c *ForestryController) Create(w http.ResponseWriter, r *http.Request) {
	level, err := parseLevel(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}

	ctx := r.Context()
	switch level {
	case levelEstate:
		var dto estate.CreateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		created, err := c.estates.Create(ctx, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusCreated, viewmodels.FromEstate(created))
	case levelCompartment:
		var dto compartment.CreateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		created, err := c.compartments.Create(ctx, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusCreated, viewmodels.FromCompartment(created))
	case levelStand:
		var dto stand.CreateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		created, err := c.stands.Create(ctx, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusCreated, viewmodels.FromStand(created))
	case levelPlot:
		var dto plot.CreateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		created, err := c.plots.Create(ctx, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusCreated, viewmodels.FromPlot(created))
	}
}

func (c *ForestryController) Update(w http.ResponseWriter, r *http.Request) {
	level, err := parseLevel(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}

	ctx := r.Context()
	switch level {
	case levelEstate:
		var dto estate.UpdateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		updated, err := c.estates.Update(ctx, id, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromEstate(updated))
	case levelCompartment:
		var dto compartment.UpdateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		updated, err := c.compartments.Update(ctx, id, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromCompartment(updated))
	case levelStand:
		var dto stand.UpdateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		updated, err := c.stands.Update(ctx, id, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromStand(updated))
	case levelPlot:
		var dto plot.UpdateDTO
		if err := decodeBody(r, &dto); err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		updated, err := c.plots.Update(ctx, id, &dto)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromPlot(updated))
	}
}

func (c *ForestryController) Delete(w http.ResponseWriter, r *http.Request) {
	level, err := parseLevel(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	id, err := parseID(r)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}

	ctx := r.Context()
	switch level {
	case levelEstate:
		deleted, err := c.estates.Delete(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromEstate(deleted))
	case levelCompartment:
		deleted, err := c.compartments.Delete(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromCompartment(deleted))
	case levelStand:
		deleted, err := c.stands.Delete(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromStand(deleted))
	case levelPlot:
		deleted, err := c.plots.Delete(ctx, id)
		if err != nil {
			_ = httpapi.WriteError(w, err)
			return
		}
		_ = httpapi.WriteData(w, http.StatusOK, viewmodels.FromPlot(deleted))
	}
}
