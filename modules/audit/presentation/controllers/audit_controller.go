package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/silvacore/patrimony/modules/audit/domain/entities/auditrecord"
	"github.com/silvacore/patrimony/modules/audit/services"
	"github.com/silvacore/patrimony/pkg/application"
	"github.com/silvacore/patrimony/pkg/configuration"
	"github.com/silvacore/patrimony/pkg/httpapi"
	"github.com/silvacore/patrimony/pkg/serrors"
)

type AuditController struct {
	basePath string
	service  *services.AuditService
}

func NewAuditController(app application.Application) application.Controller {
	return &AuditController{
		basePath: "/api/audit",
		service:  app.Service(services.AuditService{}).(*services.AuditService),
	}
}

func (c *AuditController) Key() string {
	return c.basePath
}

func (c *AuditController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/records", c.List).Methods(http.MethodGet)
}

type auditRecordView struct {
	ID             string          `json:"id"`
	OrganizationID *string         `json:"organizationId,omitempty"`
	ActorID        string          `json:"actorId"`
	Action         string          `json:"action"`
	Level          int             `json:"level"`
	EntityID       string          `json:"entityId"`
	EntityCode     string          `json:"entityCode,omitempty"`
	Payload        json.RawMessage `json:"payload,omitempty"`
	CreatedAt      string          `json:"createdAt"`
}

func toAuditRecordView(record auditrecord.AuditRecord) auditRecordView {
	var orgID *string
	if record.OrganizationID != nil {
		s := record.OrganizationID.String()
		orgID = &s
	}
	return auditRecordView{
		ID:             record.ID.String(),
		OrganizationID: orgID,
		ActorID:        record.ActorID.String(),
		Action:         record.Action,
		Level:          record.Level,
		EntityID:       record.EntityID.String(),
		EntityCode:     record.EntityCode,
		Payload:        record.Payload,
		CreatedAt:      record.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (c *AuditController) List(w http.ResponseWriter, r *http.Request) {
	conf := configuration.Use()
	q := r.URL.Query()

	page := 1
	if raw := q.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "page must be a positive integer", "Validation.InvalidPage"))
			return
		}
		page = parsed
	}
	limit := conf.PageSize
	if raw := q.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "limit must be a positive integer", "Validation.InvalidLimit"))
			return
		}
		limit = parsed
	}
	if limit > conf.MaxPageSize {
		limit = conf.MaxPageSize
	}

	params := &auditrecord.FindParams{
		Action: strings.TrimSpace(q.Get("action")),
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
	if raw := q.Get("entityId"); raw != "" {
		entityID, err := uuid.Parse(raw)
		if err != nil {
			_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "entityId is not a valid UUID", "Validation.InvalidEntityID"))
			return
		}
		params.EntityID = &entityID
	}

	items, total, err := c.service.List(r.Context(), params)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	views := make([]auditRecordView, 0, len(items))
	for _, item := range items {
		views = append(views, toAuditRecordView(item))
	}
	_ = httpapi.WriteData(w, http.StatusOK, httpapi.NewPaginated(views, total, page, limit))
}
