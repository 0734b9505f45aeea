package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/silvacore/patrimony/modules/forestry/services"
	"github.com/silvacore/patrimony/pkg/application"
	"github.com/silvacore/patrimony/pkg/httpapi"
	"github.com/silvacore/patrimony/pkg/serrors"
)

const maxImportBytes = 16 << 20

// TransferController serves workbook export and import of the hierarchy.
type TransferController struct {
	basePath string
	exporter *services.ExportService
	importer *services.ImportService
}

func NewTransferController(app application.Application) application.Controller {
	return &TransferController{
		basePath: "/api/forestry",
		exporter: app.Service(services.ExportService{}).(*services.ExportService),
		importer: app.Service(services.ImportService{}).(*services.ImportService),
	}
}

func (c *TransferController) Key() string {
	return c.basePath + "/transfer"
}

func (c *TransferController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/export", c.Export).Methods(http.MethodGet)
	router.HandleFunc("/import", c.Import).Methods(http.MethodPost)
}

func (c *TransferController) Export(w http.ResponseWriter, r *http.Request) {
	payload, err := c.exporter.ExportHierarchy(r.Context())
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}

	name := services.ExportFileName(time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

func (c *TransferController) Import(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxImportBytes); err != nil {
		_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "expected a multipart upload", "Forestry.Import.BadUpload"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		_ = httpapi.WriteError(w, serrors.NewError(serrors.ValidationCode, "missing file field", "Forestry.Import.MissingFile"))
		return
	}
	defer func() {
		_ = file.Close()
	}()

	result, err := c.importer.ImportEstates(r.Context(), file)
	if err != nil {
		_ = httpapi.WriteError(w, err)
		return
	}
	_ = httpapi.WriteData(w, http.StatusOK, result)
}
