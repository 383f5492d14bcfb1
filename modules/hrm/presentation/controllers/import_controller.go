package controllers

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	gerrors "github.com/go-faster/errors"
	"github.com/gorilla/mux"

	"github.com/nordwind/backoffice/modules/hrm/importer"
	"github.com/nordwind/backoffice/modules/hrm/services"
	"github.com/nordwind/backoffice/pkg/application"
	"github.com/nordwind/backoffice/pkg/configuration"
)

// ImportController accepts a bulk employee batch as either a multipart
// file upload (CSV or XLSX) or a raw JSON array body, and answers with
// the full reconciliation report. Deliberately not wrapped in a request
// transaction: per-row commits are part of the import contract.
type ImportController struct {
	app           application.Application
	importService *services.ImportService
	basePath      string
}

func NewImportController(app application.Application) application.Controller {
	return &ImportController{
		app:           app,
		importService: app.Service(services.ImportService{}).(*services.ImportService),
		basePath:      "/hrm/api/employees/import",
	}
}

func (c *ImportController) Key() string {
	return c.basePath
}

func (c *ImportController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("", c.Import).Methods(http.MethodPost)
}

func (c *ImportController) Import(w http.ResponseWriter, r *http.Request) {
	contentType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_BAD_CONTENT_TYPE", "unparsable content type")
		return
	}

	var report *services.Report
	switch {
	case contentType == "multipart/form-data":
		report, err = c.importUploadedFile(w, r)
	case contentType == "application/json":
		body, readErr := io.ReadAll(io.LimitReader(r.Body, configuration.Use().MaxUploadSize))
		if readErr != nil {
			writeAPIError(w, r, http.StatusBadRequest, "IMPORT_BODY_READ", "failed to read request body")
			return
		}
		report, err = c.importService.ImportJSON(r.Context(), body)
	case contentType == "text/csv":
		report, err = c.importService.ImportCSV(r.Context(), r.Body)
	default:
		writeAPIError(w, r, http.StatusUnsupportedMediaType, "IMPORT_UNSUPPORTED_FORMAT", "expected multipart/form-data, application/json or text/csv")
		return
	}
	if report == nil && err == nil {
		// importUploadedFile already answered.
		return
	}
	if err != nil {
		status, code := classifyImportError(err)
		writeAPIError(w, r, status, code, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (c *ImportController) importUploadedFile(w http.ResponseWriter, r *http.Request) (*services.Report, error) {
	if err := r.ParseMultipartForm(configuration.Use().MaxUploadSize); err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_BAD_MULTIPART", "failed to parse multipart form")
		return nil, nil
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeAPIError(w, r, http.StatusBadRequest, "IMPORT_MISSING_FILE", `multipart field "file" is required`)
		return nil, nil
	}
	defer func() { _ = file.Close() }()

	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		return c.importService.ImportCSV(r.Context(), file)
	case ".xlsx":
		return c.importService.ImportXLSX(r.Context(), file)
	case ".json":
		body, readErr := io.ReadAll(file)
		if readErr != nil {
			writeAPIError(w, r, http.StatusBadRequest, "IMPORT_BODY_READ", "failed to read uploaded file")
			return nil, nil
		}
		return c.importService.ImportJSON(r.Context(), body)
	}
	writeAPIError(w, r, http.StatusUnsupportedMediaType, "IMPORT_UNSUPPORTED_FORMAT", "expected a .csv, .xlsx or .json file")
	return nil, nil
}

// classifyImportError separates structural, whole-batch rejections from
// internal failures. Per-row errors never surface here; they live in the
// report payload.
func classifyImportError(err error) (int, string) {
	switch {
	case gerrors.Is(err, importer.ErrTooManyRows):
		return http.StatusUnprocessableEntity, "IMPORT_TOO_MANY_ROWS"
	case gerrors.Is(err, importer.ErrEmptyBatch):
		return http.StatusUnprocessableEntity, "IMPORT_EMPTY_BATCH"
	case gerrors.Is(err, importer.ErrNotAnArray):
		return http.StatusUnprocessableEntity, "IMPORT_NOT_AN_ARRAY"
	}

	var csvErr *csv.ParseError
	if gerrors.As(err, &csvErr) {
		return http.StatusUnprocessableEntity, "IMPORT_MALFORMED_CSV"
	}
	var jsonErr *json.SyntaxError
	if gerrors.As(err, &jsonErr) {
		return http.StatusBadRequest, "IMPORT_INVALID_JSON"
	}
	return http.StatusInternalServerError, "IMPORT_INTERNAL"
}
