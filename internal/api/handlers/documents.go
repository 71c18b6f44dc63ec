// documents.go — обработчики вложений.
// Загрузка принимает multipart/form-data: файл в части "file",
// остальные атрибуты — form-значениями. Содержимое стримится в docstore
// без буферизации в памяти целиком.
package handlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/arturkryukov/staffstore/employee-module/internal/api/errors"
	"github.com/arturkryukov/staffstore/employee-module/internal/service"
)

// maxUploadMemory — порог буферизации multipart-формы в памяти.
const maxUploadMemory = 32 << 20 // 32 MiB

// UploadDocument — загрузка вложения.
// Form: file (обязательно), employeeId (обязательно), projectId, description.
func (h *APIHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		apierrors.ValidationError(w, "ожидается multipart/form-data с частью file")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		apierrors.ValidationError(w, "часть file отсутствует в форме")
		return
	}
	defer file.Close()

	req := &service.UploadDocumentRequest{
		EmployeeID:  r.FormValue("employeeId"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
		UploadedBy:  requestUsername(r),
	}
	if v := r.FormValue("projectId"); v != "" {
		req.ProjectID = &v
	}
	if v := r.FormValue("description"); v != "" {
		req.Description = &v
	}

	d, err := h.documents.Upload(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentResponse(d))
}

// ListDocuments — реестр вложений.
// Query: employeeId, projectId, limit, offset.
func (h *APIHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	limit, offset := paginationFromQuery(r)

	documents, err := h.documents.List(r.Context(),
		queryString(r, "employeeId"),
		queryString(r, "projectId"),
		limit, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	items := make([]*documentResponse, 0, len(documents))
	for _, d := range documents {
		items = append(items, toDocumentResponse(d))
	}

	writeJSON(w, http.StatusOK, map[string]any{"documents": items})
}

// GetDocument — метаданные вложения.
func (h *APIHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	d, err := h.documents.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toDocumentResponse(d))
}

// DownloadDocument — скачивание содержимого вложения.
func (h *APIHandler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	d, body, err := h.documents.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", d.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", d.Filename))
	if d.Size > 0 {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", d.Size))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		// Заголовки уже отправлены, статус менять поздно
		h.logger.Warn("Обрыв передачи содержимого вложения",
			"document_id", d.ID, "error", err.Error())
	}
}

// DeleteDocument — удаление вложения вместе с содержимым в docstore.
func (h *APIHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := h.documents.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
