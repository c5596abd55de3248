package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/sbilibin2017/memeshare/internal/jwt"
	"github.com/sbilibin2017/memeshare/internal/logger"
	"github.com/sbilibin2017/memeshare/internal/models"
	"github.com/sbilibin2017/memeshare/internal/services"
)

// MaxUploadSize caps request bodies, file uploads included.
const MaxUploadSize = 25 << 20

// multipart parts above this size are spooled to disk by net/http
const multipartMemory = 8 << 20

var (
	errBodyTooLarge   = errors.New("request body too large")
	errInvalidRequest = errors.New("invalid request body")
)

// ErrorResponse is the body of every failed request
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: Internal server error
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// writeServiceError maps service errors to a status and message.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeError(w, http.StatusBadRequest, validationMessage(err))
	case errors.Is(err, services.ErrUserAlreadyExists):
		writeError(w, http.StatusBadRequest, "Username or email already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrUnsupportedMedia):
		writeError(w, http.StatusBadRequest, "Invalid file type, only images and videos are allowed")
	case errors.Is(err, services.ErrUploadFailed):
		writeError(w, http.StatusInternalServerError, "Error uploading file")
	case errors.Is(err, services.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "Post not found")
	case errors.Is(err, services.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// validationMessage turns "validation failed: title is required" into "Title is required".
func validationMessage(err error) string {
	msg := strings.TrimPrefix(err.Error(), services.ErrValidation.Error()+": ")
	if msg == "" || msg == services.ErrValidation.Error() {
		return "Invalid request"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

// writeRequestError answers a body that could not be read.
func writeRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, errBodyTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
}

// requestForm holds the text fields and the optional file of a request body
// sent as JSON, urlencoded or multipart form.
type requestForm struct {
	values    map[string]string
	file      *models.Upload
	multipart *multipart.Form
	closer    multipart.File
}

// readForm parses the request body. fileField names the multipart file
// field, if any. The caller must call close when done.
func readForm(w http.ResponseWriter, r *http.Request, fileField string) (*requestForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	form := &requestForm{values: map[string]string{}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return nil, bodyError(err)
		}
		form.multipart = r.MultipartForm
		for k, v := range r.MultipartForm.Value {
			if len(v) > 0 {
				form.values[k] = v[0]
			}
		}
		if fileField == "" {
			break
		}
		f, hdr, err := r.FormFile(fileField)
		if errors.Is(err, http.ErrMissingFile) {
			break
		}
		if err != nil {
			form.close()
			return nil, bodyError(err)
		}
		form.closer = f
		form.file = &models.Upload{
			Filename:    hdr.Filename,
			ContentType: hdr.Header.Get("Content-Type"),
			Size:        hdr.Size,
			Content:     f,
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, bodyError(err)
		}
		for k, v := range r.PostForm {
			if len(v) > 0 {
				form.values[k] = v[0]
			}
		}
	default:
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			return nil, bodyError(err)
		}
		for k, v := range raw {
			var s string
			if err := json.Unmarshal(v, &s); err != nil {
				return nil, errInvalidRequest
			}
			form.values[k] = s
		}
	}
	return form, nil
}

func bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return errBodyTooLarge
	}
	return errInvalidRequest
}

// value returns a text field, empty when absent.
func (f *requestForm) value(key string) string {
	return f.values[key]
}

// optional returns a pointer to a text field, nil when absent.
func (f *requestForm) optional(key string) *string {
	v, ok := f.values[key]
	if !ok {
		return nil
	}
	return &v
}

func (f *requestForm) close() {
	if f.closer != nil {
		f.closer.Close()
	}
	if f.multipart != nil {
		f.multipart.RemoveAll()
	}
}

// pageFromQuery reads the optional limit and offset query parameters.
// A given limit must be positive; an absent one lists everything.
func pageFromQuery(r *http.Request) (models.Page, error) {
	var page models.Page
	q := r.URL.Query()
	for _, p := range []struct {
		key string
		dst *int
		min int
	}{
		{"limit", &page.Limit, 1},
		{"offset", &page.Offset, 0},
	} {
		raw := q.Get(p.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < p.min {
			return page, errInvalidRequest
		}
		*p.dst = n
	}
	return page, nil
}

// idParam parses the {id} route parameter.
func idParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// currentUser returns the identity attached by the auth middleware.
func currentUser(r *http.Request) (*jwt.Claims, bool) {
	return jwt.ClaimsFromContext(r.Context())
}
