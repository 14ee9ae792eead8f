package web

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"clansite/internal/adapters/files"
	"clansite/internal/application/orchestrators"
	"clansite/internal/domain/result"
)

// maxUploadSize caps one result upload, file and fields together.
const maxUploadSize = 10 << 20

// resultDeps bundles what the result orchestrators need.
func (s *Server) resultDeps() orchestrators.ResultFileDeps {
	return orchestrators.ResultFileDeps{
		ResultStore: s.stores.ResultStore,
		Files:       s.files,
		GenerateID:  s.newID,
		Now:         s.now,
	}
}

// parseUpload parses a multipart result form. The returned file is nil when
// the form has no resultFile part; the caller closes a non-nil one.
func parseUpload(w http.ResponseWriter, r *http.Request) (multipart.File, *orchestrators.UploadedFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return nil, nil, err
	}
	f, header, err := r.FormFile("resultFile")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return f, &orchestrators.UploadedFile{Name: header.Filename, Body: f}, nil
}

// uploadError answers a multipart parse failure.
func uploadError(w http.ResponseWriter, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		fail(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	}
	fail(w, http.StatusBadRequest, "invalid upload form")
}

// handleUploadResult handles POST /admin/upload-result.
func (s *Server) handleUploadResult(w http.ResponseWriter, r *http.Request) {
	f, upload, err := parseUpload(w, r)
	if err != nil {
		uploadError(w, err)
		return
	}
	if f != nil {
		defer f.Close()
	}

	res, err := orchestrators.ExecuteUploadResult(r.Context(), orchestrators.UploadResultInput{
		PlayerPhone: r.FormValue("playerPhone"),
		PlayerName:  r.FormValue("playerName"),
		File:        upload,
	}, s.resultDeps())
	if errors.Is(err, result.ErrNoFile) {
		fail(w, http.StatusBadRequest, "No file was selected")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Result uploaded", envelope{"fileUrl": res.FileURL, "resultId": res.ID})
}

// handleUpdateResult handles POST /admin/update-result.
// Without a resultFile part only the player fields change.
func (s *Server) handleUpdateResult(w http.ResponseWriter, r *http.Request) {
	f, upload, err := parseUpload(w, r)
	if err != nil {
		uploadError(w, err)
		return
	}
	if f != nil {
		defer f.Close()
	}

	id := r.FormValue("id")
	if id == "" {
		fail(w, http.StatusBadRequest, "id is required")
		return
	}

	res, err := orchestrators.ExecuteUpdateResult(r.Context(), orchestrators.UpdateResultInput{
		ID:          id,
		PlayerPhone: r.FormValue("playerPhone"),
		PlayerName:  r.FormValue("playerName"),
		File:        upload,
	}, s.resultDeps())
	if errors.Is(err, result.ErrNotFound) {
		fail(w, http.StatusOK, "Result not found")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Result updated", envelope{"fileUrl": res.FileURL})
}

// handleDeleteResult handles DELETE /admin/delete-result/{id}.
func (s *Server) handleDeleteResult(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteResult(r.Context(), r.PathValue("id"), s.resultDeps())
	if errors.Is(err, result.ErrNotFound) {
		fail(w, http.StatusNotFound, "Result not found")
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	ok(w, "Result deleted", nil)
}

// uploadsHandler serves stored result files read-only. Directory listings are refused.
func (s *Server) uploadsHandler() http.Handler {
	fileServer := http.StripPrefix(files.URLPrefix, http.FileServer(http.Dir(s.files.Dir())))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}
