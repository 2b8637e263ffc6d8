// Boxdstats - Film Diary Statistics Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/boxdstats

package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/tomtom215/boxdstats/internal/archive"
	"github.com/tomtom215/boxdstats/internal/logging"
	"github.com/tomtom215/boxdstats/internal/report"
)

// UploadFormField is the multipart field holding the export archive.
const UploadFormField = "file"

// multipartMemory is how much of the upload is buffered in memory before
// spilling to a temporary file.
const multipartMemory = 8 << 20

// UploadStats builds a report from an uploaded export archive.
//
// @Summary Build statistics from a Letterboxd export
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Export archive (.zip)"
// @Success 200 {object} report.Report
// @Failure 400 {object} APIResponse "Missing file, invalid archive or missing table"
// @Failure 413 {object} APIResponse "Upload too large"
// @Failure 500 {object} APIResponse
// @Router /api/upload-stats [post]
func (h *Handler) UploadStats(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	log := logging.Ctx(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		if isBodyTooLarge(err) {
			log.Warn().Int64("limit", h.maxUploadBytes).Msg("Upload exceeds size limit")
			rw.PayloadTooLarge("Upload exceeds the maximum allowed size")
			return
		}
		log.Warn().Err(err).Msg("Malformed upload")
		rw.ValidationError(ErrMissingFile.Error())
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, _, err := r.FormFile(UploadFormField)
	if err != nil {
		rw.ValidationError(ErrMissingFile.Error())
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read upload")
		rw.InternalError("Failed to read upload")
		return
	}

	rep, err := h.reports.Build(r.Context(), data)
	if err != nil {
		h.writeBuildError(rw, r, err)
		return
	}
	rw.JSON(http.StatusOK, rep)
}

func (h *Handler) writeBuildError(rw *ResponseWriter, r *http.Request, err error) {
	log := logging.Ctx(r.Context())
	switch {
	case errors.Is(err, archive.ErrEntryTooLarge):
		log.Warn().Err(err).Msg("Export table exceeds size limit")
		rw.PayloadTooLarge("A table in the export exceeds the maximum allowed size")
	case errors.Is(err, archive.ErrInvalidArchive):
		log.Warn().Err(err).Msg("Upload is not a valid archive")
		rw.ValidationError("The uploaded file is not a valid export archive")
	case report.IsInputError(err):
		log.Warn().Err(err).Msg("Export is missing a required table")
		rw.ValidationError("The export is missing a required table: " + missingTable(err))
	default:
		log.Error().Err(err).Msg("Report build failed")
		rw.InternalError("Failed to build statistics")
	}
}

// missingTable extracts the table name from an archive.ErrNotFound chain.
func missingTable(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, archive.ErrNotFound.Error()+": "); i >= 0 {
		return msg[i+len(archive.ErrNotFound.Error())+2:]
	}
	return "watched, ratings or diary"
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return true
	}
	return strings.Contains(err.Error(), "request body too large")
}
