// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/StorkenPb/CategoryPlanner/internal/csvio"
	"github.com/StorkenPb/CategoryPlanner/internal/storage"
)

// exportFilename is the download name of CSV exports.
const exportFilename = "categories.csv"

// Import replaces the collection with an uploaded CSV file. Rejected files
// leave the collection untouched.
func (a *API) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	data, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large, maximum size is 10 MB")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read upload")
		return
	}
	a.importCSV(w, r, data, "upload")
}

// importCSV parses data and swaps it into the session.
func (a *API) importCSV(w http.ResponseWriter, r *http.Request, data []byte, source string) {
	res, err := csvio.Import(bytes.NewReader(data), a.importer)
	if err != nil {
		slog.Info("import rejected", "source", source, "error", err)
		writeDomainError(w, err)
		return
	}
	a.session.Replace(res.Categories)
	a.dropGraphs(r.Context())
	slog.Info("categories imported",
		"source", source,
		"categories", len(res.Categories),
		"skipped", res.Skipped,
		"warnings", len(res.Warnings),
	)
	writeJSON(w, http.StatusOK, res)
}

// Export downloads the collection as CSV.
func (a *API) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := csvio.Export(&buf, a.session.Categories(), a.session.Languages()); err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", storage.CSVContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// archiveResponse describes one archived export.
type archiveResponse struct {
	Key        string `json:"key"`
	URL        string `json:"url"`
	Categories int    `json:"categories"`
	SizeBytes  int64  `json:"size_bytes"`
	ExpiresAt  string `json:"expires_at"`
}

// ArchiveExport uploads the current CSV export to object storage and
// returns a presigned download link.
func (a *API) ArchiveExport(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}
	cats := a.session.Categories()
	var buf bytes.Buffer
	if err := csvio.Export(&buf, cats, a.session.Languages()); err != nil {
		writeDomainError(w, err)
		return
	}

	ctx := r.Context()
	now := time.Now()
	key := storage.NewExportKey(now)
	size := int64(buf.Len())
	if err := a.archive.Client.Upload(ctx, key, storage.CSVContentType, bytes.NewReader(buf.Bytes()), size); err != nil {
		slog.Error("s3 upload failed", "error", err, "key", key)
		writeError(w, http.StatusBadGateway, "failed to archive export")
		return
	}
	if a.archive.Log != nil {
		a.archive.Log.Record(ctx, key, len(cats), size)
	}

	url, err := a.archive.Client.PresignedURL(ctx, key, a.archive.LinkTTL)
	if err != nil {
		slog.Warn("presign failed, falling back to direct URL", "error", err, "key", key)
		url = a.archive.Client.FileURL(key)
	}
	slog.Info("export archived", "key", key, "categories", len(cats), "size", size)
	writeJSON(w, http.StatusCreated, archiveResponse{
		Key:        key,
		URL:        url,
		Categories: len(cats),
		SizeBytes:  size,
		ExpiresAt:  now.Add(a.archive.LinkTTL).UTC().Format(time.RFC3339),
	})
}

// ListArchive returns the most recent archived exports.
func (a *API) ListArchive(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}
	if a.archive.Log == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, 500)
	}
	entries, err := a.archive.Log.Recent(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// ImportArchive re-imports a previously archived export.
func (a *API) ImportArchive(w http.ResponseWriter, r *http.Request) {
	if a.archive == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}
	var req struct {
		Key string `json:"key"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if !storage.ValidExportKey(req.Key) {
		writeError(w, http.StatusBadRequest, "invalid archive key")
		return
	}
	data, err := a.archive.Client.Download(r.Context(), req.Key)
	if err != nil {
		slog.Error("s3 download failed", "error", err, "key", req.Key)
		writeError(w, http.StatusBadGateway, "failed to fetch archived export")
		return
	}
	a.importCSV(w, r, data, req.Key)
}
