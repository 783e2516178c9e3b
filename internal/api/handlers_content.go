// Cartograph - Multi-Tenant Digital Signage Control Plane
// Copyright 2026 Cartograph Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/opensignage/cartograph

package api

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/opensignage/cartograph/internal/apperrors"
)

// contentEntry is one file in a content catalogue listing.
type contentEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// contentDir maps a catalogue's URL segment to its configured directory.
func (h *Handler) contentDir(category string) (string, bool) {
	switch category {
	case "widgets":
		return h.cfg.Content.WidgetsDir, true
	case "templates":
		return h.cfg.Content.TemplatesDir, true
	case "videos":
		return h.cfg.Content.VideosDir, true
	default:
		return "", false
	}
}

// ListContent handles GET /api/content/:category, one of widgets, templates,
// or videos. Playlist items reference these names by URL; this listing is
// what a playlist editor browses.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	category := urlParam(r, "category")
	dir, ok := h.contentDir(category)
	if !ok {
		rw.InvalidInput("unknown content category: " + category)
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			rw.Success([]contentEntry{})
			return
		}
		rw.FromDomainError(apperrors.Wrap(apperrors.DependencyFailed, "read content dir", err))
		return
	}
	out := make([]contentEntry, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, contentEntry{Name: e.Name(), Size: info.Size()})
	}
	rw.Success(out)
}

// ServeVideo handles GET /video/:filename, streaming an uploaded video asset
// with HTTP range support via http.ServeFile. filename is taken through
// filepath.Base so a path traversal in the URL can never escape VideosDir.
func (h *Handler) ServeVideo(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(urlParam(r, "filename"))
	if name == "." || name == string(filepath.Separator) {
		NewResponseWriter(w, r).NotFound("video not found")
		return
	}
	path := filepath.Join(h.cfg.Content.VideosDir, name)
	if _, err := os.Stat(path); err != nil {
		NewResponseWriter(w, r).NotFound("video not found")
		return
	}
	http.ServeFile(w, r, path)
}
