package http

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"
)

// SPAHandler serves the admin single page application from a static
// filesystem. It serves static files if they exist, otherwise it falls back
// to index.html so client-side routes resolve after a hard refresh.
type SPAHandler struct {
	StaticFS fs.FS
}

func (h SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// r.URL.Path here is already stripped of the prefix if using http.StripPrefix
	path := strings.TrimPrefix(r.URL.Path, "/")

	if path == "" {
		h.serveIndex(w)
		return
	}

	f, err := h.StaticFS.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// Not a file: a client-side route. Serve the shell.
			h.serveIndex(w)
			return
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	// Directory paths are client-side routes too.
	stat, err := f.Stat()
	if err == nil && stat.IsDir() {
		h.serveIndex(w)
		return
	}

	// Build-hashed assets are content-addressed and safe to cache hard.
	if strings.HasPrefix(path, "assets/") || strings.HasPrefix(path, "static/") {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	}

	http.FileServer(http.FS(h.StaticFS)).ServeHTTP(w, r)
}

func (h SPAHandler) serveIndex(w http.ResponseWriter) {
	content, err := fs.ReadFile(h.StaticFS, "index.html")
	if err != nil {
		http.Error(w, "index.html not found", http.StatusInternalServerError)
		return
	}
	// The shell must never be cached: it references the current asset hashes
	// and carries the guard redirects.
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}
