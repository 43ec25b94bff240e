package pages

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Handler serves the dashboard single-page app from a build directory.
// Paths that do not name a file fall back to index.html so client-side
// routes resolve.
type Handler struct {
	root  http.FileSystem
	files http.Handler
}

// NewHandler creates a new pages handler over staticDir.
func NewHandler(staticDir string) (*Handler, error) {
	index := filepath.Join(staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return nil, err
	}

	root := http.Dir(staticDir)
	return &Handler{
		root:  root,
		files: http.FileServer(root),
	}, nil
}

// ServeHTTP serves a static asset or the app shell.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + strings.TrimPrefix(r.URL.Path, "/"))

	f, err := h.root.Open(name)
	if err == nil {
		stat, statErr := f.Stat()
		f.Close()
		if statErr == nil && !stat.IsDir() {
			h.files.ServeHTTP(w, r)
			return
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	h.render(w, r)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request) {
	f, err := h.root.Open("/index.html")
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", stat.ModTime(), f)
}
