// Package static serves files from an fs.FS, typically an embed.FS compiled
// into the binary. Directory listings are never served.
package static

import (
	"io/fs"
	"net/http"
	"strings"
)

type config struct {
	stripPrefix  string
	subPath      string
	cacheControl string
}

// Option configures FS.
type Option func(*config)

// WithStripPrefix removes prefix from the URL path before the file lookup.
func WithStripPrefix(prefix string) Option {
	return func(c *config) {
		c.stripPrefix = prefix
	}
}

// WithSubFS serves the subdirectory path of the filesystem.
func WithSubFS(path string) Option {
	return func(c *config) {
		c.subPath = path
	}
}

// WithCacheControl sets the Cache-Control header of served files.
func WithCacheControl(value string) Option {
	return func(c *config) {
		c.cacheControl = value
	}
}

// FS returns a handler serving files from fsys.
// It panics when the sub-path is invalid or the root cannot be opened.
func FS(fsys fs.FS, opts ...Option) http.Handler {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.subPath != "" {
		sub, err := fs.Sub(fsys, cfg.subPath)
		if err != nil {
			panic("static.FS: invalid sub-path '" + cfg.subPath + "': " + err.Error())
		}
		fsys = sub
	}
	if _, err := fsys.Open("."); err != nil {
		panic("static.FS: filesystem is not accessible: " + err.Error())
	}

	var files http.Handler = http.FileServer(neuteredFileSystem{fs: http.FS(fsys)})
	if cfg.stripPrefix != "" {
		files = http.StripPrefix(cfg.stripPrefix, files)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		if cfg.cacheControl != "" {
			w.Header().Set("Cache-Control", cfg.cacheControl)
		}
		files.ServeHTTP(w, r)
	})
}

// neuteredFileSystem hides directories so http.FileServer cannot list them.
type neuteredFileSystem struct {
	fs http.FileSystem
}

func (nfs neuteredFileSystem) Open(path string) (http.File, error) {
	f, err := nfs.fs.Open(path)
	if err != nil {
		return nil, err
	}

	s, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if s.IsDir() {
		_ = f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}
