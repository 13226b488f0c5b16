// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"
)

const (
	indexFile = "index.html"

	// Built assets carry content hashes in their names, so they never change.
	assetCacheControl = "public, max-age=31536000, immutable"
	indexCacheControl = "no-cache"
)

// SPAHandler serves a compiled single-page app.
//
// Existing files are served with a one-year cache and an ETag. Every other
// GET falls back to index.html, which is never cached, so client-side routes
// survive a reload.
type SPAHandler struct {
	files fs.FS
}

// NewSPAHandler serves files, typically os.DirFS of the build output.
func NewSPAHandler(files fs.FS) *SPAHandler {
	return &SPAHandler{files: files}
}

// ServeHTTP implements [http.Handler].
func (handler *SPAHandler) ServeHTTP(writer http.ResponseWriter, request *http.Request) {
	if request.Method != http.MethodGet && request.Method != http.MethodHead {
		writer.Header().Set("Allow", "GET, HEAD")
		http.Error(writer, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	name := strings.TrimPrefix(path.Clean("/"+request.URL.Path), "/")
	if name != "" && name != indexFile && handler.serve(writer, request, name, assetCacheControl) {
		return
	}

	if !handler.serve(writer, request, indexFile, indexCacheControl) {
		http.NotFound(writer, request)
	}
}

// serve writes the file name and reports whether it exists as a regular file.
func (handler *SPAHandler) serve(writer http.ResponseWriter, request *http.Request, name, cacheControl string) bool {
	file, err := handler.files.Open(name)
	if err != nil {
		return false
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	content, ok := file.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(file)
		if err != nil {
			return false
		}
		content = bytes.NewReader(data)
	}

	writer.Header().Set("Cache-Control", cacheControl)
	writer.Header().Set("ETag", etag(info.ModTime(), info.Size()))

	// ServeContent answers If-None-Match with 304 and sets Content-Type from the name.
	http.ServeContent(writer, request, info.Name(), info.ModTime(), content)
	return true
}

func etag(modified time.Time, size int64) string {
	return fmt.Sprintf(`"%x-%x"`, modified.UnixNano(), size)
}
