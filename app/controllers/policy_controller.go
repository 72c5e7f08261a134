package controllers

import (
	"errors"
	"io"
	"net/http"
	"path"
	"strconv"

	"github.com/yeuxouverts/shop/pkg/storage"
)

// PolicyDocs maps the ?doc= value to a file on the storage disk.
var PolicyDocs = map[string]string{
	"privacy":  "assets/privacidad.pdf",
	"shipping": "assets/envio.pdf",
}

type PolicyController struct {
	Base
	disk func() storage.Disk
}

// NewPolicyController serves documents from disk; nil means the
// configured default disk, resolved per request.
func NewPolicyController(base Base, disk func() storage.Disk) *PolicyController {
	if disk == nil {
		disk = storage.Default
	}
	return &PolicyController{Base: base, disk: disk}
}

// Show streams the requested policy document. Unknown names are a 404.
func (c *PolicyController) Show(w http.ResponseWriter, r *http.Request) {
	file, ok := PolicyDocs[r.URL.Query().Get("doc")]
	if !ok {
		c.NotFound(w, r)
		return
	}

	obj, err := c.disk().Open(r.Context(), file)
	if errors.Is(err, storage.ErrNotExist) {
		c.NotFound(w, r)
		return
	}
	if err != nil {
		c.fail(w, r, err)
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if rs, ok := obj.Body.(io.ReadSeeker); ok {
		http.ServeContent(w, r, path.Base(file), obj.ModTime, rs)
		return
	}

	if obj.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.Size, 10))
	}
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, obj.Body)
}
