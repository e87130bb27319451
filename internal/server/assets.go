package server

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koungmoo-cpu/Auriton-Insight-v2/assets"
)

// SetupAssets serves the embedded front-end: static files under /assets
// and the landing page at /.
func SetupAssets(r *gin.Engine) error {
	staticFiles, err := fs.Sub(assets.Assets, ".")
	if err != nil {
		return err
	}
	page, err := fs.ReadFile(assets.Assets, assets.IndexPath)
	if err != nil {
		return err
	}

	r.StaticFS("/assets", http.FS(staticFiles))
	r.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
	})
	return nil
}
