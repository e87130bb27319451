package server

import (
	"net/http"

	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
)

// NewPprofServer returns the pprof server for addr. It should only be
// reachable internally or via SSH tunnel. An empty addr disables it.
func NewPprofServer(addr string) *http.Server {
	if addr == "" {
		return nil
	}
	pprofRouter := gin.New()
	pprof.Register(pprofRouter)
	return &http.Server{Addr: addr, Handler: pprofRouter}
}
