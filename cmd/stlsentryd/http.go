// cmd/stlsentryd/http.go

package main

import (
	"net/http"

	"github.com/mmp/dronewarden/pkg/diagnostics"
)

func startHTTP(addr string, srv *diagnostics.Server) error {
	return http.ListenAndServe(addr, srv.Handler())
}
