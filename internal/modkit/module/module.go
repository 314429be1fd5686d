// Package module is the minimal module contract and the port registry used during wiring
package module

import phttp "lectern/internal/platform/net/http"

// Module is what mains mount and register; modkit.Base implements it
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}
