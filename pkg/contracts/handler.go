package contracts

import "github.com/julienschmidt/httprouter"

// Handler is an HTTP surface that mounts its own routes.
type Handler interface {
	RegisterRoutes(router *httprouter.Router)
}
