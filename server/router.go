package server

import (
	"net/http"

	"github.com/gorilla/mux"
)

// PressureHandler is the handler set the router mounts.
type PressureHandler interface {
	Notify(w http.ResponseWriter, r *http.Request)
	Preview(w http.ResponseWriter, r *http.Request)
	Ping(w http.ResponseWriter, r *http.Request)
}

type Router struct {
	notifyHandler PressureHandler
	router        *mux.Router
}

// NewRouter creates a router with the app's routes.
func NewRouter(
	notifyHandler PressureHandler,
	router *mux.Router) *Router {
	return &Router{
		notifyHandler: notifyHandler,
		router:        router,
	}
}

func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/v1/notify", r.notifyHandler.Notify).Methods("POST")

	r.router.HandleFunc("/v1/pressure/preview", r.notifyHandler.Preview).Methods("GET")

	r.router.HandleFunc("/ping", r.notifyHandler.Ping).Methods("GET")
}
