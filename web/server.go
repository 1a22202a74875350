package web

import (
	"log"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/msh_browser/msh"
	"github.com/mogaika/msh_browser/status"
	"github.com/mogaika/msh_browser/vfs"
)

var ServerDirectory vfs.Directory

// DecodeOptions are passed to every scene decode.
var DecodeOptions []msh.Option

func NewRouter(d vfs.Directory) *mux.Router {
	ServerDirectory = d

	r := mux.NewRouter()
	r.HandleFunc("/json/list", HandlerAjaxList).Methods("GET")
	r.HandleFunc("/json/scene/{file}", HandlerAjaxScene).Methods("GET")
	r.HandleFunc("/json/tree/{file}", HandlerAjaxTree).Methods("GET")
	r.HandleFunc("/dump/scene/{file}", HandlerDumpScene).Methods("GET")
	r.HandleFunc("/export/{file}/{format}", HandlerExport).Methods("GET")
	r.HandleFunc("/ws/status", status.ServeWs)
	return r
}

func StartServer(addr string, d vfs.Directory) error {
	h := handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(NewRouter(d))
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
