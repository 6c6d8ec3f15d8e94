package main

import (
	"log"
	"net/http"
	_ "net/http/pprof"
)

// enablePPROF serves the pprof endpoints in the background. Useful when
// profiling runs over multi-million-point tracks.
func enablePPROF(addr string) {
	go func() {
		log.Printf("pprof: http://%s/debug/pprof/", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			log.Printf("pprof error: %v", err)
		}
	}()
}
