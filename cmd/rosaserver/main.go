//go:build linux && amd64

// Command rosaserver is the preloaded library:
//
//	go build -buildmode=c-shared -o librosaserver.so ./cmd/rosaserver
//	LD_PRELOAD=./librosaserver.so ./subrosa.x64
//
// Loading it attaches to the server; scripts start with the first round reset.
package main

import "C"

import (
	"go.uber.org/zap"

	"github.com/rosa-go/rosaserver"
	"github.com/rosa-go/rosaserver/internal/logging"
)

func init() {
	go func() {
		if _, log, err := rosaserver.Attach(); err != nil {
			logging.Banner(false, "attach failed")
			log.Fatal("attach failed", zap.Error(err))
		}
	}()
}

func main() {}
