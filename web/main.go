package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/btbonval/raymarch/internal/logging"
	"github.com/btbonval/raymarch/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn or error")
	flag.Parse()

	level, err := logging.ParseLevel(*logLevel)
	logging.Check(err, "Invalid log level")

	logger := logging.New(level, os.Stderr)
	webServer := server.New(fmt.Sprintf(":%d", *port), logger)

	if err := webServer.ListenAndServe(); err != nil {
		logger.Error("server stopped", logging.Error(err))
		os.Exit(1)
	}
}
