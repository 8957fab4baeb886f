package main

import (
	"github.com/schoolsync/relay/internal/server"
)

func main() {
	s := server.New()
	s.RegisterRoutes()
	s.Start()
}
