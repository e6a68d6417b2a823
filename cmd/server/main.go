package main

import (
	"log"

	"leavedesk/internal/app/server"
)

func main() {
	if err := server.Run(); err != nil {
		log.Fatal(err)
	}
}
