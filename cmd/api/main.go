package main

import (
	"os"

	"github.com/cinetix/movie-ticketing/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		os.Exit(1)
	}
}
