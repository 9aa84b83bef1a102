package main

import (
	"os"

	"horse.fit/intel/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
