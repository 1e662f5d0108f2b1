package main

import (
	"potionportal.dev/backend/cmd/app"
)

func main() {
	app.Run()
}
