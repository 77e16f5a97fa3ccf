package main

import "bloodbridge_backend/internal/app"

func main() {
	app.Run()
}
