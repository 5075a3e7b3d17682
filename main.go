package main

import (
	_ "time/tzdata"

	"kidsclub/app"
)

func main() {
	app.Run()
}
