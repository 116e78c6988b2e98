package main

import (
	"log"

	"github.com/ariaforge/ecsforge/internal/core"
)

func main() {
	game := core.NewGame()
	if err := game.Run(); err != nil {
		log.Fatal(err)
	}
}
