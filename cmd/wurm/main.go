package main

import "wurm/internal/game"

func main() {
	game.RunDesktop()
}
