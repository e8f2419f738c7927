package main

import (
	"github.com/dwarvesf/arkswap/internal/server"
)

// @title Arkswap API
// @version 1.0
// @description BTC (Arkade) to EVM stablecoin swap coordinator
// @BasePath /api/v1
func main() {
	server.Init()
}
