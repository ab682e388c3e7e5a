package main

import "inflow/internal/app/server"

func main() {
	server.Run()
}
