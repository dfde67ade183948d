package main

//go:generate swag init -g cmd/harvester/main.go -o docs

// @title           Termwatch Harvester API
// @version         0.1.0
// @description     5ch term harvesting, weekly trends, and pipeline run controls.
// @host            localhost:8080
// @BasePath        /
// @schemes         http
