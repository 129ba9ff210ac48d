package server

//go:generate swag init -g internal/server/swagger.go -o docs/swagger --packageName swagger --parseInternal

// @title Kumo API
// @version 0.1
// @description API for scraping websites with flexible configuration.
// @contact.name Kumo Maintainers
// @contact.url https://github.com/raysh454/kumo
// @BasePath /
