package main

import "taskhub/internal/app"

// @title           TaskHub API
// @version         1.0
// @description     Task lifecycle service: status workflow, review approvals and completion analytics.

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @BasePath /
func main() {
	app.Run()
}
