package main

import (
	"fmt"
	"os"

	_ "clean_cloak/docs"
	"clean_cloak/internal/adapter/http/routes"

	_ "github.com/joho/godotenv/autoload"
)

// @title           Clean Cloak Settlement API
// @version         1.0
// @description     Booking payments, platform fee split and M-Pesa provider payouts backed by DynamoDB.

// @host localhost:8080

// @BasePath  /v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := routes.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "settlement service: %v\n", err)
		os.Exit(1)
	}
}
