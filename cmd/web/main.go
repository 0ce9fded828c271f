// @title           MS Power Fitness API
// @version         1.0
// @description     Gym membership, plan and payment approval backend.
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import "github.com/loki1512/MS-Fitness-Gym/internal/app"

func main() {
	app.Run()
}
