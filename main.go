// @title          Readify API
// @version        1.0
// @description    Library lending backend: catalogue, borrowers, borrowings, reservations and fines.
// @BasePath       /api/v1
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import "readify-backend/internal/cli"

func main() {
	cli.Execute()
}
