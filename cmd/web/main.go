// @title           FieldServe API
// @version         1.0
// @description     Backend for field-service management: clients, equipment, service orders and their file attachments.
// @host            localhost:4000
// @BasePath        /

package main

import "fieldserve_backend/internal/app"

func main() {
	app.Run()
}
