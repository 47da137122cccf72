package main

import (
	"context"
	"time"

	"github.com/shandysiswandi/mediflow/internal/app"
)

// @title           Mediflow API
// @version         1.0
// @description     Mediflow provides phone OTP sign-in and customer registration for medicine delivery.
// @termsOfService  https://mediflow.example.com/terms
// @contact.name    Contact Support
// @contact.url     https://mediflow.example.com/contact
// @contact.email   support@mediflow.example.com
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
// @securityDefinitions.apikey  AdminPhone
// @in header
// @name X-Admin-Phone
func main() {
	application := app.New()    // Initialize the application
	wait := application.Start() // Start the application and wait for the termination signal
	<-wait                      // Wait for the application to receive a termination signal
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	application.Stop(ctx) // Stop the application gracefully
}
