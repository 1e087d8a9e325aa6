package main

// @title StockPilot API
// @version 1.0
// @description Inventory management API with live snapshot streams, reports and restock recommendations
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/luckyfood/stockpilot
// @contact.email support@luckyfood.com

// @license.name MIT
// @license.url https://github.com/luckyfood/stockpilot/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Products
// @tag.description Product catalog endpoints

// @tag.name Inventory
// @tag.description Inventory item endpoints

// @tag.name Reports
// @tag.description Summary and export endpoints

// @tag.name Recommendations
// @tag.description Restock recommendation endpoints

// @tag.name Health
// @tag.description Health check endpoints
