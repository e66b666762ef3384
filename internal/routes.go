package internal

import (
	"net/http"

	"seenkeeper/internal/controllers"
	"seenkeeper/internal/providers"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/items", http.HandlerFunc(apiController.GetItems))
	routers.Post("/items", http.HandlerFunc(apiController.SaveItems))
	routers.Delete("/items", http.HandlerFunc(apiController.ClearItems))
	routers.Post("/items/one", http.HandlerFunc(apiController.SaveOne))
	routers.Get("/items/count", http.HandlerFunc(apiController.GetCount))
	routers.Get("/settings/alert", http.HandlerFunc(apiController.GetAlertSettings))
	routers.Post("/settings/alert", http.HandlerFunc(apiController.SaveAlertSettings))
	routers.Get("/premium", http.HandlerFunc(apiController.GetPremium))
	routers.Post("/premium/unlock", http.HandlerFunc(apiController.UnlockPremium))
	return routers
}
