package routes

import (
	"mozakra/auth"
	"mozakra/livefeed"
	"mozakra/middleware"
	"mozakra/ratelim"
	"mozakra/rates"
	"mozakra/receipts"
	"mozakra/reports"
	"mozakra/sessions"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.LogoutUser))
	// refresh authenticates by the refresh token itself, so it works even
	// after the access token expired
	router.POST("/api/auth/token/refresh", rl.Limit(auth.RefreshToken))
}

func AddSessionRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/sessions", rl.Limit(middleware.Authenticate(sessions.CreateSession)))
	router.GET("/api/sessions", middleware.Authenticate(sessions.ListSessions))
	router.GET("/api/sessions/:sessionid", middleware.Authenticate(sessions.GetSession))
	router.POST("/api/sessions/:sessionid/finish", rl.Limit(middleware.Authenticate(sessions.FinishSession)))

	router.POST("/api/sessions/:sessionid/orders", middleware.Authenticate(sessions.AddOrder))
	router.PUT("/api/sessions/:sessionid/orders/:idx", middleware.Authenticate(sessions.UpdateOrder))
	router.DELETE("/api/sessions/:sessionid/orders/:idx", middleware.Authenticate(sessions.RemoveOrder))

	router.POST("/api/takeaway", rl.Limit(middleware.Authenticate(sessions.CreateTakeaway)))
}

func AddPricingRoutes(router *httprouter.Router) {
	router.GET("/api/pricing", middleware.Authenticate(middleware.RequireRole("admin", rates.GetPricing)))
	router.PUT("/api/pricing", middleware.Authenticate(middleware.RequireRole("admin", rates.UpdatePricing)))
}

func AddReportRoutes(router *httprouter.Router) {
	router.GET("/api/reports/summary", middleware.Authenticate(middleware.RequireRole("admin", reports.GetSummary)))
}

func AddReceiptRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/receipts/verify", rl.Limit(receipts.VerifyReceipt))
	router.GET("/api/receipts/print/:sessionid", rl.Limit(receipts.PrintReceipt))
}

func AddLiveFeedRoutes(router *httprouter.Router, hub *livefeed.Hub) {
	router.GET("/ws/sessions", livefeed.WebSocketHandler(hub))
}
