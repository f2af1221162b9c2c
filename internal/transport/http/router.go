package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/vkhromov/retail_orders/internal/handlers"
)

type Deps struct {
	DB             *gorm.DB
	AuthHandler    *handlers.AuthHandler
	CatalogHandler *handlers.CatalogHandler
	PartnerHandler *handlers.PartnerHandler
	OrderHandler   *handlers.OrderHandler
	ContactHandler *handlers.ContactHandler
	SearchHandler  *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	user := v1.Group("/user")
	user.POST("/register", d.AuthHandler.Register)
	user.POST("/register/confirm", d.AuthHandler.ConfirmAccount)
	user.POST("/login", d.AuthHandler.Login)
	user.POST("/password_reset", d.AuthHandler.PasswordReset)
	user.POST("/password_reset/confirm", d.AuthHandler.PasswordResetConfirm)
	user.GET("/details", d.AuthHandler.GetDetails)
	user.POST("/details", d.AuthHandler.UpdateDetails)
	user.GET("/contact", d.ContactHandler.GetContacts)
	user.POST("/contact", d.ContactHandler.CreateContact)
	user.PATCH("/contact/:id", d.ContactHandler.UpdateContact)
	user.DELETE("/contact/:id", d.ContactHandler.DeleteContact)

	v1.GET("/categories", d.CatalogHandler.GetCategories)
	v1.GET("/shops", d.CatalogHandler.GetShops)
	v1.GET("/products", d.CatalogHandler.GetListings)
	v1.GET("/products/:id", d.CatalogHandler.GetListing)
	if d.SearchHandler != nil {
		v1.GET("/search", d.SearchHandler.Search)
	}

	partner := v1.Group("/partner")
	partner.POST("/update", d.PartnerHandler.Update)
	partner.GET("/state", d.PartnerHandler.GetState)
	partner.POST("/state", d.PartnerHandler.SetState)
	partner.GET("/orders", d.PartnerHandler.GetOrders)

	v1.GET("/basket", d.OrderHandler.GetBasket)
	v1.POST("/basket", d.OrderHandler.AddToBasket)
	v1.DELETE("/basket/items/:id", d.OrderHandler.DeleteBasketItem)

	v1.GET("/orders", d.OrderHandler.GetOrders)
	v1.POST("/orders", d.OrderHandler.Confirm)
	v1.GET("/orders/:id", d.OrderHandler.GetOrder)
	v1.PATCH("/orders/:id/status", d.OrderHandler.SetStatus)
}
