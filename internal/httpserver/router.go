package httpserver

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"servicofacil/internal/metrics"
	accountsvc "servicofacil/internal/service/account"
	clientsvc "servicofacil/internal/service/client"
	ordersvc "servicofacil/internal/service/order"
	itemsvc "servicofacil/internal/service/serviceitem"
)

// Deps holds the services the routes call.
type Deps struct {
	DB          Pinger
	Clients     *clientsvc.Service
	Items       *itemsvc.Service
	Orders      *ordersvc.Service
	Accounts    *accountsvc.Service
	Metrics     *metrics.Metrics
	CORSOrigins []string
}

type api struct {
	logger   *log.Logger
	clients  *clientsvc.Service
	items    *itemsvc.Service
	orders   *ordersvc.Service
	accounts *accountsvc.Service
	metrics  *metrics.Metrics
	catalog  *catalogState
	drafts   *draftRegistry
}

// buildRouter wires routes for the API.
func buildRouter(ctx context.Context, logger *log.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Clients == nil || deps.Items == nil || deps.Orders == nil || deps.Accounts == nil {
		return nil, errors.New("httpserver: every service dependency is required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	a := &api{
		logger:   logger,
		clients:  deps.Clients,
		items:    deps.Items,
		orders:   deps.Orders,
		accounts: deps.Accounts,
		metrics:  deps.Metrics,
		catalog:  newCatalogState(deps.Clients, deps.Items, deps.Metrics),
		drafts:   newDraftRegistry(),
	}
	if err := a.catalog.reload(ctx); err != nil {
		return nil, err
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), observe(deps.Metrics))
	if len(deps.CORSOrigins) > 0 {
		cfg := cors.DefaultConfig()
		cfg.AllowOrigins = deps.CORSOrigins
		cfg.AddExposeHeaders(requestIDHeader)
		router.Use(cors.New(cfg))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.DB))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/options", a.options)

	clients := router.Group("/clients")
	clients.GET("", a.listClients)
	clients.POST("", a.createClient)
	clients.PUT("/:id", a.updateClient)
	clients.DELETE("/:id", a.deleteClient)

	items := router.Group("/items")
	items.GET("", a.listItems)
	items.POST("", a.createItem)
	items.PUT("/:id", a.updateItem)
	items.DELETE("/:id", a.deleteItem)

	orders := router.Group("/orders")
	orders.GET("", a.listOrders)
	orders.GET("/report", a.orderReport)
	orders.GET("/:id", a.orderDetail)
	orders.DELETE("/:id", a.deleteOrder)
	orders.POST("/:id/draft", a.loadDraft)

	drafts := router.Group("/drafts")
	drafts.POST("", a.newDraft)
	drafts.GET("/:id", a.getDraft)
	drafts.DELETE("/:id", a.discardDraft)
	drafts.POST("/:id/items", a.addDraftItem)
	drafts.DELETE("/:id/items/:index", a.removeDraftItem)
	drafts.POST("/:id/commit", a.commitDraft)

	accounts := router.Group("/accounts")
	accounts.GET("", a.listAccounts)
	accounts.POST("", a.createAccount)
	accounts.GET("/report", a.accountReport)
	accounts.PUT("/:id", a.updateAccount)
	accounts.DELETE("/:id", a.deleteAccount)
	accounts.POST("/:id/pay", a.payAccount)

	return router, nil
}

const requestIDHeader = "X-Request-ID"

// requestID echoes the caller's request id or assigns a new one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func observe(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
