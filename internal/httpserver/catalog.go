package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"servicofacil/internal/domain"
	itemsvc "servicofacil/internal/service/serviceitem"
)

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name+": "+c.Param(name))
		return 0, false
	}
	return id, true
}

// options returns the values the order and account forms offer.
func (a *api) options(c *gin.Context) {
	statuses := make([]string, len(domain.OrderStatuses))
	for i, s := range domain.OrderStatuses {
		statuses[i] = string(s)
	}
	c.JSON(http.StatusOK, gin.H{
		"order_statuses":   statuses,
		"delivery_methods": a.orders.DeliveryMethods(),
		"account_statuses": []string{"all", "pending", "paid", "overdue"},
		"default_due_date": a.accounts.DefaultDueDate(),
	})
}

// afterCatalogChange refreshes the shared snapshot. A failed reload is
// logged; the mutation itself already succeeded.
func (a *api) afterCatalogChange(c *gin.Context) {
	if err := a.catalog.reload(c.Request.Context()); err != nil {
		a.logger.Printf("request_id=%s catalog reload: %v", c.GetString(requestIDHeader), err)
	}
}

func (a *api) listClients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": a.catalog.current().Clients()})
}

func (a *api) createClient(c *gin.Context) {
	var req domain.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	created, err := a.clients.Register(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.afterCatalogChange(c)
	c.JSON(http.StatusCreated, created)
}

func (a *api) updateClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req domain.Client
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	req.ID = id
	updated, err := a.clients.Edit(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.afterCatalogChange(c)
	c.JSON(http.StatusOK, updated)
}

func (a *api) deleteClient(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := a.clients.Delete(c.Request.Context(), id); err != nil {
		a.writeError(c, err)
		return
	}
	a.afterCatalogChange(c)
	c.Status(http.StatusNoContent)
}

func (a *api) listItems(c *gin.Context) {
	items := a.catalog.current().Items()
	results := make([]itemResponse, 0, len(items))
	for _, it := range items {
		results = append(results, toItem(it))
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (a *api) createItem(c *gin.Context) {
	var req itemsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	created, err := a.items.Register(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.afterCatalogChange(c)
	c.JSON(http.StatusCreated, toItem(*created))
}

func (a *api) updateItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req itemsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	updated, err := a.items.Edit(c.Request.Context(), id, req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.afterCatalogChange(c)
	c.JSON(http.StatusOK, toItem(*updated))
}

func (a *api) deleteItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := a.items.Delete(c.Request.Context(), id); err != nil {
		a.writeError(c, err)
		return
	}
	a.afterCatalogChange(c)
	c.Status(http.StatusNoContent)
}
