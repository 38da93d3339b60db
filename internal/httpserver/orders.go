package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"servicofacil/internal/domain"
	"servicofacil/internal/metrics"
	ordersvc "servicofacil/internal/service/order"
)

func orderCriteria(c *gin.Context) (ordersvc.Criteria, bool) {
	crit := ordersvc.Criteria{
		Status: c.Query("status"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
	if raw := strings.TrimSpace(c.Query("client")); raw != "" && !strings.EqualFold(raw, "all") {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid client: "+raw)
			return crit, false
		}
		crit.ClientID = &id
	}
	return crit, true
}

func (a *api) filteredOrders(c *gin.Context) ([]ordersvc.OrderView, bool) {
	crit, ok := orderCriteria(c)
	if !ok {
		return nil, false
	}
	views, err := a.orders.Filter(c.Request.Context(), a.catalog.current(), crit)
	if err != nil {
		a.writeError(c, err)
		return nil, false
	}
	return views, true
}

func (a *api) listOrders(c *gin.Context) {
	views, ok := a.filteredOrders(c)
	if !ok {
		return
	}
	results := make([]orderResponse, 0, len(views))
	for _, v := range views {
		results = append(results, toOrderView(v))
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (a *api) orderReport(c *gin.Context) {
	views, ok := a.filteredOrders(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toOrderReport(ordersvc.BuildReport(views)))
}

func (a *api) orderDetail(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := a.orders.Detail(c.Request.Context(), a.catalog.current(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderDetail(*d))
}

func (a *api) deleteOrder(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := a.orders.Delete(c.Request.Context(), id); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) newDraft(c *gin.Context) {
	d := a.orders.StartNewDraft()
	id := a.drafts.open(d)
	c.JSON(http.StatusCreated, toDraft(id, d, a.catalog.current()))
}

func (a *api) loadDraft(c *gin.Context) {
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	d, err := a.orders.LoadDraft(c.Request.Context(), orderID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	id := a.drafts.open(d)
	c.JSON(http.StatusCreated, toDraft(id, d, a.catalog.current()))
}

// draftCall runs fn on the draft named in the path and answers with the
// resulting draft.
func (a *api) draftCall(c *gin.Context, fn func(d *ordersvc.Draft) error) {
	id := c.Param("id")
	cat := a.catalog.current()
	var resp draftResponse
	found, err := a.drafts.with(id, func(d *ordersvc.Draft) error {
		if err := fn(d); err != nil {
			return err
		}
		resp = toDraft(id, d, cat)
		return nil
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft " + id + " not found"})
		return
	}
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a *api) getDraft(c *gin.Context) {
	a.draftCall(c, func(*ordersvc.Draft) error { return nil })
}

func (a *api) discardDraft(c *gin.Context) {
	if !a.drafts.close(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft " + c.Param("id") + " not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type addItemRequest struct {
	ServiceItemID int64       `json:"service_item_id"`
	Quantity      json.Number `json:"quantity"`
}

func (a *api) addDraftItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	qty, err := ordersvc.ParseQuantity(req.Quantity.String())
	if err != nil {
		a.writeError(c, err)
		return
	}
	cat := a.catalog.current()
	a.draftCall(c, func(d *ordersvc.Draft) error {
		return d.AddItem(cat, req.ServiceItemID, qty)
	})
}

func (a *api) removeDraftItem(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		badRequest(c, "invalid index: "+c.Param("index"))
		return
	}
	a.draftCall(c, func(d *ordersvc.Draft) error {
		return d.RemoveItem(index)
	})
}

// commitDraft stores the draft as a new order, or over the order it was
// loaded from. The session is closed on success.
func (a *api) commitDraft(c *gin.Context) {
	var h ordersvc.Header
	if err := c.ShouldBindJSON(&h); err != nil {
		badRequest(c, "invalid body")
		return
	}
	id := c.Param("id")
	cat := a.catalog.current()
	var committed *domain.Order
	found, err := a.drafts.with(id, func(d *ordersvc.Draft) error {
		var err error
		d.Header = h
		if d.OrderID != 0 {
			committed, err = a.orders.CommitEdit(c.Request.Context(), d, cat, d.OrderID, h)
			a.metrics.OrderCommitted(metrics.KindEdit, err)
		} else {
			committed, err = a.orders.CommitNew(c.Request.Context(), d, cat, h)
			a.metrics.OrderCommitted(metrics.KindNew, err)
		}
		return err
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "draft " + id + " not found"})
		return
	}
	if err != nil {
		a.writeError(c, err)
		return
	}
	a.drafts.close(id)

	detail, err := a.orders.Detail(c.Request.Context(), cat, committed.ID)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderDetail(*detail))
}
