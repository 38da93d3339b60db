package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	accountsvc "servicofacil/internal/service/account"
)

func (a *api) filteredAccounts(c *gin.Context) ([]accountsvc.View, bool) {
	crit := accountsvc.Criteria{
		Status: c.DefaultQuery("status", "all"),
		From:   c.Query("from"),
		To:     c.Query("to"),
	}
	views, err := a.accounts.Filter(c.Request.Context(), crit)
	if err != nil {
		a.writeError(c, err)
		return nil, false
	}
	return views, true
}

func (a *api) listAccounts(c *gin.Context) {
	views, ok := a.filteredAccounts(c)
	if !ok {
		return
	}
	results := make([]accountResponse, 0, len(views))
	for _, v := range views {
		results = append(results, toAccount(v))
	}
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

func (a *api) accountReport(c *gin.Context) {
	views, ok := a.filteredAccounts(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toAccountReport(accountsvc.BuildReport(views)))
}

func (a *api) createAccount(c *gin.Context) {
	var req accountsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	created, err := a.accounts.Create(c.Request.Context(), req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toAccount(accountsvc.View{Account: *created, Status: created.Status(a.accounts.Today())}))
}

func (a *api) updateAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req accountsvc.Input
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid body")
		return
	}
	updated, err := a.accounts.Update(c.Request.Context(), id, req)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccount(accountsvc.View{Account: *updated, Status: updated.Status(a.accounts.Today())}))
}

func (a *api) deleteAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := a.accounts.Delete(c.Request.Context(), id); err != nil {
		a.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) payAccount(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := a.accounts.MarkPaid(c.Request.Context(), id); err != nil {
		a.writeError(c, err)
		return
	}
	acc, err := a.accounts.Get(c.Request.Context(), id)
	if err != nil {
		a.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAccount(accountsvc.View{Account: *acc, Status: acc.Status(a.accounts.Today())}))
}
