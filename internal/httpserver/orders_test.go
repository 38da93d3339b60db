package httpserver

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type fixture struct {
	clientID int64
	washID   int64
	dryID    int64
}

func seedCatalog(t *testing.T, router *gin.Engine) fixture {
	t.Helper()
	var f fixture
	var created struct {
		ID int64 `json:"id"`
	}

	rec := do(t, router, http.MethodPost, "/clients", `{"name":"Ana Souza","phone":"9999-0000"}`)
	expectStatus(t, rec, http.StatusCreated)
	decode(t, rec, &created)
	f.clientID = created.ID

	rec = do(t, router, http.MethodPost, "/items", `{"name":"Wash","price":"10.00"}`)
	expectStatus(t, rec, http.StatusCreated)
	decode(t, rec, &created)
	f.washID = created.ID

	rec = do(t, router, http.MethodPost, "/items", `{"name":"Dry","price":"7.25"}`)
	expectStatus(t, rec, http.StatusCreated)
	decode(t, rec, &created)
	f.dryID = created.ID
	return f
}

func openDraft(t *testing.T, router *gin.Engine) string {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/drafts", "")
	expectStatus(t, rec, http.StatusCreated)
	var d draftResponse
	decode(t, rec, &d)
	if d.ID == "" {
		t.Fatalf("missing draft id: %s", rec.Body.String())
	}
	return d.ID
}

func addItem(t *testing.T, router *gin.Engine, draftID string, itemID int64, qty string) draftResponse {
	t.Helper()
	rec := do(t, router, http.MethodPost, "/drafts/"+draftID+"/items",
		fmt.Sprintf(`{"service_item_id":%d,"quantity":%s}`, itemID, qty))
	expectStatus(t, rec, http.StatusOK)
	var d draftResponse
	decode(t, rec, &d)
	return d
}

func TestDraftFlow_NewOrder(t *testing.T) {
	router := newTestRouter(t)
	f := seedCatalog(t, router)
	draftID := openDraft(t, router)

	addItem(t, router, draftID, f.washID, "2")
	d := addItem(t, router, draftID, f.dryID, "1")
	if len(d.Items) != 2 || d.Total != "27.25" {
		t.Fatalf("unexpected draft %+v", d)
	}

	// Price changes after the line was added must not affect the order.
	rec := do(t, router, http.MethodPut, fmt.Sprintf("/items/%d", f.washID), `{"name":"Wash","price":"50"}`)
	expectStatus(t, rec, http.StatusOK)

	body := fmt.Sprintf(`{"client_id":%d,"date":"05/03/2025","status":"pending","delivery":"Courier"}`, f.clientID)
	rec = do(t, router, http.MethodPost, "/drafts/"+draftID+"/commit", body)
	expectStatus(t, rec, http.StatusCreated)

	var detail orderDetailResponse
	decode(t, rec, &detail)
	if detail.Total != "27.25" || len(detail.Lines) != 2 {
		t.Fatalf("unexpected order %+v", detail)
	}
	if detail.ClientName != "Ana Souza" || detail.Status != "Pending" || detail.Date != "05/03/2025" {
		t.Fatalf("unexpected header %+v", detail.orderResponse)
	}
	if detail.Lines[0].UnitPrice != "10.00" {
		t.Fatalf("expected snapshot price 10.00, got %s", detail.Lines[0].UnitPrice)
	}

	// A committed session is closed.
	expectStatus(t, do(t, router, http.MethodGet, "/drafts/"+draftID, ""), http.StatusNotFound)

	rec = do(t, router, http.MethodGet, "/orders/report?from=01/03/2025&to=31/03/2025", "")
	expectStatus(t, rec, http.StatusOK)
	var report orderReportResponse
	decode(t, rec, &report)
	if report.Count != 1 || report.TotalValue != "27.25" {
		t.Fatalf("unexpected report %+v", report)
	}
}

func TestDraftFlow_ValidationKeepsDraft(t *testing.T) {
	router := newTestRouter(t)
	f := seedCatalog(t, router)
	draftID := openDraft(t, router)

	rec := do(t, router, http.MethodPost, "/drafts/"+draftID+"/commit",
		fmt.Sprintf(`{"client_id":%d,"date":"05/03/2025","status":"Pending"}`, f.clientID))
	expectStatus(t, rec, http.StatusBadRequest)
	if !strings.Contains(rec.Body.String(), `"field":"items"`) {
		t.Fatalf("expected items error, got %s", rec.Body.String())
	}

	addItem(t, router, draftID, f.washID, "1")
	rec = do(t, router, http.MethodPost, "/drafts/"+draftID+"/commit",
		fmt.Sprintf(`{"client_id":%d,"date":"31/02/2025","status":"Pending"}`, f.clientID))
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, router, http.MethodPost, "/drafts/"+draftID+"/commit",
		`{"client_id":999,"date":"05/03/2025","status":"Pending"}`)
	expectStatus(t, rec, http.StatusNotFound)

	rec = do(t, router, http.MethodGet, "/drafts/"+draftID, "")
	expectStatus(t, rec, http.StatusOK)
	var d draftResponse
	decode(t, rec, &d)
	if len(d.Items) != 1 {
		t.Fatalf("draft lost its lines: %+v", d)
	}

	rec = do(t, router, http.MethodGet, "/orders", "")
	if !strings.Contains(rec.Body.String(), `"count":0`) {
		t.Fatalf("expected no orders, got %s", rec.Body.String())
	}
}

func TestDraftItems_Errors(t *testing.T) {
	router := newTestRouter(t)
	f := seedCatalog(t, router)
	draftID := openDraft(t, router)

	rec := do(t, router, http.MethodPost, "/drafts/"+draftID+"/items",
		fmt.Sprintf(`{"service_item_id":%d,"quantity":0}`, f.washID))
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, router, http.MethodPost, "/drafts/"+draftID+"/items",
		fmt.Sprintf(`{"service_item_id":%d,"quantity":1.5}`, f.washID))
	expectStatus(t, rec, http.StatusBadRequest)

	rec = do(t, router, http.MethodPost, "/drafts/"+draftID+"/items", `{"service_item_id":777,"quantity":1}`)
	expectStatus(t, rec, http.StatusNotFound)

	expectStatus(t, do(t, router, http.MethodDelete, "/drafts/"+draftID+"/items/0", ""), http.StatusBadRequest)

	addItem(t, router, draftID, f.washID, "1")
	addItem(t, router, draftID, f.washID, "1")
	rec = do(t, router, http.MethodDelete, "/drafts/"+draftID+"/items/0", "")
	expectStatus(t, rec, http.StatusOK)
	var d draftResponse
	decode(t, rec, &d)
	if len(d.Items) != 1 || d.Total != "10.00" {
		t.Fatalf("unexpected draft after removal %+v", d)
	}

	expectStatus(t, do(t, router, http.MethodDelete, "/drafts/"+draftID, ""), http.StatusNoContent)
}

func TestDraftFlow_EditReplacesLines(t *testing.T) {
	router := newTestRouter(t)
	f := seedCatalog(t, router)
	draftID := openDraft(t, router)
	addItem(t, router, draftID, f.washID, "1")
	addItem(t, router, draftID, f.dryID, "2")
	header := fmt.Sprintf(`{"client_id":%d,"date":"05/03/2025","status":"Pending"}`, f.clientID)
	rec := do(t, router, http.MethodPost, "/drafts/"+draftID+"/commit", header)
	expectStatus(t, rec, http.StatusCreated)
	var created orderDetailResponse
	decode(t, rec, &created)

	rec = do(t, router, http.MethodPost, fmt.Sprintf("/orders/%d/draft", created.ID), "")
	expectStatus(t, rec, http.StatusCreated)
	var edit draftResponse
	decode(t, rec, &edit)
	if len(edit.Items) != 2 || edit.OrderID != created.ID {
		t.Fatalf("unexpected loaded draft %+v", edit)
	}

	expectStatus(t, do(t, router, http.MethodDelete, "/drafts/"+edit.ID+"/items/1", ""), http.StatusOK)
	header = fmt.Sprintf(`{"client_id":%d,"date":"06/03/2025","status":"completed","completion_date":"07/03/2025"}`, f.clientID)
	rec = do(t, router, http.MethodPost, "/drafts/"+edit.ID+"/commit", header)
	expectStatus(t, rec, http.StatusCreated)

	var updated orderDetailResponse
	decode(t, rec, &updated)
	if updated.ID != created.ID || len(updated.Lines) != 1 || updated.Total != "10.00" {
		t.Fatalf("unexpected updated order %+v", updated)
	}
	if updated.Status != "Completed" || updated.CompletionDate != "07/03/2025" {
		t.Fatalf("unexpected header %+v", updated.orderResponse)
	}

	expectStatus(t, do(t, router, http.MethodDelete, fmt.Sprintf("/orders/%d", created.ID), ""), http.StatusNoContent)
	expectStatus(t, do(t, router, http.MethodGet, fmt.Sprintf("/orders/%d", created.ID), ""), http.StatusNotFound)
}

func TestListOrders_ClientFilter(t *testing.T) {
	router := newTestRouter(t)
	f := seedCatalog(t, router)
	draftID := openDraft(t, router)
	addItem(t, router, draftID, f.washID, "1")
	rec := do(t, router, http.MethodPost, "/drafts/"+draftID+"/commit",
		fmt.Sprintf(`{"client_id":%d,"date":"05/03/2025","status":"Pending"}`, f.clientID))
	expectStatus(t, rec, http.StatusCreated)

	rec = do(t, router, http.MethodGet, fmt.Sprintf("/orders?client=%d", f.clientID+1), "")
	expectStatus(t, rec, http.StatusOK)
	if !strings.Contains(rec.Body.String(), `"count":0`) {
		t.Fatalf("expected no orders for other client, got %s", rec.Body.String())
	}

	rec = do(t, router, http.MethodGet, "/orders?client=all&status=Pending", "")
	if !strings.Contains(rec.Body.String(), `"count":1`) {
		t.Fatalf("expected one order, got %s", rec.Body.String())
	}

	expectStatus(t, do(t, router, http.MethodGet, "/orders?client=x", ""), http.StatusBadRequest)
}
