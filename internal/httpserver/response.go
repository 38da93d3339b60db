package httpserver

import (
	"servicofacil/internal/domain"
	accountsvc "servicofacil/internal/service/account"
	"servicofacil/internal/service/catalog"
	ordersvc "servicofacil/internal/service/order"
)

type itemResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Notes string `json:"notes"`
}

func toItem(s domain.ServiceItem) itemResponse {
	return itemResponse{ID: s.ID, Name: s.Name, Price: domain.FormatMoney(s.Price), Notes: s.Notes}
}

type orderResponse struct {
	ID             int64  `json:"id"`
	ClientID       int64  `json:"client_id"`
	ClientName     string `json:"client_name"`
	Date           string `json:"date"`
	Status         string `json:"status"`
	Delivery       string `json:"delivery"`
	Notes          string `json:"notes"`
	CompletionDate string `json:"completion_date,omitempty"`
	Total          string `json:"total"`
}

func toOrder(o domain.Order, clientName, total string) orderResponse {
	resp := orderResponse{
		ID:         o.ID,
		ClientID:   o.ClientID,
		ClientName: clientName,
		Date:       domain.FormatUserDate(o.Date),
		Status:     string(o.Status),
		Delivery:   o.Delivery,
		Notes:      o.Notes,
		Total:      total,
	}
	if o.CompletionDate != nil {
		resp.CompletionDate = domain.FormatUserDate(*o.CompletionDate)
	}
	return resp
}

func toOrderView(v ordersvc.OrderView) orderResponse {
	return toOrder(v.Order, v.ClientName, domain.FormatMoney(v.Total))
}

type lineResponse struct {
	ID            int64  `json:"id"`
	ServiceItemID int64  `json:"service_item_id"`
	ItemName      string `json:"item_name"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	Subtotal      string `json:"subtotal"`
}

type orderDetailResponse struct {
	orderResponse
	Lines []lineResponse `json:"lines"`
}

func toOrderDetail(d ordersvc.Detail) orderDetailResponse {
	resp := orderDetailResponse{
		orderResponse: toOrder(d.Order, d.ClientName, domain.FormatMoney(d.Total)),
		Lines:         make([]lineResponse, 0, len(d.Lines)),
	}
	for _, l := range d.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			ID:            l.ID,
			ServiceItemID: l.ServiceItemID,
			ItemName:      l.ItemName,
			Quantity:      l.Quantity,
			UnitPrice:     domain.FormatMoney(l.UnitPrice),
			Subtotal:      domain.FormatMoney(l.Subtotal),
		})
	}
	return resp
}

type orderReportResponse struct {
	Count      int            `json:"count"`
	TotalValue string         `json:"total_value"`
	ByStatus   map[string]int `json:"by_status"`
}

func toOrderReport(r ordersvc.Report) orderReportResponse {
	by := make(map[string]int, len(r.ByStatus))
	for k, v := range r.ByStatus {
		by[string(k)] = v
	}
	return orderReportResponse{Count: r.Count, TotalValue: domain.FormatMoney(r.TotalValue), ByStatus: by}
}

type draftItemResponse struct {
	Index         int    `json:"index"`
	ServiceItemID int64  `json:"service_item_id"`
	ItemName      string `json:"item_name"`
	Quantity      int    `json:"quantity"`
	UnitPrice     string `json:"unit_price"`
	Subtotal      string `json:"subtotal"`
}

type draftResponse struct {
	ID      string              `json:"id"`
	OrderID int64               `json:"order_id,omitempty"`
	Header  ordersvc.Header     `json:"header"`
	Items   []draftItemResponse `json:"items"`
	Total   string              `json:"total"`
}

func toDraft(id string, d *ordersvc.Draft, cat *catalog.Snapshot) draftResponse {
	resp := draftResponse{
		ID:      id,
		OrderID: d.OrderID,
		Header:  d.Header,
		Items:   make([]draftItemResponse, 0, d.Len()),
		Total:   domain.FormatMoney(d.Total()),
	}
	for i, it := range d.Items() {
		resp.Items = append(resp.Items, draftItemResponse{
			Index:         i,
			ServiceItemID: it.ServiceItemID,
			ItemName:      cat.ItemName(it.ServiceItemID),
			Quantity:      it.Quantity,
			UnitPrice:     domain.FormatMoney(it.UnitPrice),
			Subtotal:      domain.FormatMoney(domain.RoundMoney(it.Subtotal())),
		})
	}
	return resp
}

type accountResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	DueDate     string `json:"due_date"`
	Recurring   bool   `json:"recurring"`
	Paid        bool   `json:"paid"`
	Status      string `json:"status"`
}

func toAccount(v accountsvc.View) accountResponse {
	return accountResponse{
		ID:          v.ID,
		Description: v.Description,
		Amount:      domain.FormatMoney(v.Amount),
		DueDate:     domain.FormatUserDate(v.DueDate),
		Recurring:   v.Recurring,
		Paid:        v.Paid,
		Status:      string(v.Status),
	}
}

type accountReportResponse struct {
	Count        int    `json:"count"`
	PendingTotal string `json:"pending_total"`
	PaidTotal    string `json:"paid_total"`
	OverdueCount int    `json:"overdue_count"`
	Total        string `json:"total"`
}

func toAccountReport(r accountsvc.Report) accountReportResponse {
	return accountReportResponse{
		Count:        r.Count,
		PendingTotal: domain.FormatMoney(r.PendingTotal),
		PaidTotal:    domain.FormatMoney(r.PaidTotal),
		OverdueCount: r.OverdueCount,
		Total:        domain.FormatMoney(r.Total),
	}
}
