package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"spendtable/internal/overview"
	"spendtable/internal/services"
)

// OverviewHandler serves the pivoted expense table of a project.
type OverviewHandler struct {
	overviewService services.OverviewServicer
	defaultMonths   int
	currency        string
	now             func() time.Time
}

// NewOverviewHandler creates a new OverviewHandler. Amounts are displayed with
// two decimals followed by currency.
func NewOverviewHandler(overviewService services.OverviewServicer, defaultMonths int, currency string) *OverviewHandler {
	return &OverviewHandler{
		overviewService: overviewService,
		defaultMonths:   defaultMonths,
		currency:        currency,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// HeaderCellResponse is one merged cell of the overview header.
type HeaderCellResponse struct {
	Name       string `json:"name"`
	ColSpan    int    `json:"colspan"`
	RowSpan    int    `json:"rowspan"`
	Color      string `json:"color"`
	IsTotal    bool   `json:"is_total"`
	IsOther    bool   `json:"is_other"`
	CategoryID string `json:"category_id"`
	Href       string `json:"href"`
}

// ValueCellResponse is one amount of a value row.
type ValueCellResponse struct {
	Amount     string `json:"amount" example:"12.30"`
	Display    string `json:"display" example:"12.30€"`
	IsSubtotal bool   `json:"is_subtotal"`
	CategoryID string `json:"category_id"`
	Href       string `json:"href"`
}

// ValueRowResponse is the line of one month.
type ValueRowResponse struct {
	Label  string              `json:"label" example:"Apr22"`
	From   string              `json:"from" example:"2022-04-01"`
	To     string              `json:"to" example:"2022-04-30"`
	Href   string              `json:"href"`
	Values []ValueCellResponse `json:"values"`
}

// OverviewResponse is the complete table. Every row has Columns values, and the
// header cells owning each column line up with them left to right.
type OverviewResponse struct {
	Columns    int                    `json:"columns"`
	HeaderRows [][]HeaderCellResponse `json:"header_rows"`
	Rows       []ValueRowResponse     `json:"rows"`
}

// GetOverview builds the overview table
// @Summary     Project overview
// @Description Expenses per month pivoted over the category tree. Categories with children get a Total column before their children and an Other column after them for amounts booked on the category itself.
// @Tags        overview
// @Produce     json
// @Security    BearerAuth
// @Param       projectID path  string true  "Project ID"
// @Param       months    query int    false "Trailing months to show (default from configuration)"
// @Param       from      query string false "First month (any date inside it)"
// @Param       to        query string false "Last month (any date inside it)"
// @Success     200 {object} OverviewResponse "Overview table"
// @Failure     400 {object} ErrorResponse "Invalid range"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Project not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /projects/{projectID}/overview [get]
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	projectID, err := parsePathID(c, "projectID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	months, err := parseMonths(c, h.defaultMonths)
	if err != nil {
		respondWithError(c, err)
		return
	}
	dates, err := parseDateRange(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.overviewService.BuildOverview(userID, projectID, services.OverviewRequest{
		Months: months,
		From:   dates.From,
		To:     dates.To,
		Now:    h.now(),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"overview": h.render(result)})
}

func (h *OverviewHandler) render(o *services.Overview) OverviewResponse {
	resp := OverviewResponse{
		Columns:    o.Columns,
		HeaderRows: make([][]HeaderCellResponse, len(o.HeaderRows)),
		Rows:       make([]ValueRowResponse, len(o.Rows)),
	}

	for i, row := range o.HeaderRows {
		cells := make([]HeaderCellResponse, len(row))
		for j, cell := range row {
			// Total cells and categories with children stand for a whole subtree.
			subtree := cell.IsTotal || (!cell.IsOther && o.Tree.HasChildren(cell.Node))
			cells[j] = HeaderCellResponse{
				Name:       cell.Name,
				ColSpan:    cell.ColSpan,
				RowSpan:    cell.RowSpan,
				Color:      cell.Color,
				IsTotal:    cell.IsTotal,
				IsOther:    cell.IsOther,
				CategoryID: cell.Node.ID,
				Href:       "?" + categoryQuery(cell.Node.ID, subtree),
			}
		}
		resp.HeaderRows[i] = cells
	}

	for i, row := range o.Rows {
		period := periodQuery(row.Period)
		values := make([]ValueCellResponse, len(row.Values))
		for j, v := range row.Values {
			values[j] = h.renderValue(v, period)
		}
		resp.Rows[i] = ValueRowResponse{
			Label:  row.Period.Label(),
			From:   formatDate(row.Period.Start),
			To:     formatDate(row.Period.LastDay()),
			Href:   "?" + period,
			Values: values,
		}
	}
	return resp
}

func (h *OverviewHandler) renderValue(v overview.Value, period string) ValueCellResponse {
	amount := v.Amount.StringFixed(2)
	return ValueCellResponse{
		Amount:     amount,
		Display:    amount + h.currency,
		IsSubtotal: v.Subtotal,
		CategoryID: v.Node.ID,
		Href:       "?" + categoryQuery(v.Node.ID, v.Subtotal) + "&" + period,
	}
}
