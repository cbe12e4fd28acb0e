package resource

import (
	"net/url"
	"strconv"

	"sales-admin/internal/api"
	"sales-admin/internal/models"
)

// SaleFilter narrows a sales fetch. Zero-valued fields are not sent.
type SaleFilter struct {
	Month     int
	Year      int
	DateStart string
	DateEnd   string
}

// Query implements Filter.
func (f SaleFilter) Query() url.Values {
	v := url.Values{}
	if f.Month > 0 {
		v.Set("mes", strconv.Itoa(f.Month))
	}
	if f.Year > 0 {
		v.Set("ano", strconv.Itoa(f.Year))
	}
	if f.DateStart != "" {
		v.Set("dataInicio", f.DateStart)
	}
	if f.DateEnd != "" {
		v.Set("dataFim", f.DateEnd)
	}
	return v
}

// NewSalesQuery creates the query engine for sales records.
func NewSalesQuery(client *api.Client) *Query[models.Sale] {
	return NewQuery[models.Sale](client, "/sales/getAllSales")
}

// NewSalesMutator creates the mutation engine for sales records.
func NewSalesMutator(client *api.Client) *Mutator[models.SaleInput, models.SaleInput] {
	return NewMutator[models.SaleInput, models.SaleInput](
		client,
		"/sales/createSale",
		"/sales/updateSale",
		"/sales/deleteSale",
	)
}

// NewSalesExporter creates the CSV export engine for sales records.
func NewSalesExporter(client *api.Client, dir string) *Exporter {
	return NewExporter(client, "/sales/exportSales", "sales", dir)
}
