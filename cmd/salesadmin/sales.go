package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"sales-admin/internal/export"
	"sales-admin/internal/models"
	"sales-admin/internal/resource"
)

func (c *console) cmdSales(ctx context.Context, args []string) {
	if !c.requireSession() {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: sales <list|add|update|delete|export|xlsx> ...")
		return
	}

	switch args[0] {
	case "list":
		c.salesList(ctx, args[1:])
	case "add":
		c.salesAdd(ctx, args[1:])
	case "update":
		c.salesUpdate(ctx, args[1:])
	case "delete":
		c.salesDelete(ctx, args[1:])
	case "export":
		c.salesExportCSV(ctx, args[1:])
	case "xlsx":
		c.salesXLSX(args[1:])
	default:
		fmt.Printf("Unknown sales command %q.\n", args[0])
	}
}

// salesList parses filters, remembers them as the current view state and
// fetches. A bare "sales list" clears the filters and returns to an
// unfiltered first page.
func (c *console) salesList(ctx context.Context, args []string) {
	kv, err := parseKeyVals(args)
	if err != nil {
		fmt.Println(err)
		return
	}

	filter := resource.SaleFilter{DateStart: kv["from"], DateEnd: kv["to"]}
	if filter.Month, err = intVal(kv, "mes", 0); err != nil {
		fmt.Println(err)
		return
	}
	if filter.Year, err = intVal(kv, "ano", 0); err != nil {
		fmt.Println(err)
		return
	}
	page, err := intVal(kv, "page", 1)
	if err != nil {
		fmt.Println(err)
		return
	}
	limit, err := intVal(kv, "limit", 50)
	if err != nil {
		fmt.Println(err)
		return
	}

	c.saleFilter, c.salePage, c.saleLimit = filter, page, limit
	c.refetchSales(ctx)
}

// refetchSales re-runs the current sales view's fetch and renders it.
func (c *console) refetchSales(ctx context.Context) {
	if err := c.salesQuery.Fetch(ctx, c.saleFilter, c.salePage, c.saleLimit); err != nil {
		fmt.Printf("Could not load sales: %v\n", err)
		return
	}
	c.renderSales()
}

func (c *console) renderSales() {
	sales := c.salesQuery.Items()
	if len(sales) == 0 {
		fmt.Println("No sales match the current filters.")
		printPagination(c.salesQuery.Pagination())
		return
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tDATE\tWEEKDAY\tCARD\tPIX\tCASH\tOTHER\tDAY TOTAL")
	for _, s := range sales {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.ID, s.Date, s.Weekday, s.CardTotal, s.PixTotal, s.CashTotal, s.OtherTotal, s.DayTotal)
	}
	w.Flush()
	printPagination(c.salesQuery.Pagination())
}

func saleInputFromArgs(kv map[string]string) (models.SaleInput, error) {
	input := models.SaleInput{Date: kv["data"]}
	var err error
	if input.CardTotal, err = floatPtr(kv, "card"); err != nil {
		return input, err
	}
	if input.PixTotal, err = floatPtr(kv, "pix"); err != nil {
		return input, err
	}
	if input.CashTotal, err = floatPtr(kv, "cash"); err != nil {
		return input, err
	}
	if input.OtherTotal, err = floatPtr(kv, "other"); err != nil {
		return input, err
	}
	return input, nil
}

func (c *console) salesAdd(ctx context.Context, args []string) {
	if !c.requireModify() {
		return
	}
	kv, err := parseKeyVals(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	input, err := saleInputFromArgs(kv)
	if err != nil {
		fmt.Println(err)
		return
	}
	if input.Date == "" {
		fmt.Println("data=YYYY-MM-DD is required.")
		return
	}

	msg, err := c.salesMut.Create(ctx, input)
	if err != nil {
		fmt.Printf("Could not create the sale: %v\n", err)
		return
	}
	if msg == "" {
		msg = "Sale recorded."
	}
	fmt.Println(msg)
	c.refetchSales(ctx)
}

func (c *console) salesUpdate(ctx context.Context, args []string) {
	if !c.requireModify() {
		return
	}
	if len(args) < 2 {
		fmt.Println("Usage: sales update <id> key=value...")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid sale id %q.\n", args[0])
		return
	}
	kv, err := parseKeyVals(args[1:])
	if err != nil {
		fmt.Println(err)
		return
	}
	patch, err := saleInputFromArgs(kv)
	if err != nil {
		fmt.Println(err)
		return
	}

	msg, err := c.salesMut.Update(ctx, id, patch)
	if err != nil {
		fmt.Printf("Could not update the sale: %v\n", err)
		return
	}
	if msg == "" {
		msg = "Sale updated."
	}
	fmt.Println(msg)
	c.refetchSales(ctx)
}

func (c *console) salesDelete(ctx context.Context, args []string) {
	if !c.requireModify() {
		return
	}
	if len(args) != 1 {
		fmt.Println("Usage: sales delete <id>")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("Invalid sale id %q.\n", args[0])
		return
	}

	msg, err := c.salesMut.Delete(ctx, id)
	if err != nil {
		fmt.Printf("Could not delete the sale: %v\n", err)
		return
	}
	if msg == "" {
		msg = "Sale deleted."
	}
	fmt.Println(msg)
	c.refetchSales(ctx)
}

func (c *console) salesExportCSV(ctx context.Context, args []string) {
	kv, err := parseKeyVals(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	filter := resource.SaleFilter{DateStart: kv["from"], DateEnd: kv["to"]}
	if filter.Month, err = intVal(kv, "mes", 0); err != nil {
		fmt.Println(err)
		return
	}
	if filter.Year, err = intVal(kv, "ano", 0); err != nil {
		fmt.Println(err)
		return
	}

	path, err := c.salesExport.Export(ctx, filter)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	fmt.Printf("Export saved to %s\n", path)
}

func (c *console) salesXLSX(args []string) {
	sales := c.salesQuery.Items()
	if len(sales) == 0 {
		fmt.Println("Nothing loaded; run 'sales list' first.")
		return
	}

	path := filepath.Join(c.exportDir, fmt.Sprintf("sales_%s.xlsx", time.Now().Format("2006-01-02")))
	if len(args) == 1 {
		path = args[0]
	}
	if err := export.SalesWorkbook(sales, path); err != nil {
		fmt.Printf("Could not write the workbook: %v\n", err)
		return
	}
	fmt.Printf("Workbook saved to %s\n", path)
}
