package main

import (
	"context"
	"fmt"

	"sales-admin/internal/resource"
)

func (c *console) cmdLogs(ctx context.Context, args []string) {
	if !c.requireAdmin() {
		return
	}
	if len(args) == 0 {
		fmt.Println("Usage: logs <list|export> ...")
		return
	}

	switch args[0] {
	case "list":
		c.logsList(ctx, args[1:])
	case "export":
		c.logsExportCSV(ctx, args[1:])
	default:
		fmt.Printf("Unknown logs command %q.\n", args[0])
	}
}

func logFilterFromArgs(kv map[string]string) (resource.LogFilter, error) {
	filter := resource.LogFilter{
		Action:    kv["acao"],
		DateStart: kv["from"],
		DateEnd:   kv["to"],
	}
	userID, err := intVal(kv, "user", 0)
	if err != nil {
		return filter, err
	}
	filter.UserID = int64(userID)
	return filter, nil
}

func (c *console) logsList(ctx context.Context, args []string) {
	kv, err := parseKeyVals(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	filter, err := logFilterFromArgs(kv)
	if err != nil {
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

	c.logFilter, c.logPage, c.logLimit = filter, page, limit
	if err := c.logsQuery.Fetch(ctx, c.logFilter, c.logPage, c.logLimit); err != nil {
		fmt.Printf("Could not load logs: %v\n", err)
		return
	}

	logs := c.logsQuery.Items()
	if len(logs) == 0 {
		fmt.Println("No log entries match the current filters.")
		printPagination(c.logsQuery.Pagination())
		return
	}

	w := newTable()
	fmt.Fprintln(w, "ID\tWHEN\tUSER\tACTION")
	for _, entry := range logs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", entry.ID, entry.Timestamp, entry.UserName, entry.Action)
	}
	w.Flush()
	printPagination(c.logsQuery.Pagination())
}

func (c *console) logsExportCSV(ctx context.Context, args []string) {
	kv, err := parseKeyVals(args)
	if err != nil {
		fmt.Println(err)
		return
	}
	filter, err := logFilterFromArgs(kv)
	if err != nil {
		fmt.Println(err)
		return
	}

	path, err := c.logsExport.Export(ctx, filter)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}
	fmt.Printf("Export saved to %s\n", path)
}
