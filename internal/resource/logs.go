package resource

import (
	"net/url"
	"strconv"

	"sales-admin/internal/api"
	"sales-admin/internal/models"
)

// LogFilter narrows an audit log fetch. Zero-valued fields are not sent.
type LogFilter struct {
	Action    string
	UserID    int64
	DateStart string
	DateEnd   string
}

// Query implements Filter.
func (f LogFilter) Query() url.Values {
	v := url.Values{}
	if f.Action != "" {
		v.Set("acao", f.Action)
	}
	if f.UserID > 0 {
		v.Set("idUsuario", strconv.FormatInt(f.UserID, 10))
	}
	if f.DateStart != "" {
		v.Set("dataInicio", f.DateStart)
	}
	if f.DateEnd != "" {
		v.Set("dataFim", f.DateEnd)
	}
	return v
}

// NewLogsQuery creates the query engine for audit log records. Logs are
// read-only; there is no mutation engine for them.
func NewLogsQuery(client *api.Client) *Query[models.LogEntry] {
	return NewQuery[models.LogEntry](client, "/logs/getAllLogs")
}

// NewLogsExporter creates the CSV export engine for audit log records.
func NewLogsExporter(client *api.Client, dir string) *Exporter {
	return NewExporter(client, "/logs/exportLogs", "logs", dir)
}
