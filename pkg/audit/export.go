package audit

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
)

// Export encodes events in the requested format.
func Export(events []*AuditEvent, format ExportFormat) ([]byte, error) {
	switch format {
	case ExportFormatJSON:
		return exportJSON(events)
	case ExportFormatNDJSON:
		return exportNDJSON(events)
	case ExportFormatCSV:
		return exportCSV(events)
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

func exportJSON(events []*AuditEvent) ([]byte, error) {
	return json.MarshalIndent(events, "", "  ")
}

func exportNDJSON(events []*AuditEvent) ([]byte, error) {
	var buf bytes.Buffer
	for _, event := range events {
		data, err := event.ToJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func exportCSV(events []*AuditEvent) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"id", "timestamp", "event_type", "status", "user_id", "tenant_id",
		"resource_type", "resource_id", "ip_address", "method", "path",
		"status_code", "message", "error_message",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range events {
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
			string(e.EventType),
			string(e.Status),
			e.UserID,
			e.TenantID,
			string(e.ResourceType),
			e.ResourceID,
			e.IPAddress,
			e.Method,
			e.Path,
			strconv.Itoa(e.StatusCode),
			e.Message,
			e.ErrorMessage,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
