package logging

import (
	"encoding/json"
	"log"
	"time"
)

const Service = "bidaya-api"

type Fields struct {
	Service    string `json:"service"`
	UserID     uint   `json:"user_id,omitempty"`
	OrderID    string `json:"order_id,omitempty"`
	Event      string `json:"event,omitempty"`
	Step       string `json:"step,omitempty"`
	Status     string `json:"status,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
	Message    string `json:"message,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Log writes fields as one JSON line through the standard logger.
func Log(fields Fields) {
	if fields.Service == "" {
		fields.Service = Service
	}
	payload := struct {
		Fields
		Timestamp string `json:"timestamp"`
	}{fields, time.Now().UTC().Format(time.RFC3339Nano)}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("{\"service\":%q,\"status\":\"log_error\",\"error\":%q}", fields.Service, err.Error())
		return
	}
	log.Print(string(data))
}

// Failure logs err for step with status "error".
func Failure(step string, err error, fields Fields) {
	fields.Step = step
	fields.Status = "error"
	if err != nil {
		fields.Error = err.Error()
	}
	Log(fields)
}
