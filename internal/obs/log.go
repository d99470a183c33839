package obs

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// service tags every log line so desk entries stay separable when several
// services share a log sink.
const service = "rmdesk-api"

var (
	loggerOnce sync.Once
	logger     *log.Logger
)

// Logger returns the process-wide JSON line logger.
func Logger() *log.Logger {
	loggerOnce.Do(func() {
		logger = log.New(os.Stdout, "", 0)
	})
	return logger
}

// Event emits one JSON log line stamped with time, level, message and the
// service tag. Callers supply only their own fields.
func Event(level, msg string, fields map[string]any) {
	entry := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		entry[k] = v
	}
	entry["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level
	entry["msg"] = msg
	entry["service"] = service
	data, err := json.Marshal(entry)
	if err != nil {
		Logger().Println(`{"level":"error","msg":"log marshal failed","service":"rmdesk-api"}`)
		return
	}
	Logger().Println(string(data))
}
