package logger

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
)

type Field struct {
	Key   string
	Value interface{}
}

var pretty = isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

func log(level, msg string, fields []Field, err error) {
	if pretty {
		line := fmt.Sprintf("%s %-5s %s", time.Now().Format("15:04:05"), level, msg)
		if err != nil {
			line += fmt.Sprintf(" error=%v", err)
		}
		for _, f := range fields {
			line += fmt.Sprintf(" %s=%v", f.Key, f.Value)
		}
		fmt.Println(line)
		return
	}

	entry := map[string]interface{}{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"level": level,
		"msg":   msg,
	}
	if err != nil {
		entry["error"] = err.Error()
	}
	for _, f := range fields {
		entry[f.Key] = f.Value
	}
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(entry)
}

func Info(msg string, fields ...Field) {
	log("info", msg, fields, nil)
}

func Error(msg string, err error, fields ...Field) {
	log("error", msg, fields, err)
}

func Debug(msg string, fields ...Field) {
	if os.Getenv("DEBUG") == "1" {
		log("debug", msg, fields, nil)
	}
}

func FieldKV(key string, value interface{}) Field { return Field{Key: key, Value: value} }
