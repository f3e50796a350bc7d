package log

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	defaultPattern    = "%time [%level] %msg %field"
	defaultTimeLayout = "2006-01-02 15:04:05.000"
)

type formatter struct {
	pattern string
	time    string
}

// Format supports %time, %level, %field and %msg placeholders. Every entry
// ends with a newline.
func (f *formatter) Format(entry *logrus.Entry) ([]byte, error) {
	pattern := f.pattern
	if pattern == "" {
		pattern = defaultPattern
	}
	layout := f.time
	if layout == "" {
		layout = defaultTimeLayout
	}

	output := pattern
	output = strings.Replace(output, "%time", entry.Time.Format(layout), 1)
	output = strings.Replace(output, "%level", entry.Level.String(), 1)
	output = strings.Replace(output, "%field", buildFields(entry), 1)
	output = strings.Replace(output, "%msg", entry.Message, 1)
	output = strings.TrimRight(output, " ")
	if !strings.HasSuffix(output, "\n") {
		output += "\n"
	}
	return []byte(output), nil
}

// buildFields renders entry data as sorted key=value pairs.
func buildFields(entry *logrus.Entry) string {
	fields := make([]string, 0, len(entry.Data))
	for key, val := range entry.Data {
		stringVal, ok := val.(string)
		if !ok {
			stringVal = fmt.Sprint(val)
		}
		fields = append(fields, key+"="+stringVal)
	}
	sort.Strings(fields)
	return strings.Join(fields, ",")
}
