package transport

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"cephlog-mcp/internal/constants"
	"cephlog-mcp/internal/models"
)

// Records missing PRIORITY default to informational, matching journald.
const defaultPriority = 6

var errNotObject = errors.New("record is not a JSON object")

// decodeValue converts one backend record into a LogEntry. Well-known
// journald fields map to struct fields; everything else lands in
// Attrs. Both server id spellings are honored. A record that is not a
// JSON object is rejected; unusable individual fields are not.
func decodeValue(v *fastjson.Value) (models.LogEntry, error) {
	if v.Type() != fastjson.TypeObject {
		return models.LogEntry{}, errNotObject
	}
	obj, err := v.Object()
	if err != nil {
		return models.LogEntry{}, errNotObject
	}

	entry := models.LogEntry{Priority: defaultPriority}
	var syslogID string

	obj.Visit(func(key []byte, value *fastjson.Value) {
		switch string(key) {
		case constants.FieldMessage:
			entry.Message = stringValue(value)
		case constants.FieldPriority:
			if p, ok := intValue(value); ok {
				entry.Priority = p
			}
		case constants.FieldUnit:
			entry.Unit = stringValue(value)
		case constants.FieldHostname:
			entry.Hostname = stringValue(value)
		case constants.FieldTransport:
			entry.Channel = stringValue(value)
		case constants.FieldServerID, constants.FieldServerIDAlt:
			if entry.ServerID == "" {
				entry.ServerID = stringValue(value)
			}
		case constants.FieldRealtimeStamp:
			if us, ok := int64Value(value); ok {
				entry.Timestamp = time.UnixMicro(us).UTC()
			}
		case constants.FieldTimestamp:
			if entry.Timestamp.IsZero() {
				if ts, err := time.Parse(time.RFC3339, stringValue(value)); err == nil {
					entry.Timestamp = ts.UTC()
				}
			}
		default:
			if entry.Attrs == nil {
				entry.Attrs = make(map[string]string)
			}
			entry.Attrs[string(key)] = stringValue(value)
			if string(key) == constants.FieldSyslogID {
				syslogID = stringValue(value)
			}
		}
	})

	// Kernel records and other non-unit sources identify themselves
	// via SYSLOG_IDENTIFIER only.
	if entry.Unit == "" {
		entry.Unit = syslogID
	}
	return entry, nil
}

// decodeRecord parses raw JSON and decodes it as a single record.
func decodeRecord(parser *fastjson.Parser, data []byte) (models.LogEntry, error) {
	v, err := parser.ParseBytes(data)
	if err != nil {
		return models.LogEntry{}, err
	}
	return decodeValue(v)
}

// stringValue renders a field value as text. Strings come back
// unquoted; numbers and booleans as their literal form.
func stringValue(v *fastjson.Value) string {
	if v.Type() == fastjson.TypeString {
		return string(v.GetStringBytes())
	}
	return v.String()
}

// intValue reads an int from a number or a string of digits, the two
// forms journald exports use interchangeably.
func intValue(v *fastjson.Value) (int, bool) {
	n, ok := int64Value(v)
	return int(n), ok
}

func int64Value(v *fastjson.Value) (int64, bool) {
	switch v.Type() {
	case fastjson.TypeNumber:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case fastjson.TypeString:
		n, err := strconv.ParseInt(strings.TrimSpace(string(v.GetStringBytes())), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
