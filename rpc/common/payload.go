package common

import "strings"

// Response payloads are plain text multiplexing two line classes: lines
// destined for the interactive console and lines destined for a
// client-local output file. Records are separated by RecordSeparator and
// tagged with a two character prefix the receiver strips.
const (
	ConsolePrefix   = "C#"
	FilePrefix      = "F#"
	RecordSeparator = "##"
)

// PayloadBuilder assembles a multiplexed response payload.
type PayloadBuilder struct {
	records []string
}

// Console appends a console-destined line.
func (b *PayloadBuilder) Console(line string) *PayloadBuilder {
	b.records = append(b.records, ConsolePrefix+line)
	return b
}

// File appends a file-destined line.
func (b *PayloadBuilder) File(line string) *PayloadBuilder {
	b.records = append(b.records, FilePrefix+line)
	return b
}

// String renders the multiplexed payload.
func (b *PayloadBuilder) String() string {
	return strings.Join(b.records, RecordSeparator)
}

// DemuxPayload splits a multiplexed payload back into its console and
// file line classes, stripping the prefixes. Records with neither prefix
// are ignored.
func DemuxPayload(payload string) (console []string, file []string) {
	for _, record := range strings.Split(payload, RecordSeparator) {
		switch {
		case strings.HasPrefix(record, ConsolePrefix):
			console = append(console, strings.TrimPrefix(record, ConsolePrefix))
		case strings.HasPrefix(record, FilePrefix):
			file = append(file, strings.TrimPrefix(record, FilePrefix))
		}
	}
	return console, file
}
