package capture

import (
	"strings"
	"time"
	"unicode/utf8"
)

// Capture represents one closed interval of captured text for a single
// application. A capture is immutable once persisted.
type Capture struct {
	// ID is assigned by the store on persist (monotonically increasing).
	ID int64 `json:"id"`

	// AppName is the application the text was typed into. Never empty
	// for a persisted capture.
	AppName string `json:"app_name"`

	// Content is the captured text. May be empty.
	Content string `json:"content"`

	// StartTime and EndTime bound the capture interval (Unix seconds).
	// StartTime <= EndTime.
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`

	// CharCount is the rune count of Content.
	CharCount int `json:"char_count"`

	// WordCount is the number of whitespace-delimited tokens in Content.
	WordCount int `json:"word_count"`

	// BatchID groups captures persisted by a single buffered flush (nullable).
	BatchID *string `json:"batch_id,omitempty"`

	// CreatedAt is the Unix timestamp assigned by the store on persist.
	// Independent of StartTime/EndTime.
	CreatedAt int64 `json:"created_at"`
}

// New builds an unpersisted Capture, computing character and word counts
// from content. A missing start time defaults to the end time when one is
// given, otherwise to now; a missing end time defaults to the start time,
// so StartTime <= EndTime always holds.
func New(appName, content string, startTime, endTime int64) *Capture {
	if startTime == 0 {
		if endTime != 0 {
			startTime = endTime
		} else {
			startTime = time.Now().Unix()
		}
	}
	if endTime == 0 {
		endTime = startTime
	}
	return &Capture{
		AppName:   appName,
		Content:   content,
		StartTime: startTime,
		EndTime:   endTime,
		CharCount: CountChars(content),
		WordCount: CountWords(content),
	}
}

// CountChars returns the number of runes in s (not bytes).
func CountChars(s string) int {
	return utf8.RuneCountInString(s)
}

// CountWords returns the number of maximal whitespace-delimited non-empty
// tokens in s. Runs of whitespace collapse.
func CountWords(s string) int {
	return len(strings.Fields(s))
}
