package timex

import "time"

// NowMs returns Unix milliseconds as int64.
func NowMs() int64 { return time.Now().UnixMilli() }

// SinceMs returns elapsed milliseconds between two NowMs samples.
func SinceMs(now, start int64) int64 { return now - start }
