// Copyright 2021 Converter Systems LLC. All rights reserved.

package ua

import (
	"encoding/base64"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	validXML = regexp.MustCompile(`[^\x09\x0A\x0D\x20-\x{D7FF}\x{E000}-\x{FFFD}\x{10000}-\x{10FFFF}]+`)
)

// XMLElement is stored as string
type XMLElement string

// String returns element as a string.
func (e XMLElement) String() string {
	return validXML.ReplaceAllString(string(e), "")
}

// ByteString is stored as a string.
type ByteString string

// NilByteString is the nil value.
var NilByteString = ByteString("")

// String returns ByteString as a base64-encoded string.
func (b ByteString) String() string {
	return base64.StdEncoding.EncodeToString([]byte(b))
}

// NilGUID is the nil value.
var NilGUID = uuid.Nil

// Order is the result of comparing two values.
type Order int8

// Orders
const (
	OrderLess Order = -1
	OrderEq   Order = 0
	OrderMore Order = 1
)

func (o Order) String() string {
	switch o {
	case OrderLess:
		return "<"
	case OrderMore:
		return ">"
	default:
		return "="
	}
}

// DateTime values are 100 nanosecond intervals since January 1, 1601 (UTC)
// on the wire. In memory they are kept as time.Time.
const (
	ticksUnixEpoch = 116444736000000000
	ticksMax       = 2650467743990000000 // 9999-12-31T23:59:59Z
)

// DateTimeToTicks converts a time.Time to the number of 100 nanosecond
// intervals since January 1, 1601. The zero time.Time maps to zero.
func DateTimeToTicks(value time.Time) int64 {
	if value.IsZero() {
		return 0
	}
	ticks := (value.Unix()+11644473600)*10000000 + int64(value.Nanosecond())/100
	if ticks < 0 {
		return 0
	}
	if ticks >= ticksMax {
		return 0x7FFFFFFFFFFFFFFF
	}
	return ticks
}

// TicksToDateTime converts 100 nanosecond intervals since January 1, 1601 to a
// time.Time. Zero and negative ticks map to the zero time.Time.
func TicksToDateTime(ticks int64) time.Time {
	if ticks <= 0 {
		return time.Time{}
	}
	if ticks >= ticksMax {
		ticks = ticksMax
	}
	return time.Unix(ticks/10000000-11644473600, (ticks%10000000)*100).UTC()
}

// DateTimeNow returns the current time, truncated to the resolution of a DateTime.
func DateTimeNow() time.Time {
	return time.Now().UTC().Truncate(100 * time.Nanosecond)
}
