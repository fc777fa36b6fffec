package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EventKeyLayout is fixed width so that lexical order matches time order.
const EventKeyLayout = "2006-01-02T15:04:05.000000000Z"

const (
	eventKeySeqSeparator = "~"
	maxEventKeySeq       = 999999
)

type EventKey string

type MemoryEvent struct {
	Key     EventKey
	Payload Payload
}

// NextEventKey returns the UTC timestamp key for now, or, when that would not
// sort strictly after last, last's timestamp with the next sequence suffix.
// Once the six-digit suffix is used up the key moves on to the next
// nanosecond, which still sorts after every suffixed key of last's timestamp.
func NextEventKey(now time.Time, last EventKey) EventKey {
	candidate := EventKey(now.UTC().Format(EventKeyLayout))
	if last == "" || candidate > last {
		return candidate
	}

	base, seq := last.split()
	if seq >= maxEventKeySeq {
		if at, err := time.Parse(EventKeyLayout, base); err == nil {
			return EventKey(at.Add(time.Nanosecond).UTC().Format(EventKeyLayout))
		}
	}

	return EventKey(fmt.Sprintf("%s%s%06d", base, eventKeySeqSeparator, seq+1))
}

func (k EventKey) Time() (time.Time, error) {
	base, _ := k.split()
	return time.Parse(EventKeyLayout, base)
}

func (k EventKey) split() (string, int) {
	base, suffix, found := strings.Cut(string(k), eventKeySeqSeparator)
	if !found {
		return base, 0
	}

	seq, err := strconv.Atoi(suffix)
	if err != nil {
		return base, 0
	}

	return base, seq
}
