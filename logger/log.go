// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Entry represents a single line/entry in the log
type Entry struct {
	Timestamp time.Time
	tag       string
	detail    string
	repeated  int
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.tag, e.detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// not exposing logger to outside of the package. the package level functions
// can be used to log to the central logger.
//
// Every package-level logging call funnels through one logger, whichever
// goroutine makes it, so entries and the echo target are guarded by mu
// rather than left to the atomic timestamp alone.
type logger struct {
	mu sync.Mutex

	maxEntries int
	entries    []Entry

	echoOutput io.Writer
	echoRecent bool
	recentRef  time.Time

	// timestamp of most recent log() event
	atomicTimestamp atomic.Value // time.Time
}

func newLogger(maxEntries int) *logger {
	l := &logger{
		maxEntries: maxEntries,
		entries:    make([]Entry, 0),
	}
	l.atomicTimestamp.Store(time.Time{})
	return l
}

func (l *logger) log(tag, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := &Entry{}
	if len(l.entries) > 0 {
		e = &l.entries[len(l.entries)-1]
	}

	// remove all newline characters from tag and detail string
	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	if detail != e.detail || tag != e.tag {
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), tag: tag, detail: detail})
		e = &l.entries[len(l.entries)-1]
	} else {
		e.repeated++
		e.Timestamp = time.Now()
	}

	// store atomic timestamp
	l.atomicTimestamp.Store(e.Timestamp)

	// mainain maximum length
	if len(l.entries) > l.maxEntries {
		l.entries = l.entries[len(l.entries)-l.maxEntries:]
	}

	if l.echoOutput != nil {
		io.WriteString(l.echoOutput, e.String())
	}
}

func (l *logger) logf(tag, detail string, args ...interface{}) {
	l.log(tag, fmt.Sprintf(detail, args...))
}

func (l *logger) clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

func (l *logger) write(output io.Writer) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) == 0 {
		return false
	}
	for _, e := range l.entries {
		io.WriteString(output, e.String())
	}
	return true
}

// writeRecent writes only the entries appended since the last call to
// writeRecent (or, on the first call, everything logged so far).
func (l *logger) writeRecent(output io.Writer) {
	l.mu.Lock()
	ref := l.recentRef
	entries := l.copyLocked(ref)
	if len(l.entries) > 0 {
		l.recentRef = l.entries[len(l.entries)-1].Timestamp
	}
	l.mu.Unlock()

	for _, e := range entries {
		if e.Timestamp.After(ref) {
			io.WriteString(output, e.String())
		}
	}
}

func (l *logger) tail(output io.Writer, number int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// cap number to the number of entries
	if number > len(l.entries) {
		number = len(l.entries)
	}

	for _, e := range l.entries[len(l.entries)-number:] {
		io.WriteString(output, e.String())
	}
}

// setEcho mirrors every future log entry to output as it is added. If
// writeRecent is true the entries accumulated so far are written to output
// immediately, as though by writeRecent, before echoing begins.
func (l *logger) setEcho(output io.Writer, writeRecent bool) {
	if writeRecent {
		l.writeRecent(output)
	}

	l.mu.Lock()
	l.echoOutput = output
	l.mu.Unlock()
}

func (l *logger) borrowLog(f func([]Entry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f(l.entries)
}

func (l *logger) copy(ref time.Time) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.copyLocked(ref)
}

func (l *logger) copyLocked(ref time.Time) []Entry {
	if ref != l.atomicTimestamp.Load().(time.Time) {
		c := make([]Entry, len(l.entries))
		copy(c, l.entries)
		return c
	}
	return nil
}
