package devserver

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fatih/color"
)

// requestClass buckets a request log line by how interesting it is
// during landing-page work.
type requestClass int

const (
	classOther requestClass = iota
	classSuccess
	classNotFound
)

const logTimeFormat = "02/Jan/2006 15:04:05"

var (
	successLine  = color.New(color.FgGreen)
	notFoundLine = color.New(color.FgRed)
	otherLine    = color.New(color.FgBlue)
)

// classify inspects the rendered request message, not parsed request
// fields, so the buckets match what is visible in the console. The
// success check runs first: a message matching both buckets counts as a
// success.
func classify(msg string) requestClass {
	if strings.Contains(msg, "GET / ") || strings.Contains(msg, "GET /index.html") {
		return classSuccess
	}
	if strings.Contains(msg, "404") {
		return classNotFound
	}
	return classOther
}

// requestLogger prints one colored, emoji-marked line per served request.
type requestLogger struct {
	out io.Writer
	now func() time.Time
}

func newRequestLogger(out io.Writer) *requestLogger {
	return &requestLogger{out: out, now: time.Now}
}

// requestMessage renders the quoted request line and final status, the
// message the classifier inspects. Remote address and timestamp are
// prepended for display only and never influence classification.
func requestMessage(r *http.Request, status int) string {
	return fmt.Sprintf("%q %d",
		fmt.Sprintf("%s %s %s", r.Method, r.URL.Path, r.Proto),
		status)
}

func (l *requestLogger) log(r *http.Request, status int) {
	msg := requestMessage(r, status)
	line := fmt.Sprintf("%s - - [%s] %s", r.RemoteAddr, l.now().Format(logTimeFormat), msg)
	switch classify(msg) {
	case classSuccess:
		successLine.Fprintf(l.out, "✅ %s\n", line)
	case classNotFound:
		notFoundLine.Fprintf(l.out, "❌ %s\n", line)
	default:
		otherLine.Fprintf(l.out, "📄 %s\n", line)
	}
}
