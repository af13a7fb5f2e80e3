package devserver

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/tablemoins/siteserve/internal/sitecheck"
)

// Server serves the landing-page directory over HTTP for local preview.
type Server struct {
	cfg    Config
	out    io.Writer
	logger *requestLogger
}

// New returns a Server for cfg that writes all console output to out.
func New(cfg Config, out io.Writer) *Server {
	return &Server{
		cfg:    cfg,
		out:    out,
		logger: newRequestLogger(out),
	}
}

// Handler returns the full request-handling stack: a static file server
// rooted at the configured directory, wrapped with no-cache headers and
// request logging.
func (s *Server) Handler() http.Handler {
	fs := http.FileServer(http.Dir(s.cfg.Dir))
	return withLogging(s.logger, withNoCache(serveIndexDirectly(fs)))
}

// Run binds the listener, prints the startup banner, opens the browser
// and blocks serving requests until ctx is cancelled. A bind failure is
// returned immediately; cancellation stops the server, prints the
// farewell and returns nil.
func (s *Server) Run(ctx context.Context) error {
	s.printBanner()

	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("bind %s: %w", s.cfg.Addr(), err)
	}

	s.printStartup()

	srv := &http.Server{Handler: s.Handler()}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	if s.cfg.OpenBrowser {
		if err := openBrowser(s.cfg.URL()); err != nil {
			warn := color.New(color.FgYellow)
			warn.Fprintln(s.out, "⚠️  Could not open browser automatically")
			warn.Fprintf(s.out, "   Please open %s manually\n", s.cfg.URL())
		}
	}

	select {
	case <-ctx.Done():
		srv.Close()
		color.New(color.FgGreen).Fprintln(s.out, "\n👋 Server stopped. Au revoir!")
		return nil
	case err := <-serveErr:
		return err
	}
}

func (s *Server) printBanner() {
	banner := color.New(color.FgMagenta)
	rule := strings.Repeat("=", 50)
	banner.Fprintln(s.out)
	banner.Fprintln(s.out, rule)
	banner.Fprintln(s.out, "   TableMoins Website Server")
	banner.Fprintln(s.out, "   The Almost Perfect Landing Page")
	banner.Fprintln(s.out, rule)
	banner.Fprintln(s.out)
}

func (s *Server) printStartup() {
	color.New(color.FgGreen).Fprintf(s.out, "✨ Server running at %s\n", s.cfg.URL())
	color.New(color.FgYellow).Fprintf(s.out, "📦 Serving directory: %s\n", s.cfg.Dir)

	s.printSiteReport()

	if s.cfg.OpenBrowser {
		color.New(color.FgCyan).Fprintln(s.out, "🌍 Opening browser...")
	}
	color.New(color.FgRed).Fprintln(s.out, "Press Ctrl+C to stop the server")
	fmt.Fprintln(s.out, strings.Repeat("-", 50))
}

// printSiteReport runs the index.html inspection and prints its
// findings. Inspection is a preview aid: any failure is a warning and
// serving continues.
func (s *Server) printSiteReport() {
	warn := color.New(color.FgYellow)

	report, err := sitecheck.Inspect(s.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			warn.Fprintln(s.out, "⚠️  No index.html in served directory")
		} else {
			warn.Fprintf(s.out, "⚠️  Could not inspect index.html: %v\n", err)
		}
		return
	}

	if report.Title != "" {
		color.New(color.FgCyan).Fprintf(s.out, "🏷️  Page title: %s\n", report.Title)
	}
	for _, ref := range report.MissingRefs {
		warn.Fprintf(s.out, "⚠️  index.html references missing file: %s\n", ref)
	}
}
