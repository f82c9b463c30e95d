package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/lox/faixaclima/internal/httputil"
	"github.com/lox/faixaclima/internal/metrics"
	"github.com/lox/faixaclima/internal/store"
)

// ErrSourceNotFound means the configured data source does not exist. It is
// the one user-facing error of the loader.
var ErrSourceNotFound = errors.New("data source unavailable")

const defaultTable = "observacoes"

// sourceKind reports the scheme used to fetch a source string. Bare paths
// are CSV files.
func sourceKind(source string) string {
	switch {
	case strings.HasPrefix(source, "sqlite://"):
		return "sqlite"
	case strings.HasPrefix(source, "ftp://"):
		return "ftp"
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return "http"
	default:
		return "file"
	}
}

func readFile(source string) ([]byte, error) {
	path := strings.TrimPrefix(source, "file://")
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// parseSQLiteSource splits "sqlite://path/to.db?table=name" into its parts.
func parseSQLiteSource(source string) (path, table string, err error) {
	rest := strings.TrimPrefix(source, "sqlite://")
	path, rawQuery, _ := strings.Cut(rest, "?")
	if path == "" {
		return "", "", fmt.Errorf("sqlite source %q has no path", source)
	}
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", "", fmt.Errorf("parse sqlite source: %w", err)
	}
	table = q.Get("table")
	if table == "" {
		table = defaultTable
	}
	return path, table, nil
}

func readSQLite(ctx context.Context, source string) ([][]string, error) {
	path, table, err := parseSQLiteSource(source)
	if err != nil {
		return nil, err
	}
	st, err := store.Open(path)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, err
	}
	defer st.Close()

	cols, records, err := st.ReadTable(ctx, table)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: table %s in %s", ErrSourceNotFound, table, path)
	}
	if err != nil {
		return nil, err
	}
	return append([][]string{cols}, records...), nil
}

func readFTP(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse ftp source: %w", err)
	}
	host := u.Host
	if u.Port() == "" {
		host += ":21"
	}

	start := time.Now()
	conn, err := ftp.Dial(host, ftp.DialWithTimeout(30*time.Second), ftp.DialWithContext(ctx))
	if err != nil {
		metrics.SourceFetches.WithLabelValues("ftp", "error").Inc()
		return nil, fmt.Errorf("ftp dial: %w", err)
	}
	defer conn.Quit()

	user, pass := "anonymous", "anonymous"
	if u.User != nil {
		user = u.User.Username()
		if p, ok := u.User.Password(); ok {
			pass = p
		}
	}
	if err := conn.Login(user, pass); err != nil {
		metrics.SourceFetches.WithLabelValues("ftp", "error").Inc()
		return nil, fmt.Errorf("ftp login: %w", err)
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		var tpErr *textproto.Error
		if errors.As(err, &tpErr) && tpErr.Code == ftp.StatusFileUnavailable {
			metrics.SourceFetches.WithLabelValues("ftp", "not_found").Inc()
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
		}
		metrics.SourceFetches.WithLabelValues("ftp", "error").Inc()
		return nil, fmt.Errorf("ftp retr: %w", err)
	}
	defer resp.Close()

	body, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	metrics.SourceFetches.WithLabelValues("ftp", "ok").Inc()
	metrics.SourceFetchLatency.WithLabelValues("ftp").Observe(time.Since(start).Seconds())
	return body, nil
}

func readHTTP(ctx context.Context, source string) ([]byte, error) {
	start := time.Now()
	resp, err := httputil.NewClient().R().SetContext(ctx).Get(source)
	if err != nil {
		metrics.SourceFetches.WithLabelValues("http", "error").Inc()
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		metrics.SourceFetches.WithLabelValues("http", "not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, source)
	case resp.StatusCode() != http.StatusOK:
		metrics.SourceFetches.WithLabelValues("http", "error").Inc()
		return nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode())
	}
	metrics.SourceFetches.WithLabelValues("http", "ok").Inc()
	metrics.SourceFetchLatency.WithLabelValues("http").Observe(time.Since(start).Seconds())
	return resp.Body(), nil
}
