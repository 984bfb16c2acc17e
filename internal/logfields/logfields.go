package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeySource     = "source"
	KeyDest       = "dest"
	KeySiteDir    = "site_dir"
	KeyPath       = "path"
	KeyFiles      = "files"
	KeyBytes      = "bytes"
	KeyDurationMS = "duration_ms"
	KeyOutcome    = "outcome"
	KeyCommit     = "commit"
	KeySubject    = "subject"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Source(s string) slog.Attr       { return slog.String(KeySource, s) }
func Dest(d string) slog.Attr         { return slog.String(KeyDest, d) }
func SiteDir(d string) slog.Attr      { return slog.String(KeySiteDir, d) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func Bytes(n int64) slog.Attr         { return slog.Int64(KeyBytes, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func Commit(c string) slog.Attr       { return slog.String(KeyCommit, c) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
