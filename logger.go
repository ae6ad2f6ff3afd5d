package instrumentation

import "log/slog"

// maxShapeReports bounds how many lookup mismatches an engine logs, so a hot
// path hammering a misdeclared name does not flood the log.
const maxShapeReports = 10

var discardLogger = slog.New(slog.DiscardHandler)
