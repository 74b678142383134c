// Package logging configures malfs diagnostics.
//
// Without --debug, warnings and errors go to stderr as plain text so the
// probe report stays readable. With --debug, JSON records at debug level
// are written to a rotating file under ~/.malfs/logs/.
package logging
