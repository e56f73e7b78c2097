package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/lib/pq"
)

var (
	// ErrStoreUnreachable marks failures where the write never reached a
	// healthy server; callers may retry.
	ErrStoreUnreachable = errors.New("store unreachable")
	// ErrStoreRejected marks failures the server refused for data reasons.
	ErrStoreRejected = errors.New("store rejected write")
)

func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStoreUnreachable) || errors.Is(err, ErrStoreRejected) {
		return err
	}
	if isUnreachable(err) {
		return errors.Join(ErrStoreUnreachable, err)
	}
	return errors.Join(ErrStoreRejected, err)
}

func isUnreachable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		// connection exception, insufficient resources, operator intervention
		case "08", "53", "57":
			return true
		}
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, io.EOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET):
		return true
	}

	return strings.Contains(err.Error(), "sql: database is closed")
}
