// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-swiftstore.
//
// go-swiftstore is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package swift

import (
	"errors"
	"fmt"
	"net/http"
)

// Operation names carried by StatusError.
const (
	OpGetInfo         = "getInfo"
	OpPutFile         = "putFile"
	OpPutFileContents = "putFileContents"
	OpPutFileStream   = "putFileStream"
	OpWalk            = "walk"
)

// successStatus lists, per validated operation, the codes that count as
// success. Operations missing from the table are never validated.
var successStatus = map[string][]int{
	OpGetInfo:         {http.StatusNoContent},
	OpPutFile:         {http.StatusCreated},
	OpPutFileContents: {http.StatusCreated},
	OpPutFileStream:   {http.StatusCreated},
	OpWalk:            {http.StatusOK, http.StatusNoContent},
}

// StatusError reports a status code outside the success set of an operation.
type StatusError struct {
	StatusCode int
	Op         string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d %s", e.Op, e.StatusCode, http.StatusText(e.StatusCode))
}

// checkStatus returns a *StatusError when code is not a success code for op.
func checkStatus(op string, code int) error {
	for _, ok := range successStatus[op] {
		if code == ok {
			return nil
		}
	}
	return &StatusError{StatusCode: code, Op: op}
}

// AsStatusError unwraps err to a *StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// IsStatus reports whether err is a *StatusError carrying code.
func IsStatus(err error, code int) bool {
	se, ok := AsStatusError(err)
	return ok && se.StatusCode == code
}
