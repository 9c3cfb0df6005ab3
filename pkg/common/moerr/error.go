// Copyright 2022 Matrix Origin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package moerr

import (
	"context"
	"errors"
	"fmt"
)

const (
	// 0 is OK, never carried by an *Error.
	Ok uint16 = 0

	// Group 1: internal errors
	ErrStart    uint16 = 20100
	ErrInternal uint16 = 20101
	ErrNYI      uint16 = 20102

	// Group 2: invalid input
	ErrInvalidInput uint16 = 20200
	ErrInvalidArg   uint16 = 20201
	ErrBadConfig    uint16 = 20202

	// Group 3: io errors
	ErrFileNotFound    uint16 = 20300
	ErrFileReadFailed  uint16 = 20301
	ErrFileWriteFailed uint16 = 20302
	ErrMmapFailed      uint16 = 20303
	ErrInvalidPath     uint16 = 20304

	// Group 4: structural errors. These mean "not a valid archive",
	// as opposed to group 3's "the disk failed us".
	ErrInvalidArchive      uint16 = 20400
	ErrArchiveEntryMissing uint16 = 20401
	ErrBadMetadata         uint16 = 20402

	// Group End: max value of the error code space
	ErrEnd uint16 = 65535
)

var errorMsgRefer = map[uint16]string{
	ErrInternal: "internal error: %s",
	ErrNYI:      "%s is not yet implemented",

	ErrInvalidInput: "invalid input: %s",
	ErrInvalidArg:   "invalid argument %s, bad value %s",
	ErrBadConfig:    "invalid configuration: %s",

	ErrFileNotFound:    "file %s is not found",
	ErrFileReadFailed:  "failed to read file %s",
	ErrFileWriteFailed: "failed to write file %s",
	ErrMmapFailed:      "failed to map file %s",
	ErrInvalidPath:     "invalid file path: %s",

	ErrInvalidArchive:      "file %s is not a valid csvi archive",
	ErrArchiveEntryMissing: "archive entry %s is missing",
	ErrBadMetadata:         "archive metadata is not parseable",
}

// Error is the engine error type. Every failure the engine surfaces
// is one of these, so callers can branch on the code instead of
// matching message text.
type Error struct {
	code    uint16
	message string
	cause   error
}

func newError(ctx context.Context, code uint16, args ...any) *Error {
	format, ok := errorMsgRefer[code]
	if !ok {
		panic(fmt.Sprintf("missing error code: %d", code))
	}
	var err *Error
	if len(args) == 0 {
		err = &Error{code: code, message: format}
	} else {
		err = &Error{code: code, message: fmt.Sprintf(format, args...)}
	}
	_ = ctx
	return err
}

func (e *Error) Error() string {
	return e.message
}

func (e *Error) ErrorCode() uint16 {
	return e.code
}

// Unwrap exposes the underlying cause, if any, to errors.Is/As.
func (e *Error) Unwrap() error {
	return e.cause
}

// WithCause attaches the underlying error while keeping the code.
func (e *Error) WithCause(cause error) *Error {
	e.cause = cause
	return e
}

func (e *Error) Display() string {
	if e.cause == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %s", e.message, e.cause)
}

// IsMoErrCode reports whether err is an *Error carrying the given code.
func IsMoErrCode(err error, code uint16) bool {
	var me *Error
	if !errors.As(err, &me) {
		return false
	}
	return me.code == code
}

// IsIOError reports whether err belongs to the io failure group.
func IsIOError(err error) bool {
	var me *Error
	if !errors.As(err, &me) {
		return false
	}
	return me.code >= ErrFileNotFound && me.code < ErrInvalidArchive
}

// IsStructuralError reports whether err means "not a valid archive"
// rather than an io failure.
func IsStructuralError(err error) bool {
	var me *Error
	if !errors.As(err, &me) {
		return false
	}
	return me.code >= ErrInvalidArchive && me.code <= ErrBadMetadata
}

func NewInternalError(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrInternal, fmt.Sprintf(msg, args...))
}

func NewNYI(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrNYI, fmt.Sprintf(msg, args...))
}

func NewInvalidInput(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrInvalidInput, fmt.Sprintf(msg, args...))
}

func NewInvalidArg(ctx context.Context, arg string, val any) *Error {
	return newError(ctx, ErrInvalidArg, arg, fmt.Sprintf("%v", val))
}

func NewBadConfig(ctx context.Context, msg string, args ...any) *Error {
	return newError(ctx, ErrBadConfig, fmt.Sprintf(msg, args...))
}

func NewFileNotFound(ctx context.Context, path string) *Error {
	return newError(ctx, ErrFileNotFound, path)
}

func NewFileReadFailed(ctx context.Context, path string, cause error) *Error {
	return newError(ctx, ErrFileReadFailed, path).WithCause(cause)
}

func NewFileWriteFailed(ctx context.Context, path string, cause error) *Error {
	return newError(ctx, ErrFileWriteFailed, path).WithCause(cause)
}

func NewMmapFailed(ctx context.Context, path string, cause error) *Error {
	return newError(ctx, ErrMmapFailed, path).WithCause(cause)
}

func NewInvalidPath(ctx context.Context, path string) *Error {
	return newError(ctx, ErrInvalidPath, path)
}

func NewInvalidArchive(ctx context.Context, path string, cause error) *Error {
	return newError(ctx, ErrInvalidArchive, path).WithCause(cause)
}

func NewArchiveEntryMissing(ctx context.Context, entry string) *Error {
	return newError(ctx, ErrArchiveEntryMissing, entry)
}

func NewBadMetadata(ctx context.Context, cause error) *Error {
	return newError(ctx, ErrBadMetadata).WithCause(cause)
}
