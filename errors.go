// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/leafpak

package leafpak

import "errors"

// Package errors. Use errors.New for static messages, fmt.Errorf when values are needed.
var (
	ErrInvalidPayload   = errors.New("invalid payload header")
	ErrOversizedPayload = errors.New("unpacked size exceeds safety ceiling")
	ErrTruncatedHeader  = errors.New("truncated header")
	ErrTruncatedStream  = errors.New("truncated compressed stream")
	ErrDuplicateName    = errors.New("duplicate entry name")
	ErrNameTooLong      = errors.New("entry name exceeds 16 bytes")
	ErrInvalidName      = errors.New("entry name is not plain ASCII")
	ErrUnknownEntry     = errors.New("entry not present in container")
	ErrNilReader        = errors.New("reader is nil")
	ErrEmptyInput       = errors.New("input is empty")
)
