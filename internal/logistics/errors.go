//-------------------------------------------------------------------------
//
// pgEdge Logistics Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package logistics

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when generation parameters are missing or
	// inconsistent. Nothing has been generated when it is returned.
	ErrInvalidConfig = errors.New("invalid generation parameters")

	// ErrReferential is returned when an upstream table required by a
	// downstream builder is empty or lacks a required category.
	ErrReferential = errors.New("referential integrity violation")
)

// ReferentialError reports which table could not be built and why.
type ReferentialError struct {
	Table  string
	Reason string
}

func (e *ReferentialError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrReferential, e.Table, e.Reason)
}

// Unwrap allows errors.Is(err, ErrReferential).
func (e *ReferentialError) Unwrap() error {
	return ErrReferential
}

func referentialErr(table, format string, args ...any) error {
	return &ReferentialError{Table: table, Reason: fmt.Sprintf(format, args...)}
}

func configErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
