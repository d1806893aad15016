// Package warnings contains the non-fatal problems found while parsing a GTFS static feed.
package warnings

import (
	"fmt"

	"github.com/mtransitapps/gtfs/constants"
)

type StaticWarning interface {
	File() constants.StaticFile
	Error() string
}

// MissingColumns is reported when a row lacks a required value and is skipped.
type MissingColumns struct {
	StaticFile  constants.StaticFile
	RowNumber   int
	MissingKeys []string
}

func (w MissingColumns) File() constants.StaticFile {
	return w.StaticFile
}

func (w MissingColumns) Error() string {
	return fmt.Sprintf("skipping row %d because of missing columns %s", w.RowNumber, w.MissingKeys)
}

// MissingFile is reported when an optional file is absent from the feed.
type MissingFile struct {
	StaticFile constants.StaticFile
}

func (w MissingFile) File() constants.StaticFile {
	return w.StaticFile
}

func (w MissingFile) Error() string {
	return fmt.Sprintf("optional file %s is not in the feed", w.StaticFile)
}

// DanglingReference is reported when a row refers to an entity that does not exist.
type DanglingReference struct {
	StaticFile constants.StaticFile
	RowNumber  int
	Entity     constants.ScheduleEntity
	ID         string
}

func (w DanglingReference) File() constants.StaticFile {
	return w.StaticFile
}

func (w DanglingReference) Error() string {
	return fmt.Sprintf("skipping row %d because %s %q does not exist", w.RowNumber, w.Entity, w.ID)
}

// InvalidValue is reported when a cell cannot be parsed and the row is skipped.
type InvalidValue struct {
	StaticFile constants.StaticFile
	RowNumber  int
	Column     string
	Value      string
}

func (w InvalidValue) File() constants.StaticFile {
	return w.StaticFile
}

func (w InvalidValue) Error() string {
	return fmt.Sprintf("skipping row %d because %s=%q is invalid", w.RowNumber, w.Column, w.Value)
}
