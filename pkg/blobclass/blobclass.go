// Package blobclass classifies blob payloads as text or binary.
package blobclass

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/src-d/enry/v2"
)

// ErrUnknownDetector is returned by ByName for unregistered detector names.
var ErrUnknownDetector = errors.New("unknown binary detector")

// Class is the content class of a blob.
type Class int

// Content classes.
const (
	Text Class = iota
	Binary
)

// String returns the class name.
func (c Class) String() string {
	if c == Binary {
		return "binary"
	}

	return "text"
}

// Marker returns the one-letter marker used in reports.
func (c Class) Marker() string {
	if c == Binary {
		return "b"
	}

	return "t"
}

// MarshalText implements [encoding.TextMarshaler].
func (c Class) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Detector decides whether a blob payload is binary.
type Detector interface {
	IsBinary(data []byte) bool
}

// DetectorFunc adapts a plain function to [Detector].
type DetectorFunc func(data []byte) bool

// IsBinary calls f(data).
func (f DetectorFunc) IsBinary(data []byte) bool {
	return f(data)
}

// Classify maps the detector verdict on data to a Class.
func Classify(d Detector, data []byte) Class {
	if d.IsBinary(data) {
		return Binary
	}

	return Text
}

// Detector names accepted by ByName.
const (
	NameEnry     = "enry"
	NameNullByte = "nul"
)

// Enry uses the linguist-derived heuristic from src-d/enry.
var Enry Detector = DetectorFunc(enry.IsBinary)

// sniffLength is how far into a payload NullByte looks, the same window git uses.
const sniffLength = 8000

// NullByte treats a payload as binary when a NUL byte occurs in its first 8000 bytes.
var NullByte Detector = DetectorFunc(func(data []byte) bool {
	sniff := data
	if len(sniff) > sniffLength {
		sniff = sniff[:sniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
})

var detectors = map[string]Detector{
	NameEnry:     Enry,
	NameNullByte: NullByte,
}

// ByName returns the registered detector with the given name.
func ByName(name string) (Detector, error) {
	d, ok := detectors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownDetector, name, Names())
	}

	return d, nil
}

// Names lists the registered detector names in sorted order.
func Names() []string {
	names := make([]string, 0, len(detectors))
	for name := range detectors {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}
