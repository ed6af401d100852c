// Copyright (c) 2024 The EDITO-Infra Project and its Contributors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy of
// this software and associated documentation files (the "Software"), to deal in
// the Software without restriction, including without limitation the rights to
// use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is furnished to do
// so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package journal

import (
	"fmt"
)

// this error type is returned when the journal is used before Init has
// opened it
type NotOpenError struct{}

func (e NotOpenError) Error() string {
	return "The processed-record journal is not open"
}

// this error type is returned when the journal database cannot be opened
type CantOpenError struct {
	Message string
}

func (e CantOpenError) Error() string {
	return fmt.Sprintf("The journal database couldn't be opened: %s", e.Message)
}

// this error type is returned when the journal database cannot be closed
type CantCloseError struct {
	Message string
}

func (e CantCloseError) Error() string {
	return fmt.Sprintf("The journal database couldn't be closed: %s", e.Message)
}

// this error type is returned when an entry carries an outcome outside the
// accepted/rejected vocabulary
type InvalidOutcomeError struct {
	Id, Outcome string
}

func (e InvalidOutcomeError) Error() string {
	return fmt.Sprintf("Invalid outcome for record '%s': %s", e.Id, e.Outcome)
}

// this error type is returned when an entry cannot be stored or decoded
type InvalidEntryError struct {
	Id, Message string
}

func (e InvalidEntryError) Error() string {
	return fmt.Sprintf("Invalid journal entry for record '%s': %s", e.Id, e.Message)
}
