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

package stac

import (
	"fmt"
)

// this error type is returned when a record declares no usable title
type NoTitleError struct {
	Id string
}

func (e NoTitleError) Error() string {
	return fmt.Sprintf("Record '%s' has no title, so no item can be built", e.Id)
}

// this error type is returned when a record yields no attachable assets
type NoAssetsError struct {
	Id string
}

func (e NoAssetsError) Error() string {
	return fmt.Sprintf("Record '%s' yields no assets, so no item can be built", e.Id)
}

// this error type is returned when the tree can't be written to disk
type WriteError struct {
	Path, Message string
}

func (e WriteError) Error() string {
	return fmt.Sprintf("Couldn't write '%s': %s", e.Path, e.Message)
}

// this error type is returned when an existing on-disk tree can't be read
// back
type LoadError struct {
	Path, Message string
}

func (e LoadError) Error() string {
	return fmt.Sprintf("Couldn't load '%s': %s", e.Path, e.Message)
}

// this error type is returned when an operation names a family or collection
// the tree doesn't hold
type NotInTreeError struct {
	Id string
}

func (e NotInTreeError) Error() string {
	return fmt.Sprintf("'%s' is not in the catalog tree", e.Id)
}
