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

package storage

import (
	"fmt"
)

// this error type is returned when Sync is called without storage settings
type NotConfiguredError struct{}

func (e NotConfiguredError) Error() string {
	return "No object storage endpoint is configured"
}

// this error type is returned when the storage client can't be constructed
type SyncError struct {
	Message string
}

func (e SyncError) Error() string {
	return fmt.Sprintf("Couldn't sync to object storage: %s", e.Message)
}

// this error type is returned when a single file fails to upload
type UploadError struct {
	Object, Message string
}

func (e UploadError) Error() string {
	return fmt.Sprintf("Couldn't upload '%s': %s", e.Object, e.Message)
}
