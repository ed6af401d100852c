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

package csw

import (
	"fmt"
)

// this error type is returned when the CSW source cannot be reached at all
type UnreachableError struct {
	URL, Message string
}

func (e UnreachableError) Error() string {
	return fmt.Sprintf("Cannot reach the CSW source at %s: %s", e.URL, e.Message)
}

// this error type is returned when the CSW source answers with an
// unexpected HTTP status
type BadStatusError struct {
	URL        string
	StatusCode int
}

func (e BadStatusError) Error() string {
	return fmt.Sprintf("Request to %s failed with status %d", e.URL, e.StatusCode)
}

// this error type is returned when a record's native XML representation
// is sought but not found
type RecordNotFoundError struct {
	Id string
}

func (e RecordNotFoundError) Error() string {
	return fmt.Sprintf("The record '%s' was not found at the CSW source", e.Id)
}

// this error type is returned when a response cannot be decoded as CSW XML
type InvalidResponseError struct {
	URL, Message string
}

func (e InvalidResponseError) Error() string {
	return fmt.Sprintf("Couldn't decode the CSW response from %s: %s", e.URL, e.Message)
}

// this error type is emitted if an endpoint redirects an HTTPS request to an
// HTTP endpoint
type DowngradedRedirectError struct {
	Endpoint string
}

func (e DowngradedRedirectError) Error() string {
	return fmt.Sprintf("The endpoint %s is attempting to downgrade an HTTPS request to HTTP",
		e.Endpoint)
}
