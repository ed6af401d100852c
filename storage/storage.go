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

// This package mirrors the finished catalog tree to S3-compatible object
// storage. It is called only after a complete, consistent tree write.
package storage

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/EDITO-Infra/csw-to-stac/config"
)

// Sync uploads every file under the given local directory to the configured
// bucket, preserving relative paths beneath the configured prefix. It
// returns the number of files uploaded.
func Sync(ctx context.Context, localDir string) (int, error) {
	if config.Storage.Endpoint == "" {
		return 0, &NotConfiguredError{}
	}

	client, err := minio.New(config.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.Storage.AccessKey, config.Storage.SecretKey, ""),
		Secure: config.Storage.UseSSL,
		Region: config.Storage.Region,
	})
	if err != nil {
		return 0, &SyncError{Message: err.Error()}
	}

	uploaded := 0
	err = filepath.WalkDir(localDir, func(filePath string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(localDir, filePath)
		if err != nil {
			return err
		}
		object := objectKey(config.Storage.Prefix, relative)
		_, err = client.FPutObject(ctx, config.Storage.Bucket, object, filePath,
			minio.PutObjectOptions{ContentType: contentTypeFor(filePath)})
		if err != nil {
			return &UploadError{Object: object, Message: err.Error()}
		}
		uploaded++
		slog.Debug(fmt.Sprintf("Uploaded %s to %s/%s", relative,
			config.Storage.Bucket, object))
		return nil
	})
	if err != nil {
		return uploaded, err
	}

	slog.Info(fmt.Sprintf("Synced %d files to %s/%s", uploaded,
		config.Storage.Bucket, config.Storage.Prefix))
	return uploaded, nil
}

// builds the object key for a local file, normalizing path separators
func objectKey(prefix, relativePath string) string {
	return path.Join(prefix, filepath.ToSlash(relativePath))
}

// picks a content type for an uploaded file
func contentTypeFor(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".json":
		return "application/json"
	case ".xml":
		return "application/xml"
	case ".html":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
