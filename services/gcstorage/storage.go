package gcstorage

import (
	"context"
	"io"
	"strings"

	"github.com/swastikanata/ecommerce-dashboard/filestore"

	"cloud.google.com/go/storage"
)

const (
	separator = "/"
)

var _ filestore.FileManager = (*GCSDriver)(nil)

type GCSDriver struct {
	client     *storage.Client
	BucketName string
	// Object prefix inside the bucket, e.g. "dashboard/".
	Prefix    string
	fileNames map[string]string
}

func New(bucketName, prefix string, fileNames map[string]string) (*GCSDriver, error) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return newWithClient(client, bucketName, prefix, fileNames), nil
}

func newWithClient(client *storage.Client, bucketName, prefix string, fileNames map[string]string) *GCSDriver {
	if prefix != "" && !strings.HasSuffix(prefix, separator) {
		prefix = prefix + separator
	}
	return &GCSDriver{
		client:     client,
		BucketName: bucketName,
		Prefix:     prefix,
		fileNames:  filestore.MergeFileNames(fileNames),
	}
}

func (gcsd *GCSDriver) Get(dir, fileName string) (io.ReadCloser, error) {
	ctx := context.Background()
	obj := gcsd.client.Bucket(gcsd.BucketName).Object(dir + fileName)
	rc, err := obj.NewReader(ctx)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

func (gcsd *GCSDriver) GetBucketName() string {
	return gcsd.BucketName
}

func (gcsd *GCSDriver) GetDatasetFilePathAndName(dataset string) (string, string) {
	return gcsd.Prefix, gcsd.fileNames[dataset]
}
