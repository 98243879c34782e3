package s3

import (
	"io"
	"strings"

	"github.com/swastikanata/ecommerce-dashboard/filestore"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	log "github.com/sirupsen/logrus"
)

const (
	separator = "/"
)

var _ filestore.FileManager = (*S3Driver)(nil)

type S3Driver struct {
	s3         *s3.S3
	BucketName string
	Region     string
	// Key prefix inside the bucket without a trailing separator.
	Prefix    string
	fileNames map[string]string
}

func New(bucketName, region, prefix string, fileNames map[string]string) *S3Driver {
	session := session.New()
	s3 := s3.New(session, aws.NewConfig().WithRegion(region))
	return &S3Driver{
		s3:         s3,
		BucketName: bucketName,
		Region:     region,
		Prefix:     strings.TrimSuffix(prefix, separator),
		fileNames:  filestore.MergeFileNames(fileNames),
	}
}

func objectKey(dir, fileName string) string {
	if dir == "" {
		return fileName
	}
	return dir + separator + fileName
}

func (sd *S3Driver) Get(dir, fileName string) (io.ReadCloser, error) {
	key := objectKey(dir, fileName)
	log.WithFields(log.Fields{
		"Key":        key,
		"BucketName": sd.BucketName,
		"Region":     sd.Region,
	}).Debug("S3Driver Getting file")

	input := s3.GetObjectInput{
		Bucket: aws.String(sd.BucketName),
		Key:    aws.String(key),
	}
	op, err := sd.s3.GetObject(&input)
	if err != nil {
		return nil, err
	}
	return op.Body, nil
}

func (sd *S3Driver) GetBucketName() string {
	return sd.BucketName
}

func (sd *S3Driver) GetDatasetFilePathAndName(dataset string) (string, string) {
	return sd.Prefix, sd.fileNames[dataset]
}
