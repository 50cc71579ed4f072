package template

import (
	"context"
	"io/ioutil"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/awserr"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/s3iface"
	"github.com/pkg/errors"
)

// S3 reads templates from S3 buckets.
type S3 struct {
	Client s3iface.ClientAPI

	// Bucket is used for references that do not name a bucket.
	Bucket string
}

// Get downloads a template object.
func (s *S3) Get(ctx context.Context, uri string) (string, error) {
	scheme, rest := SplitURI(uri)
	if scheme != "s3" {
		return "", &UnknownReferenceError{URI: uri}
	}
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", &UnknownReferenceError{URI: uri}
	}
	bucket, key := parts[0], parts[1]
	if bucket == "" {
		bucket = s.Bucket
	}

	req := s.Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	res, err := req.Send(ctx)
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok {
			switch aerr.Code() {
			case s3.ErrCodeNoSuchKey, s3.ErrCodeNoSuchBucket:
				return "", &UnknownReferenceError{URI: uri}
			}
		}
		return "", errors.Wrap(err, "send request")
	}
	defer res.Body.Close()

	data, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	return string(data), nil
}
