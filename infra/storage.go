package infra

import "github.com/zclconf/go-cty/cty"

// ObjectStorage is a private object storage bucket.
type ObjectStorage struct {
	ID         string
	BucketName string

	// LoggingBucket receives access logs for the bucket. Optional.
	LoggingBucket Bucket
}

// UID returns the uid of the bucket.
func (s *ObjectStorage) UID() string { return s.ID }

// Kind returns KindObjectStorage.
func (s *ObjectStorage) Kind() Kind { return KindObjectStorage }

// Bucket returns the bucket name.
func (s *ObjectStorage) Bucket() string { return s.BucketName }

// DependsOn returns the logging bucket, if any.
func (s *ObjectStorage) DependsOn() []Node {
	if s.LoggingBucket == nil {
		return nil
	}
	return []Node{s.LoggingBucket}
}

func (s *ObjectStorage) sealed() {}

type objectStorageVars struct {
	UID           string `cty:"uid"`
	Name          string `cty:"name"`
	BucketName    string `cty:"bucket_name"`
	Logging       bool   `cty:"logging"`
	LoggingBucket string `cty:"logging_bucket"`
	LoggingName   string `cty:"logging_name"`
}

// Vars returns the template values for the bucket.
func (s *ObjectStorage) Vars() (cty.Value, error) {
	v := objectStorageVars{
		UID:        s.ID,
		Name:       Name(s.ID),
		BucketName: s.BucketName,
	}
	if s.LoggingBucket != nil {
		v.Logging = true
		v.LoggingBucket = s.LoggingBucket.Bucket()
		v.LoggingName = Name(s.LoggingBucket.UID())
	}
	return objectVal(v)
}

// PublicWebsiteStorage is a bucket serving a static website to the internet.
type PublicWebsiteStorage struct {
	ID            string
	BucketName    string
	IndexDocument string
	ErrorDocument string
}

// UID returns the uid of the bucket.
func (s *PublicWebsiteStorage) UID() string { return s.ID }

// Kind returns KindPublicWebsiteStorage.
func (s *PublicWebsiteStorage) Kind() Kind { return KindPublicWebsiteStorage }

// Bucket returns the bucket name.
func (s *PublicWebsiteStorage) Bucket() string { return s.BucketName }

// DependsOn returns nil.
func (s *PublicWebsiteStorage) DependsOn() []Node { return nil }

func (s *PublicWebsiteStorage) sealed() {}

type websiteVars struct {
	UID           string `cty:"uid"`
	Name          string `cty:"name"`
	BucketName    string `cty:"bucket_name"`
	IndexDocument string `cty:"index_document"`
	ErrorDocument string `cty:"error_document"`
}

// Vars returns the template values for the bucket.
func (s *PublicWebsiteStorage) Vars() (cty.Value, error) {
	return objectVal(websiteVars{
		UID:           s.ID,
		Name:          Name(s.ID),
		BucketName:    s.BucketName,
		IndexDocument: s.IndexDocument,
		ErrorDocument: s.ErrorDocument,
	})
}
