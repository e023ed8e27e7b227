// Copyright (C) 2023 The Marquee Authors.
//
// This file is part of Marquee.
//
// Marquee is free software: you can redistribute it and/or modify it under the
// terms of the GNU Affero General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.
//
// Marquee is distributed in the hope that it will be useful, but WITHOUT ANY
// WARRANTY; without even the implied warranty of MERCHANTABILITY or FITNESS
// FOR A PARTICULAR PURPOSE.  See the GNU Affero General Public License for
// more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with Marquee.  If not, see <https://www.gnu.org/licenses/>.

package bucket

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/defsub/marquee/config"
)

// Bucket stores poster and backdrop images in S3 compatible storage.
type Bucket struct {
	config *config.BucketConfig
	s3     *s3.S3
}

// Connect to the configured S3 bucket.
// Tested: Wasabi, Backblaze, Minio
func Open(config config.BucketConfig) (*Bucket, error) {
	creds := credentials.NewStaticCredentials(
		config.AccessKeyID,
		config.SecretAccessKey, "")
	s3Config := &aws.Config{
		Credentials:      creds,
		Endpoint:         aws.String(config.Endpoint),
		Region:           aws.String(config.Region),
		S3ForcePathStyle: aws.Bool(true)}
	session, err := session.NewSession(s3Config)
	bucket := &Bucket{
		s3:     s3.New(session),
		config: &config,
	}
	return bucket, err
}

// Put uploads an image under the configured object prefix.
func (b *Bucket) Put(key, contentType string, data []byte) error {
	_, err := b.s3.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(b.config.BucketName),
		Key:         aws.String(b.config.ObjectPrefix + key),
		ContentType: aws.String(contentType),
		Body:        bytes.NewReader(data),
	})
	return err
}

// Generate a presigned url which expires based on config settings.
func (b *Bucket) Presign(key string) *url.URL {
	req, _ := b.s3.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(b.config.BucketName),
		Key:    aws.String(b.config.ObjectPrefix + key)})
	urlStr, _ := req.Presign(b.config.URLExpiration)
	url, _ := url.Parse(urlStr)
	return url
}

func (b *Bucket) Rewrite(path string) string {
	result := path
	for _, rule := range b.config.RewriteRules {
		re := regexp.MustCompile(rule.Pattern)
		matches := re.FindStringSubmatch(result)
		if matches != nil {
			result = rule.Replace
			for i := range matches {
				result = strings.ReplaceAll(result, fmt.Sprintf("$%d", i), matches[i])
			}
		}
	}
	return result
}
