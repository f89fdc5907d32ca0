package statuswriter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"log"
)

const (
	msgStorageFail = "error in writing status message"
)

// S3API is the subset of the S3 client used by Handler.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObjectAcl(ctx context.Context, params *s3.GetObjectAclInput, optFns ...func(*s3.Options)) (*s3.GetObjectAclOutput, error)
	PutObjectAcl(ctx context.Context, params *s3.PutObjectAclInput, optFns ...func(*s3.Options)) (*s3.PutObjectAclOutput, error)
}

var _ S3API = (*s3.Client)(nil)

type Handler struct {
	s3Client S3API
}

func NewHandler(client S3API) *Handler {
	return &Handler{s3Client: client}
}

// HandleRequest writes a SUCCESS status object for the SNS envelope in
// request and grants the envelope's canonical user read access to it.
func (o *Handler) HandleRequest(ctx context.Context, request json.RawMessage) error {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		log.Printf("aws request id: '%s'", lc.AwsRequestID)
	}
	log.Printf("request received: '%s'", string(request))

	rawProps, err := parseEvent(request)
	if err != nil {
		return err
	}

	bucket, err := requiredProperty(envLookup, envBucketName)
	if err != nil {
		return err
	}

	props, err := newResourceProperties(rawProps)
	if err != nil {
		return err
	}

	sw := &statusWriter{
		s3Client:      o.s3Client,
		bucket:        bucket,
		key:           ObjectKey(*props),
		canonicalUser: props.CanonicalUser,
	}

	err = sw.write(ctx)
	if err != nil {
		logStorageErr(err)
		return HandlerErr{errType: ErrStorageWrite, msg: msgStorageFail, err: err}
	}

	log.Printf("status written to 's3://%s/%s', read granted to '%s'", sw.bucket, sw.key, sw.canonicalUser)
	return nil
}

type statusWriter struct {
	s3Client      S3API
	bucket        string
	key           string
	canonicalUser string
}

// write stores the status object and then extends its ACL. No attempt is
// made to undo the object write when the ACL steps fail.
func (o *statusWriter) write(ctx context.Context) error {
	err := o.putStatus(ctx)
	if err != nil {
		return err
	}

	acl, err := o.s3Client.GetObjectAcl(ctx, &s3.GetObjectAclInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
	})
	if err != nil {
		return fmt.Errorf("error getting acl of 's3://%s/%s' - %w", o.bucket, o.key, err)
	}

	_, err = o.s3Client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(o.key),
		AccessControlPolicy: &types.AccessControlPolicy{
			Grants: withReadGrant(acl.Grants, o.canonicalUser),
			Owner:  acl.Owner,
		},
	})
	if err != nil {
		return fmt.Errorf("error putting acl of 's3://%s/%s' - %w", o.bucket, o.key, err)
	}

	return nil
}

func (o *statusWriter) putStatus(ctx context.Context) error {
	body, err := successBody()
	if err != nil {
		return fmt.Errorf("error marshaling status object - %w", err)
	}

	log.Printf("writing status object 's3://%s/%s'", o.bucket, o.key)
	_, err = o.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(o.bucket),
		Key:           aws.String(o.key),
		Body:          bytes.NewReader(body),
		ContentLength: int64(len(body)),
		ContentType:   aws.String(contentTypeJson),
	})
	if err != nil {
		return fmt.Errorf("error putting s3 object - %w", err)
	}

	return nil
}

func logStorageErr(err error) {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		log.Printf("%s (%s) - %s", msgStorageFail, apiErr.ErrorCode(), err.Error())
		return
	}
	log.Printf("%s - %s", msgStorageFail, err.Error())
}
