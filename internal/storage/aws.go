package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/ignite/email-enrich/internal/config"
	"github.com/ignite/email-enrich/internal/pkg/logger"
	"github.com/ignite/email-enrich/internal/verify"
)

// S3 key for the shared pattern-cache document.
const patternSnapshotKey = "patterns/pattern_cache.json"

// How long a ledger verdict is trusted before DynamoDB expires it.
const verdictTTL = 30 * 24 * time.Hour

// AWSStorage provides AWS-backed storage using DynamoDB and S3
type AWSStorage struct {
	dynamoDB  *dynamodb.Client
	s3Client  *s3.Client
	tableName string
	bucket    string
	region    string
}

// verdictItem is the DynamoDB row recording one address verdict
type verdictItem struct {
	PK          string `dynamodbav:"PK"`
	SK          string `dynamodbav:"SK"`
	Deliverable bool   `dynamodbav:"Deliverable"`
	Timestamp   string `dynamodbav:"Timestamp"`
	TTL         int64  `dynamodbav:"TTL,omitempty"`
}

// NewAWSStorage creates a new AWS storage instance. Static keys in the
// config win over a shared profile; with neither, the default credential
// chain applies (IAM role on ECS).
func NewAWSStorage(ctx context.Context, cfg config.StorageConfig) (*AWSStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}

	switch {
	case cfg.AWSAccessKey != "" && cfg.AWSSecretKey != "":
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		))
	case cfg.GetAWSProfile() != "":
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.GetAWSProfile()))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &AWSStorage{
		dynamoDB:  dynamodb.NewFromConfig(awsCfg),
		s3Client:  s3.NewFromConfig(awsCfg),
		tableName: cfg.DynamoDBTable,
		bucket:    cfg.S3Bucket,
		region:    cfg.AWSRegion,
	}, nil
}

// SaveToS3 saves data to S3 as indented JSON
func (s *AWSStorage) SaveToS3(ctx context.Context, key string, data interface{}) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling data: %w", err)
	}
	return s.putRaw(ctx, key, jsonData)
}

// GetFromS3 retrieves JSON data from S3
func (s *AWSStorage) GetFromS3(ctx context.Context, key string, target interface{}) error {
	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("getting object from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return fmt.Errorf("reading S3 object body: %w", err)
	}

	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("unmarshaling S3 data: %w", err)
	}

	return nil
}

func (s *AWSStorage) putRaw(ctx context.Context, key string, data []byte) error {
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("putting object to S3: %w", err)
	}
	return nil
}

// SaveRunReportToS3 saves a run report under a date-partitioned key
func (s *AWSStorage) SaveRunReportToS3(ctx context.Context, report RunReport) error {
	key := fmt.Sprintf("reports/%s/%s.json",
		report.StartedAt.UTC().Format("2006/01/02"), report.RunID)
	return s.SaveToS3(ctx, key, report)
}

// ListRunReports loads all run reports stored in S3
func (s *AWSStorage) ListRunReports(ctx context.Context) ([]RunReport, error) {
	var reports []RunReport

	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String("reports/"),
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing S3 objects: %w", err)
		}

		for _, obj := range page.Contents {
			if !strings.HasSuffix(*obj.Key, ".json") {
				continue
			}

			var report RunReport
			if err := s.GetFromS3(ctx, *obj.Key, &report); err != nil {
				continue
			}
			reports = append(reports, report)
		}
	}

	return reports, nil
}

// SavePatternSnapshotToS3 publishes the pattern cache document as-is
func (s *AWSStorage) SavePatternSnapshotToS3(ctx context.Context, data []byte) error {
	return s.putRaw(ctx, patternSnapshotKey, data)
}

// GetPatternSnapshotFromS3 fetches the shared pattern cache document.
// A missing object reports found=false rather than an error.
func (s *AWSStorage) GetPatternSnapshotFromS3(ctx context.Context) ([]byte, bool, error) {
	result, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(patternSnapshotKey),
	})
	if err != nil {
		var noKey *s3types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("getting object from S3: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, false, fmt.Errorf("reading S3 object body: %w", err)
	}

	return data, true, nil
}

// PutVerdict records an address verdict in the DynamoDB ledger
func (s *AWSStorage) PutVerdict(ctx context.Context, email string, deliverable bool) error {
	item := verdictItem{
		PK:          fmt.Sprintf("VERDICT#%s", email),
		SK:          "verdict",
		Deliverable: deliverable,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		TTL:         time.Now().Add(verdictTTL).Unix(),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshaling item: %w", err)
	}

	_, err = s.dynamoDB.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("putting item to DynamoDB: %w", err)
	}

	return nil
}

// GetVerdict looks up an address verdict in the DynamoDB ledger
func (s *AWSStorage) GetVerdict(ctx context.Context, email string) (deliverable bool, found bool, err error) {
	result, err := s.dynamoDB.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("VERDICT#%s", email)},
			"SK": &types.AttributeValueMemberS{Value: "verdict"},
		},
	})
	if err != nil {
		return false, false, fmt.Errorf("getting item from DynamoDB: %w", err)
	}
	if len(result.Item) == 0 {
		return false, false, nil
	}

	var item verdictItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return false, false, fmt.Errorf("unmarshaling item: %w", err)
	}

	return item.Deliverable, true, nil
}

// VerdictLedger is the durable verification cache backed by the
// DynamoDB table. It satisfies verify.Cache; an unreachable table
// degrades to cache misses instead of failing the run.
type VerdictLedger struct {
	aws   *AWSStorage
	local *verify.MemoryCache
}

// NewVerdictLedger wraps AWS storage in a verify.Cache.
func NewVerdictLedger(awsStorage *AWSStorage) *VerdictLedger {
	return &VerdictLedger{aws: awsStorage, local: verify.NewMemoryCache()}
}

func (l *VerdictLedger) Get(ctx context.Context, email string) (bool, bool) {
	if deliverable, ok := l.local.Get(ctx, email); ok {
		return deliverable, true
	}

	deliverable, found, err := l.aws.GetVerdict(ctx, email)
	if err != nil {
		logger.Debug("verdict_ledger_unavailable", "error", err.Error())
		return false, false
	}
	if !found {
		return false, false
	}

	l.local.Put(ctx, email, deliverable)
	return deliverable, true
}

func (l *VerdictLedger) Put(ctx context.Context, email string, deliverable bool) {
	l.local.Put(ctx, email, deliverable)
	if err := l.aws.PutVerdict(ctx, email, deliverable); err != nil {
		logger.Debug("verdict_ledger_write_failed",
			"email", logger.RedactEmail(email), "error", err.Error())
	}
}
