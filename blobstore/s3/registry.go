package s3

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/kmcgo/blobstore"
)

// DDBClient is the interface for the DynamoDB operations the registry uses.
type DDBClient interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
}

// ErrConcurrentUpdate is returned when a concurrent registry commit is detected.
var ErrConcurrentUpdate = errors.New("concurrent registry update detected")

// RunRecord is one committed run of an experiment.
type RunRecord struct {
	Experiment  string
	Version     uint64
	RunID       string
	ManifestKey string
	CommittedAt time.Time
}

// RunRegistry records archived runs in DynamoDB. Object stores have no
// compare-and-swap, so the registry provides the atomic "latest run of this
// experiment" pointer that lets concurrent workers commit safely.
//
// Each commit appends a row with a monotonically increasing version; a
// conditional write rejects two workers claiming the same version.
//
// Table schema:
//   - Partition key: experiment (string)
//   - Sort key: version (number)
//
// Create the table with:
//
//	aws dynamodb create-table \
//	  --table-name kmc-runs \
//	  --attribute-definitions AttributeName=experiment,AttributeType=S AttributeName=version,AttributeType=N \
//	  --key-schema AttributeName=experiment,KeyType=HASH AttributeName=version,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type RunRegistry struct {
	client DDBClient
	table  string
}

// NewRunRegistry creates a registry backed by the given DynamoDB table.
func NewRunRegistry(client DDBClient, table string) *RunRegistry {
	return &RunRegistry{
		client: client,
		table:  table,
	}
}

// Latest returns the most recently committed run of an experiment.
// It returns blobstore.ErrNotFound when nothing has been committed yet.
func (r *RunRegistry) Latest(ctx context.Context, experiment string) (RunRecord, error) {
	resp, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.table),
		KeyConditionExpression: aws.String("experiment = :exp"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":exp": &types.AttributeValueMemberS{Value: experiment},
		},
		ScanIndexForward: aws.Bool(false), // Descending order
		Limit:            aws.Int32(1),
	})
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to query DynamoDB: %w", err)
	}

	if len(resp.Items) == 0 {
		return RunRecord{}, blobstore.ErrNotFound
	}

	return recordFromItem(resp.Items[0])
}

// Commit atomically registers a new run and returns its version.
// It returns ErrConcurrentUpdate when another worker committed the same
// version first; the caller may retry.
func (r *RunRegistry) Commit(ctx context.Context, experiment, runID, manifestKey string) (uint64, error) {
	latest, err := r.Latest(ctx, experiment)
	if err != nil && !errors.Is(err, blobstore.ErrNotFound) {
		return 0, err
	}

	version := latest.Version + 1

	// Conditional put: only succeed if this version doesn't exist yet
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.table),
		Item: map[string]types.AttributeValue{
			"experiment":   &types.AttributeValueMemberS{Value: experiment},
			"version":      &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", version)},
			"run_id":       &types.AttributeValueMemberS{Value: runID},
			"manifest_key": &types.AttributeValueMemberS{Value: manifestKey},
			"committed_at": &types.AttributeValueMemberS{Value: time.Now().UTC().Format(time.RFC3339)},
		},
		ConditionExpression: aws.String("attribute_not_exists(version)"),
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return 0, ErrConcurrentUpdate
		}
		return 0, fmt.Errorf("failed to commit version to DynamoDB: %w", err)
	}

	return version, nil
}

// At returns the run committed at a specific version.
func (r *RunRegistry) At(ctx context.Context, experiment string, version uint64) (RunRecord, error) {
	resp, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"experiment": &types.AttributeValueMemberS{Value: experiment},
			"version":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", version)},
		},
	})
	if err != nil {
		return RunRecord{}, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}

	if len(resp.Item) == 0 {
		return RunRecord{}, blobstore.ErrNotFound
	}

	return recordFromItem(resp.Item)
}

// Forget removes a committed version from the registry. The archived blobs
// themselves are untouched.
func (r *RunRegistry) Forget(ctx context.Context, experiment string, version uint64) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table),
		Key: map[string]types.AttributeValue{
			"experiment": &types.AttributeValueMemberS{Value: experiment},
			"version":    &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", version)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from DynamoDB: %w", err)
	}
	return nil
}

func recordFromItem(item map[string]types.AttributeValue) (RunRecord, error) {
	expAttr, ok := item["experiment"].(*types.AttributeValueMemberS)
	if !ok {
		return RunRecord{}, errors.New("invalid experiment attribute in DynamoDB")
	}
	versionAttr, ok := item["version"].(*types.AttributeValueMemberN)
	if !ok {
		return RunRecord{}, errors.New("invalid version attribute in DynamoDB")
	}
	runAttr, ok := item["run_id"].(*types.AttributeValueMemberS)
	if !ok {
		return RunRecord{}, errors.New("invalid run_id attribute in DynamoDB")
	}
	keyAttr, ok := item["manifest_key"].(*types.AttributeValueMemberS)
	if !ok {
		return RunRecord{}, errors.New("invalid manifest_key attribute in DynamoDB")
	}

	var version uint64
	if _, err := fmt.Sscanf(versionAttr.Value, "%d", &version); err != nil {
		return RunRecord{}, fmt.Errorf("failed to parse version: %w", err)
	}

	rec := RunRecord{
		Experiment:  expAttr.Value,
		Version:     version,
		RunID:       runAttr.Value,
		ManifestKey: keyAttr.Value,
	}

	// committed_at is informational; tolerate rows written without it.
	if tsAttr, ok := item["committed_at"].(*types.AttributeValueMemberS); ok {
		if ts, err := time.Parse(time.RFC3339, tsAttr.Value); err == nil {
			rec.CommittedAt = ts
		}
	}

	return rec, nil
}
