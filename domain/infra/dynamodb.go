package infra

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/pyama86/slack-concierge/domain/model"
)

type DynamoDB struct {
	db *dynamodb.Client
}

var tableNamePrefix = "slack_concierge"
var logTableName = tableNamePrefix + "_logs"

// 全ログ行は同じパーティションに入れて logged_at のレンジキーで並べる
const logPartitionKey = "slack-concierge"

// レンジキーとして辞書順ソート可能な固定長フォーマット
const sortableTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

func NewDynamoDB() (*DynamoDB, error) {
	if os.Getenv("DYNAMO_TABLE_NAME_PREFIX") != "" {
		tableNamePrefix = os.Getenv("DYNAMO_TABLE_NAME_PREFIX")
		logTableName = tableNamePrefix + "_logs"
	}
	if os.Getenv("DYNAMO_LOG_TABLE_NAME") != "" {
		logTableName = os.Getenv("DYNAMO_LOG_TABLE_NAME")
	}
	var db *dynamodb.Client
	if os.Getenv("DYNAMO_LOCAL") != "" {
		cfg, err := config.LoadDefaultConfig(context.TODO(),
			config.WithRegion("dummy"),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "dummy")),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %v", err)
		}

		db = dynamodb.NewFromConfig(cfg,
			func(o *dynamodb.Options) {
				o.BaseEndpoint = aws.String("http://localhost:8000")
			},
		)
	} else {
		cfg, err := config.LoadDefaultConfig(context.TODO())
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %v", err)
		}

		db = dynamodb.NewFromConfig(cfg)
	}
	d := &DynamoDB{
		db: db,
	}
	if os.Getenv("DYNAMO_LOCAL") != "" {
		if err := d.EnsureTable(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

const (
	waitInterval = 2 * time.Second // ポーリング間隔
	maxRetries   = 30              // 最大リトライ回数 (30回 = 約1分)
)

func (d *DynamoDB) EnsureTable() error {
	_, err := d.db.DescribeTable(context.TODO(), &dynamodb.DescribeTableInput{
		TableName: aws.String(logTableName),
	})
	if err == nil {
		// テーブルが既に存在する
		return nil
	}

	if err := d.createTable(logTableName); err != nil {
		return err
	}

	// テーブルがACTIVEになるまで待機
	for i := 0; i < maxRetries; i++ {
		out, err := d.db.DescribeTable(context.TODO(), &dynamodb.DescribeTableInput{
			TableName: aws.String(logTableName),
		})
		if err != nil {
			return fmt.Errorf("failed to describe table %s: %v", logTableName, err)
		}

		if out.Table.TableStatus == types.TableStatusActive {
			return nil
		}

		time.Sleep(waitInterval)
	}

	return fmt.Errorf("table %s creation timed out", logTableName)
}

func (d *DynamoDB) createTable(tableName string) error {
	createTableInput := &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("source"), AttributeType: types.ScalarAttributeTypeS},
			{AttributeName: aws.String("logged_at"), AttributeType: types.ScalarAttributeTypeS},
		},
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("source"), KeyType: types.KeyTypeHash},
			{AttributeName: aws.String("logged_at"), KeyType: types.KeyTypeRange},
		},
		ProvisionedThroughput: &types.ProvisionedThroughput{
			ReadCapacityUnits:  aws.Int64(5),
			WriteCapacityUnits: aws.Int64(5),
		},
	}

	_, err := d.db.CreateTable(context.TODO(), createTableInput)
	if err != nil {
		return fmt.Errorf("failed to create table %s: %v", tableName, err)
	}

	return nil
}

func (d *DynamoDB) AppendLog(entry *model.LogEntry) error {
	ts := entry.Timestamp
	if ts.IsZero() {
		ts = timeNow()
	}
	input := &dynamodb.PutItemInput{
		TableName: aws.String(logTableName),
		Item: map[string]types.AttributeValue{
			"source":    &types.AttributeValueMemberS{Value: logPartitionKey},
			"logged_at": &types.AttributeValueMemberS{Value: ts.Format(sortableTimeFormat)},
			"level":     &types.AttributeValueMemberS{Value: entry.Level},
			"message":   &types.AttributeValueMemberS{Value: entry.Message},
		},
	}

	_, err := d.db.PutItem(context.TODO(), input)
	return err
}

func (d *DynamoDB) TrimLogs(keep int) error {
	countInput := &dynamodb.QueryInput{
		TableName:              aws.String(logTableName),
		KeyConditionExpression: aws.String("#src = :src"),
		ExpressionAttributeNames: map[string]string{
			"#src": "source",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":src": &types.AttributeValueMemberS{Value: logPartitionKey},
		},
		Select: types.SelectCount,
	}
	countResult, err := d.db.Query(context.TODO(), countInput)
	if err != nil {
		return err
	}
	over := int(countResult.Count) - keep
	if over <= 0 {
		return nil
	}

	// 古い順に超過分だけ取得して消す
	input := &dynamodb.QueryInput{
		TableName:              aws.String(logTableName),
		KeyConditionExpression: aws.String("#src = :src"),
		ExpressionAttributeNames: map[string]string{
			"#src": "source",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":src": &types.AttributeValueMemberS{Value: logPartitionKey},
		},
		ScanIndexForward: aws.Bool(true),
		Limit:            aws.Int32(int32(over)),
	}
	result, err := d.db.Query(context.TODO(), input)
	if err != nil {
		return err
	}
	for _, item := range result.Items {
		_, err := d.db.DeleteItem(context.TODO(), &dynamodb.DeleteItemInput{
			TableName: aws.String(logTableName),
			Key: map[string]types.AttributeValue{
				"source":    &types.AttributeValueMemberS{Value: logPartitionKey},
				"logged_at": item["logged_at"],
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *DynamoDB) RecentLogs(limit int) ([]model.LogEntry, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(logTableName),
		KeyConditionExpression: aws.String("#src = :src"),
		ExpressionAttributeNames: map[string]string{
			"#src": "source",
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":src": &types.AttributeValueMemberS{Value: logPartitionKey},
		},
		ScanIndexForward: aws.Bool(false), // 降順（最新から取得）
		Limit:            aws.Int32(int32(limit)),
	}

	result, err := d.db.Query(context.TODO(), input)
	if err != nil {
		return nil, err
	}

	var entries []model.LogEntry
	for _, item := range result.Items {
		loggedAtStr := getStringValue(item, "logged_at")
		if loggedAtStr == "" {
			continue
		}
		loggedAt, err := time.Parse(sortableTimeFormat, loggedAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse logged_at (%s): %v", loggedAtStr, err)
		}
		entries = append(entries, model.LogEntry{
			Timestamp: loggedAt,
			Level:     getStringValue(item, "level"),
			Message:   getStringValue(item, "message"),
		})
	}
	return entries, nil
}

func getStringValue(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}
