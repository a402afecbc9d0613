package payout

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/nilecart/nile-pay/pkg/config"
)

// Queue SQS打款任务队列，消息体只携带任务ID，任务内容以数据库为准
type Queue struct {
	client *sqs.Client
	url    string
}

// NewQueue 创建队列客户端，未配置队列URL时返回nil表示使用轮询模式
func NewQueue(ctx context.Context, cfg *config.SettleConfig) (*Queue, error) {
	if cfg.Payout.SQSQueueURL == "" {
		return nil, nil
	}

	var awsCfg aws.Config
	var err error
	if cfg.Payout.AWSAccessKey != "" {
		awsCfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(cfg.Payout.AWSRegion),
			awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.Payout.AWSAccessKey,
				cfg.Payout.AWSSecret,
				"",
			)),
		)
	} else {
		awsCfg, err = awsConfig.LoadDefaultConfig(ctx,
			awsConfig.WithRegion(cfg.Payout.AWSRegion),
		)
	}
	if err != nil {
		return nil, err
	}

	return &Queue{
		client: sqs.NewFromConfig(awsCfg),
		url:    cfg.Payout.SQSQueueURL,
	}, nil
}

func (q *Queue) Send(taskID uint) error {
	_, err := q.client.SendMessage(context.Background(), &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.url),
		MessageBody: aws.String(strconv.FormatUint(uint64(taskID), 10)),
	})
	return err
}

// Receive 长轮询拉取一批消息
func (q *Queue) Receive(ctx context.Context) ([]sqstypes.Message, error) {
	output, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.url),
		MaxNumberOfMessages: 10,
		WaitTimeSeconds:     20,
	})
	if err != nil {
		return nil, err
	}
	return output.Messages, nil
}

func (q *Queue) Delete(ctx context.Context, receiptHandle *string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.url),
		ReceiptHandle: receiptHandle,
	})
	return err
}
