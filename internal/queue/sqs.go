package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"

	"github.com/karwash91/my-chatbot/internal/pkg/awsutil"
	appErr "github.com/karwash91/my-chatbot/internal/pkg/errors"
)

type sqsConfig struct {
	awsutil.ClientConfig
	QueueURL string `json:"queue_url"`
}

type sqsQueue struct {
	client   *sqs.Client
	queueURL string
}

func init() {
	Register("sqs", createSQSQueue)
}

func createSQSQueue(args interface{}) (Queue, error) {
	config := &sqsConfig{}
	if err := decodeConfig(args, config); err != nil {
		return nil, err
	}
	if config.QueueURL == "" {
		return nil, fmt.Errorf("sqs queue_url is required")
	}
	awsCfg, err := awsutil.Load(context.Background(), config.ClientConfig)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if config.Endpoint != "" {
			o.BaseEndpoint = aws.String(config.Endpoint)
		}
	})
	return &sqsQueue{client: client, queueURL: config.QueueURL}, nil
}

func (q *sqsQueue) Send(ctx context.Context, body string) error {
	_, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("%w: send sqs message: %v", appErr.ErrUpstream, err)
	}
	return nil
}

func (q *sqsQueue) Receive(ctx context.Context, max int32, wait time.Duration) ([]Message, error) {
	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:            aws.String(q.queueURL),
		MaxNumberOfMessages: max,
		WaitTimeSeconds:     int32(wait / time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: receive sqs messages: %v", appErr.ErrUpstream, err)
	}
	messages := make([]Message, 0, len(out.Messages))
	for _, m := range out.Messages {
		messages = append(messages, Message{
			Body:    aws.ToString(m.Body),
			Receipt: aws.ToString(m.ReceiptHandle),
		})
	}
	return messages, nil
}

func (q *sqsQueue) Delete(ctx context.Context, receipt string) error {
	_, err := q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(q.queueURL),
		ReceiptHandle: aws.String(receipt),
	})
	if err != nil {
		return fmt.Errorf("%w: delete sqs message: %v", appErr.ErrUpstream, err)
	}
	return nil
}
