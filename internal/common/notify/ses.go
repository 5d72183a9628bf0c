// internal/common/notify/ses.go
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Notifier sends the applicant a confirmation after a successful submission.
// Failures are logged by the caller and never affect the submission result.
type Notifier interface {
	SendConfirmation(ctx context.Context, recipient, fullName string) error
}

type SESNotifier struct {
	client *ses.Client
	sender string
}

func NewSESNotifier(ctx context.Context, region, sender string) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESNotifier{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

func (n *SESNotifier) SendConfirmation(ctx context.Context, recipient, fullName string) error {
	subject := "Recebemos sua aplicação"
	body := fmt.Sprintf(
		"Olá %s,\n\nSua aplicação foi recebida com sucesso e será analisada pelo nosso time.\n\nAtivos",
		fullName,
	)

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.sender),
		Destination: &types.Destination{
			ToAddresses: []string{recipient},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}
